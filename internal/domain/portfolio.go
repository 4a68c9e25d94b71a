package domain

// PortfolioViewModel 最终交给渲染层的结构
// 可选板块用指针表示：nil 即不渲染该板块
type PortfolioViewModel struct {
	Username string `json:"username"`

	Hero    HeroSection    `json:"hero"`
	Contact ContactSection `json:"contact"`

	About                  *AboutSection        `json:"about,omitempty"`
	Skills                 *SkillsSection       `json:"skills,omitempty"`
	Experience             *ExperienceSection   `json:"experience,omitempty"`
	CompetitiveProgramming *CompetitiveSection  `json:"competitive_programming,omitempty"`
	Contributions          *ContributionSection `json:"contributions,omitempty"`
	Projects               *ProjectsSection     `json:"projects,omitempty"`
}

// SocialLinks 社交链接
type SocialLinks struct {
	GitHub   string `json:"github"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

type HeroSection struct {
	Name     string      `json:"name"`
	Headline string      `json:"headline"`
	Summary  string      `json:"summary"`
	Social   SocialLinks `json:"social"`
}

type ContactSection struct {
	Email    string      `json:"email,omitempty"`
	Location string      `json:"location,omitempty"`
	Social   SocialLinks `json:"social"`
}

// Stat About 板块里的数字统计
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AboutSection struct {
	Text      string     `json:"text"`
	AvatarURL string     `json:"avatar_url"`
	Interests []Interest `json:"interests,omitempty"`
	Stats     []Stat     `json:"stats,omitempty"`
}

type SkillsSection struct {
	Skills []string `json:"skills"`
}

type ExperienceItem struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Current     bool   `json:"current"`
}

type ExperienceSection struct {
	Items []ExperienceItem `json:"items"`
}

// CompetitiveSection 至少一个数据源有结果时才出现
type CompetitiveSection struct {
	LeetCode   *LeetCodeStats   `json:"leetcode,omitempty"`
	Codeforces *CodeforcesStats `json:"codeforces,omitempty"`
}

type ContributionSection struct {
	Weeks   []ContributionWeek  `json:"weeks"`
	Metrics ContributionMetrics `json:"metrics"`
}

type ProjectLinks struct {
	Repo string `json:"repo"`
	Demo string `json:"demo,omitempty"`
}

type Project struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Links       ProjectLinks `json:"links"`
	Featured    bool         `json:"featured"`
}

type ProjectsSection struct {
	Projects []Project `json:"projects"`
}

package domain

import (
	"strings"
	"time"
)

// Profile 代表 GitHub 上的个人资料 (身份信息)
type Profile struct {
	Username        string `json:"username"`
	Name            string `json:"name"` // 没有 name 时回退到 login
	Bio             string `json:"bio"`
	AvatarURL       string `json:"avatar_url"`
	HTMLURL         string `json:"html_url"`
	Email           string `json:"email,omitempty"`
	Blog            string `json:"blog,omitempty"`
	Company         string `json:"company,omitempty"`
	Location        string `json:"location,omitempty"`
	TwitterUsername string `json:"twitter_username,omitempty"`
	PublicRepos     int    `json:"public_repos"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
}

// UnknownLanguage GitHub 未识别主语言时的占位值
const UnknownLanguage = "Unknown"

// RepositoryRecord 一个项目条目，按最近更新时间倒序排列
type RepositoryRecord struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Homepage    string    `json:"homepage,omitempty"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Fork        bool      `json:"fork"`
	Archived    bool      `json:"archived"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasLanguage 判断是否识别出了主语言
func (r RepositoryRecord) HasLanguage() bool {
	return r.Language != "" && r.Language != UnknownLanguage
}

// ContributionDay 贡献日历中的一天
type ContributionDay struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
	Level int    `json:"level"` // 0-4 强度等级
}

// ContributionWeek 一周 7 天，周日到周六
type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionCalendar 按时间顺序排列的周列表
type ContributionCalendar struct {
	Weeks []ContributionWeek `json:"weeks"`
}

// Days 按时间顺序展开所有天，不改变原有顺序
func (c *ContributionCalendar) Days() []ContributionDay {
	if c == nil {
		return nil
	}
	var days []ContributionDay
	for _, week := range c.Weeks {
		days = append(days, week.Days...)
	}
	return days
}

// ContributionMetrics 由贡献日历推导出的指标
type ContributionMetrics struct {
	Total         int `json:"total"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// LeetCodeStats 两个 LeetCode 数据源统一后的结构
type LeetCodeStats struct {
	TotalSolved          int `json:"total_solved"`
	Ranking              int `json:"ranking"`
	EasySolved           int `json:"easy_solved"`
	MediumSolved         int `json:"medium_solved"`
	HardSolved           int `json:"hard_solved"`
	ContestRating        int `json:"contest_rating"`
	ContestGlobalRanking int `json:"contest_global_ranking"`
	TotalContests        int `json:"total_contests"`
}

// CodeforcesStats Codeforces 用户评分信息
type CodeforcesStats struct {
	Rating    int    `json:"rating"`
	Rank      string `json:"rank"`
	MaxRating int    `json:"max_rating"`
	MaxRank   string `json:"max_rank"`
}

// ExperienceEntry 简历中的一段工作经历
type ExperienceEntry struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Date        string `json:"date"` // 例如 "Jan 2020 - Present"
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// IsCurrent 判断是否为当前在职经历
func (e ExperienceEntry) IsCurrent() bool {
	return strings.Contains(strings.ToLower(e.Date), "present")
}

// EducationEntry 教育经历
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Date        string `json:"date"`
}

// ResumeData 用户上传简历后解析出的补充资料
type ResumeData struct {
	Username            string            `json:"username"`
	LeetCodeUser        string            `json:"leetCodeUser,omitempty"`
	CodeforcesUser      string            `json:"codeforcesUser,omitempty"`
	ProfessionalSummary string            `json:"professionalSummary,omitempty"`
	Skills              []string          `json:"skills,omitempty"`
	Experience          []ExperienceEntry `json:"experience,omitempty"`
	Education           []EducationEntry  `json:"education,omitempty"`
	Certifications      []string          `json:"certifications,omitempty"`
	AboutMe             string            `json:"aboutMe,omitempty"`
	ContactInfo         string            `json:"contactInfo,omitempty"` // "a@b.com | linkedin.com/in/x"
}

// Interest 从自我介绍中提取的兴趣爱好
type Interest struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

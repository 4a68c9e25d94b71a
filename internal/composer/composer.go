// Package composer 把各数据源拿到的事实合并成最终的视图模型。
//
// 这里只做判断和拼装，不发网络请求，也不写缓存。
package composer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github-portfolio/internal/adapter/filter"
	"github-portfolio/internal/domain"
)

const (
	// DefaultHeadline bio 为空时的标语
	DefaultHeadline = "Building navigation for digital experiences."
	// NoDescription 项目没有描述时的占位
	NoDescription = "No description available."

	minMeaningfulLength = 20
	shortTextLength     = 50
	featuredStars       = 5
)

var placeholderPhrases = []string{"test", "hello", "hi", "sample", "placeholder", "lorem ipsum"}

var yearPattern = regexp.MustCompile(`\d{4}`)

// Facts 一次请求收集到的全部事实，缺失的数据源对应零值或 nil
type Facts struct {
	Profile *domain.Profile

	// Repositories 全部拉到的仓库 (用于统计语言)，Featured 是截断并润色后的展示项目
	Repositories []domain.RepositoryRecord
	Featured     []domain.RepositoryRecord

	Resume        *domain.ResumeData
	Contributions *domain.ContributionCalendar
	Metrics       domain.ContributionMetrics
	LeetCode      *domain.LeetCodeStats
	Codeforces    *domain.CodeforcesStats

	// 已经解析好的文本：ProfessionalSummary 来自简历、LLM 或 bio；AboutText 是润色后的 About Me
	ProfessionalSummary string
	AboutText           string
	Interests           []domain.Interest

	// Now 由调用方注入；零值时不计算工作年限
	Now time.Time
}

// Compose 生成视图模型。Profile 为 nil 时返回 nil。
func Compose(f Facts) *domain.PortfolioViewModel {
	if f.Profile == nil {
		return nil
	}
	social := socialLinks(f.Profile, f.Resume)
	headline := strings.TrimSpace(f.Profile.Bio)
	if headline == "" {
		headline = DefaultHeadline
	}

	vm := &domain.PortfolioViewModel{
		Username: f.Profile.Username,
		Hero: domain.HeroSection{
			Name:     f.Profile.Name,
			Headline: headline,
			Summary:  f.ProfessionalSummary,
			Social:   social,
		},
		Contact: domain.ContactSection{
			Email:    f.Profile.Email,
			Location: f.Profile.Location,
			Social:   social,
		},
	}

	vm.About = aboutSection(f)

	if skills := MergeSkills(filter.Languages(f.Repositories), resumeSkills(f.Resume)); len(skills) > 0 {
		vm.Skills = &domain.SkillsSection{Skills: skills}
	}

	if f.Resume != nil && len(f.Resume.Experience) > 0 {
		items := make([]domain.ExperienceItem, 0, len(f.Resume.Experience))
		for _, e := range f.Resume.Experience {
			items = append(items, domain.ExperienceItem{
				Title:       e.Role,
				Company:     e.Company,
				Period:      e.Date,
				Description: e.Description,
				Location:    e.Location,
				Current:     e.IsCurrent(),
			})
		}
		vm.Experience = &domain.ExperienceSection{Items: items}
	}

	if f.LeetCode != nil || f.Codeforces != nil {
		vm.CompetitiveProgramming = &domain.CompetitiveSection{
			LeetCode:   f.LeetCode,
			Codeforces: f.Codeforces,
		}
	}

	if f.Contributions != nil && len(f.Contributions.Weeks) > 0 {
		vm.Contributions = &domain.ContributionSection{
			Weeks:   f.Contributions.Weeks,
			Metrics: f.Metrics,
		}
	}

	if len(f.Featured) > 0 {
		projects := make([]domain.Project, 0, len(f.Featured))
		for _, repo := range f.Featured {
			projects = append(projects, projectOf(repo))
		}
		vm.Projects = &domain.ProjectsSection{Projects: projects}
	}

	return vm
}

func aboutSection(f Facts) *domain.AboutSection {
	var text string
	for _, candidate := range []string{f.AboutText, f.ProfessionalSummary} {
		if IsMeaningful(candidate) {
			text = strings.TrimSpace(candidate)
			break
		}
	}
	if text == "" {
		return nil
	}

	about := &domain.AboutSection{
		Text:      text,
		AvatarURL: f.Profile.AvatarURL,
		Interests: f.Interests,
	}

	var experience []domain.ExperienceEntry
	if f.Resume != nil {
		experience = f.Resume.Experience
	}
	if years := experienceYears(experience, f.Now); years > 1 {
		about.Stats = append(about.Stats, domain.Stat{Value: strconv.Itoa(years) + "+", Label: "Years Experience"})
	}
	if f.Profile.PublicRepos > 0 {
		about.Stats = append(about.Stats, domain.Stat{Value: strconv.Itoa(f.Profile.PublicRepos) + "+", Label: "Projects Completed"})
	}
	return about
}

func projectOf(repo domain.RepositoryRecord) domain.Project {
	desc := strings.TrimSpace(repo.Description)
	if desc == "" {
		desc = NoDescription
	}
	return domain.Project{
		Title:       repo.Name,
		Description: desc,
		Tags:        filter.Tags(repo),
		Links: domain.ProjectLinks{
			Repo: repo.URL,
			Demo: repo.Homepage,
		},
		Featured: repo.Stars > featuredStars,
	}
}

func socialLinks(p *domain.Profile, resume *domain.ResumeData) domain.SocialLinks {
	links := domain.SocialLinks{
		GitHub: p.HTMLURL,
		Email:  p.Email,
	}
	if resume != nil {
		links.LinkedIn = ParseLinkedIn(resume.ContactInfo)
	}
	if p.TwitterUsername != "" {
		links.Twitter = "https://twitter.com/" + p.TwitterUsername
	}
	return links
}

func resumeSkills(r *domain.ResumeData) []string {
	if r == nil {
		return nil
	}
	return r.Skills
}

// IsMeaningful 文本去掉首尾空白后至少 20 个字符，且不是 "test"、"hello world" 这类占位文字
func IsMeaningful(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if utf8.RuneCountInString(lower) < minMeaningfulLength {
		return false
	}
	if utf8.RuneCountInString(lower) >= shortTextLength {
		return true
	}
	for _, phrase := range placeholderPhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase+" ") || strings.HasSuffix(lower, " "+phrase) {
			return false
		}
	}
	return true
}

// ExperienceYears 取所有经历里最早出现的四位年份，与今年相减；至少为 1
// 没有年份的经历按今年算
func ExperienceYears(entries []domain.ExperienceEntry, now time.Time) int {
	if len(entries) == 0 {
		return 1
	}
	minYear := now.Year()
	for _, e := range entries {
		if m := yearPattern.FindString(e.Date); m != "" {
			if y, err := strconv.Atoi(m); err == nil && y < minYear {
				minYear = y
			}
		}
	}
	if diff := now.Year() - minYear; diff > 0 {
		return diff
	}
	return 1
}

// ParseLinkedIn 从 "email | phone | linkedin.com/in/x" 这样的联系方式里找出 LinkedIn
func ParseLinkedIn(contact string) string {
	for _, part := range strings.Split(contact, "|") {
		if strings.Contains(strings.ToLower(part), "linkedin") {
			return strings.TrimSpace(part)
		}
	}
	return ""
}

// MergeSkills 合并多个技能列表，保持首次出现的顺序，大小写不敏感去重
func MergeSkills(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, skill := range list {
			skill = strings.TrimSpace(skill)
			key := strings.ToLower(skill)
			if skill == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, skill)
		}
	}
	return merged
}

// experienceYears 不读系统时钟，now 为零值时返回 0
func experienceYears(entries []domain.ExperienceEntry, now time.Time) int {
	if now.IsZero() {
		return 0
	}
	return ExperienceYears(entries, now)
}

package service

import (
	"context"
	"strings"
	"time"

	"github-portfolio/internal/adapter/analyzer"
	"github-portfolio/internal/adapter/filter"
	"github-portfolio/internal/common"
	"github-portfolio/internal/composer"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"
	"github-portfolio/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultFeaturedRepos = 4

// BuildRequest 一次作品集请求；排名账号为空时使用简历里的账号
type BuildRequest struct {
	Username         string
	LeetCodeHandle   string
	CodeforcesHandle string
}

// Options 聚合行为的开关
type Options struct {
	FeaturedRepos   int  // 展示的项目数，默认 4
	ExcludeForks    bool // 展示项目时跳过 fork
	EnhanceProjects bool // 是否用 LLM 润色项目描述
	Concurrency     int  // 项目描述润色的并发数
	Now             func() time.Time
}

// Dependencies 各个数据源，除 GitHub 外都可以为 nil
type Dependencies struct {
	GitHub     port.GitHubSource
	LeetCode   port.LeetCodeSource
	Codeforces port.CodeforcesSource
	// Resumes 按优先级排列的简历数据源 (数据库在前，本地文件在后)
	Resumes  []port.ResumeSource
	Enhancer *Enhancer
}

// PortfolioService 聚合所有数据源并生成视图模型
type PortfolioService struct {
	deps     Dependencies
	opts     Options
	analyzer *analyzer.ProjectAnalyzer
	log      logger.Logger
}

// NewPortfolioService 创建聚合服务
func NewPortfolioService(deps Dependencies, opts Options, log logger.Logger) *PortfolioService {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.FeaturedRepos <= 0 {
		opts.FeaturedRepos = defaultFeaturedRepos
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &PortfolioService{deps: deps, opts: opts, log: log}
	if opts.EnhanceProjects && deps.Enhancer != nil {
		s.analyzer = analyzer.NewProjectAnalyzer(deps.Enhancer, log)
		s.analyzer.SetMaxGoroutines(opts.Concurrency)
	}
	return s
}

// ghFacts 第一轮并发拿到的事实
type ghFacts struct {
	profile       domain.Result[*domain.Profile]
	repos         domain.Result[[]domain.RepositoryRecord]
	resume        domain.Result[*domain.ResumeData]
	contributions domain.Result[*domain.ContributionCalendar]
}

// Build 生成作品集视图模型
//
// 唯一会返回的错误是 common.ErrSubjectNotFound (以及用户名为空)，
// 其余数据源的失败都只会让对应板块消失。
func (s *PortfolioService) Build(ctx context.Context, req BuildRequest) (*domain.PortfolioViewModel, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, common.NewError(common.ErrCodeInvalidInput, "username is required")
	}
	log := s.log.With(zap.String("user", username))
	start := time.Now()

	// 调用方放弃请求时，已经发出的数据源调用继续跑完，各自有超时
	adapterCtx := context.WithoutCancel(ctx)

	gh := s.fetchGitHub(adapterCtx, username)
	profile, ok := gh.profile.Get()
	if !ok || profile == nil {
		if gh.profile.Err != nil {
			log.Error("❌ 获取身份资料失败", gh.profile.Err)
		}
		return nil, common.ErrSubjectNotFound
	}

	repos := gh.repos.OrElse(nil)
	resume := gh.resume.OrElse(nil)
	calendar := gh.contributions.OrElse(nil)

	leetHandle, cfHandle := req.LeetCodeHandle, req.CodeforcesHandle
	if resume != nil {
		leetHandle = firstNonEmpty(leetHandle, resume.LeetCodeUser)
		cfHandle = firstNonEmpty(cfHandle, resume.CodeforcesUser)
	}

	var (
		leetcode   domain.Result[*domain.LeetCodeStats]
		codeforces domain.Result[*domain.CodeforcesStats]
		summary    string
		aboutText  string
		interests  []domain.Interest
		featured   = filter.TopRepos(repos, filter.Options{Max: s.opts.FeaturedRepos, ExcludeForks: s.opts.ExcludeForks})
	)

	// 第二轮：排名、文本生成、项目润色互不依赖
	var g errgroup.Group
	if s.deps.LeetCode != nil && strings.TrimSpace(leetHandle) != "" {
		g.Go(func() error {
			leetcode = s.deps.LeetCode.GetLeetCodeStats(adapterCtx, leetHandle)
			return nil
		})
	}
	if s.deps.Codeforces != nil && strings.TrimSpace(cfHandle) != "" {
		g.Go(func() error {
			codeforces = s.deps.Codeforces.GetCodeforcesStats(adapterCtx, cfHandle)
			return nil
		})
	}
	g.Go(func() error {
		summary = s.professionalSummary(adapterCtx, profile, repos, resume)
		return nil
	})
	if resume != nil && strings.TrimSpace(resume.AboutMe) != "" {
		g.Go(func() error {
			aboutText = s.deps.Enhancer.EnhanceBio(adapterCtx, resume.AboutMe)
			return nil
		})
		g.Go(func() error {
			interests = s.deps.Enhancer.ExtractInterests(adapterCtx, resume.AboutMe)
			return nil
		})
	}
	if s.analyzer != nil && len(featured) > 0 {
		g.Go(func() error {
			featured = s.analyzer.EnhanceDescriptions(adapterCtx, featured)
			return nil
		})
	}
	_ = g.Wait()

	vm := composer.Compose(composer.Facts{
		Profile:             profile,
		Repositories:        repos,
		Featured:            featured,
		Resume:              resume,
		Contributions:       calendar,
		Metrics:             analyzer.DeriveMetrics(calendar),
		LeetCode:            leetcode.OrElse(nil),
		Codeforces:          codeforces.OrElse(nil),
		ProfessionalSummary: summary,
		AboutText:           aboutText,
		Interests:           interests,
		Now:                 s.opts.Now(),
	})

	log.Info("✅ 作品集生成完成",
		zap.Stringer("repos", gh.repos.Status),
		zap.Stringer("resume", gh.resume.Status),
		zap.Stringer("contributions", gh.contributions.Status),
		zap.Stringer("leetcode", leetcode.Status),
		zap.Stringer("codeforces", codeforces.Status),
		zap.Duration("elapsed", time.Since(start)))
	return vm, nil
}

// fetchGitHub 第一轮并发：身份资料、仓库、简历、贡献日历
func (s *PortfolioService) fetchGitHub(ctx context.Context, username string) ghFacts {
	var (
		facts ghFacts
		g     errgroup.Group
	)
	g.Go(func() error {
		facts.profile = s.deps.GitHub.GetProfile(ctx, username)
		return nil
	})
	g.Go(func() error {
		facts.repos = s.deps.GitHub.ListRepositories(ctx, username)
		return nil
	})
	g.Go(func() error {
		facts.contributions = s.deps.GitHub.GetContributions(ctx, username)
		return nil
	})
	g.Go(func() error {
		facts.resume = s.Resume(ctx, username)
		return nil
	})
	_ = g.Wait()
	return facts
}

// Resume 按优先级依次查询简历数据源
func (s *PortfolioService) Resume(ctx context.Context, username string) domain.Result[*domain.ResumeData] {
	providers := make([]common.Provider[*domain.ResumeData], 0, len(s.deps.Resumes))
	for _, src := range s.deps.Resumes {
		if src == nil {
			continue
		}
		providers = append(providers, func(ctx context.Context) domain.Result[*domain.ResumeData] {
			return src.GetResume(ctx, username)
		})
	}
	res := common.FirstPresent[*domain.ResumeData](ctx, providers...)
	if res.Status == domain.StatusFailed {
		s.log.Warn("⚠️ 简历数据源均不可用", zap.String("user", username), zap.Error(res.Err))
	}
	return res
}

// professionalSummary 简历里有就直接用，否则让 LLM 根据 bio 和技能生成
func (s *PortfolioService) professionalSummary(ctx context.Context, profile *domain.Profile, repos []domain.RepositoryRecord, resume *domain.ResumeData) string {
	var resumeSkills []string
	if resume != nil {
		if summary := strings.TrimSpace(resume.ProfessionalSummary); summary != "" {
			return summary
		}
		resumeSkills = resume.Skills
	}
	skills := composer.MergeSkills(filter.Languages(repos), resumeSkills)
	return s.deps.Enhancer.ProfessionalSummary(ctx, profile.Bio, skills)
}

// ContributionMetrics 只取贡献日历并计算指标
func (s *PortfolioService) ContributionMetrics(ctx context.Context, username string) (domain.ContributionMetrics, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ContributionMetrics{}, common.NewError(common.ErrCodeInvalidInput, "username is required")
	}

	res := s.deps.GitHub.GetContributions(ctx, username)
	cal, ok := res.Get()
	if !ok {
		if res.Err != nil {
			return domain.ContributionMetrics{}, common.WrapError(common.ErrCodeGitHubAPI, "contribution calendar unavailable", res.Err)
		}
		return domain.ContributionMetrics{}, common.NewError(common.ErrCodeNotFound, "contribution calendar unavailable")
	}
	return analyzer.DeriveMetrics(cal), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

package port

import (
	"context"

	"github-portfolio/internal/domain"
)

// 约定：所有数据源适配器都返回 domain.Result，不向外抛 error。
// 超时、限流、格式错误都在适配器内部被转换成 Absent / Failed。

// GitHubSource (侦察兵): 负责从 GitHub 拉取身份资料、仓库列表、贡献日历
type GitHubSource interface {
	GetProfile(ctx context.Context, username string) domain.Result[*domain.Profile]
	ListRepositories(ctx context.Context, username string) domain.Result[[]domain.RepositoryRecord]
	GetContributions(ctx context.Context, username string) domain.Result[*domain.ContributionCalendar]
}

// LeetCodeSource 主数据源 + 后备数据源，对外只暴露一个结果
type LeetCodeSource interface {
	GetLeetCodeStats(ctx context.Context, handle string) domain.Result[*domain.LeetCodeStats]
}

// CodeforcesSource 只有一个数据源
type CodeforcesSource interface {
	GetCodeforcesStats(ctx context.Context, handle string) domain.Result[*domain.CodeforcesStats]
}

// ResumeSource 简历补充资料 (数据库或本地 JSON)
type ResumeSource interface {
	GetResume(ctx context.Context, username string) domain.Result[*domain.ResumeData]
}

// ResumeStore (仓库管理员): 可写的简历存储
type ResumeStore interface {
	ResumeSource
	SaveResume(ctx context.Context, resume *domain.ResumeData) error
}

// TextGenerator (写手): 调用 LLM 生成文本，返回值对本系统是不透明的字符串
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextCache 生成文本的持久化缓存
type TextCache interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// ProjectDescriber 为项目生成更专业的描述，失败时返回原描述
type ProjectDescriber interface {
	DescribeProject(ctx context.Context, repo domain.RepositoryRecord) string
}

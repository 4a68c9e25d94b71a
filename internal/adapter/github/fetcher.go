package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"

	"github.com/google/go-github/v53/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultMaxRepos = 6
)

// Options Fetcher 的可选参数，零值使用默认值
type Options struct {
	Timeout  time.Duration
	MaxRepos int
	Logger   logger.Logger
}

// Fetcher 实现了 port.GitHubSource 接口
type Fetcher struct {
	client     *github.Client
	hasToken   bool // GraphQL 接口必须带 token
	timeout    time.Duration
	maxRepos   int
	retryDelay time.Duration
	log        logger.Logger
}

// NewFetcher 初始化 GitHub 客户端
// token 为空时匿名访问 REST 接口 (60次/小时)，贡献日历不可用
func NewFetcher(token string, opts Options) *Fetcher {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return newFetcher(client, token != "", opts)
}

func newFetcher(client *github.Client, hasToken bool, opts Options) *Fetcher {
	f := &Fetcher{
		client:     client,
		hasToken:   hasToken,
		timeout:    opts.Timeout,
		maxRepos:   opts.MaxRepos,
		retryDelay: 500 * time.Millisecond,
		log:        opts.Logger,
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.maxRepos <= 0 {
		f.maxRepos = defaultMaxRepos
	}
	if f.log == nil {
		f.log = logger.NewNop()
	}
	return f
}

// call 带超时执行一次 API 调用，只对瞬时错误 (5xx、网络错误) 重试一次
func (f *Fetcher) call(ctx context.Context, fn common.RetryableFunc) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	return common.Retry(ctx, fn,
		common.WithMaxRetries(1),
		common.WithInitialDelay(f.retryDelay),
		common.WithRetryIf(isTransient),
	)
}

// GetProfile 获取用户身份资料，404 视为不存在
func (f *Fetcher) GetProfile(ctx context.Context, username string) domain.Result[*domain.Profile] {
	if username == "" {
		return domain.Absent[*domain.Profile]()
	}

	var user *github.User
	err := f.call(ctx, func(ctx context.Context) error {
		var apiErr error
		user, _, apiErr = f.client.Users.Get(ctx, username)
		return apiErr
	})
	if err != nil {
		return failure[*domain.Profile](f, "profile", username, err)
	}

	name := user.GetName()
	if name == "" {
		name = user.GetLogin()
	}
	login := user.GetLogin()
	if login == "" {
		login = username
	}

	return domain.Present(&domain.Profile{
		Username:        login,
		Name:            name,
		Bio:             user.GetBio(),
		AvatarURL:       user.GetAvatarURL(),
		HTMLURL:         user.GetHTMLURL(),
		Email:           user.GetEmail(),
		Blog:            user.GetBlog(),
		Company:         user.GetCompany(),
		Location:        user.GetLocation(),
		TwitterUsername: user.GetTwitterUsername(),
		PublicRepos:     user.GetPublicRepos(),
		Followers:       user.GetFollowers(),
		Following:       user.GetFollowing(),
	})
}

// ListRepositories 获取用户自己的仓库，按最近更新排序，最多 maxRepos 个
func (f *Fetcher) ListRepositories(ctx context.Context, username string) domain.Result[[]domain.RepositoryRecord] {
	if username == "" {
		return domain.Absent[[]domain.RepositoryRecord]()
	}

	opts := &github.RepositoryListOptions{
		Type: "owner",
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: f.maxRepos,
		},
	}

	var items []*github.Repository
	err := f.call(ctx, func(ctx context.Context) error {
		var apiErr error
		items, _, apiErr = f.client.Repositories.List(ctx, username, opts)
		return apiErr
	})
	if err != nil {
		return failure[[]domain.RepositoryRecord](f, "repositories", username, err)
	}

	if len(items) > f.maxRepos {
		items = items[:f.maxRepos]
	}

	repos := make([]domain.RepositoryRecord, 0, len(items))
	for _, item := range items {
		language := item.GetLanguage()
		if language == "" {
			language = domain.UnknownLanguage
		}
		repos = append(repos, domain.RepositoryRecord{
			Name:        item.GetName(),
			Description: item.GetDescription(),
			URL:         item.GetHTMLURL(),
			Homepage:    item.GetHomepage(),
			Language:    language,
			Topics:      item.Topics,
			Stars:       item.GetStargazersCount(),
			Forks:       item.GetForksCount(),
			Fork:        item.GetFork(),
			Archived:    item.GetArchived(),
			UpdatedAt:   item.GetUpdatedAt().Time,
		})
	}

	f.log.Debug("📦 仓库列表获取完成", zap.String("user", username), zap.Int("count", len(repos)))
	return domain.Present(repos)
}

// failure 把 API 错误转换成 Result：404 是 Absent，其余都是 Failed
func failure[T any](f *Fetcher, op, username string, err error) domain.Result[T] {
	fields := []zap.Field{zap.String("op", op), zap.String("user", username)}

	switch {
	case isNotFound(err):
		f.log.Info("🔍 GitHub 上找不到该用户", fields...)
		return domain.Absent[T]()
	case isRateLimited(err):
		f.log.Warn("⚠️ GitHub API 限流，本次跳过", append(fields, zap.Error(err))...)
		return domain.Failed[T](common.WrapError(common.ErrCodeGitHubAPI, "rate limited", err))
	default:
		f.log.Error("❌ GitHub API 调用失败", err, fields...)
		return domain.Failed[T](common.WrapError(common.ErrCodeGitHubAPI, fmt.Sprintf("%s request failed", op), err))
	}
}

func statusOf(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	if errors.Is(err, errUserNotFound) {
		return true
	}
	return statusOf(err) == http.StatusNotFound
}

func isRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	code := statusOf(err)
	return code == http.StatusForbidden || code == http.StatusTooManyRequests
}

// isTransient 5xx 与网络错误可以重试；限流、4xx、超时、业务错误不重试
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if isRateLimited(err) || errors.Is(err, errUserNotFound) {
		return false
	}
	var gqlErr *graphQLError
	if errors.As(err, &gqlErr) {
		return false
	}
	code := statusOf(err)
	return code == 0 || code >= http.StatusInternalServerError
}

// graphQLError GraphQL 接口 200 返回但带 errors 字段
type graphQLError struct {
	messages []string
}

func (e *graphQLError) Error() string {
	return "graphql: " + strings.Join(e.messages, "; ")
}

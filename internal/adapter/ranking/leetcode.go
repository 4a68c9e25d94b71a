package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLeetCodePrimaryURL  = "https://alfa-leetcode-api.onrender.com"
	DefaultLeetCodeFallbackURL = "https://leetcode-stats-api.herokuapp.com"
)

// LeetCodeClient 实现了 port.LeetCodeSource 接口
// 主数据源失败或查无此人时才会请求后备数据源
type LeetCodeClient struct {
	primaryURL  string
	fallbackURL string
	opts        Options
}

// NewLeetCodeClient 创建 LeetCode 客户端
func NewLeetCodeClient(opts Options) *LeetCodeClient {
	opts = opts.withDefaults()
	c := &LeetCodeClient{
		primaryURL:  strings.TrimRight(opts.LeetCodePrimaryURL, "/"),
		fallbackURL: strings.TrimRight(opts.LeetCodeFallbackURL, "/"),
		opts:        opts,
	}
	if c.primaryURL == "" {
		c.primaryURL = DefaultLeetCodePrimaryURL
	}
	if c.fallbackURL == "" {
		c.fallbackURL = DefaultLeetCodeFallbackURL
	}
	return c
}

// GetLeetCodeStats 主数据源优先，失败后尝试后备数据源
func (c *LeetCodeClient) GetLeetCodeStats(ctx context.Context, handle string) domain.Result[*domain.LeetCodeStats] {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Absent[*domain.LeetCodeStats]()
	}

	res := common.FirstPresent[*domain.LeetCodeStats](ctx,
		func(ctx context.Context) domain.Result[*domain.LeetCodeStats] { return c.Primary(ctx, handle) },
		func(ctx context.Context) domain.Result[*domain.LeetCodeStats] { return c.Fallback(ctx, handle) },
	)
	if !res.Ok() {
		c.opts.Logger.Warn("⚠️ LeetCode 两个数据源都不可用", zap.String("handle", handle), zap.Error(res.Err))
	}
	return res
}

type alfaSolved struct {
	SolvedProblem int `json:"solvedProblem"`
	EasySolved    int `json:"easySolved"`
	MediumSolved  int `json:"mediumSolved"`
	HardSolved    int `json:"hardSolved"`
}

type alfaContest struct {
	ContestRating        float64 `json:"contestRating"`
	ContestGlobalRanking int     `json:"contestGlobalRanking"`
	TotalContest         int     `json:"totalContest"` // 官方字段名就是单数
}

// Primary 同时请求 solved (必须) 与 contest (可选) 两个接口
func (c *LeetCodeClient) Primary(ctx context.Context, handle string) domain.Result[*domain.LeetCodeStats] {
	base := c.primaryURL + "/" + url.PathEscape(handle)

	var (
		solved     alfaSolved
		contest    alfaContest
		contestErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		return getJSON(ctx, c.opts.HTTPClient, c.opts.Timeout, base+"/solved", &solved)
	})
	g.Go(func() error {
		// contest 失败不影响整体结果
		contestErr = getJSON(ctx, c.opts.HTTPClient, c.opts.Timeout, base+"/contest", &contest)
		return nil
	})

	if err := g.Wait(); err != nil {
		return c.failed("primary", handle, err)
	}
	if contestErr != nil {
		c.opts.Logger.Debug("LeetCode 竞赛数据缺失", zap.String("handle", handle), zap.Error(contestErr))
		contest = alfaContest{}
	}

	return domain.Present(&domain.LeetCodeStats{
		TotalSolved:          solved.SolvedProblem,
		Ranking:              contest.ContestGlobalRanking,
		EasySolved:           solved.EasySolved,
		MediumSolved:         solved.MediumSolved,
		HardSolved:           solved.HardSolved,
		ContestRating:        int(math.Round(contest.ContestRating)),
		ContestGlobalRanking: contest.ContestGlobalRanking,
		TotalContests:        contest.TotalContest,
	})
}

type statsAPIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	TotalSolved  int    `json:"totalSolved"`
	Ranking      int    `json:"ranking"`
	EasySolved   int    `json:"easySolved"`
	MediumSolved int    `json:"mediumSolved"`
	HardSolved   int    `json:"hardSolved"`
}

// Fallback 后备数据源，没有竞赛数据
func (c *LeetCodeClient) Fallback(ctx context.Context, handle string) domain.Result[*domain.LeetCodeStats] {
	var data statsAPIResponse
	if err := getJSON(ctx, c.opts.HTTPClient, c.opts.Timeout, c.fallbackURL+"/"+url.PathEscape(handle), &data); err != nil {
		return c.failed("fallback", handle, err)
	}
	if data.Status == "error" {
		return c.failed("fallback", handle, fmt.Errorf("stats api error: %s", data.Message))
	}

	return domain.Present(&domain.LeetCodeStats{
		TotalSolved:          data.TotalSolved,
		Ranking:              data.Ranking,
		EasySolved:           data.EasySolved,
		MediumSolved:         data.MediumSolved,
		HardSolved:           data.HardSolved,
		ContestGlobalRanking: data.Ranking,
	})
}

func (c *LeetCodeClient) failed(tier, handle string, err error) domain.Result[*domain.LeetCodeStats] {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		c.opts.Logger.Info("🔍 LeetCode 查无此人", zap.String("tier", tier), zap.String("handle", handle))
		return domain.Absent[*domain.LeetCodeStats]()
	}
	c.opts.Logger.Warn("⚠️ LeetCode 数据源失败", zap.String("tier", tier), zap.String("handle", handle), zap.Error(err))
	return domain.Failed[*domain.LeetCodeStats](
		common.WrapError(common.ErrCodeRankingAPI, "leetcode "+tier+" failed", err))
}

package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"

	"go.uber.org/zap"
)

const DefaultCodeforcesURL = "https://codeforces.com/api"

const unratedRank = "unrated"

// CodeforcesClient 实现了 port.CodeforcesSource 接口，只有一个数据源
type CodeforcesClient struct {
	baseURL string
	opts    Options
}

// NewCodeforcesClient 创建 Codeforces 客户端
func NewCodeforcesClient(opts Options) *CodeforcesClient {
	opts = opts.withDefaults()
	base := strings.TrimRight(opts.CodeforcesURL, "/")
	if base == "" {
		base = DefaultCodeforcesURL
	}
	return &CodeforcesClient{baseURL: base, opts: opts}
}

type codeforcesResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Result  []struct {
		Handle    string `json:"handle"`
		Rating    int    `json:"rating"`
		Rank      string `json:"rank"`
		MaxRating int    `json:"maxRating"`
		MaxRank   string `json:"maxRank"`
	} `json:"result"`
}

// GetCodeforcesStats status 不是 OK 或结果为空时返回 Absent
func (c *CodeforcesClient) GetCodeforcesStats(ctx context.Context, handle string) domain.Result[*domain.CodeforcesStats] {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Absent[*domain.CodeforcesStats]()
	}

	endpoint := c.baseURL + "/user.info?handles=" + url.QueryEscape(handle)

	var data codeforcesResponse
	if err := getJSON(ctx, c.opts.HTTPClient, c.opts.Timeout, endpoint, &data); err != nil {
		// 查无此人时 Codeforces 返回 400 + {"status":"FAILED"}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadRequest ||
			json.Unmarshal(statusErr.Body, &data) != nil {
			c.opts.Logger.Warn("⚠️ Codeforces 数据源失败", zap.String("handle", handle), zap.Error(err))
			return domain.Failed[*domain.CodeforcesStats](
				common.WrapError(common.ErrCodeRankingAPI, "codeforces request failed", err))
		}
	}

	if data.Status != "OK" || len(data.Result) == 0 {
		c.opts.Logger.Info("🔍 Codeforces 查无此人",
			zap.String("handle", handle), zap.String("comment", data.Comment))
		return domain.Absent[*domain.CodeforcesStats]()
	}

	user := data.Result[0]
	stats := &domain.CodeforcesStats{
		Rating:    user.Rating,
		Rank:      user.Rank,
		MaxRating: user.MaxRating,
		MaxRank:   user.MaxRank,
	}
	if stats.Rank == "" {
		stats.Rank = unratedRank
	}
	if stats.MaxRank == "" {
		stats.MaxRank = unratedRank
	}
	return domain.Present(stats)
}

package github

import (
	"context"
	"errors"
	"net/http"

	"github-portfolio/internal/domain"

	"go.uber.org/zap"
)

const contributionsQuery = `query($login: String!) {
  user(login: $login) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
            contributionLevel
          }
        }
      }
    }
  }
}`

var errUserNotFound = errors.New("graphql: user not found")

// contributionLevels GraphQL 枚举到 0-4 强度等级
var contributionLevels = map[string]int{
	"NONE":            0,
	"FIRST_QUARTILE":  1,
	"SECOND_QUARTILE": 2,
	"THIRD_QUARTILE":  3,
	"FOURTH_QUARTILE": 4,
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type contributionsResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
							ContributionLevel string `json:"contributionLevel"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

// GetContributions 通过 GraphQL 获取最近一年的贡献日历
// 复用 REST 客户端的认证与重试，没有 token 时直接返回 Absent
func (f *Fetcher) GetContributions(ctx context.Context, username string) domain.Result[*domain.ContributionCalendar] {
	if username == "" {
		return domain.Absent[*domain.ContributionCalendar]()
	}
	if !f.hasToken {
		f.log.Debug("没有 GitHub token，跳过贡献日历", zap.String("user", username))
		return domain.Absent[*domain.ContributionCalendar]()
	}

	body := graphQLRequest{
		Query:     contributionsQuery,
		Variables: map[string]any{"login": username},
	}

	var resp contributionsResponse
	err := f.call(ctx, func(ctx context.Context) error {
		req, err := f.client.NewRequest(http.MethodPost, "graphql", body)
		if err != nil {
			return err
		}
		resp = contributionsResponse{}
		if _, err := f.client.Do(ctx, req, &resp); err != nil {
			return err
		}
		return resp.check()
	})
	if err != nil {
		return failure[*domain.ContributionCalendar](f, "contributions", username, err)
	}

	cal := &domain.ContributionCalendar{}
	for _, week := range resp.Data.User.ContributionsCollection.ContributionCalendar.Weeks {
		var w domain.ContributionWeek
		for _, day := range week.ContributionDays {
			w.Days = append(w.Days, domain.ContributionDay{
				Date:  day.Date,
				Count: day.ContributionCount,
				Level: contributionLevels[day.ContributionLevel],
			})
		}
		cal.Weeks = append(cal.Weeks, w)
	}

	f.log.Debug("📅 贡献日历获取完成", zap.String("user", username), zap.Int("weeks", len(cal.Weeks)))
	return domain.Present(cal)
}

// check user 为 null 时区分"用户不存在"和其他 GraphQL 错误
func (r *contributionsResponse) check() error {
	if r.Data.User != nil {
		return nil
	}
	var messages []string
	for _, e := range r.Errors {
		if e.Type != "" && e.Type != "NOT_FOUND" {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) > 0 {
		return &graphQLError{messages: messages}
	}
	return errUserNotFound
}

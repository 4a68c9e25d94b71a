package filter

import (
	"strings"

	"github-portfolio/internal/domain"
)

// Options 项目筛选条件
type Options struct {
	Max             int  // 最多保留几个，<= 0 表示不限
	ExcludeForks    bool // 跳过 fork 来的仓库
	ExcludeArchived bool
}

// TopRepos 保持输入顺序 (最近更新在前)，按条件过滤后截断
// 返回新切片，不修改入参
func TopRepos(repos []domain.RepositoryRecord, opts Options) []domain.RepositoryRecord {
	out := make([]domain.RepositoryRecord, 0, len(repos))
	for _, repo := range repos {
		if opts.ExcludeForks && repo.Fork {
			continue
		}
		if opts.ExcludeArchived && repo.Archived {
			continue
		}
		out = append(out, repo)
		if opts.Max > 0 && len(out) == opts.Max {
			break
		}
	}
	return out
}

// Languages 按出现顺序返回去重后的主语言，忽略 Unknown
func Languages(repos []domain.RepositoryRecord) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, repo := range repos {
		if !repo.HasLanguage() || seen[repo.Language] {
			continue
		}
		seen[repo.Language] = true
		langs = append(langs, repo.Language)
	}
	return langs
}

// Tags 项目标签：主语言在前，然后是 topics；空值和 Unknown 会被丢弃
func Tags(repo domain.RepositoryRecord) []string {
	tags := make([]string, 0, len(repo.Topics)+1)
	if repo.HasLanguage() {
		tags = append(tags, repo.Language)
	}
	for _, topic := range repo.Topics {
		if strings.TrimSpace(topic) != "" {
			tags = append(tags, topic)
		}
	}
	return tags
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github-portfolio/internal/adapter/gemini"
	"github-portfolio/internal/adapter/github"
	"github-portfolio/internal/adapter/groq"
	"github-portfolio/internal/adapter/ranking"
	"github-portfolio/internal/adapter/repository"
	"github-portfolio/internal/adapter/resumefile"
	"github-portfolio/internal/adapter/textcache"
	"github-portfolio/internal/common"
	"github-portfolio/internal/config"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"
	"github-portfolio/internal/port"
	"github-portfolio/internal/service"

	"go.uber.org/zap"
)

// resumeParser 把纯文本简历解析成结构化数据
type resumeParser func(ctx context.Context, username, text string) (*domain.ResumeData, error)

type app struct {
	cfg          *config.Config
	log          logger.Logger
	svc          *service.PortfolioService
	store        port.ResumeStore // 没有配置数据库时为 nil
	resumeParser resumeParser     // 没有 Gemini key 时为 nil
	closers      []func() error
}

// newApp 按配置组装所有适配器；可选的依赖 (数据库、LLM) 缺失时只打日志
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	fetcher := github.NewFetcher(cfg.GitHub.Token, github.Options{
		Timeout:  cfg.GitHub.Timeout,
		MaxRepos: cfg.GitHub.MaxRepos,
		Logger:   log,
	})
	if cfg.GitHub.Token == "" {
		log.Warn("⚠️ 未配置 GITHUB_TOKEN，贡献日历不可用，REST 接口限流 60 次/小时")
	}

	rankingOpts := ranking.Options{
		Timeout:             cfg.Ranking.Timeout,
		Logger:              log,
		LeetCodePrimaryURL:  cfg.Ranking.LeetCodePrimaryURL,
		LeetCodeFallbackURL: cfg.Ranking.LeetCodeFallbackURL,
		CodeforcesURL:       cfg.Ranking.CodeforcesURL,
	}

	var resumes []port.ResumeSource
	if cfg.DB.DSN != "" {
		repo, err := repository.NewPostgresRepo(cfg.DB.DSN)
		if err != nil {
			log.Error("❌ 数据库初始化失败，只使用本地简历", err)
		} else {
			a.store = repo
			resumes = append(resumes, repo)
		}
	}
	resumes = append(resumes, resumefile.NewSource(cfg.Resume.Dir, log))

	cache := textcache.Open(cfg.Cache.Path, log)

	var summaryGen, writerGen port.TextGenerator
	if cfg.Gemini.APIKey != "" {
		gen, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Error("❌ Gemini 初始化失败，跳过文本生成", err)
		} else {
			summaryGen = gen
			a.closers = append(a.closers, gen.Close)
			a.resumeParser = func(ctx context.Context, username, text string) (*domain.ResumeData, error) {
				return gemini.ParseResume(ctx, gen, username, text)
			}
		}
	}
	if cfg.Groq.APIKey != "" {
		client, err := groq.NewClient(groq.Config{
			APIKey:  cfg.Groq.APIKey,
			BaseURL: cfg.Groq.BaseURL,
			Model:   cfg.Groq.Model,
			Timeout: cfg.Groq.Timeout,
		})
		if err != nil {
			log.Error("❌ Groq 初始化失败，跳过 About Me 润色", err)
		} else {
			writerGen = client
		}
	}

	// 生成调用不跟随请求取消，必须自带超时
	summary := textcache.NewCachedGenerator("gemini", summaryGen, cache, log)
	summary.SetTimeout(cfg.Gemini.Timeout)
	writer := textcache.NewCachedGenerator("groq", writerGen, cache, log)
	writer.SetTimeout(cfg.Groq.Timeout)
	enhancer := service.NewEnhancer(summary, writer, log)

	a.svc = service.NewPortfolioService(service.Dependencies{
		GitHub:     fetcher,
		LeetCode:   ranking.NewLeetCodeClient(rankingOpts),
		Codeforces: ranking.NewCodeforcesClient(rankingOpts),
		Resumes:    resumes,
		Enhancer:   enhancer,
	}, service.Options{
		FeaturedRepos:   cfg.Portfolio.FeaturedRepos,
		ExcludeForks:    cfg.Portfolio.ExcludeForks,
		EnhanceProjects: cfg.Portfolio.EnhanceProjects,
		Concurrency:     cfg.Portfolio.Concurrency,
	}, log)

	log.Debug("🔧 依赖组装完成",
		zap.Bool("db", a.store != nil),
		zap.Bool("gemini", summaryGen != nil),
		zap.Bool("groq", writerGen != nil),
		zap.Int("cached_texts", cache.Len()))
	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Warn("⚠️ 释放资源失败", zap.Error(err))
		}
	}
}

// loadResume .json 文件直接解码，其他文件当作纯文本交给 LLM 解析
// username 非空时覆盖文件里的用户名
func loadResume(ctx context.Context, path, username string, parse resumeParser) (*domain.ResumeData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取简历文件失败: %w", err)
	}

	var resume *domain.ResumeData
	if strings.EqualFold(filepath.Ext(path), ".json") {
		resume = &domain.ResumeData{}
		if err := json.Unmarshal(data, resume); err != nil {
			return nil, common.WrapError(common.ErrCodeInvalidInput, "简历 JSON 格式错误", err)
		}
	} else {
		if parse == nil {
			return nil, common.NewError(common.ErrCodeInvalidInput, "纯文本简历需要配置 GEMINI_API_KEY")
		}
		if username == "" {
			return nil, common.NewError(common.ErrCodeInvalidInput, "纯文本简历必须指定 --user")
		}
		resume, err = parse(ctx, username, string(data))
		if err != nil {
			return nil, err
		}
	}

	if username != "" {
		resume.Username = username
	}
	if strings.TrimSpace(resume.Username) == "" {
		return nil, common.NewError(common.ErrCodeInvalidInput, "简历缺少 username")
	}
	return resume, nil
}

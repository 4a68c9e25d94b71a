package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github-portfolio/internal/adapter/analyzer"
	"github-portfolio/internal/adapter/gemini"
	"github-portfolio/internal/adapter/github"
	"github-portfolio/internal/adapter/groq"
	"github-portfolio/internal/adapter/ranking"
	"github-portfolio/internal/adapter/repository"
	"github-portfolio/internal/adapter/resumefile"
	"github-portfolio/internal/config"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"
)

// 逐个调用每个数据源并打印结果，用来排查某个板块为什么没有出现
func main() {
	username := flag.String("user", "octocat", "GitHub 用户名")
	leetcode := flag.String("leetcode", "", "LeetCode 用户名")
	codeforces := flag.String("codeforces", "", "Codeforces 用户名")
	configDir := flag.String("config-dir", ".", "配置目录")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	zl := logger.NewZapLogger("development")
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("🔍 调试模式：逐个探测数据源")

	// 1. GitHub
	fetcher := github.NewFetcher(cfg.GitHub.Token, github.Options{Timeout: cfg.GitHub.Timeout, MaxRepos: cfg.GitHub.MaxRepos, Logger: zl})
	profile := fetcher.GetProfile(ctx, *username)
	report("GitHub 身份资料", profile.Status, profile.Err)
	if p, ok := profile.Get(); ok {
		fmt.Printf("   %s (%s), 公开仓库 %d\n", p.Name, p.HTMLURL, p.PublicRepos)
	}

	repos := fetcher.ListRepositories(ctx, *username)
	report("GitHub 仓库", repos.Status, repos.Err)
	for _, r := range repos.OrElse(nil) {
		fmt.Printf("   - %s [%s] ⭐ %d\n", r.Name, r.Language, r.Stars)
	}

	calendar := fetcher.GetContributions(ctx, *username)
	report("GitHub 贡献日历", calendar.Status, calendar.Err)
	if cal, ok := calendar.Get(); ok {
		m := analyzer.DeriveMetrics(cal)
		fmt.Printf("   %d 周, 总计 %d, 当前连续 %d 天, 最长连续 %d 天\n", len(cal.Weeks), m.Total, m.CurrentStreak, m.LongestStreak)
	}

	// 2. 简历
	if cfg.DB.DSN != "" {
		repo, err := repository.NewPostgresRepo(cfg.DB.DSN)
		if err != nil {
			fmt.Printf("❌ 数据库连接失败: %v\n", err)
		} else {
			res := repo.GetResume(ctx, *username)
			report("数据库简历", res.Status, res.Err)
		}
	}
	fileRes := resumefile.NewSource(cfg.Resume.Dir, zl).GetResume(ctx, *username)
	report("本地 JSON 简历", fileRes.Status, fileRes.Err)

	// 3. 刷题平台
	rankingOpts := ranking.Options{Timeout: cfg.Ranking.Timeout, Logger: zl}
	if *leetcode != "" {
		lc := ranking.NewLeetCodeClient(rankingOpts)
		primary := lc.Primary(ctx, *leetcode)
		report("LeetCode 主数据源", primary.Status, primary.Err)
		fallback := lc.Fallback(ctx, *leetcode)
		report("LeetCode 后备数据源", fallback.Status, fallback.Err)
	}
	if *codeforces != "" {
		cf := ranking.NewCodeforcesClient(rankingOpts).GetCodeforcesStats(ctx, *codeforces)
		report("Codeforces", cf.Status, cf.Err)
		if s, ok := cf.Get(); ok {
			fmt.Printf("   rating %d (%s), max %d (%s)\n", s.Rating, s.Rank, s.MaxRating, s.MaxRank)
		}
	}

	// 4. LLM
	if cfg.Gemini.APIKey != "" {
		gen, err := gemini.NewGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			fmt.Printf("❌ Gemini 初始化失败: %v\n", err)
		} else {
			defer gen.Close()
			text, err := gen.Generate(ctx, gemini.SummaryPrompt(profile.OrElse(&domain.Profile{}).Bio, []string{"Go"}))
			printGenerated("Gemini", text, err)
		}
	}
	if cfg.Groq.APIKey != "" {
		client, err := groq.NewClient(groq.Config{APIKey: cfg.Groq.APIKey, BaseURL: cfg.Groq.BaseURL, Model: cfg.Groq.Model})
		if err != nil {
			fmt.Printf("❌ Groq 初始化失败: %v\n", err)
		} else {
			text, err := client.Generate(ctx, groq.BioPrompt("i like go and distributed systems"))
			printGenerated("Groq", text, err)
		}
	}

	fmt.Println("🎉 探测完成")
}

func report(name string, status domain.Status, err error) {
	switch status {
	case domain.StatusPresent:
		fmt.Printf("✅ %s: present\n", name)
	case domain.StatusAbsent:
		fmt.Printf("⏭️ %s: absent\n", name)
	default:
		fmt.Printf("❌ %s: failed: %v\n", name, err)
	}
}

func printGenerated(name, text string, err error) {
	if err != nil {
		fmt.Printf("❌ %s 生成失败: %v\n", name, err)
		return
	}
	fmt.Printf("✅ %s 生成成功:\n%s\n", name, text)
}

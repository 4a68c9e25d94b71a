package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github-portfolio/internal/common"
	"github-portfolio/internal/config"
	"github-portfolio/internal/logger"
	"github-portfolio/internal/server"
	"github-portfolio/internal/service"

	"github.com/spf13/cobra"
)

var (
	configDir        string
	leetCodeHandle   string
	codeforcesHandle string
	importUsername   string
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "把 GitHub、简历与刷题平台的数据聚合成个人作品集",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var buildCmd = &cobra.Command{
	Use:   "build <username>",
	Short: "生成作品集并以 JSON 输出",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			vm, err := a.svc.Build(ctx, service.BuildRequest{
				Username:         args[0],
				LeetCodeHandle:   leetCodeHandle,
				CodeforcesHandle: codeforcesHandle,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), vm)
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 接口",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			srv := server.New(a.svc, a.log, a.cfg.App.Env)
			return srv.Run(ctx, ":"+a.cfg.App.Port)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import-resume <file>",
	Short: "把简历 (JSON 或纯文本) 写入数据库",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			if a.store == nil {
				return common.NewError(common.ErrCodeInvalidInput, "DB_DSN is not configured")
			}
			ctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()

			resume, err := loadResume(ctx, args[0], importUsername, a.resumeParser)
			if err != nil {
				return err
			}
			if err := a.store.SaveResume(ctx, resume); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 已导入 %s 的简历\n", resume.Username)
			return nil
		})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <username>",
	Short: "只计算贡献日历指标",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			m, err := a.svc.ContributionMetrics(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		})
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "config.yaml 与 .env 所在目录")
	buildCmd.Flags().StringVar(&leetCodeHandle, "leetcode", "", "LeetCode 用户名 (默认取简历里的)")
	buildCmd.Flags().StringVar(&codeforcesHandle, "codeforces", "", "Codeforces 用户名 (默认取简历里的)")
	importCmd.Flags().StringVar(&importUsername, "user", "", "简历所属的 GitHub 用户名 (纯文本简历必填)")

	rootCmd.AddCommand(buildCmd, serveCmd, importCmd, metricsCmd)
}

// withApp 加载配置、组装依赖，执行 fn 后释放资源
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewZapLogger(cfg.App.Env)
	defer func() { _ = log.Sync() }()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", strings.TrimSpace(err.Error()))
		stop()
		os.Exit(1)
	}
}


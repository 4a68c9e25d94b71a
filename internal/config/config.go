package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 运行所需的全部配置，来源优先级：环境变量 > config.yaml > 默认值
type Config struct {
	App struct {
		Port string `mapstructure:"port" validate:"required,numeric"`
		Env  string `mapstructure:"env" validate:"oneof=development production test"`
	} `mapstructure:"app"`
	GitHub struct {
		Token    string        `mapstructure:"token"`
		Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
		MaxRepos int           `mapstructure:"max_repos" validate:"min=1,max=100"`
	} `mapstructure:"github"`
	Ranking struct {
		Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
		LeetCodePrimaryURL  string        `mapstructure:"leetcode_primary_url" validate:"omitempty,url"`
		LeetCodeFallbackURL string        `mapstructure:"leetcode_fallback_url" validate:"omitempty,url"`
		CodeforcesURL       string        `mapstructure:"codeforces_url" validate:"omitempty,url"`
	} `mapstructure:"ranking"`
	Gemini struct {
		APIKey  string        `mapstructure:"api_key"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	} `mapstructure:"gemini"`
	Groq struct {
		APIKey  string        `mapstructure:"api_key"`
		Model   string        `mapstructure:"model"`
		BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
		Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	} `mapstructure:"groq"`
	DB struct {
		DSN string `mapstructure:"dsn"` // 为空时只用本地 JSON 简历
	} `mapstructure:"db"`
	Cache struct {
		Path string `mapstructure:"path"` // 为空时只缓存在内存里
	} `mapstructure:"cache"`
	Resume struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"resume"`
	Portfolio struct {
		FeaturedRepos   int  `mapstructure:"featured_repos" validate:"min=1,max=20"`
		ExcludeForks    bool `mapstructure:"exclude_forks"`
		EnhanceProjects bool `mapstructure:"enhance_projects"`
		Concurrency     int  `mapstructure:"concurrency" validate:"min=1,max=16"`
	} `mapstructure:"portfolio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("github.timeout", 5*time.Second)
	v.SetDefault("github.max_repos", 6)
	v.SetDefault("ranking.timeout", 5*time.Second)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", 20*time.Second)
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.timeout", 20*time.Second)
	v.SetDefault("cache.path", ".cache/generated_text.json")
	v.SetDefault("resume.dir", "data/resumes")
	v.SetDefault("portfolio.featured_repos", 4)
	v.SetDefault("portfolio.concurrency", 3)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("app.port", "APP_PORT")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("github.token", "GITHUB_TOKEN")
	_ = v.BindEnv("github.timeout", "GITHUB_TIMEOUT", "FETCH_TIMEOUT")
	_ = v.BindEnv("github.max_repos", "GITHUB_MAX_REPOS")
	_ = v.BindEnv("ranking.timeout", "RANKING_TIMEOUT", "FETCH_TIMEOUT")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.timeout", "GEMINI_TIMEOUT")
	_ = v.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("groq.timeout", "GROQ_TIMEOUT")
	_ = v.BindEnv("db.dsn", "DB_DSN")
	_ = v.BindEnv("cache.path", "CACHE_PATH")
	_ = v.BindEnv("resume.dir", "RESUME_DIR")
	_ = v.BindEnv("portfolio.enhance_projects", "ENHANCE_PROJECTS")
	_ = v.BindEnv("portfolio.concurrency", "CONCURRENCY")
}

// Load 从 dir 读取 .env 与 config.yaml，两者都可以不存在
func Load(dir string) (*Config, error) {
	// .env 不会覆盖已经存在的环境变量
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取 config.yaml 失败: %w", err)
		}
	}

	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

// Validate 检查配置取值是否合法
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	return nil
}

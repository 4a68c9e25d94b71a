package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 6, cfg.GitHub.MaxRepos)
	assert.Equal(t, 4, cfg.Portfolio.FeaturedRepos)
	assert.Equal(t, 3, cfg.Portfolio.Concurrency)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 20*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 20*time.Second, cfg.Groq.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  port: "9000"
github:
  timeout: 3s
  max_repos: 10
portfolio:
  featured_repos: 6
  enhance_projects: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("APP_PORT", "9100")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("RANKING_TIMEOUT", "2s")
	t.Setenv("GEMINI_TIMEOUT", "7s")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.App.Port, "环境变量优先于配置文件")
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, 3*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 10, cfg.GitHub.MaxRepos)
	assert.Equal(t, 2*time.Second, cfg.Ranking.Timeout)
	assert.Equal(t, 7*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 6, cfg.Portfolio.FeaturedRepos)
	assert.True(t, cfg.Portfolio.EnhanceProjects)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app: [unterminated"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "默认配置合法", modify: func(c *Config) {}},
		{name: "端口不是数字", modify: func(c *Config) { c.App.Port = "http" }, wantErr: true},
		{name: "未知环境", modify: func(c *Config) { c.App.Env = "staging" }, wantErr: true},
		{name: "超时为 0", modify: func(c *Config) { c.GitHub.Timeout = 0 }, wantErr: true},
		{name: "生成超时为 0", modify: func(c *Config) { c.Gemini.Timeout = 0 }, wantErr: true},
		{name: "并发数过大", modify: func(c *Config) { c.Portfolio.Concurrency = 100 }, wantErr: true},
		{name: "URL 非法", modify: func(c *Config) { c.Ranking.CodeforcesURL = "not a url" }, wantErr: true},
		{name: "URL 合法", modify: func(c *Config) { c.Ranking.CodeforcesURL = "https://codeforces.com/api" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(t.TempDir())
			require.NoError(t, err)
			tt.modify(cfg)

			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

package resumefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSource_GetResume(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flat.json", `{
		"username": "flat",
		"leetCodeUser": "flat_lc",
		"skills": ["Go", "Kafka"],
		"experience": [{"role": "SRE", "company": "Acme", "date": "2019 - Present", "description": "On call"}],
		"aboutMe": "I enjoy climbing and coffee.",
		"contactInfo": "flat@example.com | linkedin.com/in/flat"
	}`)
	writeFile(t, dir, "nested.json", `{
		"username": "nested",
		"codeforcesUser": "nested_cf",
		"structuredData": {
			"professionalSummary": "Full-stack developer.",
			"skills": ["TypeScript"],
			"experience": [{"role": "Dev", "company": "Startup", "date": "2021 - 2023", "description": "Built things"}],
			"education": [{"degree": "B.Tech", "institution": "IIT", "date": "2021"}]
		},
		"personalInfo": {"customAboutMe": "Gamer and reader.", "contact": "n@example.com | linkedin.com/in/nested"}
	}`)
	writeFile(t, dir, "lowercase.json", `{"skills": ["Rust"]}`)
	writeFile(t, dir, "broken.json", `{"skills": [`)

	src := NewSource(dir, logger.NewNop())

	tests := []struct {
		name       string
		username   string
		wantStatus domain.Status
		verify     func(*testing.T, *domain.ResumeData)
	}{
		{
			name:       "扁平格式",
			username:   "flat",
			wantStatus: domain.StatusPresent,
			verify: func(t *testing.T, r *domain.ResumeData) {
				assert.Equal(t, "flat_lc", r.LeetCodeUser)
				assert.Equal(t, []string{"Go", "Kafka"}, r.Skills)
				assert.Equal(t, "I enjoy climbing and coffee.", r.AboutMe)
				require.Len(t, r.Experience, 1)
				assert.True(t, r.Experience[0].IsCurrent())
			},
		},
		{
			name:       "嵌套格式",
			username:   "nested",
			wantStatus: domain.StatusPresent,
			verify: func(t *testing.T, r *domain.ResumeData) {
				assert.Equal(t, "nested_cf", r.CodeforcesUser)
				assert.Equal(t, "Full-stack developer.", r.ProfessionalSummary)
				assert.Equal(t, []string{"TypeScript"}, r.Skills)
				require.Len(t, r.Education, 1)
				assert.Equal(t, "IIT", r.Education[0].Institution)
				assert.Equal(t, "Gamer and reader.", r.AboutMe)
				assert.Equal(t, "n@example.com | linkedin.com/in/nested", r.ContactInfo)
			},
		},
		{
			name:       "大小写不一致时回退到小写文件名",
			username:   "LowerCase",
			wantStatus: domain.StatusPresent,
			verify: func(t *testing.T, r *domain.ResumeData) {
				assert.Equal(t, "LowerCase", r.Username)
				assert.Equal(t, []string{"Rust"}, r.Skills)
			},
		},
		{
			name:       "文件不存在",
			username:   "ghost",
			wantStatus: domain.StatusAbsent,
		},
		{
			name:       "JSON 损坏",
			username:   "broken",
			wantStatus: domain.StatusFailed,
		},
		{
			name:       "非法用户名",
			username:   "../etc/passwd",
			wantStatus: domain.StatusAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := src.GetResume(context.Background(), tt.username)

			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.verify != nil {
				resume, ok := res.Get()
				require.True(t, ok)
				tt.verify(t, resume)
			}
		})
	}
}

func TestSource_Disabled(t *testing.T) {
	src := NewSource("", nil)
	assert.Equal(t, domain.StatusAbsent, src.GetResume(context.Background(), "octocat").Status)
}

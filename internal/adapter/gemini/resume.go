package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github-portfolio/internal/domain"
	"github-portfolio/internal/port"
)

// 模型返回的简历结构，字段名与 ResumePrompt 保持一致
type parsedResume struct {
	ProfessionalSummary string `json:"professionalSummary"`
	WorkExperience      []struct {
		Company     string `json:"company"`
		Role        string `json:"role"`
		Duration    string `json:"duration"`
		Description string `json:"description"`
		Location    string `json:"location"`
	} `json:"workExperience"`
	Education []struct {
		Institution string `json:"institution"`
		Degree      string `json:"degree"`
		Year        string `json:"year"`
	} `json:"education"`
	Skills         []string `json:"skills"`
	Certifications []string `json:"certifications"`
	AboutMe        string   `json:"aboutMe"`
	ContactInfo    string   `json:"contactInfo"`
	LeetCodeUser   string   `json:"leetCodeUser"`
	CodeforcesUser string   `json:"codeforcesUser"`
}

// ParseResume 让模型把简历纯文本整理成 ResumeData
func ParseResume(ctx context.Context, gen port.TextGenerator, username, resumeText string) (*domain.ResumeData, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("简历内容为空")
	}

	raw, err := gen.Generate(ctx, ResumePrompt(resumeText))
	if err != nil {
		return nil, err
	}

	cleanJSON, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var res parsedResume
	if err := json.Unmarshal([]byte(cleanJSON), &res); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w | 原文: %s", err, cleanJSON)
	}

	resume := &domain.ResumeData{
		Username:            username,
		LeetCodeUser:        res.LeetCodeUser,
		CodeforcesUser:      res.CodeforcesUser,
		ProfessionalSummary: res.ProfessionalSummary,
		Skills:              res.Skills,
		Certifications:      res.Certifications,
		AboutMe:             res.AboutMe,
		ContactInfo:         res.ContactInfo,
	}
	for _, w := range res.WorkExperience {
		resume.Experience = append(resume.Experience, domain.ExperienceEntry{
			Role:        w.Role,
			Company:     w.Company,
			Date:        w.Duration,
			Description: w.Description,
			Location:    w.Location,
		})
	}
	for _, e := range res.Education {
		resume.Education = append(resume.Education, domain.EducationEntry{
			Degree:      e.Degree,
			Institution: e.Institution,
			Date:        e.Year,
		})
	}
	return resume, nil
}

// extractJSONObject 找到第一个 { 和最后一个 }，兼容 ```json 包裹或前后多余文字
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("无法提取 JSON, AI 原文: %s", raw)
	}
	return raw[start : end+1], nil
}

package groq

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github-portfolio/internal/domain"
)

const (
	// MinBioLength 太短的自我介绍不值得润色
	MinBioLength = 10
	// MinInterestsLength 太短的自我介绍提取不出兴趣
	MinInterestsLength = 20
	// MaxInterests 最多展示 4 个兴趣
	MaxInterests = 4
)

// InterestIcons 前端可用的图标名
var InterestIcons = []string{
	"Coffee", "Headphones", "Palette", "Rocket", "Code", "Laptop", "Heart", "Star",
	"Book", "Camera", "Dumbbell", "Plane", "Gamepad2", "Film", "Music",
}

// BioPrompt 润色 About Me，保持事实不变
func BioPrompt(aboutMe string) string {
	return fmt.Sprintf(`Rewrite the following "About Me" text for a professional developer portfolio.

Goals:
- Fix grammar and spelling
- Structure disjointed sentences into cohesive paragraphs
- Make it sound professional yet authentic
- Keep the original meaning and facts (do not invent new facts)
- Use "I" statements
- Limit to 2-3 short paragraphs

Original Text:
"%s"

Return ONLY the rewritten text, no other comments.`, aboutMe)
}

// InterestsPrompt 从 About Me 中提取兴趣，要求返回 JSON 数组
func InterestsPrompt(aboutMe string) string {
	return fmt.Sprintf(`Extract up to %d personal interests or hobbies from the following "About Me" text.
Return ONLY a valid JSON array with this exact structure, no markdown formatting:
[
  {
    "icon": "icon_name",
    "title": "Interest Title",
    "description": "Short 2-4 word description"
  }
]

Available icon names (use EXACTLY these): %s

About Me Text:
"%s"

Rules:
- Extract real interests mentioned in the text
- Use appropriate icons from the list
- Keep descriptions very short (2-4 words)
- Return empty array [] if no clear interests found
- Maximum %d interests
- Return ONLY the JSON array, no other text`, MaxInterests, strings.Join(InterestIcons, ", "), aboutMe, MaxInterests)
}

// ParseInterests 解析模型返回的 JSON 数组，最多保留 MaxInterests 个
// 兼容 ```json 包裹和前后多余文字；标题为空的条目会被丢弃，未知图标替换为 Star
func ParseInterests(raw string) ([]domain.Interest, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("无法提取 JSON 数组, AI 原文: %s", raw)
	}

	var parsed []domain.Interest
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}

	interests := make([]domain.Interest, 0, MaxInterests)
	for _, in := range parsed {
		if strings.TrimSpace(in.Title) == "" {
			continue
		}
		if !slices.Contains(InterestIcons, in.Icon) {
			in.Icon = "Star"
		}
		interests = append(interests, in)
		if len(interests) == MaxInterests {
			break
		}
	}
	return interests, nil
}

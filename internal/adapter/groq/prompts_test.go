package groq

import (
	"testing"

	"github-portfolio/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseInterests(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    []domain.Interest
	}{
		{
			name:  "合法 JSON 数组",
			input: `[{"icon":"Coffee","title":"Coffee","description":"Pour-over enthusiast"}]`,
			expected: []domain.Interest{
				{Icon: "Coffee", Title: "Coffee", Description: "Pour-over enthusiast"},
			},
		},
		{
			name: "markdown 包裹",
			input: "```json\n" + `[
				{"icon":"Music","title":"Guitar","description":"Weekend jams"},
				{"icon":"Plane","title":"Travel","description":"Backpacking Asia"}
			]` + "\n```",
			expected: []domain.Interest{
				{Icon: "Music", Title: "Guitar", Description: "Weekend jams"},
				{Icon: "Plane", Title: "Travel", Description: "Backpacking Asia"},
			},
		},
		{
			name: "超过 4 个只保留前 4 个",
			input: `[
				{"icon":"Book","title":"A"},{"icon":"Book","title":"B"},{"icon":"Book","title":"C"},
				{"icon":"Book","title":"D"},{"icon":"Book","title":"E"}
			]`,
			expected: []domain.Interest{
				{Icon: "Book", Title: "A"}, {Icon: "Book", Title: "B"},
				{Icon: "Book", Title: "C"}, {Icon: "Book", Title: "D"},
			},
		},
		{
			name:  "未知图标替换为 Star，空标题丢弃",
			input: `[{"icon":"Unicorn","title":"Chess"},{"icon":"Code","title":"  "}]`,
			expected: []domain.Interest{
				{Icon: "Star", Title: "Chess"},
			},
		},
		{
			name:     "空数组",
			input:    `[]`,
			expected: []domain.Interest{},
		},
		{
			name:        "没有数组",
			input:       `I could not find any interests.`,
			expectError: true,
		},
		{
			name:        "非法 JSON",
			input:       `[{"icon": Coffee}]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseInterests(tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	bio := BioPrompt("i like go and coffe")
	assert.Contains(t, bio, `"i like go and coffe"`)
	assert.Contains(t, bio, "do not invent new facts")

	interests := InterestsPrompt("I love hiking and photography.")
	assert.Contains(t, interests, "Extract up to 4 personal interests")
	assert.Contains(t, interests, "Gamepad2")
	assert.Contains(t, interests, `"I love hiking and photography."`)
}

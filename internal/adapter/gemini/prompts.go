package gemini

import (
	"fmt"
	"strings"

	"github-portfolio/internal/domain"
)

// ProjectPrompt 项目描述润色，限制两句话
func ProjectPrompt(repo domain.RepositoryRecord) string {
	return fmt.Sprintf(`
Limit the response to 2 sentences.
Enhance the description for a software project.
Project Name: %s
Tech Stack: %s
Original Description: %s

Make it sound professional, highlighting the technical complexity or potential impact.
If the original description is empty, generate a generic but professional description based on the name and language.
`, repo.Name, repo.Language, repo.Description)
}

// SummaryPrompt 面向招聘者的个人简介，3-4 句
func SummaryPrompt(bio string, skills []string) string {
	return fmt.Sprintf(`
Limit the response to 3-4 sentences.
Write a professional summary for a developer portfolio.
Current Bio: %s
Key Skills: %s

The tone should be confident, career-oriented, and suitable for recruiters.
`, bio, strings.Join(skills, ", "))
}

// ResumePrompt 把简历纯文本解析成固定结构的 JSON
func ResumePrompt(resumeText string) string {
	return fmt.Sprintf(`
You are an AI expert at parsing resumes.
Extract the following information from the provided resume text and return it ONLY as a valid JSON object.
Do not include markdown formatting. Just the raw JSON string.

Resume Text:
"%s"

Required JSON Structure:
{
    "professionalSummary": "A brief 2-3 sentence professional summary derived from the resume.",
    "workExperience": [
        {
            "company": "Company Name",
            "role": "Job Title",
            "duration": "Start Date - End Date",
            "description": "Key achievements and responsibilities.",
            "location": "City, Country"
        }
    ],
    "education": [
        {"institution": "University Name", "degree": "B.S. in Computer Science", "year": "Graduation Year"}
    ],
    "skills": ["Skill 1", "Skill 2"],
    "certifications": ["Certification 1"],
    "aboutMe": "First-person paragraph about hobbies and interests, if present.",
    "contactInfo": "email | phone | linkedin url",
    "leetCodeUser": "",
    "codeforcesUser": ""
}

If any section is missing, return an empty array or empty string for that field.
`, resumeText)
}

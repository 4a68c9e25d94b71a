package resumefile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"

	"go.uber.org/zap"
)

// 只允许 GitHub 用户名里会出现的字符，避免拼出目录外的路径
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// Source 从 <dir>/<username>.json 读取简历资料，实现了 port.ResumeSource 接口
type Source struct {
	dir string
	log logger.Logger
}

func NewSource(dir string, log logger.Logger) *Source {
	if log == nil {
		log = logger.NewNop()
	}
	return &Source{dir: dir, log: log}
}

// fileResume 兼容两种格式：扁平的 ResumeData，以及带 structuredData/personalInfo 的嵌套格式
type fileResume struct {
	domain.ResumeData

	StructuredData *struct {
		ProfessionalSummary string                   `json:"professionalSummary"`
		Skills              []string                 `json:"skills"`
		Experience          []domain.ExperienceEntry `json:"experience"`
		Education           []domain.EducationEntry  `json:"education"`
		Certifications      []string                 `json:"certifications"`
	} `json:"structuredData,omitempty"`

	PersonalInfo *struct {
		CustomAboutMe string `json:"customAboutMe"`
		Contact       string `json:"contact"`
	} `json:"personalInfo,omitempty"`
}

func (f *fileResume) flatten() *domain.ResumeData {
	r := f.ResumeData
	if sd := f.StructuredData; sd != nil {
		r.ProfessionalSummary = firstNonEmpty(r.ProfessionalSummary, sd.ProfessionalSummary)
		if len(r.Skills) == 0 {
			r.Skills = sd.Skills
		}
		if len(r.Experience) == 0 {
			r.Experience = sd.Experience
		}
		if len(r.Education) == 0 {
			r.Education = sd.Education
		}
		if len(r.Certifications) == 0 {
			r.Certifications = sd.Certifications
		}
	}
	if pi := f.PersonalInfo; pi != nil {
		r.AboutMe = firstNonEmpty(r.AboutMe, pi.CustomAboutMe)
		r.ContactInfo = firstNonEmpty(r.ContactInfo, pi.Contact)
	}
	return &r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// GetResume 文件不存在是 Absent；读不了或 JSON 损坏是 Failed
func (s *Source) GetResume(ctx context.Context, username string) domain.Result[*domain.ResumeData] {
	if s.dir == "" || !validName.MatchString(username) {
		return domain.Absent[*domain.ResumeData]()
	}

	path := filepath.Join(s.dir, username+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// 文件名大小写与请求不一致时再试一次小写
		lower := filepath.Join(s.dir, strings.ToLower(username)+".json")
		if lower == path {
			return domain.Absent[*domain.ResumeData]()
		}
		path = lower
		data, err = os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Absent[*domain.ResumeData]()
		}
	}
	if err != nil {
		s.log.Error("❌ 读取简历文件失败", err, zap.String("path", path))
		return domain.Failed[*domain.ResumeData](
			common.WrapError(common.ErrCodeInternal, "failed to read resume file", err))
	}

	var fr fileResume
	if err := json.Unmarshal(data, &fr); err != nil {
		s.log.Error("❌ 简历文件格式错误", err, zap.String("path", path))
		return domain.Failed[*domain.ResumeData](
			common.WrapError(common.ErrCodeInvalidInput, "malformed resume file", err))
	}

	resume := fr.flatten()
	if resume.Username == "" {
		resume.Username = username
	}
	s.log.Debug("📄 从 JSON 文件读取简历", zap.String("path", path))
	return domain.Present(resume)
}

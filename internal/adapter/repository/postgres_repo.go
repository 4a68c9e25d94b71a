package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// resumeRecord 简历补充资料在数据库中的一行，列表类字段存成 JSON
type resumeRecord struct {
	Username            string                   `gorm:"column:username;primaryKey"`
	LeetCodeUser        string                   `gorm:"column:leetcode_user"`
	CodeforcesUser      string                   `gorm:"column:codeforces_user"`
	ProfessionalSummary string                   `gorm:"column:professional_summary;type:text"`
	Skills              []string                 `gorm:"column:skills;serializer:json;type:jsonb"`
	Experience          []domain.ExperienceEntry `gorm:"column:experience;serializer:json;type:jsonb"`
	Education           []domain.EducationEntry  `gorm:"column:education;serializer:json;type:jsonb"`
	Certifications      []string                 `gorm:"column:certifications;serializer:json;type:jsonb"`
	AboutMe             string                   `gorm:"column:about_me;type:text"`
	ContactInfo         string                   `gorm:"column:contact_info"`
	UpdatedAt           time.Time                `gorm:"column:updated_at"`
}

func (resumeRecord) TableName() string {
	return "resume_records"
}

func toRecord(r *domain.ResumeData) *resumeRecord {
	return &resumeRecord{
		Username:            strings.ToLower(r.Username),
		LeetCodeUser:        r.LeetCodeUser,
		CodeforcesUser:      r.CodeforcesUser,
		ProfessionalSummary: r.ProfessionalSummary,
		Skills:              r.Skills,
		Experience:          r.Experience,
		Education:           r.Education,
		Certifications:      r.Certifications,
		AboutMe:             r.AboutMe,
		ContactInfo:         r.ContactInfo,
	}
}

func (rec *resumeRecord) toDomain() *domain.ResumeData {
	return &domain.ResumeData{
		Username:            rec.Username,
		LeetCodeUser:        rec.LeetCodeUser,
		CodeforcesUser:      rec.CodeforcesUser,
		ProfessionalSummary: rec.ProfessionalSummary,
		Skills:              rec.Skills,
		Experience:          rec.Experience,
		Education:           rec.Education,
		Certifications:      rec.Certifications,
		AboutMe:             rec.AboutMe,
		ContactInfo:         rec.ContactInfo,
	}
}

// PostgresRepo 实现了 port.ResumeStore 接口
type PostgresRepo struct {
	db *gorm.DB
}

// NewPostgresRepo 初始化数据库连接并自动迁移表结构
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	// 1. 连接数据库
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 2. 自动迁移，表不存在时创建 resume_records
	if err := db.AutoMigrate(&resumeRecord{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return &PostgresRepo{db: db}, nil
}

// GetResume 用户名大小写不敏感；查不到是 Absent，数据库出错是 Failed
func (r *PostgresRepo) GetResume(ctx context.Context, username string) domain.Result[*domain.ResumeData] {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return domain.Absent[*domain.ResumeData]()
	}

	var rec resumeRecord
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Absent[*domain.ResumeData]()
	}
	if err != nil {
		return domain.Failed[*domain.ResumeData](
			common.WrapError(common.ErrCodeDatabase, "failed to load resume", err))
	}
	return domain.Present(rec.toDomain())
}

// SaveResume 按用户名插入或整行覆盖
func (r *PostgresRepo) SaveResume(ctx context.Context, resume *domain.ResumeData) error {
	if resume == nil || strings.TrimSpace(resume.Username) == "" {
		return common.NewError(common.ErrCodeInvalidInput, "resume username is required")
	}

	rec := toRecord(resume)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return common.WrapError(common.ErrCodeDatabase, "failed to save resume", err)
	}
	return nil
}

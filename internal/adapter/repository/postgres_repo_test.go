package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB 创建一个模拟的数据库连接
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	// 创建 GORM 数据库实例，禁用日志以减少输出
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

var resumeColumns = []string{
	"username", "leetcode_user", "codeforces_user", "professional_summary", "skills",
	"experience", "education", "certifications", "about_me", "contact_info", "updated_at",
}

func TestPostgresRepo_GetResume(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		setupMock  func(sqlmock.Sqlmock)
		wantStatus domain.Status
		verify     func(*testing.T, *domain.ResumeData)
	}{
		{
			name:     "查到简历",
			username: "Octocat",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(resumeColumns).AddRow(
					"octocat", "octo_lc", "octo_cf", "Backend engineer.",
					`["Go","PostgreSQL"]`,
					`[{"role":"SWE","company":"GitHub","date":"2020 - Present","description":"APIs"}]`,
					`[{"degree":"B.S.","institution":"MIT","date":"2019"}]`,
					`[]`, "I love hiking.", "octo@example.com | linkedin.com/in/octo", time.Now(),
				)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "resume_records" WHERE username = $1`)).
					WillReturnRows(rows)
			},
			wantStatus: domain.StatusPresent,
			verify: func(t *testing.T, r *domain.ResumeData) {
				assert.Equal(t, "octocat", r.Username)
				assert.Equal(t, "octo_lc", r.LeetCodeUser)
				assert.Equal(t, "octo_cf", r.CodeforcesUser)
				assert.Equal(t, []string{"Go", "PostgreSQL"}, r.Skills)
				require.Len(t, r.Experience, 1)
				assert.Equal(t, "GitHub", r.Experience[0].Company)
				assert.True(t, r.Experience[0].IsCurrent())
				require.Len(t, r.Education, 1)
				assert.Equal(t, "MIT", r.Education[0].Institution)
				assert.Equal(t, "I love hiking.", r.AboutMe)
			},
		},
		{
			name:     "没有记录",
			username: "ghost",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "resume_records"`)).
					WillReturnRows(sqlmock.NewRows(resumeColumns))
			},
			wantStatus: domain.StatusAbsent,
		},
		{
			name:     "数据库错误",
			username: "octocat",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "resume_records"`)).
					WillReturnError(errors.New("connection refused"))
			},
			wantStatus: domain.StatusFailed,
		},
		{
			name:       "空用户名不查询",
			username:   "  ",
			setupMock:  func(mock sqlmock.Sqlmock) {},
			wantStatus: domain.StatusAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupMockDB(t)
			defer cleanup()
			tt.setupMock(mock)

			repo := &PostgresRepo{db: gormDB}
			res := repo.GetResume(context.Background(), tt.username)

			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantStatus == domain.StatusFailed {
				assert.Equal(t, common.ErrCodeDatabase, common.CodeOf(res.Err))
			}
			if tt.verify != nil {
				resume, ok := res.Get()
				require.True(t, ok)
				tt.verify(t, resume)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepo_SaveResume(t *testing.T) {
	tests := []struct {
		name        string
		resume      *domain.ResumeData
		setupMock   func(sqlmock.Sqlmock)
		expectError bool
		errCode     string
	}{
		{
			name: "插入或覆盖",
			resume: &domain.ResumeData{
				Username: "Octocat",
				Skills:   []string{"Go"},
				AboutMe:  "I love hiking.",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "resume_records"`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "数据库错误",
			resume: &domain.ResumeData{Username: "octocat"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "resume_records"`)).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			expectError: true,
			errCode:     common.ErrCodeDatabase,
		},
		{
			name:        "缺少用户名",
			resume:      &domain.ResumeData{},
			setupMock:   func(mock sqlmock.Sqlmock) {},
			expectError: true,
			errCode:     common.ErrCodeInvalidInput,
		},
		{
			name:        "nil 简历",
			resume:      nil,
			setupMock:   func(mock sqlmock.Sqlmock) {},
			expectError: true,
			errCode:     common.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock, cleanup := setupMockDB(t)
			defer cleanup()
			tt.setupMock(mock)

			repo := &PostgresRepo{db: gormDB}
			err := repo.SaveResume(context.Background(), tt.resume)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.errCode, common.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

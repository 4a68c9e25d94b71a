package analyzer

import (
	"context"
	"sync"
	"time"

	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"
	"github-portfolio/internal/port"

	"go.uber.org/zap"
)

// ProjectAnalyzer 并发地为项目生成增强描述
type ProjectAnalyzer struct {
	describer     port.ProjectDescriber
	maxGoroutines int // 最大并发数
	perProject    time.Duration
	log           logger.Logger
}

// NewProjectAnalyzer 创建新的分析器实例，log 为 nil 时不输出日志
func NewProjectAnalyzer(describer port.ProjectDescriber, log logger.Logger) *ProjectAnalyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProjectAnalyzer{
		describer:     describer,
		maxGoroutines: 3, // 默认并发数为3
		perProject:    20 * time.Second,
		log:           log,
	}
}

// SetMaxGoroutines 设置最大并发数
func (a *ProjectAnalyzer) SetMaxGoroutines(max int) {
	if max > 0 {
		a.maxGoroutines = max
	}
}

type describeJob struct {
	index int
	repo  domain.RepositoryRecord
}

// describeWorker 工作协程，结果按下标写回，保证输出顺序与输入一致
func (a *ProjectAnalyzer) describeWorker(
	ctx context.Context,
	jobs <-chan describeJob,
	out []domain.RepositoryRecord,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for job := range jobs {
		jobCtx, cancel := context.WithTimeout(ctx, a.perProject)
		desc := a.describer.DescribeProject(jobCtx, job.repo)
		cancel()

		if desc != "" {
			job.repo.Description = desc
		}
		out[job.index] = job.repo
		a.log.Debug("   ✅ 项目描述处理完成",
			zap.Int("worker", workerID),
			zap.String("repo", job.repo.Name))
	}
}

// EnhanceDescriptions 返回新的切片，不修改入参；describer 为 nil 时原样返回
func (a *ProjectAnalyzer) EnhanceDescriptions(ctx context.Context, repos []domain.RepositoryRecord) []domain.RepositoryRecord {
	out := make([]domain.RepositoryRecord, len(repos))
	copy(out, repos)
	if a == nil || a.describer == nil || len(repos) == 0 {
		return out
	}

	workers := a.maxGoroutines
	if workers > len(repos) {
		workers = len(repos)
	}
	a.log.Info("🤖 开始增强项目描述", zap.Int("projects", len(repos)), zap.Int("workers", workers))

	jobs := make(chan describeJob, len(repos))
	for i, repo := range repos {
		jobs <- describeJob{index: i, repo: repo}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go a.describeWorker(ctx, jobs, out, &wg, i+1)
	}
	wg.Wait()

	return out
}

package service

import (
	"context"
	"strings"

	"github-portfolio/internal/adapter/gemini"
	"github-portfolio/internal/adapter/groq"
	"github-portfolio/internal/adapter/textcache"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"

	"go.uber.org/zap"
)

// Enhancer 所有 LLM 文本都从这里出去，每一项都带缓存和后备文本
//
// summary 负责职业简介与项目描述 (Gemini)，writer 负责 About Me 润色与兴趣提取 (Groq)。
// 两者都可以为 nil，此时直接返回后备文本。
type Enhancer struct {
	summary *textcache.CachedGenerator
	writer  *textcache.CachedGenerator
	log     logger.Logger
}

// NewEnhancer 创建文本增强器
func NewEnhancer(summary, writer *textcache.CachedGenerator, log logger.Logger) *Enhancer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Enhancer{summary: summary, writer: writer, log: log}
}

// ProfessionalSummary 根据 bio 和技能生成职业简介，失败时回退到 bio
func (e *Enhancer) ProfessionalSummary(ctx context.Context, bio string, skills []string) string {
	if e == nil {
		return bio
	}
	key := textcache.Key("summary", append([]string{bio}, skills...)...)
	return e.summary.GenerateOr(ctx, key, gemini.SummaryPrompt(bio, skills), bio)
}

// DescribeProject 实现 port.ProjectDescriber
func (e *Enhancer) DescribeProject(ctx context.Context, repo domain.RepositoryRecord) string {
	if e == nil {
		return repo.Description
	}
	key := textcache.Key("desc", repo.Name, repo.Language, repo.Description)
	return e.summary.GenerateOr(ctx, key, gemini.ProjectPrompt(repo), repo.Description)
}

// EnhanceBio 润色 About Me，太短或生成失败时原样返回
func (e *Enhancer) EnhanceBio(ctx context.Context, aboutMe string) string {
	if e == nil || len(strings.TrimSpace(aboutMe)) < groq.MinBioLength {
		return aboutMe
	}
	return e.writer.GenerateOr(ctx, textcache.Key("bio", aboutMe), groq.BioPrompt(aboutMe), aboutMe)
}

// ExtractInterests 从 About Me 中提取兴趣，拿不到时返回 nil
func (e *Enhancer) ExtractInterests(ctx context.Context, aboutMe string) []domain.Interest {
	if e == nil || len(strings.TrimSpace(aboutMe)) < groq.MinInterestsLength {
		return nil
	}

	raw, ok := e.writer.Lookup(ctx, textcache.Key("interests", aboutMe), groq.InterestsPrompt(aboutMe))
	if !ok {
		return nil
	}
	interests, err := groq.ParseInterests(raw)
	if err != nil {
		e.log.Warn("⚠️ 兴趣列表解析失败", zap.Error(err))
		return nil
	}
	return interests
}

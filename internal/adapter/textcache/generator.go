package textcache

import (
	"context"
	"strings"
	"time"

	"github-portfolio/internal/logger"
	"github-portfolio/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout 单次生成调用的默认超时
const DefaultTimeout = 30 * time.Second

// CachedGenerator 先查缓存，未命中再调用 LLM，成功的结果写回缓存
//
// 同一个 key 的并发请求只会触发一次生成。生成失败、返回空文本或没有配置
// 生成器时都不会写缓存。
type CachedGenerator struct {
	name    string
	gen     port.TextGenerator
	cache   port.TextCache
	group   singleflight.Group
	timeout time.Duration
	log     logger.Logger
}

// NewCachedGenerator gen 或 cache 都可以为 nil
func NewCachedGenerator(name string, gen port.TextGenerator, cache port.TextCache, log logger.Logger) *CachedGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedGenerator{
		name:    name,
		gen:     gen,
		cache:   cache,
		timeout: DefaultTimeout,
		log:     log.With(zap.String("generator", name)),
	}
}

// SetTimeout 设置单次生成的超时，<= 0 时保持原值
func (g *CachedGenerator) SetTimeout(d time.Duration) {
	if g != nil && d > 0 {
		g.timeout = d
	}
}

// Enabled 是否配置了生成器
func (g *CachedGenerator) Enabled() bool {
	return g != nil && g.gen != nil
}

// Lookup 返回缓存或新生成的文本，拿不到时返回 false
func (g *CachedGenerator) Lookup(ctx context.Context, key, prompt string) (string, bool) {
	if g == nil {
		return "", false
	}
	if g.cache != nil {
		if v, ok := g.cache.Get(key); ok {
			g.log.Debug("⚡ 命中文本缓存", zap.String("key", key))
			return v, true
		}
	}
	if g.gen == nil {
		return "", false
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		// 等锁期间可能已经有人写入
		if g.cache != nil {
			if v, ok := g.cache.Get(key); ok {
				return v, nil
			}
		}

		// 超时按生成失败处理，调用方拿到后备文本
		genCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		text, err := g.gen.Generate(genCtx, prompt)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", nil
		}

		if g.cache != nil {
			if err := g.cache.Put(key, text); err != nil {
				g.log.Error("⚠️ 写入文本缓存失败", err, zap.String("key", key))
			}
			// 以缓存中的值为准，保证同一个 key 只对应一个值
			if cached, ok := g.cache.Get(key); ok {
				return cached, nil
			}
		}
		return text, nil
	})
	if err != nil {
		g.log.Warn("⚠️ 文本生成失败，使用后备文本", zap.String("key", key), zap.Error(err))
		return "", false
	}

	text, _ := v.(string)
	if text == "" {
		return "", false
	}
	return text, true
}

// GenerateOr 拿不到生成文本时原样返回 fallback
func (g *CachedGenerator) GenerateOr(ctx context.Context, key, prompt, fallback string) string {
	if text, ok := g.Lookup(ctx, key, prompt); ok {
		return text
	}
	return fallback
}

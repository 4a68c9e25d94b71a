package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github-portfolio/internal/common"
	"github-portfolio/internal/domain"
	"github-portfolio/internal/logger"
	"github-portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader 每个响应都会带上这个头
const RequestIDHeader = "X-Request-ID"

const ginContextKeyRequestID = "requestID"

// GitHub 用户名：字母数字和连字符，不能以连字符开头，最长 39
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}$`)

// PortfolioBuilder 由 service.PortfolioService 实现
type PortfolioBuilder interface {
	Build(ctx context.Context, req service.BuildRequest) (*domain.PortfolioViewModel, error)
}

type portfolioURI struct {
	Username string `uri:"username" binding:"required"`
}

type portfolioQuery struct {
	LeetCode   string `form:"leetcode" binding:"omitempty,max=64"`
	Codeforces string `form:"codeforces" binding:"omitempty,max=64"`
}

// Server HTTP 接口
type Server struct {
	builder PortfolioBuilder
	router  *gin.Engine
	log     logger.Logger
}

// New 注册路由；env 为 production 时 gin 使用 release 模式
func New(builder PortfolioBuilder, log logger.Logger, env string) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{builder: builder, router: gin.New(), log: log}
	s.router.Use(gin.Recovery(), RequestID(), s.accessLog())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	api := s.router.Group("/api")
	api.GET("/portfolio/:username", s.getPortfolio)
	return s
}

// Handler 返回底层的 http.Handler，测试用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务，ctx 结束后优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("🚀 HTTP 服务已启动", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("👋 收到停止信号，正在关闭 HTTP 服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) getPortfolio(c *gin.Context) {
	var uri portfolioURI
	if err := c.ShouldBindUri(&uri); err != nil || !usernamePattern.MatchString(uri.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		return
	}
	var query portfolioQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	vm, err := s.builder.Build(c.Request.Context(), service.BuildRequest{
		Username:         uri.Username,
		LeetCodeHandle:   query.LeetCode,
		CodeforcesHandle: query.Codeforces,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, vm)
	case errors.Is(err, common.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case common.CodeOf(err) == common.ErrCodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
	default:
		s.log.Error("❌ 生成作品集失败", err, zap.String("user", uri.Username), zap.String("request_id", c.GetString(ginContextKeyRequestID)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// RequestID 沿用客户端传来的请求 ID，没有就生成一个
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ginContextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("🌐 请求完成",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString(ginContextKeyRequestID)))
	}
}

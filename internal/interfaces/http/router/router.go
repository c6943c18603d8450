// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/handler"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health   *handler.HealthHandler
	Trend    *handler.TrendHandler
	Company  *handler.CompanyHandler
	Need     *handler.NeedHandler
	Solution *handler.SolutionHandler
	Job      *handler.JobHandler
}

// New 创建 HTTP 路由。中间件顺序：恢复 → 请求 ID → CORS →
// 追踪 → 指标 → 租户解析 → 限流 → 事务。
func New(cfg *config.Config, h *Handlers, tx repository.Transactor, limiter middleware.RateLimiter) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: cfg.Security.CORS.AllowedHeaders,
	}))

	if cfg.Observability.Tracing.Enabled {
		r.Use(middleware.Trace(cfg.App.Name))
		r.Use(middleware.TraceContext())
	}
	if cfg.Observability.Metrics.Enabled {
		r.Use(middleware.Metrics())
		metricsPath := cfg.Observability.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查不走租户/限流
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/live", h.Health.Live)

	api := r.Group("/")
	api.Use(middleware.Tenant(middleware.TenantConfig{}))
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
	}, limiter))
	api.Use(middleware.DBTransaction(tx))

	RegisterV1Routes(api, h)

	return r
}

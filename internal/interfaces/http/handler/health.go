package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/infrastructure/persistence/milvus"
	"biz-advisory-ai-api/internal/infrastructure/persistence/postgres"
	"biz-advisory-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pg      *postgres.Client
	rdb     *redis.Client
	mv      *milvus.Client
	version string
}

// NewHealthHandler 创建健康检查处理器，milvus 允许为 nil（向量检索为可选功能)
func NewHealthHandler(pg *postgres.Client, rdb *redis.Client, mv *milvus.Client, version string) *HealthHandler {
	return &HealthHandler{pg: pg, rdb: rdb, mv: mv, version: version}
}

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health 全量健康检查。Postgres 和 Redis 为硬依赖，
// Milvus 不可用时整体降级为 degraded 而非 unhealthy。
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]componentStatus)
	overall := "healthy"
	httpStatus := http.StatusOK

	if err := h.pg.HealthCheck(ctx); err != nil {
		components["postgres"] = componentStatus{Status: "unhealthy", Error: err.Error()}
		overall = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		components["postgres"] = componentStatus{Status: "healthy"}
	}

	if err := h.rdb.HealthCheck(ctx); err != nil {
		components["redis"] = componentStatus{Status: "unhealthy", Error: err.Error()}
		overall = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		components["redis"] = componentStatus{Status: "healthy"}
	}

	if h.mv != nil {
		if err := h.mv.HealthCheck(ctx); err != nil {
			components["milvus"] = componentStatus{Status: "unhealthy", Error: err.Error()}
			if overall == "healthy" {
				overall = "degraded"
			}
		} else {
			components["milvus"] = componentStatus{Status: "healthy"}
		}
	} else {
		components["milvus"] = componentStatus{Status: "disabled"}
	}

	c.JSON(httpStatus, gin.H{
		"status":     overall,
		"version":    h.version,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready 就绪检查，仅探测硬依赖
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.pg.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	if err := h.rdb.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live 存活检查
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

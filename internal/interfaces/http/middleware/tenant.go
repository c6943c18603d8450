// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"

	"biz-advisory-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TenantContextKey 租户上下文 Key 类型
type TenantContextKey string

// TenantIDKey 租户 ID 上下文 Key
const TenantIDKey TenantContextKey = "tenant_id"

// TenantConfig 租户中间件配置
type TenantConfig struct {
	// HeaderName 从 Header 中获取租户 ID 的字段名
	HeaderName string
	// DefaultTenantID 默认租户 ID（用于开发环境）
	DefaultTenantID string
}

// Tenant 多租户上下文中间件。
// 租户 ID 取自请求头，开发环境可落到默认租户。
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Tenant-ID"
	}

	return func(c *gin.Context) {
		tenantID := c.GetHeader(cfg.HeaderName)
		if tenantID == "" {
			tenantID = cfg.DefaultTenantID
		}
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "missing tenant header: " + cfg.HeaderName,
			})
			return
		}

		c.Set("tenant_id", tenantID)

		ctx := context.WithValue(c.Request.Context(), TenantIDKey, tenantID)
		ctx = logger.WithContext(ctx, logger.TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID 从 Context 中提取租户 ID
func GetTenantID(ctx context.Context) string {
	if v := ctx.Value(TenantIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

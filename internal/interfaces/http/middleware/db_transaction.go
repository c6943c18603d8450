// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/pkg/logger"
)

type rollbackOnlyError struct {
	status int
}

func (e rollbackOnlyError) Error() string {
	return fmt.Sprintf("rollback only: status=%d", e.status)
}

// DBTransaction 为每个 HTTP 请求自动管理数据库事务。
// 成功（状态码 < 400 且无 Gin 错误）提交，否则回滚。
// 同步生成接口豁免：LLM 调用耗时长，长期占用事务会耗尽连接池，
// 此类请求在 Handler 内部按需使用短事务。
func DBTransaction(tx repository.Transactor) gin.HandlerFunc {
	if tx == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasSuffix(path, "/generate") {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
			c.Request = c.Request.WithContext(txCtx)

			c.Next()

			status := c.Writer.Status()
			if status >= http.StatusBadRequest {
				return rollbackOnlyError{status: status}
			}
			if len(c.Errors) > 0 {
				return rollbackOnlyError{status: status}
			}
			return nil
		})

		if err == nil {
			return
		}

		// 业务逻辑主动要求回滚，响应已由 Handler 写入
		var rbErr rollbackOnlyError
		if errors.As(err, &rbErr) {
			return
		}

		logger.Error(ctx, "db transaction failed", err)
		if !c.Writer.Written() && c.Writer.Status() < http.StatusBadRequest {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":     http.StatusInternalServerError,
				"message":  "internal server error",
				"trace_id": c.GetString("trace_id"),
			})
		}
	}
}

// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageRequest 分页请求参数
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize 规范化分页参数
func (r *PageRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 20
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// BindPage 从 Gin Context 绑定分页参数
func BindPage(c *gin.Context) PageRequest {
	req := PageRequest{
		Page:     parseIntWithDefault(c.Query("page"), 1),
		PageSize: parseIntWithDefault(c.Query("page_size"), 20),
	}
	req.Normalize()
	return req
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// BindTrendID 从 URI 绑定趋势 ID
func BindTrendID(c *gin.Context) string {
	return c.Param("tid")
}

// BindCompanyID 从 URI 绑定公司画像 ID
func BindCompanyID(c *gin.Context) string {
	return c.Param("cid")
}

// BindNeedID 从 URI 绑定需求 ID
func BindNeedID(c *gin.Context) string {
	return c.Param("nid")
}

// BindSolutionID 从 URI 绑定方案 ID
func BindSolutionID(c *gin.Context) string {
	return c.Param("sid")
}

// BindJobID 从 URI 绑定任务 ID
func BindJobID(c *gin.Context) string {
	return c.Param("jid")
}

// IdempotencyKeyHeader 幂等键请求头
const IdempotencyKeyHeader = "X-Idempotency-Key"

// BindIdempotencyKey 从请求头绑定幂等键
func BindIdempotencyKey(c *gin.Context) string {
	return c.GetHeader(IdempotencyKeyHeader)
}

// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/pkg/errors"
	"biz-advisory-ai-api/pkg/logger"
)

// respondAppError 将应用错误映射为统一的 HTTP 错误响应
func respondAppError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)

	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
			"error_code", string(appErr.Code),
		)
	} else {
		logger.Warn(c.Request.Context(), "request rejected",
			"path", c.Request.URL.Path,
			"error_code", string(appErr.Code),
			"error", appErr.Error(),
		)
	}

	detail := &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}

// resolveProviderModel 解析请求指定的提供商与模型，未指定时回退到配置默认值
func resolveProviderModel(cfg *config.Config, provider, model string) (string, string, error) {
	if provider == "" {
		provider = cfg.LLM.DefaultProvider
	}
	pc, ok := cfg.LLM.Providers[provider]
	if !ok {
		return "", "", errors.New(errors.CodeInvalidParam, "unknown llm provider").
			WithDetail("provider: " + provider)
	}
	if model == "" {
		model = pc.Model
	}
	return provider, model, nil
}

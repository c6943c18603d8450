// Package dto 提供 HTTP 层数据传输对象
package dto

// GenerateRequest 通用生成请求参数
type GenerateRequest struct {
	CompanyID string `json:"company_id,omitempty"`

	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

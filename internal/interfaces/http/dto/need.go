// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"biz-advisory-ai-api/internal/domain/entity"
)

// NeedResponse 需求响应
type NeedResponse struct {
	ID             string    `json:"id"`
	TrendID        string    `json:"trend_id"`
	CompanyID      string    `json:"company_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	Priority       string    `json:"priority"`
	ImpactScore    int       `json:"impact_score"`
	EffortScore    int       `json:"effort_score"`
	UrgencyScore   int       `json:"urgency_score"`
	Stakeholders   []string  `json:"stakeholders,omitempty"`
	Risks          []string  `json:"risks,omitempty"`
	SuccessMetrics []string  `json:"success_metrics,omitempty"`
	Rationale      string    `json:"rationale,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NeedListResponse 需求列表响应
type NeedListResponse struct {
	Needs []*NeedResponse `json:"needs"`
}

// GenerateNeedsResponse 同步生成需求响应
type GenerateNeedsResponse struct {
	Needs []*NeedResponse `json:"needs"`
	Usage *LLMUsage       `json:"usage,omitempty"`
}

// LLMUsage LLM 用量信息
type LLMUsage struct {
	Provider         string `json:"provider,omitempty"`
	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}

// ToNeedResponse 将领域实体转换为响应 DTO
func ToNeedResponse(n *entity.Need) *NeedResponse {
	if n == nil {
		return nil
	}
	return &NeedResponse{
		ID:             n.ID,
		TrendID:        n.TrendID,
		CompanyID:      n.CompanyID,
		Title:          n.Title,
		Description:    n.Description,
		Category:       string(n.Category),
		Priority:       string(n.Priority),
		ImpactScore:    n.ImpactScore,
		EffortScore:    n.EffortScore,
		UrgencyScore:   n.UrgencyScore,
		Stakeholders:   n.Stakeholders,
		Risks:          n.Risks,
		SuccessMetrics: n.SuccessMetrics,
		Rationale:      n.Rationale,
		CreatedAt:      n.CreatedAt,
	}
}

// ToNeedListResponse 将领域实体列表转换为响应 DTO
func ToNeedListResponse(needs []*entity.Need) *NeedListResponse {
	resp := &NeedListResponse{
		Needs: make([]*NeedResponse, 0, len(needs)),
	}
	for _, n := range needs {
		resp.Needs = append(resp.Needs, ToNeedResponse(n))
	}
	return resp
}

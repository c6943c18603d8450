// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"biz-advisory-ai-api/internal/domain/entity"
)

// CreateTrendRequest 创建趋势请求
type CreateTrendRequest struct {
	Title          string   `json:"title" binding:"required,max=256"`
	Summary        string   `json:"summary,omitempty"`
	Category       string   `json:"category,omitempty"`
	Source         string   `json:"source,omitempty"`
	SignalStrength int      `json:"signal_strength,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// UpdateTrendRequest 更新趋势请求
type UpdateTrendRequest struct {
	Title          *string  `json:"title,omitempty"`
	Summary        *string  `json:"summary,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Source         *string  `json:"source,omitempty"`
	SignalStrength *int     `json:"signal_strength,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// TrendResponse 趋势响应
type TrendResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	Category       string    `json:"category"`
	Source         string    `json:"source,omitempty"`
	SignalStrength int       `json:"signal_strength"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrendListResponse 趋势列表响应
type TrendListResponse struct {
	Trends []*TrendResponse `json:"trends"`
}

// ToTrendResponse 将领域实体转换为响应 DTO
func ToTrendResponse(t *entity.Trend) *TrendResponse {
	if t == nil {
		return nil
	}
	return &TrendResponse{
		ID:             t.ID,
		Title:          t.Title,
		Summary:        t.Summary,
		Category:       string(t.Category),
		Source:         t.Source,
		SignalStrength: t.SignalStrength,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTrendListResponse 将领域实体列表转换为响应 DTO
func ToTrendListResponse(trends []*entity.Trend) *TrendListResponse {
	resp := &TrendListResponse{
		Trends: make([]*TrendResponse, 0, len(trends)),
	}
	for _, t := range trends {
		resp.Trends = append(resp.Trends, ToTrendResponse(t))
	}
	return resp
}

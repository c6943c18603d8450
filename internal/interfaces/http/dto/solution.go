// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"biz-advisory-ai-api/internal/domain/entity"
)

// EstimatedCostDTO 成本预估
type EstimatedCostDTO struct {
	Initial float64 `json:"initial"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// ROIProjectionDTO 投资回报预估
type ROIProjectionDTO struct {
	BreakEvenMonths int     `json:"break_even_months"`
	ThreeYearReturn float64 `json:"three_year_return"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// SolutionResponse 方案响应
type SolutionResponse struct {
	ID                string           `json:"id"`
	NeedID            string           `json:"need_id"`
	Approach          string           `json:"approach"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	EstimatedCost     EstimatedCostDTO `json:"estimated_cost"`
	ROI               ROIProjectionDTO `json:"roi"`
	Benefits          []string         `json:"benefits,omitempty"`
	Requirements      []string         `json:"requirements,omitempty"`
	Risks             []string         `json:"risks,omitempty"`
	Alternatives      []string         `json:"alternatives,omitempty"`
	TimeToValueMonths int              `json:"time_to_value_months"`
	CreatedAt         time.Time        `json:"created_at"`
}

// SolutionListResponse 方案列表响应
type SolutionListResponse struct {
	Solutions []*SolutionResponse `json:"solutions"`
}

// GenerateSolutionsResponse 同步生成方案响应
type GenerateSolutionsResponse struct {
	Solutions []*SolutionResponse `json:"solutions"`
	Usage     *LLMUsage           `json:"usage,omitempty"`
}

// ToSolutionResponse 将领域实体转换为响应 DTO
func ToSolutionResponse(s *entity.Solution) *SolutionResponse {
	if s == nil {
		return nil
	}
	return &SolutionResponse{
		ID:          s.ID,
		NeedID:      s.NeedID,
		Approach:    string(s.Approach),
		Title:       s.Title,
		Description: s.Description,
		EstimatedCost: EstimatedCostDTO{
			Initial: s.EstimatedCost.Initial,
			Monthly: s.EstimatedCost.Monthly,
			Annual:  s.EstimatedCost.Annual,
		},
		ROI: ROIProjectionDTO{
			BreakEvenMonths: s.ROI.BreakEvenMonths,
			ThreeYearReturn: s.ROI.ThreeYearReturn,
			ConfidenceScore: s.ROI.ConfidenceScore,
		},
		Benefits:          s.Benefits,
		Requirements:      s.Requirements,
		Risks:             s.Risks,
		Alternatives:      s.Alternatives,
		TimeToValueMonths: s.TimeToValueMonths,
		CreatedAt:         s.CreatedAt,
	}
}

// ToSolutionListResponse 将领域实体列表转换为响应 DTO
func ToSolutionListResponse(solutions []*entity.Solution) *SolutionListResponse {
	resp := &SolutionListResponse{
		Solutions: make([]*SolutionResponse, 0, len(solutions)),
	}
	for _, s := range solutions {
		resp.Solutions = append(resp.Solutions, ToSolutionResponse(s))
	}
	return resp
}

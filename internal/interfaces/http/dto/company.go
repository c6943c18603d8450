// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"biz-advisory-ai-api/internal/domain/entity"
)

// CreateCompanyRequest 创建公司画像请求
type CreateCompanyRequest struct {
	Name         string   `json:"name" binding:"required,max=128"`
	Industry     string   `json:"industry,omitempty"`
	Size         string   `json:"size,omitempty"`
	TechMaturity int      `json:"tech_maturity,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	PainPoints   []string `json:"pain_points,omitempty"`
}

// UpdateCompanyRequest 更新公司画像请求
type UpdateCompanyRequest struct {
	Name         *string  `json:"name,omitempty"`
	Industry     *string  `json:"industry,omitempty"`
	Size         *string  `json:"size,omitempty"`
	TechMaturity *int     `json:"tech_maturity,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	PainPoints   []string `json:"pain_points,omitempty"`
}

// CompanyResponse 公司画像响应
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry,omitempty"`
	Size         string    `json:"size"`
	TechMaturity int       `json:"tech_maturity"`
	Goals        []string  `json:"goals,omitempty"`
	PainPoints   []string  `json:"pain_points,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CompanyListResponse 公司画像列表响应
type CompanyListResponse struct {
	Companies []*CompanyResponse `json:"companies"`
}

// ToCompanyResponse 将领域实体转换为响应 DTO
func ToCompanyResponse(p *entity.CompanyProfile) *CompanyResponse {
	if p == nil {
		return nil
	}
	return &CompanyResponse{
		ID:           p.ID,
		Name:         p.Name,
		Industry:     p.Industry,
		Size:         string(p.Size),
		TechMaturity: p.TechMaturity,
		Goals:        p.Goals,
		PainPoints:   p.PainPoints,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToCompanyListResponse 将领域实体列表转换为响应 DTO
func ToCompanyListResponse(profiles []*entity.CompanyProfile) *CompanyListResponse {
	resp := &CompanyListResponse{
		Companies: make([]*CompanyResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		resp.Companies = append(resp.Companies, ToCompanyResponse(p))
	}
	return resp
}

// Package entity 定义领域实体
package entity

import (
	"time"
)

// CompanySize 公司规模
type CompanySize string

const (
	CompanySizeStartup    CompanySize = "startup"
	CompanySizeSMB        CompanySize = "smb"
	CompanySizeMidMarket  CompanySize = "mid_market"
	CompanySizeEnterprise CompanySize = "enterprise"
)

// CompanyProfile 公司画像，作为需求/方案生成的上下文
type CompanyProfile struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     string      `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Name         string      `json:"name" gorm:"type:varchar(128);not null"`
	Industry     string      `json:"industry" gorm:"type:varchar(128)"`
	Size         CompanySize `json:"size" gorm:"type:varchar(32);not null;default:'smb'"`
	TechMaturity int         `json:"tech_maturity" gorm:"not null;default:5"` // 1-10
	Goals        []string    `json:"goals" gorm:"type:jsonb;serializer:json"`
	PainPoints   []string    `json:"pain_points" gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CompanyProfile) TableName() string {
	return "company_profiles"
}

// NewCompanyProfile 创建公司画像
func NewCompanyProfile(tenantID, name, industry string, size CompanySize) *CompanyProfile {
	now := time.Now()
	if size == "" {
		size = CompanySizeSMB
	}
	return &CompanyProfile{
		TenantID:     tenantID,
		Name:         name,
		Industry:     industry,
		Size:         size,
		TechMaturity: 5,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

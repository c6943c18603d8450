// Package entity 定义领域实体
package entity

import (
	"fmt"
	"time"
)

// SolutionApproach 方案路径（封闭词表）
type SolutionApproach string

const (
	SolutionApproachBuild   SolutionApproach = "build"
	SolutionApproachBuy     SolutionApproach = "buy"
	SolutionApproachPartner SolutionApproach = "partner"

	// DefaultSolutionApproach 词表外输入的兜底值
	DefaultSolutionApproach = SolutionApproachBuild
)

// 置信度评分的边界与默认值
const (
	ConfidenceMin     = 0.0
	ConfidenceMax     = 1.0
	ConfidenceDefault = 0.5
)

// EstimatedCost 方案成本预估
type EstimatedCost struct {
	Initial float64 `json:"initial"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// ROIProjection 投资回报预估
type ROIProjection struct {
	BreakEvenMonths int     `json:"break_even_months"`
	ThreeYearReturn float64 `json:"three_year_return"`
	ConfidenceScore float64 `json:"confidence_score"` // [0,1]
}

// Solution 需求的解决方案（build/buy/partner）
type Solution struct {
	ID                string           `json:"id" gorm:"type:varchar(160);primaryKey"`
	TenantID          string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	NeedID            string           `json:"need_id" gorm:"type:varchar(128);index;not null"`
	Approach          SolutionApproach `json:"approach" gorm:"type:varchar(16);not null;default:'build'"`
	Title             string           `json:"title" gorm:"type:varchar(256);not null"`
	Description       string           `json:"description" gorm:"type:text"`
	EstimatedCost     EstimatedCost    `json:"estimated_cost" gorm:"type:jsonb;serializer:json"`
	ROI               ROIProjection    `json:"roi" gorm:"type:jsonb;serializer:json"`
	Benefits          []string         `json:"benefits" gorm:"type:jsonb;serializer:json"`
	Requirements      []string         `json:"requirements" gorm:"type:jsonb;serializer:json"`
	Risks             []string         `json:"risks" gorm:"type:jsonb;serializer:json"`
	Alternatives      []string         `json:"alternatives" gorm:"type:jsonb;serializer:json"`
	TimeToValueMonths int              `json:"time_to_value_months" gorm:"not null;default:6"`
	CreatedAt         time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

func (Solution) TableName() string {
	return "solutions"
}

// NewSolutionID 根据来源需求、生成时刻与批内序号合成确定性 ID。
// 身份不取自模型输出。
func NewSolutionID(needID string, generatedAt time.Time, index int) string {
	return fmt.Sprintf("sol-%s-%d-%d", needID, generatedAt.Unix(), index)
}

// ValidSolutionApproach 检查方案路径是否在词表内
func ValidSolutionApproach(a SolutionApproach) bool {
	switch a {
	case SolutionApproachBuild, SolutionApproachBuy, SolutionApproachPartner:
		return true
	}
	return false
}

// MonthlyNetReturn 三年回报折算到月的净收益，用于简单的回收期展示
func (r ROIProjection) MonthlyNetReturn() float64 {
	return r.ThreeYearReturn / 36
}

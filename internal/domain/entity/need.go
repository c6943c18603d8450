// Package entity 定义领域实体
package entity

import (
	"fmt"
	"time"
)

// NeedCategory 需求分类（封闭词表）
type NeedCategory string

const (
	NeedCategoryAutomation         NeedCategory = "automation"
	NeedCategoryAnalytics          NeedCategory = "analytics"
	NeedCategoryCustomerExperience NeedCategory = "customer_experience"
	NeedCategoryInfrastructure     NeedCategory = "infrastructure"
	NeedCategoryCompliance         NeedCategory = "compliance"
	NeedCategoryOther              NeedCategory = "other"

	// DefaultNeedCategory 词表外输入的兜底值
	DefaultNeedCategory = NeedCategoryOther
)

// NeedPriority 需求优先级（封闭词表）
type NeedPriority string

const (
	NeedPriorityCritical NeedPriority = "critical"
	NeedPriorityHigh     NeedPriority = "high"
	NeedPriorityMedium   NeedPriority = "medium"
	NeedPriorityLow      NeedPriority = "low"

	// DefaultNeedPriority 词表外输入的兜底值
	DefaultNeedPriority = NeedPriorityMedium
)

// 评分字段的边界与默认值
const (
	ScoreMin     = 1
	ScoreMax     = 10
	ScoreDefault = 5
)

// Need 公司需求，由趋势经 LLM 推导得出
type Need struct {
	ID             string       `json:"id" gorm:"type:varchar(128);primaryKey"`
	TenantID       string       `json:"tenant_id" gorm:"type:uuid;index;not null"`
	TrendID        string       `json:"trend_id" gorm:"type:uuid;index;not null"`
	CompanyID      string       `json:"company_id" gorm:"type:uuid;index"`
	Title          string       `json:"title" gorm:"type:varchar(256);not null"`
	Description    string       `json:"description" gorm:"type:text"`
	Category       NeedCategory `json:"category" gorm:"type:varchar(32);not null;default:'other'"`
	Priority       NeedPriority `json:"priority" gorm:"type:varchar(16);not null;default:'medium'"`
	ImpactScore    int          `json:"impact_score" gorm:"not null;default:5"`
	EffortScore    int          `json:"effort_score" gorm:"not null;default:5"`
	UrgencyScore   int          `json:"urgency_score" gorm:"not null;default:5"`
	Stakeholders   []string     `json:"stakeholders" gorm:"type:jsonb;serializer:json"`
	Risks          []string     `json:"risks" gorm:"type:jsonb;serializer:json"`
	SuccessMetrics []string     `json:"success_metrics" gorm:"type:jsonb;serializer:json"`
	Rationale      string       `json:"rationale" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

func (Need) TableName() string {
	return "needs"
}

// NewNeedID 根据来源趋势、生成时刻与批内序号合成确定性 ID。
// 身份不取自模型输出。
func NewNeedID(trendID string, generatedAt time.Time, index int) string {
	return fmt.Sprintf("need-%s-%d-%d", trendID, generatedAt.Unix(), index)
}

// ValidNeedCategory 检查分类是否在词表内
func ValidNeedCategory(c NeedCategory) bool {
	switch c {
	case NeedCategoryAutomation, NeedCategoryAnalytics, NeedCategoryCustomerExperience,
		NeedCategoryInfrastructure, NeedCategoryCompliance, NeedCategoryOther:
		return true
	}
	return false
}

// ValidNeedPriority 检查优先级是否在词表内
func ValidNeedPriority(p NeedPriority) bool {
	switch p {
	case NeedPriorityCritical, NeedPriorityHigh, NeedPriorityMedium, NeedPriorityLow:
		return true
	}
	return false
}

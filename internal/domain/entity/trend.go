// Package entity 定义领域实体
package entity

import (
	"time"

	"gorm.io/gorm"
)

// TrendCategory 趋势分类
type TrendCategory string

const (
	TrendCategoryTechnology TrendCategory = "technology"
	TrendCategoryMarket     TrendCategory = "market"
	TrendCategoryRegulatory TrendCategory = "regulatory"
	TrendCategoryConsumer   TrendCategory = "consumer"
	TrendCategoryWorkforce  TrendCategory = "workforce"
)

// Trend 市场趋势，需求生成的上游输入
type Trend struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       string         `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Title          string         `json:"title" gorm:"type:varchar(256);not null"`
	Summary        string         `json:"summary" gorm:"type:text"`
	Category       TrendCategory  `json:"category" gorm:"type:varchar(32);not null;default:'technology'"`
	Source         string         `json:"source" gorm:"type:varchar(256)"`
	SignalStrength int            `json:"signal_strength" gorm:"not null;default:5"` // 1-10
	Tags           []string       `json:"tags" gorm:"type:jsonb;serializer:json"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Trend) TableName() string {
	return "trends"
}

// NewTrend 创建趋势
func NewTrend(tenantID, title, summary string, category TrendCategory) *Trend {
	now := time.Now()
	if category == "" {
		category = TrendCategoryTechnology
	}
	return &Trend{
		TenantID:       tenantID,
		Title:          title,
		Summary:        summary,
		Category:       category,
		SignalStrength: 5,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// EmbeddingText 拼接用于向量化的文本
func (t *Trend) EmbeddingText() string {
	if t.Summary == "" {
		return t.Title
	}
	return t.Title + "\n" + t.Summary
}

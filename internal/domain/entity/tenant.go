// Package entity 定义领域实体
package entity

import (
	"time"
)

// Tenant 租户
type Tenant struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(128);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant 创建租户
func NewTenant(name, slug string) *Tenant {
	now := time.Now()
	return &Tenant{
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

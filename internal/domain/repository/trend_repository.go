// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"biz-advisory-ai-api/internal/domain/entity"
)

// TrendFilter 趋势过滤条件
type TrendFilter struct {
	Category entity.TrendCategory
	Source   string
}

// TrendRepository 趋势仓储接口
type TrendRepository interface {
	// Create 创建趋势
	Create(ctx context.Context, trend *entity.Trend) error

	// GetByID 根据 ID 获取趋势
	GetByID(ctx context.Context, id string) (*entity.Trend, error)

	// Update 更新趋势
	Update(ctx context.Context, trend *entity.Trend) error

	// Delete 删除趋势
	Delete(ctx context.Context, id string) error

	// List 获取趋势列表
	List(ctx context.Context, tenantID string, filter *TrendFilter, pagination Pagination) (*PagedResult[*entity.Trend], error)
}

// TenantRepository 租户仓储接口
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// CompanyRepository 公司画像仓储接口
type CompanyRepository interface {
	Create(ctx context.Context, profile *entity.CompanyProfile) error
	GetByID(ctx context.Context, id string) (*entity.CompanyProfile, error)
	Update(ctx context.Context, profile *entity.CompanyProfile) error
	List(ctx context.Context, tenantID string, pagination Pagination) (*PagedResult[*entity.CompanyProfile], error)
}

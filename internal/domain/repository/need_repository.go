// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"biz-advisory-ai-api/internal/domain/entity"
)

// NeedRepository 需求仓储接口
type NeedRepository interface {
	// CreateBatch 批量写入一次生成的需求
	CreateBatch(ctx context.Context, needs []*entity.Need) error

	// GetByID 根据 ID 获取需求
	GetByID(ctx context.Context, id string) (*entity.Need, error)

	// ListByTrend 获取趋势下的需求列表
	ListByTrend(ctx context.Context, trendID string, pagination Pagination) (*PagedResult[*entity.Need], error)

	// Delete 删除需求
	Delete(ctx context.Context, id string) error
}

// SolutionRepository 方案仓储接口
type SolutionRepository interface {
	// CreateBatch 批量写入一次生成的方案
	CreateBatch(ctx context.Context, solutions []*entity.Solution) error

	// GetByID 根据 ID 获取方案
	GetByID(ctx context.Context, id string) (*entity.Solution, error)

	// ListByNeed 获取需求下的方案列表
	ListByNeed(ctx context.Context, needID string, pagination Pagination) (*PagedResult[*entity.Solution], error)

	// Delete 删除方案
	Delete(ctx context.Context, id string) error
}

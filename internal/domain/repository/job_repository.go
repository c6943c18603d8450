// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"biz-advisory-ai-api/internal/domain/entity"
)

// JobFilter 任务过滤条件
type JobFilter struct {
	JobType entity.JobType
	Status  entity.JobStatus
	TrendID *string
}

// JobRepository 生成任务仓储接口
type JobRepository interface {
	// Create 创建任务
	Create(ctx context.Context, job *entity.GenerationJob) error

	// GetByID 根据 ID 获取任务
	GetByID(ctx context.Context, id string) (*entity.GenerationJob, error)

	// Update 更新任务
	Update(ctx context.Context, job *entity.GenerationJob) error

	// List 获取租户任务列表
	List(ctx context.Context, tenantID string, filter *JobFilter, pagination Pagination) (*PagedResult[*entity.GenerationJob], error)

	// GetByIdempotencyKey 根据幂等键获取任务
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.GenerationJob, error)

	// UpdateStatus 更新任务状态
	UpdateStatus(ctx context.Context, id string, status entity.JobStatus) error
}

// Package jobs 提供生成任务的编排：入队、幂等、worker 执行。
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/infrastructure/messaging"
	apperrors "biz-advisory-ai-api/pkg/errors"
	"biz-advisory-ai-api/pkg/logger"
)

// GenParams 生成任务参数，序列化后存入 input_params。
type GenParams struct {
	CompanyID   string   `json:"company_id,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Service 任务入队服务
type Service struct {
	jobs     repository.JobRepository
	producer *messaging.Producer
}

// NewService 创建任务入队服务
func NewService(jobs repository.JobRepository, producer *messaging.Producer) *Service {
	return &Service{
		jobs:     jobs,
		producer: producer,
	}
}

// EnqueueNeedsGen 入队需求生成任务。
// 幂等键命中未完结的同类任务时直接复用，避免重复生成。
func (s *Service) EnqueueNeedsGen(ctx context.Context, tenantID, trendID string, params *GenParams, idempotencyKey string) (*entity.GenerationJob, bool, error) {
	return s.enqueue(ctx, entity.JobTypeNeedsGen, tenantID, trendID, "", params, idempotencyKey)
}

// EnqueueSolutionsGen 入队方案生成任务
func (s *Service) EnqueueSolutionsGen(ctx context.Context, tenantID, needID string, params *GenParams, idempotencyKey string) (*entity.GenerationJob, bool, error) {
	return s.enqueue(ctx, entity.JobTypeSolutionsGen, tenantID, "", needID, params, idempotencyKey)
}

func (s *Service) enqueue(ctx context.Context, jobType entity.JobType, tenantID, trendID, needID string, params *GenParams, idempotencyKey string) (*entity.GenerationJob, bool, error) {
	if idempotencyKey != "" {
		existing, err := s.jobs.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, false, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to check idempotency key")
		}
		if existing != nil && existing.Status != entity.JobStatusFailed && existing.Status != entity.JobStatusCancelled {
			logger.Info(ctx, "generation job reused by idempotency key",
				"job_id", existing.ID,
				"idempotency_key", idempotencyKey,
			)
			return existing, true, nil
		}
	}

	if params == nil {
		params = &GenParams{}
	}
	inputParams, err := json.Marshal(params)
	if err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to marshal job params")
	}

	job := entity.NewGenerationJob(tenantID, jobType, inputParams)
	job.TrendID = trendID
	job.NeedID = needID
	job.IdempotencyKey = idempotencyKey

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create job")
	}

	msg := &messaging.GenerationJobMessage{
		JobID:          job.ID,
		TenantID:       tenantID,
		TrendID:        trendID,
		NeedID:         needID,
		CompanyID:      params.CompanyID,
		JobType:        string(jobType),
		Priority:       job.Priority,
		IdempotencyKey: idempotencyKey,
	}
	if _, err := s.producer.PublishGenJob(ctx, msg); err != nil {
		// 任务已落库但未入队，标记失败便于排查
		job.Fail(fmt.Sprintf("failed to publish job message: %v", err))
		if updateErr := s.jobs.Update(ctx, job); updateErr != nil {
			logger.Error(ctx, "failed to mark unpublished job as failed", updateErr, "job_id", job.ID)
		}
		return nil, false, apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to enqueue generation job")
	}

	logger.Info(ctx, "generation job enqueued",
		"job_id", job.ID,
		"job_type", jobType,
	)
	return job, false, nil
}

// EnqueueTrendIndex 入队趋势向量索引任务。
// 索引是派生数据，不记任务表，失败靠消息重试兜底。
func (s *Service) EnqueueTrendIndex(ctx context.Context, tenantID, trendID string) error {
	_, err := s.producer.PublishTrendIndex(ctx, &messaging.TrendIndexMessage{
		TenantID: tenantID,
		TrendID:  trendID,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to enqueue trend index")
	}
	return nil
}

// GetJob 获取任务详情
func (s *Service) GetJob(ctx context.Context, id string) (*entity.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load job")
	}
	if job == nil {
		return nil, apperrors.ErrJobNotFound
	}
	return job, nil
}

// CancelJob 取消任务。只有 pending 任务可取消；
// running 任务已被 worker 持有，取消窗口已过。
func (s *Service) CancelJob(ctx context.Context, id string) (*entity.GenerationJob, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.JobStatusPending {
		return nil, apperrors.New(apperrors.CodeConflict, "job cannot be cancelled").
			WithDetail("status: " + string(job.Status))
	}
	if err := s.jobs.UpdateStatus(ctx, id, entity.JobStatusCancelled); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to cancel job")
	}
	job.Status = entity.JobStatusCancelled
	logger.Info(ctx, "generation job cancelled", "job_id", id)
	return job, nil
}

// ListJobs 获取租户任务列表
func (s *Service) ListJobs(ctx context.Context, tenantID string, filter *repository.JobFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationJob], error) {
	result, err := s.jobs.List(ctx, tenantID, filter, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list jobs")
	}
	return result, nil
}

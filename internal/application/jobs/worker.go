package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"biz-advisory-ai-api/internal/application/advisory/needs"
	"biz-advisory-ai-api/internal/application/advisory/solutions"
	"biz-advisory-ai-api/internal/application/research"
	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/infrastructure/messaging"
	"biz-advisory-ai-api/pkg/logger"
)

// Worker 消费生成任务并驱动具体管线执行
type Worker struct {
	jobs         repository.JobRepository
	trends       repository.TrendRepository
	needsGen     *needs.Generator
	solutionsGen *solutions.Generator
	research     *research.Service
}

// NewWorker 创建任务执行器
func NewWorker(
	jobs repository.JobRepository,
	trends repository.TrendRepository,
	needsGen *needs.Generator,
	solutionsGen *solutions.Generator,
	researchSvc *research.Service,
) *Worker {
	return &Worker{
		jobs:         jobs,
		trends:       trends,
		needsGen:     needsGen,
		solutionsGen: solutionsGen,
		research:     researchSvc,
	}
}

// RegisterGenHandlers 注册生成任务处理器
func (w *Worker) RegisterGenHandlers(consumer *messaging.Consumer) {
	consumer.RegisterHandler(string(entity.JobTypeNeedsGen), w.handleNeedsGen)
	consumer.RegisterHandler(string(entity.JobTypeSolutionsGen), w.handleSolutionsGen)
}

// RegisterIndexHandlers 注册趋势索引处理器
func (w *Worker) RegisterIndexHandlers(consumer *messaging.Consumer) {
	consumer.RegisterHandler("trend_index", w.handleTrendIndex)
}

func (w *Worker) handleNeedsGen(ctx context.Context, msg *messaging.Message) error {
	job, params, err := w.loadJob(ctx, msg)
	if err != nil || job == nil {
		return err
	}

	out, genErr := w.needsGen.Generate(ctx, &needs.GenerateInput{
		TenantID:    job.TenantID,
		TrendID:     job.TrendID,
		CompanyID:   params.CompanyID,
		Provider:    params.Provider,
		Model:       params.Model,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if genErr != nil {
		return w.failJob(ctx, job, genErr)
	}

	ids := make([]string, 0, len(out.Needs))
	for _, n := range out.Needs {
		ids = append(ids, n.ID)
	}
	return w.completeJob(ctx, job, map[string]interface{}{
		"need_ids": ids,
		"count":    len(ids),
	}, out.Meta.Provider, out.Meta.Model, out.Meta.PromptTokens, out.Meta.CompletionTokens)
}

func (w *Worker) handleSolutionsGen(ctx context.Context, msg *messaging.Message) error {
	job, params, err := w.loadJob(ctx, msg)
	if err != nil || job == nil {
		return err
	}

	out, genErr := w.solutionsGen.Generate(ctx, &solutions.GenerateInput{
		TenantID:    job.TenantID,
		NeedID:      job.NeedID,
		Provider:    params.Provider,
		Model:       params.Model,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if genErr != nil {
		return w.failJob(ctx, job, genErr)
	}

	ids := make([]string, 0, len(out.Solutions))
	for _, s := range out.Solutions {
		ids = append(ids, s.ID)
	}
	return w.completeJob(ctx, job, map[string]interface{}{
		"solution_ids": ids,
		"count":        len(ids),
	}, out.Meta.Provider, out.Meta.Model, out.Meta.PromptTokens, out.Meta.CompletionTokens)
}

func (w *Worker) handleTrendIndex(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.TrendIndexMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		logger.Error(ctx, "invalid trend index payload, dropped", err, "message_id", msg.ID)
		return nil
	}

	if !w.research.Enabled() {
		// 向量能力未启用，重试也不会成功
		logger.Warn(ctx, "vector indexing disabled, message dropped", "trend_id", payload.TrendID)
		return nil
	}

	trend, err := w.trends.GetByID(ctx, payload.TrendID)
	if err != nil {
		return fmt.Errorf("failed to load trend: %w", err)
	}
	if trend == nil {
		// 趋势已删除，索引无需补建
		logger.Warn(ctx, "trend gone before indexing, skipped", "trend_id", payload.TrendID)
		return nil
	}

	return w.research.IndexTrend(ctx, trend)
}

// loadJob 解析消息并载入任务记录。
// 返回 (nil, nil, nil) 表示消息应被确认丢弃（任务不存在或已完结）。
func (w *Worker) loadJob(ctx context.Context, msg *messaging.Message) (*entity.GenerationJob, *GenParams, error) {
	var payload messaging.GenerationJobMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		logger.Error(ctx, "invalid generation job payload, dropped", err, "message_id", msg.ID)
		return nil, nil, nil
	}

	job, err := w.jobs.GetByID(ctx, payload.JobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		logger.Warn(ctx, "job record not found, message dropped", "job_id", payload.JobID)
		return nil, nil, nil
	}
	if job.Status == entity.JobStatusCompleted || job.Status == entity.JobStatusCancelled {
		logger.Info(ctx, "job already finished, skipped", "job_id", job.ID, "status", job.Status)
		return nil, nil, nil
	}

	var params GenParams
	if len(job.InputParams) > 0 {
		if err := json.Unmarshal(job.InputParams, &params); err != nil {
			logger.Warn(ctx, "failed to decode job params, continue with defaults", "job_id", job.ID, "error", err.Error())
		}
	}

	// 重试的消息会带着 failed 状态的任务回来，重新置为运行中
	job.Start()
	if err := w.jobs.Update(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("failed to mark job running: %w", err)
	}

	return job, &params, nil
}

func (w *Worker) completeJob(ctx context.Context, job *entity.GenerationJob, result map[string]interface{}, provider, model string, promptTokens, completionTokens int) error {
	output, err := json.Marshal(result)
	if err != nil {
		output = []byte(`{}`)
	}

	job.SetLLMMetrics(provider, model, promptTokens, completionTokens)
	job.Complete(output)

	if err := w.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job completion: %w", err)
	}

	logger.Info(ctx, "generation job completed",
		"job_id", job.ID,
		"job_type", job.JobType,
		"duration_ms", job.DurationMs,
	)
	return nil
}

// failJob 持久化失败状态并把原始错误抛回消费循环，由其决定退避重试或进入死信。
func (w *Worker) failJob(ctx context.Context, job *entity.GenerationJob, genErr error) error {
	job.Fail(genErr.Error())
	job.RetryCount++

	if err := w.jobs.Update(ctx, job); err != nil {
		logger.Error(ctx, "failed to persist job failure", err, "job_id", job.ID)
	}

	return genErr
}

// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
)

// JobRepository 生成任务仓储实现
type JobRepository struct {
	client *Client
}

// NewJobRepository 创建任务仓储
func NewJobRepository(client *Client) *JobRepository {
	return &JobRepository{client: client}
}

// Create 创建任务
func (r *JobRepository) Create(ctx context.Context, job *entity.GenerationJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		INSERT INTO generation_jobs (id, tenant_id, trend_id, need_id, job_type, status, priority,
			input_params, retry_count, idempotency_key, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRowContext(ctx, query,
		job.TenantID, nullableString(job.TrendID), nullableString(job.NeedID),
		job.JobType, job.Status, job.Priority, []byte(job.InputParams),
		job.RetryCount, nullableString(job.IdempotencyKey),
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取任务
func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.GenerationJob, error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	j, err := scanJob(q.QueryRowContext(ctx, jobSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// Update 更新任务（状态、结果、LLM 用量）
func (r *JobRepository) Update(ctx context.Context, job *entity.GenerationJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		UPDATE generation_jobs
		SET status = $2, output_result = $3, error_message = $4,
			llm_provider = $5, llm_model = $6, tokens_prompt = $7, tokens_completion = $8,
			duration_ms = $9, retry_count = $10, started_at = $11, completed_at = $12, updated_at = NOW()
		WHERE id = $1
	`
	res, err := q.ExecContext(ctx, query,
		job.ID, job.Status, []byte(job.OutputResult), job.ErrorMessage,
		job.LLMProvider, job.LLMModel, job.TokensPrompt, job.TokensComplete,
		job.DurationMs, job.RetryCount, job.StartedAt, job.CompletedAt,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	return nil
}

// List 获取租户任务列表
func (r *JobRepository) List(ctx context.Context, tenantID string, filter *repository.JobFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationJob], error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.List")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	where := `WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if filter != nil {
		if filter.JobType != "" {
			args = append(args, filter.JobType)
			where += fmt.Sprintf(" AND job_type = $%d", len(args))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			where += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filter.TrendID != nil {
			args = append(args, *filter.TrendID)
			where += fmt.Sprintf(" AND trend_id = $%d", len(args))
		}
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM generation_jobs `+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	args = append(args, pagination.Limit(), pagination.Offset())
	query := fmt.Sprintf(`%s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobSelect, where, len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.GenerationJob, 0, pagination.Limit())
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		items = append(items, j)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

// GetByIdempotencyKey 根据幂等键获取任务
func (r *JobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.GenerationJob, error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.GetByIdempotencyKey")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	j, err := scanJob(q.QueryRowContext(ctx, jobSelect+` WHERE idempotency_key = $1 ORDER BY created_at DESC LIMIT 1`, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get job by idempotency key: %w", err)
	}
	return j, nil
}

// UpdateStatus 更新任务状态
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status entity.JobStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.UpdateStatus")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	res, err := q.ExecContext(ctx, `UPDATE generation_jobs SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

const jobSelect = `
	SELECT id, tenant_id, trend_id, need_id, job_type, status, priority,
		input_params, output_result, error_message, llm_provider, llm_model,
		tokens_prompt, tokens_completion, duration_ms, retry_count, idempotency_key,
		created_at, updated_at, started_at, completed_at
	FROM generation_jobs`

func scanJob(row rowScanner) (*entity.GenerationJob, error) {
	var j entity.GenerationJob
	var trendID, needID, errMsg, provider, model, idemKey sql.NullString
	var inputParams, outputResult []byte

	err := row.Scan(
		&j.ID, &j.TenantID, &trendID, &needID, &j.JobType, &j.Status, &j.Priority,
		&inputParams, &outputResult, &errMsg, &provider, &model,
		&j.TokensPrompt, &j.TokensComplete, &j.DurationMs, &j.RetryCount, &idemKey,
		&j.CreatedAt, &j.UpdatedAt, &j.StartedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	j.TrendID = trendID.String
	j.NeedID = needID.String
	j.ErrorMessage = errMsg.String
	j.LLMProvider = provider.String
	j.LLMModel = model.String
	j.IdempotencyKey = idemKey.String
	j.InputParams = inputParams
	j.OutputResult = outputResult
	return &j, nil
}

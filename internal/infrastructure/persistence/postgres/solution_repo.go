// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
)

// SolutionRepository 方案仓储实现
type SolutionRepository struct {
	client *Client
}

// NewSolutionRepository 创建方案仓储
func NewSolutionRepository(client *Client) *SolutionRepository {
	return &SolutionRepository{client: client}
}

// CreateBatch 批量写入一次生成的方案
func (r *SolutionRepository) CreateBatch(ctx context.Context, solutions []*entity.Solution) error {
	ctx, span := tracer.Start(ctx, "postgres.SolutionRepository.CreateBatch")
	defer span.End()

	if len(solutions) == 0 {
		return nil
	}

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		INSERT INTO solutions (id, tenant_id, need_id, approach, title, description, estimated_cost, roi,
			benefits, requirements, risks, alternatives, time_to_value_months, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, s := range solutions {
		costJSON, _ := json.Marshal(s.EstimatedCost)
		roiJSON, _ := json.Marshal(s.ROI)
		benefitsJSON, _ := json.Marshal(s.Benefits)
		requirementsJSON, _ := json.Marshal(s.Requirements)
		risksJSON, _ := json.Marshal(s.Risks)
		alternativesJSON, _ := json.Marshal(s.Alternatives)

		if _, err := q.ExecContext(ctx, query,
			s.ID, s.TenantID, s.NeedID, s.Approach, s.Title, s.Description,
			costJSON, roiJSON, benefitsJSON, requirementsJSON, risksJSON, alternativesJSON,
			s.TimeToValueMonths, s.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to insert solution %s: %w", s.ID, err)
		}
	}
	return nil
}

// GetByID 根据 ID 获取方案
func (r *SolutionRepository) GetByID(ctx context.Context, id string) (*entity.Solution, error) {
	ctx, span := tracer.Start(ctx, "postgres.SolutionRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, tenant_id, need_id, approach, title, description, estimated_cost, roi,
			benefits, requirements, risks, alternatives, time_to_value_months, created_at
		FROM solutions
		WHERE id = $1
	`
	s, err := scanSolution(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return s, nil
}

// ListByNeed 获取需求下的方案列表
func (r *SolutionRepository) ListByNeed(ctx context.Context, needID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Solution], error) {
	ctx, span := tracer.Start(ctx, "postgres.SolutionRepository.ListByNeed")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM solutions WHERE need_id = $1`, needID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count solutions: %w", err)
	}

	query := `
		SELECT id, tenant_id, need_id, approach, title, description, estimated_cost, roi,
			benefits, requirements, risks, alternatives, time_to_value_months, created_at
		FROM solutions
		WHERE need_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := q.QueryContext(ctx, query, needID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Solution, 0, pagination.Limit())
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan solution: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate solutions: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

// Delete 删除方案
func (r *SolutionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.SolutionRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM solutions WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete solution: %w", err)
	}
	return nil
}

func scanSolution(row rowScanner) (*entity.Solution, error) {
	var s entity.Solution
	var costJSON, roiJSON, benefitsJSON, requirementsJSON, risksJSON, alternativesJSON []byte

	err := row.Scan(
		&s.ID, &s.TenantID, &s.NeedID, &s.Approach, &s.Title, &s.Description,
		&costJSON, &roiJSON, &benefitsJSON, &requirementsJSON, &risksJSON, &alternativesJSON,
		&s.TimeToValueMonths, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(costJSON) > 0 {
		_ = json.Unmarshal(costJSON, &s.EstimatedCost)
	}
	if len(roiJSON) > 0 {
		_ = json.Unmarshal(roiJSON, &s.ROI)
	}
	if len(benefitsJSON) > 0 {
		_ = json.Unmarshal(benefitsJSON, &s.Benefits)
	}
	if len(requirementsJSON) > 0 {
		_ = json.Unmarshal(requirementsJSON, &s.Requirements)
	}
	if len(risksJSON) > 0 {
		_ = json.Unmarshal(risksJSON, &s.Risks)
	}
	if len(alternativesJSON) > 0 {
		_ = json.Unmarshal(alternativesJSON, &s.Alternatives)
	}
	return &s, nil
}

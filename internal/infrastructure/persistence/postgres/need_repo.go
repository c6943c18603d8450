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

// NeedRepository 需求仓储实现
type NeedRepository struct {
	client *Client
}

// NewNeedRepository 创建需求仓储
func NewNeedRepository(client *Client) *NeedRepository {
	return &NeedRepository{client: client}
}

// CreateBatch 批量写入一次生成的需求。ID 已由管线确定性合成，重复写入直接冲突报错。
func (r *NeedRepository) CreateBatch(ctx context.Context, needs []*entity.Need) error {
	ctx, span := tracer.Start(ctx, "postgres.NeedRepository.CreateBatch")
	defer span.End()

	if len(needs) == 0 {
		return nil
	}

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		INSERT INTO needs (id, tenant_id, trend_id, company_id, title, description, category, priority,
			impact_score, effort_score, urgency_score, stakeholders, risks, success_metrics, rationale, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	for _, n := range needs {
		stakeholdersJSON, _ := json.Marshal(n.Stakeholders)
		risksJSON, _ := json.Marshal(n.Risks)
		metricsJSON, _ := json.Marshal(n.SuccessMetrics)

		if _, err := q.ExecContext(ctx, query,
			n.ID, n.TenantID, n.TrendID, nullableString(n.CompanyID), n.Title, n.Description,
			n.Category, n.Priority, n.ImpactScore, n.EffortScore, n.UrgencyScore,
			stakeholdersJSON, risksJSON, metricsJSON, n.Rationale, n.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to insert need %s: %w", n.ID, err)
		}
	}
	return nil
}

// GetByID 根据 ID 获取需求
func (r *NeedRepository) GetByID(ctx context.Context, id string) (*entity.Need, error) {
	ctx, span := tracer.Start(ctx, "postgres.NeedRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, tenant_id, trend_id, company_id, title, description, category, priority,
			impact_score, effort_score, urgency_score, stakeholders, risks, success_metrics, rationale, created_at
		FROM needs
		WHERE id = $1
	`
	n, err := scanNeed(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get need: %w", err)
	}
	return n, nil
}

// ListByTrend 获取趋势下的需求列表
func (r *NeedRepository) ListByTrend(ctx context.Context, trendID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Need], error) {
	ctx, span := tracer.Start(ctx, "postgres.NeedRepository.ListByTrend")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM needs WHERE trend_id = $1`, trendID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count needs: %w", err)
	}

	query := `
		SELECT id, tenant_id, trend_id, company_id, title, description, category, priority,
			impact_score, effort_score, urgency_score, stakeholders, risks, success_metrics, rationale, created_at
		FROM needs
		WHERE trend_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := q.QueryContext(ctx, query, trendID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list needs: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Need, 0, pagination.Limit())
	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate needs: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

// Delete 删除需求
func (r *NeedRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.NeedRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	if _, err := q.ExecContext(ctx, `DELETE FROM needs WHERE id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete need: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNeed(row rowScanner) (*entity.Need, error) {
	var n entity.Need
	var companyID sql.NullString
	var stakeholdersJSON, risksJSON, metricsJSON []byte

	err := row.Scan(
		&n.ID, &n.TenantID, &n.TrendID, &companyID, &n.Title, &n.Description,
		&n.Category, &n.Priority, &n.ImpactScore, &n.EffortScore, &n.UrgencyScore,
		&stakeholdersJSON, &risksJSON, &metricsJSON, &n.Rationale, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.CompanyID = companyID.String
	if len(stakeholdersJSON) > 0 {
		_ = json.Unmarshal(stakeholdersJSON, &n.Stakeholders)
	}
	if len(risksJSON) > 0 {
		_ = json.Unmarshal(risksJSON, &n.Risks)
	}
	if len(metricsJSON) > 0 {
		_ = json.Unmarshal(metricsJSON, &n.SuccessMetrics)
	}
	return &n, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

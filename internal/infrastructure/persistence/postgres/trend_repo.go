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

// TrendRepository 趋势仓储实现
type TrendRepository struct {
	client *Client
}

// NewTrendRepository 创建趋势仓储
func NewTrendRepository(client *Client) *TrendRepository {
	return &TrendRepository{client: client}
}

// Create 创建趋势
func (r *TrendRepository) Create(ctx context.Context, trend *entity.Trend) error {
	ctx, span := tracer.Start(ctx, "postgres.TrendRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	tagsJSON, _ := json.Marshal(trend.Tags)

	query := `
		INSERT INTO trends (id, tenant_id, title, summary, category, source, signal_strength, tags, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRowContext(ctx, query,
		trend.TenantID, trend.Title, trend.Summary, trend.Category,
		trend.Source, trend.SignalStrength, tagsJSON,
	).Scan(&trend.ID, &trend.CreatedAt, &trend.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create trend: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取趋势（软删除的记录不返回）
func (r *TrendRepository) GetByID(ctx context.Context, id string) (*entity.Trend, error) {
	ctx, span := tracer.Start(ctx, "postgres.TrendRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, tenant_id, title, summary, category, source, signal_strength, tags, created_at, updated_at
		FROM trends
		WHERE id = $1 AND deleted_at IS NULL
	`
	var t entity.Trend
	var tagsJSON []byte
	err := q.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TenantID, &t.Title, &t.Summary, &t.Category,
		&t.Source, &t.SignalStrength, &tagsJSON, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get trend: %w", err)
	}
	if len(tagsJSON) > 0 {
		_ = json.Unmarshal(tagsJSON, &t.Tags)
	}
	return &t, nil
}

// Update 更新趋势
func (r *TrendRepository) Update(ctx context.Context, trend *entity.Trend) error {
	ctx, span := tracer.Start(ctx, "postgres.TrendRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	tagsJSON, _ := json.Marshal(trend.Tags)

	query := `
		UPDATE trends
		SET title = $2, summary = $3, category = $4, source = $5, signal_strength = $6, tags = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := q.ExecContext(ctx, query,
		trend.ID, trend.Title, trend.Summary, trend.Category,
		trend.Source, trend.SignalStrength, tagsJSON,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update trend: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trend not found: %s", trend.ID)
	}
	return nil
}

// Delete 软删除趋势
func (r *TrendRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.TrendRepository.Delete")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	_, err := q.ExecContext(ctx, `UPDATE trends SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete trend: %w", err)
	}
	return nil
}

// List 获取趋势列表
func (r *TrendRepository) List(ctx context.Context, tenantID string, filter *repository.TrendFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Trend], error) {
	ctx, span := tracer.Start(ctx, "postgres.TrendRepository.List")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	where := `WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}
	if filter != nil {
		if filter.Category != "" {
			args = append(args, filter.Category)
			where += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filter.Source != "" {
			args = append(args, filter.Source)
			where += fmt.Sprintf(" AND source = $%d", len(args))
		}
	}

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trends `+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count trends: %w", err)
	}

	args = append(args, pagination.Limit(), pagination.Offset())
	query := fmt.Sprintf(`
		SELECT id, tenant_id, title, summary, category, source, signal_strength, tags, created_at, updated_at
		FROM trends %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list trends: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Trend, 0, pagination.Limit())
	for rows.Next() {
		var t entity.Trend
		var tagsJSON []byte
		if err := rows.Scan(
			&t.ID, &t.TenantID, &t.Title, &t.Summary, &t.Category,
			&t.Source, &t.SignalStrength, &tagsJSON, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		if len(tagsJSON) > 0 {
			_ = json.Unmarshal(tagsJSON, &t.Tags)
		}
		items = append(items, &t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate trends: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

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

// CompanyRepository 公司画像仓储实现
type CompanyRepository struct {
	client *Client
}

// NewCompanyRepository 创建公司画像仓储
func NewCompanyRepository(client *Client) *CompanyRepository {
	return &CompanyRepository{client: client}
}

// Create 创建公司画像
func (r *CompanyRepository) Create(ctx context.Context, profile *entity.CompanyProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.CompanyRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	goalsJSON, _ := json.Marshal(profile.Goals)
	painsJSON, _ := json.Marshal(profile.PainPoints)

	query := `
		INSERT INTO company_profiles (id, tenant_id, name, industry, size, tech_maturity, goals, pain_points, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRowContext(ctx, query,
		profile.TenantID, profile.Name, profile.Industry, profile.Size,
		profile.TechMaturity, goalsJSON, painsJSON,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create company profile: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取公司画像
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.CompanyProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.CompanyRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	query := `
		SELECT id, tenant_id, name, industry, size, tech_maturity, goals, pain_points, created_at, updated_at
		FROM company_profiles
		WHERE id = $1
	`
	var p entity.CompanyProfile
	var goalsJSON, painsJSON []byte
	err := q.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Industry, &p.Size,
		&p.TechMaturity, &goalsJSON, &painsJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	if len(goalsJSON) > 0 {
		_ = json.Unmarshal(goalsJSON, &p.Goals)
	}
	if len(painsJSON) > 0 {
		_ = json.Unmarshal(painsJSON, &p.PainPoints)
	}
	return &p, nil
}

// Update 更新公司画像
func (r *CompanyRepository) Update(ctx context.Context, profile *entity.CompanyProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.CompanyRepository.Update")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	goalsJSON, _ := json.Marshal(profile.Goals)
	painsJSON, _ := json.Marshal(profile.PainPoints)

	query := `
		UPDATE company_profiles
		SET name = $2, industry = $3, size = $4, tech_maturity = $5, goals = $6, pain_points = $7, updated_at = NOW()
		WHERE id = $1
	`
	res, err := q.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Industry, profile.Size,
		profile.TechMaturity, goalsJSON, painsJSON,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update company profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("company profile not found: %s", profile.ID)
	}
	return nil
}

// List 获取租户下的公司画像列表
func (r *CompanyRepository) List(ctx context.Context, tenantID string, pagination repository.Pagination) (*repository.PagedResult[*entity.CompanyProfile], error) {
	ctx, span := tracer.Start(ctx, "postgres.CompanyRepository.List")
	defer span.End()

	q := getQuerier(ctx, r.client.sqlDB)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM company_profiles WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count company profiles: %w", err)
	}

	query := `
		SELECT id, tenant_id, name, industry, size, tech_maturity, goals, pain_points, created_at, updated_at
		FROM company_profiles
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.QueryContext(ctx, query, tenantID, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list company profiles: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.CompanyProfile, 0, pagination.Limit())
	for rows.Next() {
		var p entity.CompanyProfile
		var goalsJSON, painsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Name, &p.Industry, &p.Size,
			&p.TechMaturity, &goalsJSON, &painsJSON, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan company profile: %w", err)
		}
		if len(goalsJSON) > 0 {
			_ = json.Unmarshal(goalsJSON, &p.Goals)
		}
		if len(painsJSON) > 0 {
			_ = json.Unmarshal(painsJSON, &p.PainPoints)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate company profiles: %w", err)
	}

	return repository.NewPagedResult(items, total, pagination), nil
}

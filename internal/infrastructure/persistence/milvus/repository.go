// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Repository 趋势向量仓储
type Repository struct {
	client *Client
}

// NewRepository 创建趋势向量仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchParams 检索参数
type SearchParams struct {
	TenantID       string
	QueryVector    []float32
	TopK           int
	Category       string
	ExcludeTrendID string
}

// SearchResult 检索结果
type SearchResult struct {
	ID       string
	Score    float32
	TrendID  string
	Title    string
	Category string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// CreatePartition 创建租户分区
func (r *Repository) CreatePartition(ctx context.Context, collection, tenantID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreatePartition",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("partition", PartitionName(tenantID)),
		))
	defer span.End()

	collName := r.client.CollectionName(collection)
	partitionName := PartitionName(tenantID)

	return r.client.milvus.CreatePartition(ctx, collName, partitionName)
}

// SearchSimilarTrends 检索语义相近的趋势
func (r *Repository) SearchSimilarTrends(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.SearchSimilarTrends",
		trace.WithAttributes(
			attribute.String("tenant_id", params.TenantID),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	collName := r.client.CollectionName(CollectionTrendVectors)
	partitionName := PartitionName(params.TenantID)

	// 如果分区尚未创建（例如新租户），直接返回空结果，避免 Milvus 报 partition not found。
	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		return []*SearchResult{}, nil
	}

	// 构建过滤表达式
	filter := fmt.Sprintf(`tenant_id == "%s"`, params.TenantID)

	// 排除查询趋势自身
	if params.ExcludeTrendID != "" {
		filter += fmt.Sprintf(` && trend_id != "%s"`, params.ExcludeTrendID)
	}

	// 分类过滤
	if params.Category != "" {
		filter += fmt.Sprintf(` && category == "%s"`, params.Category)
	}

	// 搜索参数
	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	// 执行搜索
	results, err := r.client.milvus.Search(ctx,
		collName,
		[]string{partitionName},
		filter,
		[]string{"id", "trend_id", "title", "category"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	// 解析结果
	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{
				Score: result.Scores[i],
			}

			if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = idCol.Data()[i]
			}
			if trendCol, ok := result.Fields.GetColumn("trend_id").(*entity.ColumnVarChar); ok {
				sr.TrendID = trendCol.Data()[i]
			}
			if titleCol, ok := result.Fields.GetColumn("title").(*entity.ColumnVarChar); ok {
				sr.Title = titleCol.Data()[i]
			}
			if catCol, ok := result.Fields.GetColumn("category").(*entity.ColumnVarChar); ok {
				sr.Category = catCol.Data()[i]
			}

			searchResults = append(searchResults, sr)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	return searchResults, nil
}

// UpsertTrendVector 写入趋势向量（同一 trend_id 先删后插）
func (r *Repository) UpsertTrendVector(ctx context.Context, tv *TrendVector) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.UpsertTrendVector",
		trace.WithAttributes(
			attribute.String("tenant_id", tv.TenantID),
			attribute.String("trend_id", tv.TrendID),
		))
	defer span.End()

	collName := r.client.CollectionName(CollectionTrendVectors)
	partitionName := PartitionName(tv.TenantID)

	// 确保分区存在
	has, _ := r.client.milvus.HasPartition(ctx, collName, partitionName)
	if !has {
		if err := r.CreatePartition(ctx, CollectionTrendVectors, tv.TenantID); err != nil {
			return err
		}
	} else {
		// 已有分区才可能存在旧向量，重建索引前先删除
		filter := fmt.Sprintf(`trend_id == "%s"`, tv.TrendID)
		if err := r.client.milvus.Delete(ctx, collName, partitionName, filter); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to delete stale vector: %w", err)
		}
	}

	idCol := entity.NewColumnVarChar("id", []string{tv.ID})
	vectorCol := entity.NewColumnFloatVector("vector", VectorDimension, [][]float32{tv.Vector})
	tenantCol := entity.NewColumnVarChar("tenant_id", []string{tv.TenantID})
	trendCol := entity.NewColumnVarChar("trend_id", []string{tv.TrendID})
	catCol := entity.NewColumnVarChar("category", []string{tv.Category})
	titleCol := entity.NewColumnVarChar("title", []string{tv.Title})

	_, err := r.client.milvus.Insert(ctx, collName, partitionName,
		idCol, vectorCol, tenantCol, trendCol, catCol, titleCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert trend vector: %w", err)
	}

	return nil
}

// DeleteTrendVector 删除趋势向量
func (r *Repository) DeleteTrendVector(ctx context.Context, tenantID, trendID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	trendID = strings.TrimSpace(trendID)
	if trendID == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "milvus.DeleteTrendVector",
		trace.WithAttributes(attribute.String("trend_id", trendID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionTrendVectors)
	partitionName := PartitionName(tenantID)

	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		return nil
	}

	filter := fmt.Sprintf(`trend_id == "%s"`, trendID)

	err := r.client.milvus.Delete(ctx, collName, partitionName, filter)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete trend vector: %w", err)
	}

	return nil
}

// EnsureTrendVectorsCollection 确保 trend_vectors 集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureTrendVectorsCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionTrendVectors)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.CreateCollection(ctx, TrendVectorsSchema()); err != nil {
			return err
		}
		// 新建集合时创建索引；若失败，允许后续由运维介入。
		_ = r.CreateIndex(ctx, CollectionTrendVectors)
	}

	// 尝试确保集合已加载（若已加载，Milvus 会返回成功）
	return r.client.LoadCollection(ctx, CollectionTrendVectors)
}

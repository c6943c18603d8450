// Package research 提供趋势向量索引与相似趋势检索
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"

	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/infrastructure/persistence/milvus"
	"biz-advisory-ai-api/pkg/logger"
)

// ErrVectorDisabled 向量检索未配置
var ErrVectorDisabled = errors.New("vector search is not configured")

const defaultTopK = 5

// Service 趋势研究服务：维护趋势向量索引，并为需求生成提供相似趋势参考。
type Service struct {
	embedder embedding.Embedder
	vector   *milvus.Repository
}

// NewService 创建研究服务
func NewService(embedder embedding.Embedder, vectorRepo *milvus.Repository) *Service {
	return &Service{
		embedder: embedder,
		vector:   vectorRepo,
	}
}

// Enabled 是否具备向量检索能力
func (s *Service) Enabled() bool {
	return s != nil && s.embedder != nil && s.vector != nil
}

func (s *Service) ensureReady(ctx context.Context) error {
	if s == nil || s.vector == nil {
		return ErrVectorDisabled
	}
	return s.vector.EnsureTrendVectorsCollection(ctx)
}

// IndexTrend 将趋势写入向量索引（同一趋势重复索引会覆盖旧向量）
func (s *Service) IndexTrend(ctx context.Context, trend *entity.Trend) error {
	if trend == nil {
		return fmt.Errorf("trend is nil")
	}
	if strings.TrimSpace(trend.ID) == "" {
		return fmt.Errorf("trend.id is required")
	}
	if !s.Enabled() {
		return ErrVectorDisabled
	}
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{trend.EmbeddingText()})
	if err != nil {
		return fmt.Errorf("failed to embed trend: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}

	if err := s.vector.UpsertTrendVector(ctx, &milvus.TrendVector{
		ID:       trend.ID,
		Vector:   toFloat32(vectors[0]),
		TenantID: trend.TenantID,
		TrendID:  trend.ID,
		Category: string(trend.Category),
		Title:    trend.Title,
	}); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("trend indexed",
		"trend_id", trend.ID,
		"tenant_id", trend.TenantID,
	)
	return nil
}

// RemoveTrend 从向量索引中删除趋势
func (s *Service) RemoveTrend(ctx context.Context, tenantID, trendID string) error {
	if !s.Enabled() {
		return ErrVectorDisabled
	}
	return s.vector.DeleteTrendVector(ctx, tenantID, trendID)
}

// RelatedTitles 检索与给定趋势语义相近的趋势标题
func (s *Service) RelatedTitles(ctx context.Context, trend *entity.Trend, topK int) ([]string, error) {
	if trend == nil {
		return nil, fmt.Errorf("trend is nil")
	}
	if !s.Enabled() {
		return nil, ErrVectorDisabled
	}
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{trend.EmbeddingText()})
	if err != nil {
		return nil, fmt.Errorf("failed to embed trend: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want 1", len(vectors))
	}

	results, err := s.vector.SearchSimilarTrends(ctx, &milvus.SearchParams{
		TenantID:       trend.TenantID,
		QueryVector:    toFloat32(vectors[0]),
		TopK:           topK,
		ExcludeTrendID: trend.ID,
	})
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(results))
	for _, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

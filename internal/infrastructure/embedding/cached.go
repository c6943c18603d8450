// Package embedding 提供向量化服务客户端
package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/infrastructure/persistence/redis"
	"biz-advisory-ai-api/pkg/logger"
)

// CachedEmbedder 带 Redis 缓存的 Embedder。
// 趋势文本基本不变，向量结果按模型 + 文本摘要缓存，减少重复调用。
type CachedEmbedder struct {
	inner     embedding.Embedder
	cache     *redis.Cache
	model     string
	batchSize int
	ttl       time.Duration
}

// NewCachedEmbedder 创建带缓存的 Embedder
func NewCachedEmbedder(inner embedding.Embedder, cache *redis.Cache, cfg *config.EmbeddingConfig) *CachedEmbedder {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedEmbedder{
		inner:     inner,
		cache:     cache,
		model:     cfg.Model,
		batchSize: batchSize,
		ttl:       ttl,
	}
}

// EmbedStrings 向量化文本，命中缓存的文本不再请求远端
func (e *CachedEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, len(texts))
	var missing []int

	for i, text := range texts {
		key := redis.EmbeddingKey(e.model, text)
		data, err := e.cache.Get(ctx, key)
		if err != nil || data == nil {
			missing = append(missing, i)
			continue
		}

		var vec []float64
		if err := json.Unmarshal(data, &vec); err != nil {
			// 缓存内容损坏，当作未命中重新加载
			missing = append(missing, i)
			continue
		}
		vectors[i] = vec
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	// 按批次请求未命中的文本
	for start := 0; start < len(missing); start += e.batchSize {
		end := start + e.batchSize
		if end > len(missing) {
			end = len(missing)
		}

		batch := make([]string, 0, end-start)
		for _, idx := range missing[start:end] {
			batch = append(batch, texts[idx])
		}

		embedded, err := e.inner.EmbedStrings(ctx, batch, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts: %w", err)
		}
		if len(embedded) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embedded), len(batch))
		}

		for j, idx := range missing[start:end] {
			vectors[idx] = embedded[j]

			key := redis.EmbeddingKey(e.model, texts[idx])
			if err := e.cache.Set(ctx, key, embedded[j], e.ttl); err != nil {
				logger.FromContext(ctx).Warn("failed to cache embedding", "error", err)
			}
		}
	}

	return vectors, nil
}

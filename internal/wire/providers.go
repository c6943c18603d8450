package wire

import (
	"context"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"biz-advisory-ai-api/internal/application/advisory/needs"
	"biz-advisory-ai-api/internal/application/research"
	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/repository"
	infraembedding "biz-advisory-ai-api/internal/infrastructure/embedding"
	"biz-advisory-ai-api/internal/infrastructure/messaging"
	"biz-advisory-ai-api/internal/infrastructure/persistence/milvus"
	"biz-advisory-ai-api/internal/infrastructure/persistence/postgres"
	"biz-advisory-ai-api/internal/infrastructure/persistence/redis"
	"biz-advisory-ai-api/internal/interfaces/http/handler"
	workflowport "biz-advisory-ai-api/internal/workflow/port"
	"biz-advisory-ai-api/pkg/logger"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideMilvusClientOptional 提供可选 Milvus 客户端
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, vector features disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusRepositoryOptional 提供可选向量仓储
func ProvideMilvusRepositoryOptional(client *milvus.Client) *milvus.Repository {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client)
}

// ProvideEmbedderOptional 提供带 Redis 缓存的可选 Embedder
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config, cache *redis.Cache) einoembedding.Embedder {
	inner, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, vector features disabled", "error", err.Error())
		return nil
	}
	return infraembedding.NewCachedEmbedder(inner, cache, &cfg.Embedding)
}

// ProvideResearchService 提供相似趋势检索服务，依赖不全时为 nil
func ProvideResearchService(embedder einoembedding.Embedder, vectorRepo *milvus.Repository) *research.Service {
	if embedder == nil || vectorRepo == nil {
		return nil
	}
	return research.NewService(embedder, vectorRepo)
}

// ProvideRelatedTrendFinder 将检索服务适配为生成侧依赖。
// 返回无类型 nil，生成器据此跳过相似趋势补充。
func ProvideRelatedTrendFinder(cfg *config.Config, svc *research.Service) needs.RelatedTrendFinder {
	if svc == nil || !cfg.Features.Research.Enabled {
		return nil
	}
	return svc
}

// ProvideNeedsGenerator 提供需求生成器
func ProvideNeedsGenerator(
	factory workflowport.ChatModelFactory,
	trends repository.TrendRepository,
	companies repository.CompanyRepository,
	needsRepo repository.NeedRepository,
	finder needs.RelatedTrendFinder,
	cfg *config.Config,
) *needs.Generator {
	return needs.NewGenerator(factory, trends, companies, needsRepo, finder, cfg.Features.Research.TopK)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client, mv *milvus.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, rdb, mv, cfg.App.Version)
}

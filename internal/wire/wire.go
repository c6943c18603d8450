//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"biz-advisory-ai-api/internal/application/advisory/solutions"
	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/infrastructure/llm"
	"biz-advisory-ai-api/internal/infrastructure/persistence/postgres"
	"biz-advisory-ai-api/internal/infrastructure/persistence/redis"
	"biz-advisory-ai-api/internal/interfaces/http/handler"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/internal/interfaces/http/router"
	workflowport "biz-advisory-ai-api/internal/workflow/port"
)

// InitializeApp 初始化 API 服务（HTTP 引擎 + 全部依赖）
func InitializeApp(ctx context.Context, cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		MilvusAppSet,
		EmbeddingSet,
		ResearchSet,
		GeneratorSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化 job-worker
func InitializeWorker(ctx context.Context, cfg *config.Config) (*WorkerApp, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MilvusAppSet,
		EmbeddingSet,
		ResearchSet,
		GeneratorSet,
		jobs.NewWorker,
		wire.Struct(new(WorkerApp), "*"),
	)
	return nil, nil, nil
}

// InitializeBootstrap 初始化建库工具依赖
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*BootstrapApp, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		postgres.NewTenantRepository,
		ProvideMilvusClientOptional,
		ProvideMilvusRepositoryOptional,
		wire.Struct(new(BootstrapApp), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTenantRepository,
	postgres.NewTrendRepository,
	postgres.NewCompanyRepository,
	postgres.NewNeedRepository,
	postgres.NewSolutionRepository,
	postgres.NewJobRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.TenantRepository), new(*postgres.TenantRepository)),
	wire.Bind(new(repository.TrendRepository), new(*postgres.TrendRepository)),
	wire.Bind(new(repository.CompanyRepository), new(*postgres.CompanyRepository)),
	wire.Bind(new(repository.NeedRepository), new(*postgres.NeedRepository)),
	wire.Bind(new(repository.SolutionRepository), new(*postgres.SolutionRepository)),
	wire.Bind(new(repository.JobRepository), new(*postgres.JobRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	jobs.NewService,
)

// MilvusAppSet 可选 Milvus（不可达时不阻塞启动）
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepositoryOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用向量检索/索引）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// ResearchSet 相似趋势检索服务
var ResearchSet = wire.NewSet(
	ProvideResearchService,
	ProvideRelatedTrendFinder,
)

// GeneratorSet 生成管线提供者集合
var GeneratorSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	ProvideNeedsGenerator,
	solutions.NewGenerator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewTrendHandler,
	handler.NewCompanyHandler,
	handler.NewNeedHandler,
	handler.NewSolutionHandler,
	handler.NewJobHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

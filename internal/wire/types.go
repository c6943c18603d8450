// Package wire 提供依赖注入配置
package wire

import (
	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/infrastructure/persistence/milvus"
	"biz-advisory-ai-api/internal/infrastructure/persistence/postgres"
	"biz-advisory-ai-api/internal/infrastructure/persistence/redis"
)

// WorkerApp job-worker 依赖容器
type WorkerApp struct {
	RedisClient *redis.Client
	Worker      *jobs.Worker
}

// BootstrapApp bootstrap 依赖容器，VectorRepo 在 Milvus 不可达时为 nil
type BootstrapApp struct {
	PgClient   *postgres.Client
	TenantRepo *postgres.TenantRepository
	VectorRepo *milvus.Repository
}

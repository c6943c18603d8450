// Package main 初始化数据库 schema 与基础数据（bootstrap）
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/wire"
	"biz-advisory-ai-api/pkg/logger"
)

func main() {
	var (
		tenantName = flag.String("tenant-name", "Default Tenant", "默认租户名称")
		tenantSlug = flag.String("tenant-slug", "default", "默认租户 slug")
		skipVector = flag.Bool("skip-vector", false, "跳过向量集合初始化")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()
	log := logger.FromContext(ctx)

	app, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize bootstrap", err)
	}
	defer cleanup()

	// 建表
	log.Info("migrating database schema")
	err = app.PgClient.DB().WithContext(ctx).AutoMigrate(
		&entity.Tenant{},
		&entity.Trend{},
		&entity.CompanyProfile{},
		&entity.Need{},
		&entity.Solution{},
		&entity.GenerationJob{},
	)
	if err != nil {
		logger.Fatal(ctx, "failed to migrate schema", err)
	}
	log.Info("database schema migrated")

	// 默认租户
	exists, err := app.TenantRepo.ExistsBySlug(ctx, *tenantSlug)
	if err != nil {
		logger.Fatal(ctx, "failed to check default tenant", err)
	}
	if !exists {
		tenant := entity.NewTenant(*tenantName, *tenantSlug)
		if err := app.TenantRepo.Create(ctx, tenant); err != nil {
			logger.Fatal(ctx, "failed to create default tenant", err)
		}
		log.Info("default tenant created", "tenant_id", tenant.ID, "slug", *tenantSlug)
	} else {
		log.Info("default tenant already exists", "slug", *tenantSlug)
	}

	// 向量集合
	if *skipVector {
		log.Info("vector collection init skipped")
		return
	}
	if app.VectorRepo == nil {
		log.Warn("milvus not available, vector collection init skipped")
		return
	}
	if err := app.VectorRepo.EnsureTrendVectorsCollection(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure vector collection", err)
	}
	log.Info("vector collection ready")
}

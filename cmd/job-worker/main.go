// Package main 异步任务执行器入口（job-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/infrastructure/messaging"
	"biz-advisory-ai-api/internal/wire"
	"biz-advisory-ai-api/pkg/logger"
	"biz-advisory-ai-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting job-worker", "env", cfg.App.Env)

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "job-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	app, cleanup, err := wire.InitializeWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	backoff := messaging.BackoffConfig{
		Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
		Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
		Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
	}

	genConsumer := messaging.NewConsumer(app.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamAdvisoryGen,
		Group:         messaging.ConsumerGroupGenWorker,
		ConsumerName:  hostnameConsumerName("gen"),
		BlockTimeout:  cfg.Messaging.RedisStream.BlockTimeout,
		ClaimInterval: cfg.Messaging.RedisStream.ClaimInterval,
		RetryLimit:    cfg.Messaging.RedisStream.RetryLimit,
		Backoff:       backoff,
	})
	app.Worker.RegisterGenHandlers(genConsumer)

	indexConsumer := messaging.NewConsumer(app.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamTrendIndex,
		Group:         messaging.ConsumerGroupIndexWorker,
		ConsumerName:  hostnameConsumerName("index"),
		BlockTimeout:  cfg.Messaging.RedisStream.BlockTimeout,
		ClaimInterval: cfg.Messaging.RedisStream.ClaimInterval,
		RetryLimit:    cfg.Messaging.RedisStream.RetryLimit,
		Backoff:       backoff,
	})
	app.Worker.RegisterIndexHandlers(indexConsumer)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := genConsumer.Start(runCtx); err != nil {
		logger.Fatal(ctx, "failed to start gen consumer", err)
	}
	if err := indexConsumer.Start(runCtx); err != nil {
		logger.Fatal(ctx, "failed to start index consumer", err)
	}

	go genConsumer.MonitorDLQ(runCtx, 100)
	go indexConsumer.MonitorDLQ(runCtx, 100)

	log.Info("job-worker started",
		"gen_stream", string(messaging.StreamAdvisoryGen),
		"index_stream", string(messaging.StreamTrendIndex),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down job-worker...")
	cancel()
	genConsumer.Stop()
	indexConsumer.Stop()
	log.Info("job-worker exited")
}

// hostnameConsumerName 以主机名区分消费者实例，保证 XCLAIM 归属可追踪
func hostnameConsumerName(role string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s-%s", host, role)
}

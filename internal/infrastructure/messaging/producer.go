// Package messaging 提供基于 Redis Streams 的消息队列实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishGenJob 发布生成任务（需求生成 / 方案生成）
func (p *Producer) PublishGenJob(ctx context.Context, job *GenerationJobMessage) (string, error) {
	msg, err := NewMessage(job.JobID, job.JobType, job.TenantID, job.TrendID, job)
	if err != nil {
		return "", err
	}

	msg.SetMetadata("priority", fmt.Sprintf("%d", job.Priority))
	if job.IdempotencyKey != "" {
		msg.SetMetadata("idempotency_key", job.IdempotencyKey)
	}

	return p.Publish(ctx, StreamAdvisoryGen, msg)
}

// PublishTrendIndex 发布趋势向量索引任务
func (p *Producer) PublishTrendIndex(ctx context.Context, idx *TrendIndexMessage) (string, error) {
	msg, err := NewMessage(idx.TrendID, "trend_index", idx.TenantID, idx.TrendID, idx)
	if err != nil {
		return "", err
	}

	return p.Publish(ctx, StreamTrendIndex, msg)
}

// GenerationJobMessage 生成任务消息
type GenerationJobMessage struct {
	JobID          string                 `json:"job_id"`
	TenantID       string                 `json:"tenant_id"`
	TrendID        string                 `json:"trend_id,omitempty"`
	NeedID         string                 `json:"need_id,omitempty"`
	CompanyID      string                 `json:"company_id,omitempty"`
	JobType        string                 `json:"job_type"`
	Priority       int                    `json:"priority"`
	IdempotencyKey string                 `json:"idempotency_key,omitempty"`
	Params         map[string]interface{} `json:"params"`
}

// TrendIndexMessage 趋势向量索引消息
type TrendIndexMessage struct {
	TenantID string `json:"tenant_id"`
	TrendID  string `json:"trend_id"`
}

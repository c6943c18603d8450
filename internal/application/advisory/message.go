package advisory

import (
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	wfmodel "biz-advisory-ai-api/internal/workflow/model"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	"biz-advisory-ai-api/pkg/metrics"
)

// SegmentsFromMessage 兼容两种补全形态：单文本与多内容段。
func SegmentsFromMessage(msg *schema.Message) []wfnode.Segment {
	if msg == nil {
		return nil
	}
	if len(msg.MultiContent) > 0 {
		segs := make([]wfnode.Segment, 0, len(msg.MultiContent))
		for _, part := range msg.MultiContent {
			if part.Type == schema.ChatMessagePartTypeText && strings.TrimSpace(part.Text) != "" {
				segs = append(segs, wfnode.Segment{Type: string(part.Type), Text: part.Text})
			}
		}
		if len(segs) > 0 {
			return segs
		}
	}
	return []wfnode.Segment{{Type: "text", Text: msg.Content}}
}

// BuildUsageMeta 汇总一次调用的用量元信息并上报 token 指标。
func BuildUsageMeta(provider, model string, temperature *float32, msg *schema.Message, generatedAt time.Time) wfmodel.LLMUsageMeta {
	meta := wfmodel.LLMUsageMeta{
		Provider:    strings.TrimSpace(provider),
		Model:       strings.TrimSpace(model),
		GeneratedAt: generatedAt,
	}
	if temperature != nil {
		meta.Temperature = float64(*temperature)
	}
	if msg != nil && msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		meta.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
		metrics.LLMTokensUsed.WithLabelValues(meta.Provider, meta.Model, "prompt").Add(float64(meta.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(meta.Provider, meta.Model, "completion").Add(float64(meta.CompletionTokens))
	}
	return meta
}

package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	wfmodel "biz-advisory-ai-api/internal/workflow/model"
	wfnode "biz-advisory-ai-api/internal/workflow/node"
	workflowport "biz-advisory-ai-api/internal/workflow/port"
	workflowprompt "biz-advisory-ai-api/internal/workflow/prompt"
	"biz-advisory-ai-api/pkg/logger"
)

// NeedsChain 把“趋势 + 企业画像”转成模型的原始回复，解析与校验在应用层完成。
type NeedsChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.NeedsGenerateInput, *schema.Message]
	chainErr  error
}

func NewNeedsChain(factory workflowport.ChatModelFactory) *NeedsChain {
	return &NeedsChain{factory: factory}
}

func (c *NeedsChain) Invoke(ctx context.Context, in *wfmodel.NeedsGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type needsChainState struct {
	In       *wfmodel.NeedsGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *NeedsChain) getChain() (compose.Runnable[*wfmodel.NeedsGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *NeedsChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.NeedsGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.NeedsGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.NeedsGenerateInput) (*needsChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &needsChainState{In: in}, nil
		}),
		compose.WithNodeName("needs.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *needsChainState) (*needsChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatNeedsMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("needs.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *needsChainState) (*needsChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildNeedsModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"provider", strings.TrimSpace(st.In.Provider),
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildNeedsModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("needs.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *needsChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("needs.finalize"),
	)

	return chain.Compile(ctx)
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

func formatNeedsMessages(ctx context.Context, in *wfmodel.NeedsGenerateInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptNeedsGenV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"trend_title":          strings.TrimSpace(in.TrendTitle),
		"trend_category":       strings.TrimSpace(in.TrendCategory),
		"signal_strength":      strconv.Itoa(in.SignalStrength),
		"trend_summary":        strings.TrimSpace(in.TrendSummary),
		"trend_tags":           strings.Join(in.TrendTags, "、"),
		"related_trends_block": wfnode.BuildListBlock(in.RelatedTrends),
		"company_name":         strings.TrimSpace(in.CompanyName),
		"industry":             strings.TrimSpace(in.Industry),
		"company_size":         strings.TrimSpace(in.CompanySize),
		"tech_maturity":        strings.TrimSpace(in.TechMaturity),
		"goals_block":          wfnode.BuildListBlock(in.Goals),
		"pain_points_block":    wfnode.BuildListBlock(in.PainPoints),
	}
	return tpl.Format(ctx, vars)
}

func buildNeedsModelOptions(in *wfmodel.NeedsGenerateInput, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}

	if enableSchema {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "business_needs",
					"strict": false,
					"schema": needsJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func needsJSONSchema() map[string]any {
	// 说明：schema 以“最小可用”为目标，枚举与范围靠解析层兜底，避免过度约束导致模型输出失败。
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"needs"},
		"properties": map[string]any{
			"needs": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"title"},
					"properties": map[string]any{
						"title":          map[string]any{"type": "string"},
						"description":    map[string]any{"type": "string"},
						"category":       map[string]any{"type": "string"},
						"priority":       map[string]any{"type": "string"},
						"impactScore":    map[string]any{"type": "integer"},
						"effortScore":    map[string]any{"type": "integer"},
						"urgencyScore":   map[string]any{"type": "integer"},
						"stakeholders":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"risks":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"successMetrics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"rationale":      map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

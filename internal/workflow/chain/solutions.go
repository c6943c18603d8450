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

// SolutionsChain 把“需求 + 企业画像”转成模型的原始回复。
type SolutionsChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.SolutionsGenerateInput, *schema.Message]
	chainErr  error
}

func NewSolutionsChain(factory workflowport.ChatModelFactory) *SolutionsChain {
	return &SolutionsChain{factory: factory}
}

func (c *SolutionsChain) Invoke(ctx context.Context, in *wfmodel.SolutionsGenerateInput) (*schema.Message, error) {
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

type solutionsChainState struct {
	In       *wfmodel.SolutionsGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *SolutionsChain) getChain() (compose.Runnable[*wfmodel.SolutionsGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *SolutionsChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.SolutionsGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.SolutionsGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.SolutionsGenerateInput) (*solutionsChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &solutionsChainState{In: in}, nil
		}),
		compose.WithNodeName("solutions.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *solutionsChainState) (*solutionsChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatSolutionsMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("solutions.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *solutionsChainState) (*solutionsChainState, error) {
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

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildSolutionsModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"provider", strings.TrimSpace(st.In.Provider),
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildSolutionsModelOptions(st.In, false)...)
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
		compose.WithNodeName("solutions.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *solutionsChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("solutions.finalize"),
	)

	return chain.Compile(ctx)
}

func formatSolutionsMessages(ctx context.Context, in *wfmodel.SolutionsGenerateInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptSolutionsGenV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"need_title":       strings.TrimSpace(in.NeedTitle),
		"need_category":    strings.TrimSpace(in.NeedCategory),
		"need_priority":    strings.TrimSpace(in.NeedPriority),
		"impact_score":     strconv.Itoa(in.ImpactScore),
		"effort_score":     strconv.Itoa(in.EffortScore),
		"need_description": strings.TrimSpace(in.NeedDescription),
		"company_name":     strings.TrimSpace(in.CompanyName),
		"industry":         strings.TrimSpace(in.Industry),
		"company_size":     strings.TrimSpace(in.CompanySize),
		"tech_maturity":    strings.TrimSpace(in.TechMaturity),
	}
	return tpl.Format(ctx, vars)
}

func buildSolutionsModelOptions(in *wfmodel.SolutionsGenerateInput, enableSchema bool) []model.Option {
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
					"name":   "business_solutions",
					"strict": false,
					"schema": solutionsJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func solutionsJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"solutions"},
		"properties": map[string]any{
			"solutions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"title", "approach"},
					"properties": map[string]any{
						"approach":          map[string]any{"type": "string"},
						"title":             map[string]any{"type": "string"},
						"description":       map[string]any{"type": "string"},
						"benefits":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"requirements":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"risks":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"alternatives":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"timeToValueMonths": map[string]any{"type": "integer"},
						"estimatedCost": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]any{
								"initial": map[string]any{"type": "number"},
								"monthly": map[string]any{"type": "number"},
								"annual":  map[string]any{"type": "number"},
							},
						},
						"roi": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]any{
								"breakEvenMonths": map[string]any{"type": "integer"},
								"threeYearReturn": map[string]any{"type": "number"},
								"confidenceScore": map[string]any{"type": "number"},
							},
						},
					},
				},
			},
		},
	}
}

package solutions

import (
	"context"
	"strconv"
	"time"

	"biz-advisory-ai-api/internal/application/advisory"
	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	workflowchain "biz-advisory-ai-api/internal/workflow/chain"
	wfmodel "biz-advisory-ai-api/internal/workflow/model"
	workflowport "biz-advisory-ai-api/internal/workflow/port"
	apperrors "biz-advisory-ai-api/pkg/errors"
	"biz-advisory-ai-api/pkg/logger"
	"biz-advisory-ai-api/pkg/metrics"
)

type GenerateInput struct {
	TenantID string
	NeedID   string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type GenerateOutput struct {
	Solutions []*entity.Solution
	Raw       string
	Meta      wfmodel.LLMUsageMeta
}

// Generator 方案生成管线：需求 + 企业画像 → LLM → 恢复/校验 → 落库。
type Generator struct {
	chain     *workflowchain.SolutionsChain
	needsRepo repository.NeedRepository
	companies repository.CompanyRepository
	solutions repository.SolutionRepository
}

func NewGenerator(
	factory workflowport.ChatModelFactory,
	needsRepo repository.NeedRepository,
	companies repository.CompanyRepository,
	solutionsRepo repository.SolutionRepository,
) *Generator {
	return &Generator{
		chain:     workflowchain.NewSolutionsChain(factory),
		needsRepo: needsRepo,
		companies: companies,
		solutions: solutionsRepo,
	}
}

// Generate 执行一次完整的方案生成。
func (g *Generator) Generate(ctx context.Context, in *GenerateInput) (*GenerateOutput, error) {
	start := time.Now()

	need, err := g.needsRepo.GetByID(ctx, in.NeedID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load need")
	}
	if need == nil {
		return nil, apperrors.ErrNeedNotFound
	}

	wfIn := &wfmodel.SolutionsGenerateInput{
		NeedTitle:       need.Title,
		NeedDescription: need.Description,
		NeedCategory:    string(need.Category),
		NeedPriority:    string(need.Priority),
		ImpactScore:     need.ImpactScore,
		EffortScore:     need.EffortScore,
		Provider:        in.Provider,
		Model:           in.Model,
		Temperature:     in.Temperature,
		MaxTokens:       in.MaxTokens,
	}

	// 需求可能不挂在具体公司画像上，此时用通用画像字段生成。
	if need.CompanyID != "" {
		company, err := g.companies.GetByID(ctx, need.CompanyID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load company profile")
		}
		if company != nil {
			wfIn.CompanyName = company.Name
			wfIn.Industry = company.Industry
			wfIn.CompanySize = string(company.Size)
			wfIn.TechMaturity = strconv.Itoa(company.TechMaturity) + "/10"
		}
	}

	llmStart := time.Now()
	outMsg, err := g.chain.Invoke(ctx, wfIn)
	metrics.LLMCallDuration.WithLabelValues(in.Provider, in.Model).Observe(time.Since(llmStart).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(in.Provider, in.Model, "error").Inc()
		metrics.AdvisoryGenerationTotal.WithLabelValues("solutions", "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM call failed")
	}
	metrics.LLMCallTotal.WithLabelValues(in.Provider, in.Model, "ok").Inc()

	generatedAt := time.Now().UTC()
	items, raw, err := ParseSolutions(advisory.SegmentsFromMessage(outMsg), in.TenantID, need.ID, generatedAt)
	if err != nil {
		metrics.AdvisoryGenerationTotal.WithLabelValues("solutions", "failed").Inc()
		logger.Warn(ctx, "solutions output not usable",
			"need_id", need.ID,
			"error", err.Error(),
		)
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "generation failed to produce usable output")
	}

	if err := g.solutions.CreateBatch(ctx, items); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to persist solutions")
	}

	meta := advisory.BuildUsageMeta(wfIn.Provider, wfIn.Model, wfIn.Temperature, outMsg, generatedAt)
	metrics.AdvisoryGenerationTotal.WithLabelValues("solutions", "ok").Inc()
	metrics.AdvisoryGenerationDuration.WithLabelValues("solutions").Observe(time.Since(start).Seconds())
	metrics.AdvisoryItemsPerBatch.WithLabelValues("solutions").Observe(float64(len(items)))

	logger.Info(ctx, "solutions generated",
		"need_id", need.ID,
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &GenerateOutput{Solutions: items, Raw: raw, Meta: meta}, nil
}

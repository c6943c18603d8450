package needs

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

// RelatedTrendFinder 为生成提供相似趋势参考，失败只降级不阻断。
type RelatedTrendFinder interface {
	RelatedTitles(ctx context.Context, trend *entity.Trend, topK int) ([]string, error)
}

type GenerateInput struct {
	TenantID  string
	TrendID   string
	CompanyID string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

type GenerateOutput struct {
	Needs []*entity.Need
	Raw   string
	Meta  wfmodel.LLMUsageMeta
}

// Generator 需求生成管线：趋势 + 企业画像 → LLM → 恢复/校验 → 落库。
type Generator struct {
	chain     *workflowchain.NeedsChain
	trends    repository.TrendRepository
	companies repository.CompanyRepository
	needs     repository.NeedRepository
	research  RelatedTrendFinder
	topK      int
}

func NewGenerator(
	factory workflowport.ChatModelFactory,
	trends repository.TrendRepository,
	companies repository.CompanyRepository,
	needsRepo repository.NeedRepository,
	research RelatedTrendFinder,
	researchTopK int,
) *Generator {
	return &Generator{
		chain:     workflowchain.NewNeedsChain(factory),
		trends:    trends,
		companies: companies,
		needs:     needsRepo,
		research:  research,
		topK:      researchTopK,
	}
}

// Generate 执行一次完整的需求生成。
// 结构性失败统一包装后上抛，由调用方决定是否整体重跑；核心内部不重试。
func (g *Generator) Generate(ctx context.Context, in *GenerateInput) (*GenerateOutput, error) {
	start := time.Now()

	trend, err := g.trends.GetByID(ctx, in.TrendID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load trend")
	}
	if trend == nil {
		return nil, apperrors.ErrTrendNotFound
	}

	company, err := g.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load company profile")
	}
	if company == nil {
		return nil, apperrors.ErrCompanyNotFound
	}

	var related []string
	if g.research != nil && g.topK > 0 {
		related, err = g.research.RelatedTitles(ctx, trend, g.topK)
		if err != nil {
			logger.Warn(ctx, "related trend lookup failed, continue without research context",
				"trend_id", trend.ID, "error", err.Error())
			related = nil
		}
	}

	wfIn := &wfmodel.NeedsGenerateInput{
		TrendTitle:     trend.Title,
		TrendSummary:   trend.Summary,
		TrendCategory:  string(trend.Category),
		SignalStrength: trend.SignalStrength,
		TrendTags:      trend.Tags,
		CompanyName:    company.Name,
		Industry:       company.Industry,
		CompanySize:    string(company.Size),
		TechMaturity:   strconv.Itoa(company.TechMaturity) + "/10",
		Goals:          company.Goals,
		PainPoints:     company.PainPoints,
		RelatedTrends:  related,
		Provider:       in.Provider,
		Model:          in.Model,
		Temperature:    in.Temperature,
		MaxTokens:      in.MaxTokens,
	}

	llmStart := time.Now()
	outMsg, err := g.chain.Invoke(ctx, wfIn)
	metrics.LLMCallDuration.WithLabelValues(in.Provider, in.Model).Observe(time.Since(llmStart).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(in.Provider, in.Model, "error").Inc()
		metrics.AdvisoryGenerationTotal.WithLabelValues("needs", "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM call failed")
	}
	metrics.LLMCallTotal.WithLabelValues(in.Provider, in.Model, "ok").Inc()

	generatedAt := time.Now().UTC()
	items, raw, err := ParseNeeds(advisory.SegmentsFromMessage(outMsg), in.TenantID, trend.ID, company.ID, generatedAt)
	if err != nil {
		metrics.AdvisoryGenerationTotal.WithLabelValues("needs", "failed").Inc()
		logger.Warn(ctx, "needs output not usable",
			"trend_id", trend.ID,
			"error", err.Error(),
		)
		return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "generation failed to produce usable output")
	}

	if err := g.needs.CreateBatch(ctx, items); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to persist needs")
	}

	meta := advisory.BuildUsageMeta(wfIn.Provider, wfIn.Model, wfIn.Temperature, outMsg, generatedAt)
	metrics.AdvisoryGenerationTotal.WithLabelValues("needs", "ok").Inc()
	metrics.AdvisoryGenerationDuration.WithLabelValues("needs").Observe(time.Since(start).Seconds())
	metrics.AdvisoryItemsPerBatch.WithLabelValues("needs").Observe(float64(len(items)))

	logger.Info(ctx, "needs generated",
		"trend_id", trend.ID,
		"company_id", company.ID,
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &GenerateOutput{Needs: items, Raw: raw, Meta: meta}, nil
}

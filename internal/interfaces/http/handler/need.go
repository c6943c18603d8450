package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/application/advisory/needs"
	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/pkg/errors"
)

// NeedHandler 业务需求处理器
type NeedHandler struct {
	cfg       *config.Config
	generator *needs.Generator
	jobSvc    *jobs.Service
	needsRepo repository.NeedRepository
}

// NewNeedHandler 创建需求处理器
func NewNeedHandler(cfg *config.Config, generator *needs.Generator, jobSvc *jobs.Service, needsRepo repository.NeedRepository) *NeedHandler {
	return &NeedHandler{cfg: cfg, generator: generator, jobSvc: jobSvc, needsRepo: needsRepo}
}

// Generate 同步生成需求。阻塞直至 LLM 返回并完成结构化恢复，
// 对时延敏感的调用方应改用异步任务接口。
func (h *NeedHandler) Generate(c *gin.Context) {
	trendID := dto.BindTrendID(c)
	if trendID == "" {
		dto.BadRequest(c, "trend id is required")
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		respondAppError(c, err)
		return
	}

	ctx := c.Request.Context()
	out, err := h.generator.Generate(ctx, &needs.GenerateInput{
		TenantID:    middleware.GetTenantID(ctx),
		TrendID:     trendID,
		CompanyID:   req.CompanyID,
		Provider:    provider,
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	resp := &dto.GenerateNeedsResponse{
		Needs: dto.ToNeedListResponse(out.Needs).Needs,
		Usage: &dto.LLMUsage{
			Provider:         out.Meta.Provider,
			Model:            out.Meta.Model,
			PromptTokens:     out.Meta.PromptTokens,
			CompletionTokens: out.Meta.CompletionTokens,
		},
	}
	dto.Created(c, resp)
}

// EnqueueJob 投递异步需求生成任务，返回 202 与任务句柄
func (h *NeedHandler) EnqueueJob(c *gin.Context) {
	trendID := dto.BindTrendID(c)
	if trendID == "" {
		dto.BadRequest(c, "trend id is required")
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		respondAppError(c, err)
		return
	}

	ctx := c.Request.Context()
	job, reused, err := h.jobSvc.EnqueueNeedsGen(ctx, middleware.GetTenantID(ctx), trendID, &jobs.GenParams{
		CompanyID:   req.CompanyID,
		Provider:    provider,
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, dto.BindIdempotencyKey(c))
	if err != nil {
		respondAppError(c, err)
		return
	}

	dto.Accepted(c, &dto.EnqueueJobResponse{
		JobID:  job.ID,
		Status: string(job.Status),
		Reused: reused,
	})
}

// ListByTrend 获取趋势下已生成的需求列表
func (h *NeedHandler) ListByTrend(c *gin.Context) {
	trendID := dto.BindTrendID(c)
	if trendID == "" {
		dto.BadRequest(c, "trend id is required")
		return
	}

	ctx := c.Request.Context()
	page := dto.BindPage(c)

	result, err := h.needsRepo.ListByTrend(ctx, trendID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to list needs"))
		return
	}

	dto.SuccessWithPage(c, dto.ToNeedListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单条需求
func (h *NeedHandler) Get(c *gin.Context) {
	needID := dto.BindNeedID(c)
	if needID == "" {
		dto.BadRequest(c, "need id is required")
		return
	}

	ctx := c.Request.Context()
	need, err := h.needsRepo.GetByID(ctx, needID)
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to load need"))
		return
	}
	if need == nil || need.TenantID != middleware.GetTenantID(ctx) {
		respondAppError(c, errors.ErrNeedNotFound)
		return
	}
	dto.Success(c, dto.ToNeedResponse(need))
}

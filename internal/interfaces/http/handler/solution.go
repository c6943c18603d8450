package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/application/advisory/solutions"
	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/config"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/pkg/errors"
)

// SolutionHandler 解决方案处理器
type SolutionHandler struct {
	cfg           *config.Config
	generator     *solutions.Generator
	jobSvc        *jobs.Service
	solutionsRepo repository.SolutionRepository
}

// NewSolutionHandler 创建方案处理器
func NewSolutionHandler(cfg *config.Config, generator *solutions.Generator, jobSvc *jobs.Service, solutionsRepo repository.SolutionRepository) *SolutionHandler {
	return &SolutionHandler{cfg: cfg, generator: generator, jobSvc: jobSvc, solutionsRepo: solutionsRepo}
}

// Generate 同步为指定需求生成解决方案
func (h *SolutionHandler) Generate(c *gin.Context) {
	needID := dto.BindNeedID(c)
	if needID == "" {
		dto.BadRequest(c, "need id is required")
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
	out, err := h.generator.Generate(ctx, &solutions.GenerateInput{
		TenantID:    middleware.GetTenantID(ctx),
		NeedID:      needID,
		Provider:    provider,
		Model:       model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		respondAppError(c, err)
		return
	}

	resp := &dto.GenerateSolutionsResponse{
		Solutions: dto.ToSolutionListResponse(out.Solutions).Solutions,
		Usage: &dto.LLMUsage{
			Provider:         out.Meta.Provider,
			Model:            out.Meta.Model,
			PromptTokens:     out.Meta.PromptTokens,
			CompletionTokens: out.Meta.CompletionTokens,
		},
	}
	dto.Created(c, resp)
}

// EnqueueJob 投递异步方案生成任务
func (h *SolutionHandler) EnqueueJob(c *gin.Context) {
	needID := dto.BindNeedID(c)
	if needID == "" {
		dto.BadRequest(c, "need id is required")
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
	job, reused, err := h.jobSvc.EnqueueSolutionsGen(ctx, middleware.GetTenantID(ctx), needID, &jobs.GenParams{
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

// ListByNeed 获取需求下已生成的方案列表
func (h *SolutionHandler) ListByNeed(c *gin.Context) {
	needID := dto.BindNeedID(c)
	if needID == "" {
		dto.BadRequest(c, "need id is required")
		return
	}

	ctx := c.Request.Context()
	page := dto.BindPage(c)

	result, err := h.solutionsRepo.ListByNeed(ctx, needID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to list solutions"))
		return
	}

	dto.SuccessWithPage(c, dto.ToSolutionListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Get 获取单条方案
func (h *SolutionHandler) Get(c *gin.Context) {
	solutionID := dto.BindSolutionID(c)
	if solutionID == "" {
		dto.BadRequest(c, "solution id is required")
		return
	}

	ctx := c.Request.Context()
	solution, err := h.solutionsRepo.GetByID(ctx, solutionID)
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to load solution"))
		return
	}
	if solution == nil || solution.TenantID != middleware.GetTenantID(ctx) {
		respondAppError(c, errors.ErrSolutionNotFound)
		return
	}
	dto.Success(c, dto.ToSolutionResponse(solution))
}

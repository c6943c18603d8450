package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/application/research"
	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/pkg/errors"
	"biz-advisory-ai-api/pkg/logger"
)

// TrendHandler 趋势管理处理器
type TrendHandler struct {
	trends   repository.TrendRepository
	jobSvc   *jobs.Service
	research *research.Service
}

// NewTrendHandler 创建趋势处理器
func NewTrendHandler(trends repository.TrendRepository, jobSvc *jobs.Service, researchSvc *research.Service) *TrendHandler {
	return &TrendHandler{trends: trends, jobSvc: jobSvc, research: researchSvc}
}

func validTrendCategory(c entity.TrendCategory) bool {
	switch c {
	case entity.TrendCategoryTechnology, entity.TrendCategoryMarket,
		entity.TrendCategoryRegulatory, entity.TrendCategoryConsumer,
		entity.TrendCategoryWorkforce:
		return true
	}
	return false
}

func clampSignalStrength(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Create 创建趋势。创建成功后异步投递向量索引任务，
// 索引失败不影响趋势本身的写入。
func (h *TrendHandler) Create(c *gin.Context) {
	var req dto.CreateTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(ctx)

	category := entity.TrendCategory(req.Category)
	if req.Category != "" && !validTrendCategory(category) {
		dto.BadRequest(c, "invalid category: "+req.Category)
		return
	}

	trend := entity.NewTrend(tenantID, req.Title, req.Summary, category)
	if req.Source != "" {
		trend.Source = req.Source
	}
	if req.SignalStrength != 0 {
		trend.SignalStrength = clampSignalStrength(req.SignalStrength)
	}
	if len(req.Tags) > 0 {
		trend.Tags = req.Tags
	}

	if err := h.trends.Create(ctx, trend); err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to create trend"))
		return
	}

	h.enqueueIndex(c, trend.ID)
	dto.Created(c, dto.ToTrendResponse(trend))
}

// Get 获取单条趋势
func (h *TrendHandler) Get(c *gin.Context) {
	trend, ok := h.loadTrend(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToTrendResponse(trend))
}

// List 获取租户趋势列表
func (h *TrendHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(ctx)
	page := dto.BindPage(c)

	filter := &repository.TrendFilter{
		Category: entity.TrendCategory(c.Query("category")),
		Source:   c.Query("source"),
	}
	if filter.Category != "" && !validTrendCategory(filter.Category) {
		dto.BadRequest(c, "invalid category: "+string(filter.Category))
		return
	}

	result, err := h.trends.List(ctx, tenantID, filter, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to list trends"))
		return
	}

	dto.SuccessWithPage(c, dto.ToTrendListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Update 更新趋势，内容变化后重新投递向量索引
func (h *TrendHandler) Update(c *gin.Context) {
	trend, ok := h.loadTrend(c)
	if !ok {
		return
	}

	var req dto.UpdateTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	if req.Title != nil {
		if *req.Title == "" {
			dto.BadRequest(c, "title cannot be empty")
			return
		}
		trend.Title = *req.Title
	}
	if req.Summary != nil {
		trend.Summary = *req.Summary
	}
	if req.Category != nil {
		category := entity.TrendCategory(*req.Category)
		if !validTrendCategory(category) {
			dto.BadRequest(c, "invalid category: "+*req.Category)
			return
		}
		trend.Category = category
	}
	if req.Source != nil {
		trend.Source = *req.Source
	}
	if req.SignalStrength != nil {
		trend.SignalStrength = clampSignalStrength(*req.SignalStrength)
	}
	if req.Tags != nil {
		trend.Tags = req.Tags
	}

	if err := h.trends.Update(ctx, trend); err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to update trend"))
		return
	}

	h.enqueueIndex(c, trend.ID)
	dto.Success(c, dto.ToTrendResponse(trend))
}

// Delete 删除趋势并清理向量索引
func (h *TrendHandler) Delete(c *gin.Context) {
	trend, ok := h.loadTrend(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.trends.Delete(ctx, trend.ID); err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to delete trend"))
		return
	}

	if h.research != nil && h.research.Enabled() {
		if err := h.research.RemoveTrend(ctx, trend.TenantID, trend.ID); err != nil {
			logger.Warn(ctx, "failed to remove trend vector", "trend_id", trend.ID, "error", err)
		}
	}

	dto.NoContent(c)
}

// loadTrend 加载路径指向的趋势并校验租户归属
func (h *TrendHandler) loadTrend(c *gin.Context) (*entity.Trend, bool) {
	ctx := c.Request.Context()
	trendID := dto.BindTrendID(c)
	if trendID == "" {
		dto.BadRequest(c, "trend id is required")
		return nil, false
	}

	trend, err := h.trends.GetByID(ctx, trendID)
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to load trend"))
		return nil, false
	}
	if trend == nil || trend.TenantID != middleware.GetTenantID(ctx) {
		respondAppError(c, errors.ErrTrendNotFound)
		return nil, false
	}
	return trend, true
}

func (h *TrendHandler) enqueueIndex(c *gin.Context, trendID string) {
	if h.jobSvc == nil || h.research == nil || !h.research.Enabled() {
		return
	}
	ctx := c.Request.Context()
	if err := h.jobSvc.EnqueueTrendIndex(ctx, middleware.GetTenantID(ctx), trendID); err != nil {
		logger.Warn(ctx, "failed to enqueue trend index", "trend_id", trendID, "error", err)
	}
}

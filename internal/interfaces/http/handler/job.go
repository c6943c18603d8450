package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/application/jobs"
	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/pkg/errors"
)

// JobHandler 生成任务查询处理器
type JobHandler struct {
	jobSvc *jobs.Service
}

// NewJobHandler 创建任务处理器
func NewJobHandler(jobSvc *jobs.Service) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// Get 查询任务状态与结果
func (h *JobHandler) Get(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToJobResponse(job))
}

// List 获取租户任务列表，支持按类型、状态、趋势过滤
func (h *JobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(ctx)
	page := dto.BindPage(c)

	filter := &repository.JobFilter{
		JobType: entity.JobType(c.Query("job_type")),
		Status:  entity.JobStatus(c.Query("status")),
	}
	if trendID := c.Query("trend_id"); trendID != "" {
		filter.TrendID = &trendID
	}

	result, err := h.jobSvc.ListJobs(ctx, tenantID, filter, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.ToJobListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Cancel 取消尚未执行的任务
func (h *JobHandler) Cancel(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}

	cancelled, err := h.jobSvc.CancelJob(c.Request.Context(), job.ID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	dto.Success(c, &dto.CancelJobResponse{
		ID:        cancelled.ID,
		Cancelled: true,
	})
}

// loadJob 加载路径指向的任务并校验租户归属
func (h *JobHandler) loadJob(c *gin.Context) (*entity.GenerationJob, bool) {
	ctx := c.Request.Context()
	jobID := dto.BindJobID(c)
	if jobID == "" {
		dto.BadRequest(c, "job id is required")
		return nil, false
	}

	job, err := h.jobSvc.GetJob(ctx, jobID)
	if err != nil {
		respondAppError(c, err)
		return nil, false
	}
	if job.TenantID != middleware.GetTenantID(ctx) {
		respondAppError(c, errors.ErrJobNotFound)
		return nil, false
	}
	return job, true
}

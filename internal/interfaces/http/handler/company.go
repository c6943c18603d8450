package handler

import (
	"github.com/gin-gonic/gin"

	"biz-advisory-ai-api/internal/domain/entity"
	"biz-advisory-ai-api/internal/domain/repository"
	"biz-advisory-ai-api/internal/interfaces/http/dto"
	"biz-advisory-ai-api/internal/interfaces/http/middleware"
	"biz-advisory-ai-api/pkg/errors"
)

// CompanyHandler 公司画像处理器
type CompanyHandler struct {
	companies repository.CompanyRepository
}

// NewCompanyHandler 创建公司画像处理器
func NewCompanyHandler(companies repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func validCompanySize(s entity.CompanySize) bool {
	switch s {
	case entity.CompanySizeStartup, entity.CompanySizeSMB,
		entity.CompanySizeMidMarket, entity.CompanySizeEnterprise:
		return true
	}
	return false
}

func clampTechMaturity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Create 创建公司画像
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(ctx)

	size := entity.CompanySize(req.Size)
	if req.Size != "" && !validCompanySize(size) {
		dto.BadRequest(c, "invalid size: "+req.Size)
		return
	}

	profile := entity.NewCompanyProfile(tenantID, req.Name, req.Industry, size)
	if req.TechMaturity != 0 {
		profile.TechMaturity = clampTechMaturity(req.TechMaturity)
	}
	if len(req.Goals) > 0 {
		profile.Goals = req.Goals
	}
	if len(req.PainPoints) > 0 {
		profile.PainPoints = req.PainPoints
	}

	if err := h.companies.Create(ctx, profile); err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to create company profile"))
		return
	}

	dto.Created(c, dto.ToCompanyResponse(profile))
}

// Get 获取单个公司画像
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, ok := h.loadCompany(c)
	if !ok {
		return
	}
	dto.Success(c, dto.ToCompanyResponse(profile))
}

// List 获取租户公司画像列表
func (h *CompanyHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(ctx)
	page := dto.BindPage(c)

	result, err := h.companies.List(ctx, tenantID, repository.NewPagination(page.Page, page.PageSize))
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to list company profiles"))
		return
	}

	dto.SuccessWithPage(c, dto.ToCompanyListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Update 更新公司画像
func (h *CompanyHandler) Update(c *gin.Context) {
	profile, ok := h.loadCompany(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	if req.Name != nil {
		if *req.Name == "" {
			dto.BadRequest(c, "name cannot be empty")
			return
		}
		profile.Name = *req.Name
	}
	if req.Industry != nil {
		profile.Industry = *req.Industry
	}
	if req.Size != nil {
		size := entity.CompanySize(*req.Size)
		if !validCompanySize(size) {
			dto.BadRequest(c, "invalid size: "+*req.Size)
			return
		}
		profile.Size = size
	}
	if req.TechMaturity != nil {
		profile.TechMaturity = clampTechMaturity(*req.TechMaturity)
	}
	if req.Goals != nil {
		profile.Goals = req.Goals
	}
	if req.PainPoints != nil {
		profile.PainPoints = req.PainPoints
	}

	if err := h.companies.Update(ctx, profile); err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to update company profile"))
		return
	}

	dto.Success(c, dto.ToCompanyResponse(profile))
}

// loadCompany 加载路径指向的公司画像并校验租户归属
func (h *CompanyHandler) loadCompany(c *gin.Context) (*entity.CompanyProfile, bool) {
	ctx := c.Request.Context()
	companyID := dto.BindCompanyID(c)
	if companyID == "" {
		dto.BadRequest(c, "company id is required")
		return nil, false
	}

	profile, err := h.companies.GetByID(ctx, companyID)
	if err != nil {
		respondAppError(c, errors.Wrap(err, errors.CodeDatabaseError, "failed to load company profile"))
		return nil, false
	}
	if profile == nil || profile.TenantID != middleware.GetTenantID(ctx) {
		respondAppError(c, errors.ErrCompanyNotFound)
		return nil, false
	}
	return profile, true
}

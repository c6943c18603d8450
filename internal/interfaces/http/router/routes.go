package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 业务路由
func RegisterV1Routes(rg *gin.RouterGroup, h *Handlers) {
	v1 := rg.Group("/v1")

	trends := v1.Group("/trends")
	{
		trends.GET("", h.Trend.List)
		trends.POST("", h.Trend.Create)
		trends.GET("/:tid", h.Trend.Get)
		trends.PUT("/:tid", h.Trend.Update)
		trends.DELETE("/:tid", h.Trend.Delete)

		trends.POST("/:tid/needs/generate", h.Need.Generate)
		trends.POST("/:tid/needs/jobs", h.Need.EnqueueJob)
		trends.GET("/:tid/needs", h.Need.ListByTrend)
	}

	companies := v1.Group("/companies")
	{
		companies.GET("", h.Company.List)
		companies.POST("", h.Company.Create)
		companies.GET("/:cid", h.Company.Get)
		companies.PUT("/:cid", h.Company.Update)
	}

	needs := v1.Group("/needs")
	{
		needs.GET("/:nid", h.Need.Get)

		needs.POST("/:nid/solutions/generate", h.Solution.Generate)
		needs.POST("/:nid/solutions/jobs", h.Solution.EnqueueJob)
		needs.GET("/:nid/solutions", h.Solution.ListByNeed)
	}

	solutions := v1.Group("/solutions")
	{
		solutions.GET("/:sid", h.Solution.Get)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.GET("", h.Job.List)
		jobs.GET("/:jid", h.Job.Get)
		jobs.DELETE("/:jid", h.Job.Cancel)
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

// RegisterPublicRoutes - каталог открытых вакансий
func (h *JobHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.ListOpen)
		jobs.GET("/:id", h.GetOpen)
	}
}

// RegisterCompanyRoutes - управление вакансиями компании
func (h *JobHandler) RegisterCompanyRoutes(company *gin.RouterGroup) {
	jobs := company.Group("/jobs")
	{
		jobs.GET("", h.List)
		jobs.POST("", h.Create)
		jobs.GET("/:id", h.Get)
		jobs.PUT("/:id", h.Update)
		jobs.DELETE("/:id", h.Delete)
		jobs.PATCH("/:id/toggle", h.Toggle)
	}
}

// --- Public ---

func (h *JobHandler) ListOpen(c *gin.Context) {
	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	// Публичный список всегда только по открытым
	query.Active = nil

	result, err := h.jobService.ListOpen(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *JobHandler) GetOpen(c *gin.Context) {
	job, err := h.jobService.GetOpen(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", job)
}

// --- Company ---

func (h *JobHandler) List(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var query dto.JobListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.jobService.List(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *JobHandler) Create(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.JobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Job posted", job)
}

func (h *JobHandler) Get(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	job, err := h.jobService.Get(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", job)
}

func (h *JobHandler) Update(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.JobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Job updated", job)
}

func (h *JobHandler) Toggle(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	job, err := h.jobService.Toggle(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Job deactivated"
	if job.IsActive {
		message = "Job activated"
	}
	h.OK(c, message, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), h.GetDB(c), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Job deleted", nil)
}

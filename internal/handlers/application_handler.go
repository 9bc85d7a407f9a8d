package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// RegisterCompanyRoutes - отклики на вакансии компании
func (h *ApplicationHandler) RegisterCompanyRoutes(company *gin.RouterGroup) {
	apps := company.Group("/applications")
	{
		apps.GET("", h.ListForCompany)
		apps.GET("/stats", h.Stats)
		apps.POST("/bulk-status", h.BulkUpdateStatus)
		apps.GET("/:id", h.GetForCompany)
		apps.GET("/:id/resume", h.DownloadResume)
		apps.PATCH("/:id/status", h.UpdateStatus)
		apps.PATCH("/:id/notes", h.UpdateNotes)
	}
}

// RegisterStudentRoutes - отклики студента
func (h *ApplicationHandler) RegisterStudentRoutes(student *gin.RouterGroup) {
	student.POST("/jobs/:id/apply", h.Apply)

	apps := student.Group("/applications")
	{
		apps.GET("", h.ListForStudent)
		apps.GET("/:id", h.GetForStudent)
		apps.DELETE("/:id", h.Withdraw)
	}
}

// ============================================================================
// Student
// ============================================================================

func (h *ApplicationHandler) Apply(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}
	if req.Resume, ok = h.FormFile(c, "resume"); !ok {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Application submitted", app)
}

func (h *ApplicationHandler) ListForStudent(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.applicationService.ListForStudent(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *ApplicationHandler) GetForStudent(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetForStudent(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	if err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), identity, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Application withdrawn", nil)
}

// ============================================================================
// Company
// ============================================================================

func (h *ApplicationHandler) ListForCompany(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var query dto.ApplicationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	result, err := h.applicationService.ListForCompany(h.GetDB(c), identity, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", result)
}

func (h *ApplicationHandler) GetForCompany(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetForCompany(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, result.Message, result)
}

func (h *ApplicationHandler) UpdateNotes(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateNotesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateNotes(h.GetDB(c), identity, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Notes saved", app)
}

func (h *ApplicationHandler) BulkUpdateStatus(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.BulkStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.applicationService.BulkUpdateStatus(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Applications updated", result)
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	stats, err := h.applicationService.Stats(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", stats)
}

// DownloadResume: редирект на подписанную ссылку или поток файла
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	download, err := h.applicationService.ResumeDownload(c.Request.Context(), h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if download.URL != "" {
		c.Redirect(http.StatusFound, download.URL)
		return
	}
	defer download.Reader.Close()

	c.DataFromReader(http.StatusOK, -1, download.ContentType, download.Reader, map[string]string{
		"Content-Disposition": `attachment; filename="` + download.Filename + `"`,
	})
}

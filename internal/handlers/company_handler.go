package handlers

import (
	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
)

type CompanyHandler struct {
	*BaseHandler
	companyService   services.CompanyService
	dashboardService services.DashboardService
}

func NewCompanyHandler(base *BaseHandler, companyService services.CompanyService, dashboardService services.DashboardService) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler:      base,
		companyService:   companyService,
		dashboardService: dashboardService,
	}
}

// RegisterRoutes - профиль и дашборд компании. Группа уже под RoleMiddleware.
func (h *CompanyHandler) RegisterRoutes(company *gin.RouterGroup) {
	company.GET("/profile", h.GetProfile)
	company.PUT("/profile", h.UpdateProfile)
	company.DELETE("/profile", h.DeleteAccount)

	company.POST("/logo", h.UploadLogo)
	company.DELETE("/logo", h.DeleteLogo)

	company.GET("/dashboard", h.Dashboard)
}

func (h *CompanyHandler) GetProfile(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	profile, err := h.companyService.GetProfile(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", profile)
}

func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.companyService.UpdateProfile(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Profile updated", profile)
}

func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}
	file, ok := h.RequireFormFile(c, "logo")
	if !ok {
		return
	}

	uploaded, err := h.companyService.UploadLogo(c.Request.Context(), h.GetDB(c), identity, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Logo uploaded", uploaded)
}

func (h *CompanyHandler) DeleteLogo(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	if err := h.companyService.DeleteLogo(c.Request.Context(), h.GetDB(c), identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Logo removed", nil)
}

func (h *CompanyHandler) DeleteAccount(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	if err := h.companyService.DeleteAccount(c.Request.Context(), h.GetDB(c), identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Account deleted", nil)
}

func (h *CompanyHandler) Dashboard(c *gin.Context) {
	identity, ok := h.CompanyIdentity(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.CompanyDashboard(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", dashboard)
}

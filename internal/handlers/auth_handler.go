package handlers

import (
	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты /auth.
// limit ограничивает публичные ручки регистрации и входа, authMW нужен для logout.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, limit gin.HandlerFunc, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		company := auth.Group("/company", limit)
		company.POST("/register", h.RegisterCompany)
		company.POST("/login", h.LoginCompany)

		student := auth.Group("/student", limit)
		student.POST("/register", h.RegisterStudent)
		student.POST("/login", h.LoginStudent)

		auth.POST("/logout", authMW, h.Logout)
	}
}

func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req dto.RegisterCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.RegisterCompany(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Company account created", response)
}

func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.RegisterStudent(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.Created(c, "Student account created", response)
}

func (h *AuthHandler) LoginCompany(c *gin.Context) {
	h.login(c, models.UserRoleCompany)
}

func (h *AuthHandler) LoginStudent(c *gin.Context) {
	h.login(c, models.UserRoleStudent)
}

func (h *AuthHandler) login(c *gin.Context, role models.UserRole) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), h.GetDB(c), role, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Logged in successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, remaining := middleware.GetTokenInfo(c)

	if err := h.authService.Logout(c.Request.Context(), tokenID, remaining); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Logged out successfully", nil)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
)

type StudentHandler struct {
	*BaseHandler
	studentService   services.StudentService
	dashboardService services.DashboardService
}

func NewStudentHandler(base *BaseHandler, studentService services.StudentService, dashboardService services.DashboardService) *StudentHandler {
	return &StudentHandler{
		BaseHandler:      base,
		studentService:   studentService,
		dashboardService: dashboardService,
	}
}

func (h *StudentHandler) RegisterRoutes(student *gin.RouterGroup) {
	profile := student.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteAccount)

		profile.PUT("/skills", h.ReplaceSkills)
		profile.PUT("/education", h.ReplaceEducation)
		profile.PUT("/experience", h.ReplaceExperience)
		profile.PUT("/projects", h.ReplaceProjects)

		profile.POST("/picture", h.UploadPicture)
		profile.DELETE("/picture", h.DeletePicture)
		profile.POST("/resume", h.UploadResume)
		profile.DELETE("/resume", h.DeleteResume)
	}

	student.GET("/dashboard", h.Dashboard)
	student.POST("/jobs/:id/save", h.ToggleSavedJob)
	student.GET("/saved-jobs", h.ListSavedJobs)
}

// ============================================================================
// Profile
// ============================================================================

func (h *StudentHandler) GetProfile(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	profile, err := h.studentService.GetProfile(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", profile)
}

func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.studentService.UpdateProfile(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Profile updated", profile)
}

func (h *StudentHandler) DeleteAccount(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	if err := h.studentService.DeleteAccount(c.Request.Context(), h.GetDB(c), identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Account deleted", nil)
}

// ============================================================================
// Sections
// ============================================================================

func (h *StudentHandler) ReplaceSkills(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.SkillsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	skills, err := h.studentService.ReplaceSkills(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Skills saved", skills)
}

func (h *StudentHandler) ReplaceEducation(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.EducationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	education, err := h.studentService.ReplaceEducation(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Education saved", education)
}

func (h *StudentHandler) ReplaceExperience(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.ExperienceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	experience, err := h.studentService.ReplaceExperience(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Experience saved", experience)
}

func (h *StudentHandler) ReplaceProjects(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	var req dto.ProjectsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	projects, err := h.studentService.ReplaceProjects(h.GetDB(c), identity, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Projects saved", projects)
}

// ============================================================================
// Files
// ============================================================================

func (h *StudentHandler) UploadPicture(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}
	file, ok := h.RequireFormFile(c, "picture")
	if !ok {
		return
	}

	uploaded, err := h.studentService.UploadPicture(c.Request.Context(), h.GetDB(c), identity, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Profile picture uploaded", uploaded)
}

func (h *StudentHandler) DeletePicture(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	if err := h.studentService.DeletePicture(c.Request.Context(), h.GetDB(c), identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Profile picture removed", nil)
}

func (h *StudentHandler) UploadResume(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}
	file, ok := h.RequireFormFile(c, "resume")
	if !ok {
		return
	}

	uploaded, err := h.studentService.UploadResume(c.Request.Context(), h.GetDB(c), identity, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Resume uploaded", uploaded)
}

func (h *StudentHandler) DeleteResume(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	if err := h.studentService.DeleteResume(c.Request.Context(), h.GetDB(c), identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "Resume removed", nil)
}

// ============================================================================
// Dashboard & saved jobs
// ============================================================================

func (h *StudentHandler) Dashboard(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.StudentDashboard(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", dashboard)
}

func (h *StudentHandler) ToggleSavedJob(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	result, err := h.studentService.ToggleSavedJob(h.GetDB(c), identity, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	message := "Job removed from saved"
	if result.Saved {
		message = "Job saved"
	}
	h.OK(c, message, result)
}

func (h *StudentHandler) ListSavedJobs(c *gin.Context) {
	identity, ok := h.StudentIdentity(c)
	if !ok {
		return
	}

	saved, err := h.studentService.ListSavedJobs(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.OK(c, "", saved)
}

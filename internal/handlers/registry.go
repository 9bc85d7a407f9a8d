package handlers

import (
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	CompanyHandler     *CompanyHandler
	StudentHandler     *StudentHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v, svc.IdentityService)

	return &AppHandlers{
		AuthHandler:        NewAuthHandler(base, svc.AuthService),
		CompanyHandler:     NewCompanyHandler(base, svc.CompanyService, svc.DashboardService),
		StudentHandler:     NewStudentHandler(base, svc.StudentService, svc.DashboardService),
		JobHandler:         NewJobHandler(base, svc.JobService),
		ApplicationHandler: NewApplicationHandler(base, svc.ApplicationService),
	}
}

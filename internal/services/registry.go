package services

import (
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/email"
	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/storage"
)

// RepositoryContainer - все репозитории приложения. Репозитории без состояния.
type RepositoryContainer struct {
	UserRepo        repositories.UserRepository
	CompanyRepo     repositories.CompanyRepository
	StudentRepo     repositories.StudentRepository
	JobRepo         repositories.JobRepository
	ApplicationRepo repositories.ApplicationRepository
	SavedJobRepo    repositories.SavedJobRepository
}

func NewRepositoryContainer() *RepositoryContainer {
	return &RepositoryContainer{
		UserRepo:        repositories.NewUserRepository(),
		CompanyRepo:     repositories.NewCompanyRepository(),
		StudentRepo:     repositories.NewStudentRepository(),
		JobRepo:         repositories.NewJobRepository(),
		ApplicationRepo: repositories.NewApplicationRepository(),
		SavedJobRepo:    repositories.NewSavedJobRepository(),
	}
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	IdentityService     IdentityService
	AuthService         AuthService
	CompanyService      CompanyService
	StudentService      StudentService
	JobService          JobService
	ApplicationService  ApplicationService
	DashboardService    DashboardService
	NotificationService NotificationService
	FileService         FileService
}

// Dependencies - инфраструктура, которую собирает app
type Dependencies struct {
	Config        *config.Config
	Storage       storage.Storage
	EmailProvider email.Provider
	Tokens        *auth.TokenManager
	Denylist      auth.Denylist
}

func NewServiceContainer(repos *RepositoryContainer, deps Dependencies) *ServiceContainer {
	cfg := deps.Config

	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.ImageMaxWidth, cfg.Upload.ImageMaxHeight)
	files := NewFileService(deps.Storage, cfg.FileRules(), processor)
	notifier := NewNotificationService(deps.EmailProvider)

	return &ServiceContainer{
		IdentityService: NewIdentityService(repos.UserRepo, repos.CompanyRepo, repos.StudentRepo),
		AuthService: NewAuthService(
			repos.UserRepo,
			repos.CompanyRepo,
			repos.StudentRepo,
			deps.Tokens,
			deps.Denylist,
			notifier,
		),
		CompanyService: NewCompanyService(repos.CompanyRepo, repos.UserRepo, files),
		StudentService: NewStudentService(
			repos.StudentRepo,
			repos.UserRepo,
			repos.JobRepo,
			repos.SavedJobRepo,
			files,
		),
		JobService:         NewJobService(repos.JobRepo, files),
		ApplicationService: NewApplicationService(repos.ApplicationRepo, repos.JobRepo, files, notifier),
		DashboardService: NewDashboardService(
			repos.JobRepo,
			repos.ApplicationRepo,
			repos.SavedJobRepo,
			repos.StudentRepo,
			files,
			cfg.Dashboard.RecentDays,
			cfg.Dashboard.RecentLimit,
		),
		NotificationService: notifier,
		FileService:         files,
	}
}

package services

import (
	"context"

	"jobportal_backend/internal/email"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
)

// NotificationService отправляет письма по событиям портала.
// Ошибки отправки только логируются и никогда не ломают запрос.
type NotificationService interface {
	Welcome(ctx context.Context, user *models.User)
	ApplicationStatusChanged(ctx context.Context, app *models.JobApplication)
	NewApplication(ctx context.Context, job *models.Job, student *models.User)
}

type NotificationServiceImpl struct {
	provider email.Provider
}

func NewNotificationService(provider email.Provider) NotificationService {
	return &NotificationServiceImpl{provider: provider}
}

func (s *NotificationServiceImpl) Welcome(ctx context.Context, user *models.User) {
	if user == nil || user.Email == "" {
		return
	}
	s.send(ctx, user.Email, "Welcome to Job Portal", email.TemplateWelcome, email.TemplateData{
		"Name":     user.FullName(),
		"Role":     string(user.Role),
		"Username": user.Username,
	})
}

// ApplicationStatusChanged ожидает предзагруженные Student.User и Job.Company
func (s *NotificationServiceImpl) ApplicationStatusChanged(ctx context.Context, app *models.JobApplication) {
	if app == nil {
		return
	}
	if app.Student == nil || app.Student.User == nil || app.Job == nil {
		logger.CtxWarn(ctx, "Skipping status notification: relations not loaded", "application_id", app.ID)
		return
	}
	companyName := ""
	if app.Job.Company != nil {
		companyName = app.Job.Company.Name
	}
	s.send(ctx, app.Student.User.Email, "Your application status has changed", email.TemplateApplicationStatus, email.TemplateData{
		"StudentName": app.Student.User.FullName(),
		"JobTitle":    app.Job.Title,
		"CompanyName": companyName,
		"Status":      app.Status.Label(),
		"Message":     app.Status.Message(),
	})
}

// NewApplication уведомляет компанию. Адрес: контактный email компании,
// иначе email аккаунта.
func (s *NotificationServiceImpl) NewApplication(ctx context.Context, job *models.Job, student *models.User) {
	if job == nil || job.Company == nil || student == nil {
		return
	}
	to := job.Company.ContactEmail
	if to == "" && job.Company.User != nil {
		to = job.Company.User.Email
	}
	if to == "" {
		return
	}
	s.send(ctx, to, "New application for "+job.Title, email.TemplateNewApplication, email.TemplateData{
		"CompanyName": job.Company.Name,
		"StudentName": student.FullName(),
		"JobTitle":    job.Title,
	})
}

func (s *NotificationServiceImpl) send(ctx context.Context, to, subject, template string, data email.TemplateData) {
	if s.provider == nil {
		return
	}
	if err := s.provider.SendTemplate(ctx, []string{to}, subject, template, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send email", err, "template", template, "to", to)
	}
}

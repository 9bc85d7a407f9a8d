package dto

import (
	"io"
	"mime/multipart"
	"time"

	"jobportal_backend/internal/models"
)

// ApplyRequest - отклик на вакансию (multipart/form-data).
// Resume необязателен, если резюме есть в профиле.
type ApplyRequest struct {
	CoverLetter  string                `form:"cover_letter" json:"cover_letter" validate:"required,max=5000"`
	PortfolioURL string                `form:"portfolio_url" json:"portfolio_url" validate:"omitempty,url,max=255"`
	Resume       *multipart.FileHeader `form:"-" json:"-"`
}

// UpdateStatusRequest - токен статуса проверяется сервисом, а не валидатором,
// чтобы клиент получил INVALID_STATUS
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type BulkStatusRequest struct {
	ApplicationIDs []string `json:"application_ids" validate:"required,min=1,max=100,dive,required"`
	Status         string   `json:"status" validate:"required"`
}

// ApplicationListQuery - фильтры списка откликов
type ApplicationListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,is-application-status"`
	JobID  string `form:"job_id" json:"job_id" validate:"omitempty,max=36"`
	Search string `form:"search" json:"search" validate:"max=200"`
	PageQuery
}

type StatusChangeResponse struct {
	ID         string                   `json:"id"`
	Status     models.ApplicationStatus `json:"status"`
	Label      string                   `json:"label"`
	ReviewedAt *time.Time               `json:"reviewed_at"`
	Message    string                   `json:"message"`
}

type BulkStatusResponse struct {
	Requested int                      `json:"requested"`
	Updated   int64                    `json:"updated"`
	Status    models.ApplicationStatus `json:"status"`
}

// JobApplicationCount - число откликов на вакансию
type JobApplicationCount struct {
	JobID string `json:"job_id"`
	Title string `json:"title"`
	Count int64  `json:"count"`
}

// ApplicationStats - счетчики откликов. ByStatus всегда содержит все статусы.
type ApplicationStats struct {
	Total        int64                              `json:"total"`
	ByStatus     map[models.ApplicationStatus]int64 `json:"by_status"`
	ResponseRate float64                            `json:"response_rate"`
	PerJob       []JobApplicationCount              `json:"per_job,omitempty"`
}

// FileDownload - либо URL для редиректа, либо поток с содержимым
type FileDownload struct {
	URL         string
	Reader      io.ReadCloser
	Filename    string
	ContentType string
}

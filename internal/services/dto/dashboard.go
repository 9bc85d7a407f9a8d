package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

const (
	ActivityApplication = "application"
	ActivityJobPosted   = "job_posted"
)

// ActivityItem - событие ленты недавней активности
type ActivityItem struct {
	Type          string                   `json:"type"`
	Title         string                   `json:"title"`
	JobID         string                   `json:"job_id,omitempty"`
	ApplicationID string                   `json:"application_id,omitempty"`
	Status        models.ApplicationStatus `json:"status,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
}

type CompanyDashboard struct {
	Company        *models.Company  `json:"company"`
	TotalJobs      int64            `json:"total_jobs"`
	ActiveJobs     int64            `json:"active_jobs"`
	InactiveJobs   int64            `json:"inactive_jobs"`
	Applications   ApplicationStats `json:"applications"`
	RecentActivity []ActivityItem   `json:"recent_activity"`
}

type StudentDashboard struct {
	Profile           *models.StudentProfile `json:"profile"`
	ProfileCompletion int                    `json:"profile_completion"`
	SavedJobs         int64                  `json:"saved_jobs"`
	Applications      ApplicationStats       `json:"applications"`
	RecentActivity    []ActivityItem         `json:"recent_activity"`
}

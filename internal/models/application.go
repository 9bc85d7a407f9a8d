package models

import "time"

// JobApplication - отклик студента на вакансию. Пара (student, job) уникальна.
type JobApplication struct {
	BaseModel
	JobID        string            `gorm:"size:36;not null;index;uniqueIndex:idx_application_student_job,priority:2" json:"job_id"`
	Job          *Job              `gorm:"foreignKey:JobID" json:"job,omitempty"`
	StudentID    string            `gorm:"size:36;not null;uniqueIndex:idx_application_student_job,priority:1" json:"student_id"`
	Student      *StudentProfile   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CoverLetter  string            `gorm:"type:text;not null" json:"cover_letter"`
	ResumePath   string            `gorm:"size:255" json:"resume_path"`
	PortfolioURL string            `gorm:"size:255" json:"portfolio_url"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy   *string           `gorm:"size:36" json:"reviewed_by,omitempty"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
}

// AppliedAt - момент подачи отклика
func (a *JobApplication) AppliedAt() time.Time {
	return a.CreatedAt
}

// MarkReviewed выставляет новый статус и отметку о рецензенте
func (a *JobApplication) MarkReviewed(status ApplicationStatus, reviewerID string, at time.Time) {
	a.Status = status
	a.ReviewedAt = &at
	a.ReviewedBy = &reviewerID
}

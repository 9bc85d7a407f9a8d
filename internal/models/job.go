package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Job struct {
	BaseModel
	CompanyID          string         `gorm:"size:36;not null;index" json:"company_id"`
	Company            *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Title              string         `gorm:"size:200;not null" json:"title"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	Requirements       string         `gorm:"type:text" json:"requirements"`
	Location           string         `gorm:"size:200" json:"location"`
	SalaryMin          *int           `json:"salary_min,omitempty"`
	SalaryMax          *int           `json:"salary_max,omitempty"`
	RequiredSkills     string         `gorm:"type:text" json:"required_skills"` // через запятую
	ExperienceRequired string         `gorm:"size:100" json:"experience_required"`
	JobType            JobType        `gorm:"type:varchar(20);not null" json:"job_type"`
	Deadline           datatypes.Date `gorm:"not null;index" json:"deadline"`
	IsActive           bool           `gorm:"not null;index" json:"is_active"`
	PositionsAvailable int            `gorm:"not null" json:"positions_available"`

	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	SavedBy      []SavedJob       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`

	ApplicationsCount int64 `gorm:"-" json:"applications_count"`
}

// BeforeSave: вакансия с прошедшим дедлайном не может быть активной
func (j *Job) BeforeSave(tx *gorm.DB) error {
	j.ApplyDeadline(time.Now())
	return nil
}

// ApplyDeadline снимает флаг активности, если дедлайн строго раньше текущей даты
func (j *Job) ApplyDeadline(now time.Time) {
	if j.IsExpired(now) {
		j.IsActive = false
	}
}

// IsExpired сравнивает только календарные даты: в день дедлайна вакансия еще открыта
func (j *Job) IsExpired(now time.Time) bool {
	deadline := time.Time(j.Deadline)
	if deadline.IsZero() {
		return false
	}
	return DateOnly(deadline).Before(DateOnly(now))
}

// IsOpen - вакансия принимает отклики
func (j *Job) IsOpen(now time.Time) bool {
	return j.IsActive && !j.IsExpired(now)
}

// Skills разбирает required_skills в список без пустых элементов
func (j *Job) Skills() []string {
	var skills []string
	for _, s := range strings.Split(j.RequiredSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// DateOnly отбрасывает время и зону, оставляя календарную дату
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

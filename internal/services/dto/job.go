package dto

// DateLayout - формат дат в запросах
const DateLayout = "2006-01-02"

// JobRequest - создание и полное обновление вакансии
type JobRequest struct {
	Title              string `json:"title" validate:"required,max=200"`
	Description        string `json:"description" validate:"required"`
	Requirements       string `json:"requirements"`
	Location           string `json:"location" validate:"max=200"`
	SalaryMin          *int   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax          *int   `json:"salary_max" validate:"omitempty,gte=0"`
	RequiredSkills     string `json:"required_skills"`
	ExperienceRequired string `json:"experience_required" validate:"max=100"`
	JobType            string `json:"job_type" validate:"required,is-job-type"`
	Deadline           string `json:"deadline" validate:"required,datetime=2006-01-02"`
	// nil = активна
	IsActive           *bool `json:"is_active"`
	PositionsAvailable int   `json:"positions_available" validate:"required,min=1"`
}

// WantsActive - запрошенное значение флага активности
func (r *JobRequest) WantsActive() bool {
	return r.IsActive == nil || *r.IsActive
}

// JobListQuery - фильтры списка вакансий
type JobListQuery struct {
	Search   string `form:"search" json:"search" validate:"max=200"`
	JobType  string `form:"job_type" json:"job_type" validate:"omitempty,is-job-type"`
	Location string `form:"location" json:"location" validate:"max=200"`
	// только для списка компании
	Active *bool `form:"active" json:"active"`
	PageQuery
}

package dto

// UpdateStudentRequest - частичное обновление профиля студента
type UpdateStudentRequest struct {
	FirstName      *string  `json:"first_name" validate:"omitempty,min=1,max=150"`
	LastName       *string  `json:"last_name" validate:"omitempty,min=1,max=150"`
	Phone          *string  `json:"phone" validate:"omitempty,max=20"`
	Location       *string  `json:"location" validate:"omitempty,max=200"`
	DateOfBirth    *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Bio            *string  `json:"bio" validate:"omitempty,max=2000"`
	CollegeName    *string  `json:"college_name" validate:"omitempty,max=200"`
	Degree         *string  `json:"degree" validate:"omitempty,max=100"`
	GraduationYear *int     `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
	GPA            *float64 `json:"gpa" validate:"omitempty,gte=0,lte=10"`
	LinkedInURL    *string  `json:"linkedin_url" validate:"omitempty,url,max=255"`
	GitHubURL      *string  `json:"github_url" validate:"omitempty,url,max=255"`
	PortfolioURL   *string  `json:"portfolio_url" validate:"omitempty,url,max=255"`
}

type SkillInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// Лимиты количества проверяет сервис, чтобы вернуть LIMIT_EXCEEDED с разделом
type SkillsRequest struct {
	Skills []SkillInput `json:"skills" validate:"dive"`
}

type EducationInput struct {
	Institution  string `json:"institution" validate:"required,max=200"`
	Degree       string `json:"degree" validate:"max=100"`
	FieldOfStudy string `json:"field_of_study" validate:"max=100"`
	StartYear    *int   `json:"start_year" validate:"omitempty,gte=1950,lte=2100"`
	EndYear      *int   `json:"end_year" validate:"omitempty,gte=1950,lte=2100"`
}

type EducationRequest struct {
	Education []EducationInput `json:"education" validate:"dive"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"required,max=200"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01"`
	Description string `json:"description" validate:"max=2000"`
}

type ExperienceRequest struct {
	Experience []ExperienceInput `json:"experience" validate:"dive"`
}

type ProjectInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	URL          string `json:"url" validate:"omitempty,url,max=255"`
	Technologies string `json:"technologies" validate:"max=255"`
}

type ProjectsRequest struct {
	Projects []ProjectInput `json:"projects" validate:"dive"`
}

type SaveToggleResponse struct {
	JobID string `json:"job_id"`
	Saved bool   `json:"saved"`
}

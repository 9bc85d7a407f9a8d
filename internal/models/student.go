package models

import (
	"gorm.io/datatypes"
)

// Лимиты записей в разделах профиля студента
const (
	MaxStudentSkills     = 4
	MaxStudentEducation  = 2
	MaxStudentExperience = 3
	MaxStudentProjects   = 3
)

type StudentProfile struct {
	BaseModel
	UserID             string          `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User               *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Phone              string          `gorm:"size:20" json:"phone"`
	Location           string          `gorm:"size:200" json:"location"`
	DateOfBirth        *datatypes.Date `json:"date_of_birth,omitempty"`
	Bio                string          `gorm:"type:text" json:"bio"`
	CollegeName        string          `gorm:"size:200" json:"college_name"`
	Degree             string          `gorm:"size:100" json:"degree"`
	GraduationYear     *int            `json:"graduation_year,omitempty"`
	GPA                *float64        `json:"gpa,omitempty"`
	LinkedInURL        string          `gorm:"column:linkedin_url;size:255" json:"linkedin_url"`
	GitHubURL          string          `gorm:"column:github_url;size:255" json:"github_url"`
	PortfolioURL       string          `gorm:"size:255" json:"portfolio_url"`
	ResumePath         string          `gorm:"size:255" json:"resume_path"`
	ProfilePicturePath string          `gorm:"size:255" json:"profile_picture_path"`

	ProfilePictureURL string `gorm:"-" json:"profile_picture_url,omitempty"`

	Skills      []StudentSkill      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"skills"`
	Education   []StudentEducation  `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"education"`
	Experience  []StudentExperience `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"experience"`
	Projects    []StudentProject    `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"projects"`
	Applications []JobApplication   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	SavedJobs   []SavedJob          `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// Completion - процент заполненности профиля (0..100)
func (p *StudentProfile) Completion() int {
	checks := []bool{
		p.Phone != "",
		p.Location != "",
		p.Bio != "",
		p.CollegeName != "",
		p.Degree != "",
		p.GraduationYear != nil,
		p.ResumePath != "",
		p.ProfilePicturePath != "",
		len(p.Skills) > 0,
		len(p.Education) > 0,
	}
	filled := 0
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return filled * 100 / len(checks)
}

type StudentSkill struct {
	BaseModel
	StudentID string `gorm:"size:36;not null;index" json:"-"`
	Ordinal   int    `gorm:"not null" json:"ordinal"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Level     string `gorm:"size:20" json:"level"`
}

type StudentEducation struct {
	BaseModel
	StudentID    string `gorm:"size:36;not null;index" json:"-"`
	Ordinal      int    `gorm:"not null" json:"ordinal"`
	Institution  string `gorm:"size:200;not null" json:"institution"`
	Degree       string `gorm:"size:100" json:"degree"`
	FieldOfStudy string `gorm:"size:100" json:"field_of_study"`
	StartYear    *int   `json:"start_year,omitempty"`
	EndYear      *int   `json:"end_year,omitempty"`
}

func (StudentEducation) TableName() string { return "student_education" }

type StudentExperience struct {
	BaseModel
	StudentID   string `gorm:"size:36;not null;index" json:"-"`
	Ordinal     int    `gorm:"not null" json:"ordinal"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Company     string `gorm:"size:200;not null" json:"company"`
	StartDate   string `gorm:"size:7" json:"start_date"` // YYYY-MM
	EndDate     string `gorm:"size:7" json:"end_date"`   // пусто = по настоящее время
	Description string `gorm:"type:text" json:"description"`
}

func (StudentExperience) TableName() string { return "student_experience" }

type StudentProject struct {
	BaseModel
	StudentID    string `gorm:"size:36;not null;index" json:"-"`
	Ordinal      int    `gorm:"not null" json:"ordinal"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	URL          string `gorm:"size:255" json:"url"`
	Technologies string `gorm:"size:255" json:"technologies"`
}

// SavedJob - закладка студента на вакансию
type SavedJob struct {
	BaseModel
	StudentID string `gorm:"size:36;not null;uniqueIndex:idx_saved_student_job,priority:1" json:"student_id"`
	JobID     string `gorm:"size:36;not null;index;uniqueIndex:idx_saved_student_job,priority:2" json:"job_id"`
	Job       *Job   `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

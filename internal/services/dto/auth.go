package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

// RegisterCompanyRequest - регистрация работодателя
type RegisterCompanyRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`

	CompanyName string `json:"company_name" validate:"required,max=200"`
	Industry    string `json:"industry" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=20"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description"`
}

// RegisterStudentRequest - регистрация студента
type RegisterStudentRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`

	Phone          string `json:"phone" validate:"max=20"`
	Location       string `json:"location" validate:"max=200"`
	CollegeName    string `json:"college_name" validate:"max=200"`
	Degree         string `json:"degree" validate:"max=100"`
	GraduationYear *int   `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
}

// LoginRequest - вход по username и паролю
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// AuthResponse - ответ с токеном доступа
type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

package models

import (
	"strings"
	"time"
)

// User - аккаунт. К нему привязан ровно один профиль роли: Company или StudentProfile.
type User struct {
	BaseModel
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"size:150" json:"first_name"`
	LastName     string     `gorm:"size:150" json:"last_name"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Company        *Company        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

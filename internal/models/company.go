package models

type Company struct {
	BaseModel
	UserID       string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User         *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name         string `gorm:"size:200;not null;index" json:"name"`
	Industry     string `gorm:"size:100" json:"industry"`
	Phone        string `gorm:"size:20" json:"phone"`
	ContactEmail string `gorm:"size:254" json:"contact_email"`
	Website      string `gorm:"size:255" json:"website"`
	Location     string `gorm:"size:200" json:"location"`
	Description  string `gorm:"type:text" json:"description"`
	LogoPath     string `gorm:"size:255" json:"logo_path"`
	LogoURL      string `gorm:"-" json:"logo_url,omitempty"`

	Jobs []Job `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

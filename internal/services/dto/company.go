package dto

// UpdateCompanyRequest - частичное обновление профиля компании.
// nil-поля не меняются.
type UpdateCompanyRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Industry     *string `json:"industry" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=20"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=254"`
	Website      *string `json:"website" validate:"omitempty,url,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	Description  *string `json:"description"`
}

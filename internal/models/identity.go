package models

// Identity - результат разрешения аккаунта в профиль роли.
// Ровно одно из Company / Student заполнено.
type Identity struct {
	User    *User
	Company *Company
	Student *StudentProfile
}

func (i *Identity) UserID() string {
	if i == nil || i.User == nil {
		return ""
	}
	return i.User.ID
}

func (i *Identity) IsCompany() bool {
	return i != nil && i.Company != nil
}

func (i *Identity) IsStudent() bool {
	return i != nil && i.Student != nil
}

package services

import (
	"errors"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/pkg/apperrors"
)

// Куда отправлять пользователя без профиля нужной роли
const (
	CompanyRegisterRoute = "/api/v1/auth/company/register"
	CompanyLoginRoute    = "/api/v1/auth/company/login"
	StudentRegisterRoute = "/api/v1/auth/student/register"
	StudentLoginRoute    = "/api/v1/auth/student/login"
)

// IdentityService разрешает аккаунт в профиль роли. Без побочных эффектов.
type IdentityService interface {
	Resolve(db *gorm.DB, userID string) (*models.Identity, error)
	RequireCompany(db *gorm.DB, userID string) (*models.Identity, error)
	RequireStudent(db *gorm.DB, userID string) (*models.Identity, error)
}

type IdentityServiceImpl struct {
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	studentRepo repositories.StudentRepository
}

func NewIdentityService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	studentRepo repositories.StudentRepository,
) IdentityService {
	return &IdentityServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		studentRepo: studentRepo,
	}
}

// Resolve возвращает Identity, в которой заполнен не более чем один профиль.
// Отсутствие профиля не ошибка: решение принимают RequireCompany/RequireStudent.
func (s *IdentityServiceImpl) Resolve(db *gorm.DB, userID string) (*models.Identity, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Account no longer exists")
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	identity := &models.Identity{User: user}
	switch user.Role {
	case models.UserRoleCompany:
		company, err := s.companyRepo.FindByUserID(db, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil, apperrors.DatabaseError(err)
		}
		identity.Company = company
	case models.UserRoleStudent:
		student, err := s.studentRepo.FindByUserID(db, user.ID)
		if err != nil && !errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.DatabaseError(err)
		}
		identity.Student = student
	}
	return identity, nil
}

func (s *IdentityServiceImpl) RequireCompany(db *gorm.DB, userID string) (*models.Identity, error) {
	identity, err := s.Resolve(db, userID)
	if err != nil {
		return nil, err
	}
	if !identity.IsCompany() {
		redirect := CompanyLoginRoute
		if identity.User.Role == models.UserRoleCompany {
			redirect = CompanyRegisterRoute
		}
		return nil, apperrors.ErrNoRoleProfile(string(models.UserRoleCompany), redirect)
	}
	return identity, nil
}

func (s *IdentityServiceImpl) RequireStudent(db *gorm.DB, userID string) (*models.Identity, error) {
	identity, err := s.Resolve(db, userID)
	if err != nil {
		return nil, err
	}
	if !identity.IsStudent() {
		redirect := StudentLoginRoute
		if identity.User.Role == models.UserRoleStudent {
			redirect = StudentRegisterRoute
		}
		return nil, apperrors.ErrNoRoleProfile(string(models.UserRoleStudent), redirect)
	}
	return identity, nil
}

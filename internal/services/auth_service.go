package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type AuthService interface {
	RegisterCompany(ctx context.Context, db *gorm.DB, req *dto.RegisterCompanyRequest) (*dto.AuthResponse, error)
	RegisterStudent(ctx context.Context, db *gorm.DB, req *dto.RegisterStudentRequest) (*dto.AuthResponse, error)
	// Login пускает только аккаунты роли role: студент не войдет через вход компании
	Login(ctx context.Context, db *gorm.DB, role models.UserRole, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Logout отзывает токен до конца его срока жизни
	Logout(ctx context.Context, tokenID string, remaining time.Duration) error
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	studentRepo repositories.StudentRepository
	tokens      *auth.TokenManager
	denylist    auth.Denylist
	notifier    NotificationService
	now         func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	studentRepo repositories.StudentRepository,
	tokens *auth.TokenManager,
	denylist auth.Denylist,
	notifier NotificationService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		studentRepo: studentRepo,
		tokens:      tokens,
		denylist:    denylist,
		notifier:    notifier,
		now:         time.Now,
	}
}

// =======================
// Registration
// =======================

func (s *AuthServiceImpl) RegisterCompany(ctx context.Context, db *gorm.DB, req *dto.RegisterCompanyRequest) (*dto.AuthResponse, error) {
	user, err := s.newUser(db, models.UserRoleCompany, req.Username, req.Email, req.Password, req.ConfirmPassword, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleRegisterError(err)
	}

	company := &models.Company{
		UserID:       user.ID,
		Name:         strings.TrimSpace(req.CompanyName),
		Industry:     req.Industry,
		Phone:        req.Phone,
		ContactEmail: user.Email,
		Website:      req.Website,
		Location:     req.Location,
		Description:  req.Description,
	}
	if err := s.companyRepo.Create(tx, company); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Company registered", "user_id", user.ID, "company_id", company.ID)
	s.notifier.Welcome(ctx, user)

	return s.issueToken(user)
}

func (s *AuthServiceImpl) RegisterStudent(ctx context.Context, db *gorm.DB, req *dto.RegisterStudentRequest) (*dto.AuthResponse, error) {
	user, err := s.newUser(db, models.UserRoleStudent, req.Username, req.Email, req.Password, req.ConfirmPassword, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, handleRegisterError(err)
	}

	profile := &models.StudentProfile{
		UserID:         user.ID,
		Phone:          req.Phone,
		Location:       req.Location,
		CollegeName:    req.CollegeName,
		Degree:         req.Degree,
		GraduationYear: req.GraduationYear,
	}
	if err := s.studentRepo.Create(tx, profile); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Student registered", "user_id", user.ID, "student_id", profile.ID)
	s.notifier.Welcome(ctx, user)

	return s.issueToken(user)
}

// newUser проверяет пароль и уникальность, возвращает несохраненный аккаунт
func (s *AuthServiceImpl) newUser(db *gorm.DB, role models.UserRole, username, email, password, confirm, firstName, lastName string) (*models.User, error) {
	if password != confirm {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.userRepo.ExistsByUsername(db, username)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrUsernameAlreadyExists
	}
	exists, err = s.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Role:         role,
		IsActive:     true,
	}, nil
}

// Параллельная регистрация с тем же username/email упирается в уникальный индекс
func handleRegisterError(err error) error {
	if errors.Is(err, repositories.ErrUserAlreadyExists) {
		return apperrors.ErrUsernameAlreadyExists
	}
	return apperrors.DatabaseError(err)
}

// =======================
// Login / Logout
// =======================

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, role models.UserRole, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(db, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	// Пароль проверяем до роли, чтобы не раскрывать существование аккаунта
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if user.Role != role {
		return nil, apperrors.ErrWrongPortal(string(role))
	}

	if err := s.userRepo.UpdateLastLogin(db, user.ID, s.now()); err != nil {
		logger.CtxWithError(ctx, "Failed to update last login", err, "user_id", user.ID)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID, "role", user.Role)
	return s.issueToken(user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, tokenID string, remaining time.Duration) error {
	if tokenID == "" || remaining <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, tokenID, remaining); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, claims, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        dto.NewUserResponse(user),
	}, nil
}

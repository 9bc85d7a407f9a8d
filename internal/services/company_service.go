package services

import (
	"context"
	"mime/multipart"

	"gorm.io/gorm"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type CompanyService interface {
	GetProfile(db *gorm.DB, identity *models.Identity) (*models.Company, error)
	UpdateProfile(db *gorm.DB, identity *models.Identity, req *dto.UpdateCompanyRequest) (*models.Company, error)
	UploadLogo(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error)
	DeleteLogo(ctx context.Context, db *gorm.DB, identity *models.Identity) error
	// DeleteAccount удаляет компанию, ее вакансии, отклики на них и сам аккаунт
	DeleteAccount(ctx context.Context, db *gorm.DB, identity *models.Identity) error
}

type CompanyServiceImpl struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
	files       FileService
}

func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	files FileService,
) CompanyService {
	return &CompanyServiceImpl{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		files:       files,
	}
}

func (s *CompanyServiceImpl) GetProfile(db *gorm.DB, identity *models.Identity) (*models.Company, error) {
	company := *identity.Company
	company.User = identity.User
	company.LogoURL = s.files.URL(company.LogoPath)
	return &company, nil
}

func (s *CompanyServiceImpl) UpdateProfile(db *gorm.DB, identity *models.Identity, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	company := *identity.Company

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.ContactEmail != nil {
		company.ContactEmail = *req.ContactEmail
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.Location != nil {
		company.Location = *req.Location
	}
	if req.Description != nil {
		company.Description = *req.Description
	}

	if err := s.companyRepo.Update(db, &company); err != nil {
		return nil, handleRepoError(err)
	}

	company.User = identity.User
	company.LogoURL = s.files.URL(company.LogoPath)
	return &company, nil
}

// UploadLogo заменяет логотип. Старый файл удаляется только после
// успешного сохранения новой ссылки.
func (s *CompanyServiceImpl) UploadLogo(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	uploaded, err := s.files.Upload(ctx, config.FileKindCompanyLogo, file)
	if err != nil {
		return nil, err
	}

	company := *identity.Company
	oldPath := company.LogoPath
	company.LogoPath = uploaded.Key
	if err := s.companyRepo.Update(db, &company); err != nil {
		s.files.Remove(ctx, uploaded.Key)
		return nil, handleRepoError(err)
	}

	s.files.Remove(ctx, oldPath)
	return uploaded, nil
}

func (s *CompanyServiceImpl) DeleteLogo(ctx context.Context, db *gorm.DB, identity *models.Identity) error {
	company := *identity.Company
	if company.LogoPath == "" {
		return apperrors.ErrNotFound(nil).WithDetails(map[string]string{"logo": "No logo uploaded"})
	}

	oldPath := company.LogoPath
	company.LogoPath = ""
	if err := s.companyRepo.Update(db, &company); err != nil {
		return handleRepoError(err)
	}

	s.files.Remove(ctx, oldPath)
	return nil
}

func (s *CompanyServiceImpl) DeleteAccount(ctx context.Context, db *gorm.DB, identity *models.Identity) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	resumes, err := s.companyRepo.DeleteCascade(tx, identity.Company.ID)
	if err != nil {
		return handleRepoError(err)
	}
	if err := s.userRepo.Delete(tx, identity.UserID()); err != nil {
		return handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.DatabaseError(err)
	}

	// Файлы удаляем после коммита: лишний файл лучше битой ссылки
	s.files.Remove(ctx, append(resumes, identity.Company.LogoPath)...)

	logger.CtxInfo(ctx, "Company account deleted",
		"user_id", identity.UserID(), "company_id", identity.Company.ID, "resumes_removed", len(resumes))
	return nil
}

package repositories

import (
	"errors"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository interface {
	Create(db *gorm.DB, company *models.Company) error
	FindByUserID(db *gorm.DB, userID string) (*models.Company, error)
	Update(db *gorm.DB, company *models.Company) error
	// DeleteCascade удаляет компанию вместе с вакансиями, откликами и закладками на них.
	// Возвращает ключи файлов резюме, которые нужно удалить из хранилища.
	DeleteCascade(db *gorm.DB, companyID string) ([]string, error)
}

type CompanyRepositoryImpl struct{}

func NewCompanyRepository() CompanyRepository {
	return &CompanyRepositoryImpl{}
}

func (r *CompanyRepositoryImpl) Create(db *gorm.DB, company *models.Company) error {
	return db.Create(company).Error
}

func (r *CompanyRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Company, error) {
	var company models.Company
	if err := db.Preload("User").First(&company, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) Update(db *gorm.DB, company *models.Company) error {
	return db.Model(company).Select(
		"Name", "Industry", "Phone", "ContactEmail", "Website", "Location", "Description", "LogoPath",
	).Updates(company).Error
}

// Каскад выполняется явно в транзакции, не полагаясь на ON DELETE CASCADE,
// которого может не быть в существующей схеме.
func (r *CompanyRepositoryImpl) DeleteCascade(db *gorm.DB, companyID string) ([]string, error) {
	var resumes []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id IN (?) AND resume_path <> ''", ownedJobIDs(tx, companyID)).
			Pluck("resume_path", &resumes).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id IN (?)", ownedJobIDs(tx, companyID)).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id IN (?)", ownedJobIDs(tx, companyID)).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", companyID).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Company{}, "id = ?", companyID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resumes, nil
}

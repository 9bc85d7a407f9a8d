package repositories

import (
	"errors"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

var ErrStudentNotFound = errors.New("student profile not found")

type StudentRepository interface {
	Create(db *gorm.DB, profile *models.StudentProfile) error
	FindByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error)
	// FindDetailedByUserID подгружает навыки, образование, опыт и проекты
	FindDetailedByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error)
	Update(db *gorm.DB, profile *models.StudentProfile) error

	ReplaceSkills(db *gorm.DB, studentID string, skills []models.StudentSkill) error
	ReplaceEducation(db *gorm.DB, studentID string, items []models.StudentEducation) error
	ReplaceExperience(db *gorm.DB, studentID string, items []models.StudentExperience) error
	ReplaceProjects(db *gorm.DB, studentID string, items []models.StudentProject) error

	// DeleteCascade удаляет профиль со всеми откликами, закладками и разделами.
	// Возвращает ключи файлов резюме из откликов для очистки хранилища.
	DeleteCascade(db *gorm.DB, studentID string) ([]string, error)
}

type StudentRepositoryImpl struct{}

func NewStudentRepository() StudentRepository {
	return &StudentRepositoryImpl{}
}

func (r *StudentRepositoryImpl) Create(db *gorm.DB, profile *models.StudentProfile) error {
	return db.Omit("User").Create(profile).Error
}

func (r *StudentRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := db.Preload("User").First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *StudentRepositoryImpl) FindDetailedByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := db.Preload("User").
		Preload("Skills", orderByOrdinal).
		Preload("Education", orderByOrdinal).
		Preload("Experience", orderByOrdinal).
		Preload("Projects", orderByOrdinal).
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *StudentRepositoryImpl) Update(db *gorm.DB, profile *models.StudentProfile) error {
	return db.Model(profile).Select(
		"Phone", "Location", "DateOfBirth", "Bio", "CollegeName", "Degree", "GraduationYear", "GPA",
		"LinkedInURL", "GitHubURL", "PortfolioURL", "ResumePath", "ProfilePicturePath",
	).Updates(profile).Error
}

func (r *StudentRepositoryImpl) ReplaceSkills(db *gorm.DB, studentID string, skills []models.StudentSkill) error {
	return replaceChildren(db, studentID, skills)
}

func (r *StudentRepositoryImpl) ReplaceEducation(db *gorm.DB, studentID string, items []models.StudentEducation) error {
	return replaceChildren(db, studentID, items)
}

func (r *StudentRepositoryImpl) ReplaceExperience(db *gorm.DB, studentID string, items []models.StudentExperience) error {
	return replaceChildren(db, studentID, items)
}

func (r *StudentRepositoryImpl) ReplaceProjects(db *gorm.DB, studentID string, items []models.StudentProject) error {
	return replaceChildren(db, studentID, items)
}

// replaceChildren заменяет раздел профиля целиком в одной транзакции.
// Ordinal и StudentID должны быть выставлены вызывающим.
func replaceChildren[T any](db *gorm.DB, studentID string, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *StudentRepositoryImpl) DeleteCascade(db *gorm.DB, studentID string) ([]string, error) {
	var resumes []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.JobApplication{}).
			Where("student_id = ? AND resume_path <> ''", studentID).
			Pluck("resume_path", &resumes).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{
			&models.JobApplication{},
			&models.SavedJob{},
			&models.StudentSkill{},
			&models.StudentEducation{},
			&models.StudentExperience{},
			&models.StudentProject{},
		} {
			if err := tx.Where("student_id = ?", studentID).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.StudentProfile{}, "id = ?", studentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resumes, nil
}

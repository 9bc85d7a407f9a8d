package repositories

import (
	"errors"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

type SavedJobRepository interface {
	// Toggle добавляет закладку или снимает существующую. Возвращает итоговое состояние.
	Toggle(db *gorm.DB, studentID, jobID string) (bool, error)
	ListForStudent(db *gorm.DB, studentID string) ([]models.SavedJob, error)
	CountForStudent(db *gorm.DB, studentID string) (int64, error)
}

type SavedJobRepositoryImpl struct{}

func NewSavedJobRepository() SavedJobRepository {
	return &SavedJobRepositoryImpl{}
}

func (r *SavedJobRepositoryImpl) Toggle(db *gorm.DB, studentID, jobID string) (bool, error) {
	result := db.Where("student_id = ? AND job_id = ?", studentID, jobID).Delete(&models.SavedJob{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	saved := &models.SavedJob{StudentID: studentID, JobID: jobID}
	if err := db.Omit("Job").Create(saved).Error; err != nil {
		// параллельный запрос уже добавил закладку
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SavedJobRepositoryImpl) ListForStudent(db *gorm.DB, studentID string) ([]models.SavedJob, error) {
	var saved []models.SavedJob
	err := db.Preload("Job.Company").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

func (r *SavedJobRepositoryImpl) CountForStudent(db *gorm.DB, studentID string) (int64, error) {
	var count int64
	err := db.Model(&models.SavedJob{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

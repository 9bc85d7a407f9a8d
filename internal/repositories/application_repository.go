package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("application for this job already exists")
)

type ApplicationFilter struct {
	Status models.ApplicationStatus
	JobID  string
	Search string
	Pagination
}

// StatusCount - строка агрегата "статус -> количество"
type StatusCount struct {
	Status models.ApplicationStatus
	Count  int64
}

// JobApplicationCount - количество откликов на вакансию
type JobApplicationCount struct {
	JobID string `json:"job_id"`
	Title string `json:"title"`
	Count int64  `json:"count"`
}

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.JobApplication) error
	ExistsForStudent(db *gorm.DB, studentID, jobID string) (bool, error)

	// Сторона компании: отклики на вакансии компании
	FindByIDForCompany(db *gorm.DB, companyID, id string) (*models.JobApplication, error)
	ListForCompany(db *gorm.DB, companyID string, filter ApplicationFilter) ([]models.JobApplication, int64, error)
	UpdateReview(db *gorm.DB, app *models.JobApplication) error
	UpdateNotes(db *gorm.DB, app *models.JobApplication) error
	BulkUpdateStatusForCompany(db *gorm.DB, companyID string, ids []string, status models.ApplicationStatus, reviewerID string, at time.Time) (int64, error)
	CountByStatusForCompany(db *gorm.DB, companyID string) ([]StatusCount, error)
	CountByJobForCompany(db *gorm.DB, companyID string) ([]JobApplicationCount, error)
	RecentForCompany(db *gorm.DB, companyID string, since time.Time, limit int) ([]models.JobApplication, error)

	// Сторона студента: только собственные отклики
	FindByIDForStudent(db *gorm.DB, studentID, id string) (*models.JobApplication, error)
	ListForStudent(db *gorm.DB, studentID string, filter ApplicationFilter) ([]models.JobApplication, int64, error)
	DeletePendingForStudent(db *gorm.DB, studentID, id string) (int64, error)
	CountByStatusForStudent(db *gorm.DB, studentID string) ([]StatusCount, error)
	RecentForStudent(db *gorm.DB, studentID string, since time.Time, limit int) ([]models.JobApplication, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.JobApplication) error {
	if err := db.Omit("Job", "Student").Create(app).Error; err != nil {
		// уникальный индекс (student_id, job_id) ловит гонку двух одновременных откликов
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) ExistsForStudent(db *gorm.DB, studentID, jobID string) (bool, error) {
	var count int64
	err := db.Model(&models.JobApplication{}).
		Where("student_id = ? AND job_id = ?", studentID, jobID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) FindByIDForCompany(db *gorm.DB, companyID, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByCompany(db, companyID)).
		Preload("Job.Company").
		Preload("Student.User").
		Preload("Student.Skills", orderByOrdinal).
		Preload("Student.Education", orderByOrdinal).
		Preload("Student.Experience", orderByOrdinal).
		Preload("Student.Projects", orderByOrdinal).
		Where("job_applications.id = ?", id).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListForCompany(db *gorm.DB, companyID string, filter ApplicationFilter) ([]models.JobApplication, int64, error) {
	return r.list(db, ownedByCompany(db, companyID), filter, "Student.User")
}

func (r *ApplicationRepositoryImpl) ListForStudent(db *gorm.DB, studentID string, filter ApplicationFilter) ([]models.JobApplication, int64, error) {
	return r.list(db, ownedByStudent(studentID), filter, "")
}

func (r *ApplicationRepositoryImpl) list(db *gorm.DB, owner func(*gorm.DB) *gorm.DB, filter ApplicationFilter, extraPreload string) ([]models.JobApplication, int64, error) {
	base := db.Model(&models.JobApplication{}).
		Joins("JOIN jobs ON jobs.id = job_applications.job_id").
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Scopes(owner, applicationFilters(filter)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := base.Preload("Job.Company")
	if extraPreload != "" {
		q = q.Preload(extraPreload)
	}

	var apps []models.JobApplication
	err := q.Order("job_applications.created_at DESC").
		Scopes(paginate(filter.Pagination)).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) UpdateReview(db *gorm.DB, app *models.JobApplication) error {
	return db.Model(&models.JobApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"status":      app.Status,
			"reviewed_at": app.ReviewedAt,
			"reviewed_by": app.ReviewedBy,
			"updated_at":  time.Now(),
		}).Error
}

func (r *ApplicationRepositoryImpl) UpdateNotes(db *gorm.DB, app *models.JobApplication) error {
	return db.Model(&models.JobApplication{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"notes":      app.Notes,
			"updated_at": time.Now(),
		}).Error
}

// BulkUpdateStatusForCompany - одно UPDATE-выражение. Фильтр владения и исключение
// терминальных статусов входят в WHERE, поэтому чужие id просто не затрагиваются.
func (r *ApplicationRepositoryImpl) BulkUpdateStatusForCompany(db *gorm.DB, companyID string, ids []string, status models.ApplicationStatus, reviewerID string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Model(&models.JobApplication{}).
		Scopes(ownedByCompany(db, companyID)).
		Where("job_applications.id IN ?", ids).
		Where("job_applications.status NOT IN ?", models.TerminalStatuses()).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": at,
			"reviewed_by": reviewerID,
			"updated_at":  at,
		})
	return result.RowsAffected, result.Error
}

func (r *ApplicationRepositoryImpl) CountByStatusForCompany(db *gorm.DB, companyID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByCompany(db, companyID)).
		Select("job_applications.status AS status, COUNT(*) AS count").
		Group("job_applications.status").
		Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) CountByJobForCompany(db *gorm.DB, companyID string) ([]JobApplicationCount, error) {
	var rows []JobApplicationCount
	err := db.Model(&models.Job{}).
		Select("jobs.id AS job_id, jobs.title AS title, COUNT(job_applications.id) AS count").
		Joins("LEFT JOIN job_applications ON job_applications.job_id = jobs.id").
		Where("jobs.company_id = ?", companyID).
		Group("jobs.id, jobs.title, jobs.created_at").
		Order("jobs.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) RecentForCompany(db *gorm.DB, companyID string, since time.Time, limit int) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByCompany(db, companyID)).
		Preload("Job").
		Preload("Student.User").
		Where("job_applications.created_at >= ?", since).
		Order("job_applications.created_at DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByIDForStudent(db *gorm.DB, studentID, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByStudent(studentID)).
		Preload("Job.Company").
		Where("job_applications.id = ?", id).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// DeletePendingForStudent удаляет отклик только если он свой и все еще pending.
// Условие в самом DELETE закрывает гонку с одновременной сменой статуса компанией.
func (r *ApplicationRepositoryImpl) DeletePendingForStudent(db *gorm.DB, studentID, id string) (int64, error) {
	result := db.Where("id = ? AND student_id = ? AND status = ?", id, studentID, models.ApplicationStatusPending).
		Delete(&models.JobApplication{})
	return result.RowsAffected, result.Error
}

func (r *ApplicationRepositoryImpl) CountByStatusForStudent(db *gorm.DB, studentID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByStudent(studentID)).
		Select("job_applications.status AS status, COUNT(*) AS count").
		Group("job_applications.status").
		Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepositoryImpl) RecentForStudent(db *gorm.DB, studentID string, since time.Time, limit int) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := db.Model(&models.JobApplication{}).
		Scopes(ownedByStudent(studentID)).
		Preload("Job.Company").
		Where("job_applications.created_at >= ?", since).
		Order("job_applications.created_at DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

func applicationFilters(filter ApplicationFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("job_applications.status = ?", filter.Status)
		}
		if filter.JobID != "" {
			db = db.Where("job_applications.job_id = ?", filter.JobID)
		}
		return jobSearch(filter.Search)(db)
	}
}

func orderByOrdinal(db *gorm.DB) *gorm.DB {
	return db.Order("ordinal ASC")
}

package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

type JobFilter struct {
	Active   *bool
	Search   string
	JobType  models.JobType
	Location string
	Pagination
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	// Save сохраняет все поля. Хук модели снимает активность у просроченной вакансии.
	Save(db *gorm.DB, job *models.Job) error

	// Операции компании: только свои вакансии, чужие неотличимы от несуществующих
	FindByIDForCompany(db *gorm.DB, companyID, jobID string) (*models.Job, error)
	ListForCompany(db *gorm.DB, companyID string, filter JobFilter) ([]models.Job, int64, error)
	DeleteForCompany(db *gorm.DB, companyID, jobID string) ([]string, error)
	CountForCompany(db *gorm.DB, companyID string, today time.Time) (total int64, open int64, err error)
	RecentForCompany(db *gorm.DB, companyID string, since time.Time, limit int) ([]models.Job, error)

	// FindByID без фильтров видимости, для проверки открытости перед откликом
	FindByID(db *gorm.DB, jobID string) (*models.Job, error)

	// Публичный каталог: активные вакансии с непрошедшим дедлайном
	FindOpenByID(db *gorm.DB, jobID string, today time.Time) (*models.Job, error)
	ListOpen(db *gorm.DB, filter JobFilter, today time.Time) ([]models.Job, int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) Save(db *gorm.DB, job *models.Job) error {
	return db.Omit("Company", "Applications", "SavedBy").Save(job).Error
}

func (r *JobRepositoryImpl) FindByIDForCompany(db *gorm.DB, companyID, jobID string) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Company").
		Where("id = ? AND company_id = ?", jobID, companyID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) ListForCompany(db *gorm.DB, companyID string, filter JobFilter) ([]models.Job, int64, error) {
	base := db.Model(&models.Job{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.company_id = ?", companyID).
		Scopes(jobFilters(filter)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := base.Preload("Company").
		Order("jobs.created_at DESC").
		Scopes(paginate(filter.Pagination)).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachApplicationCounts(db, jobs); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepositoryImpl) DeleteForCompany(db *gorm.DB, companyID, jobID string) ([]string, error) {
	var resumes []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Job{}).
			Where("id = ? AND company_id = ?", jobID, companyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrJobNotFound
		}

		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND resume_path <> ''", jobID).
			Pluck("resume_path", &resumes).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", jobID).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", jobID).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND company_id = ?", jobID, companyID).Delete(&models.Job{}).Error
	})
	if err != nil {
		return nil, err
	}
	return resumes, nil
}

func (r *JobRepositoryImpl) CountForCompany(db *gorm.DB, companyID string, today time.Time) (int64, int64, error) {
	var total, open int64
	if err := db.Model(&models.Job{}).Where("company_id = ?", companyID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Job{}).
		Where("company_id = ? AND is_active = ? AND deadline >= ?", companyID, true, models.DateOnly(today)).
		Count(&open).Error; err != nil {
		return 0, 0, err
	}
	return total, open, nil
}

func (r *JobRepositoryImpl) RecentForCompany(db *gorm.DB, companyID string, since time.Time, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("company_id = ? AND created_at >= ?", companyID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, jobID string) (*models.Job, error) {
	var job models.Job
	if err := db.Preload("Company.User").First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindOpenByID(db *gorm.DB, jobID string, today time.Time) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Company").
		Where("id = ? AND is_active = ? AND deadline >= ?", jobID, true, models.DateOnly(today)).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) ListOpen(db *gorm.DB, filter JobFilter, today time.Time) ([]models.Job, int64, error) {
	filter.Active = nil
	base := db.Model(&models.Job{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.is_active = ? AND jobs.deadline >= ?", true, models.DateOnly(today)).
		Scopes(jobFilters(filter)).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := base.Preload("Company").
		Order("jobs.created_at DESC").
		Scopes(paginate(filter.Pagination)).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) attachApplicationCounts(db *gorm.DB, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}

	var rows []struct {
		JobID string
		Count int64
	}
	if err := db.Model(&models.JobApplication{}).
		Select("job_id, COUNT(*) AS count").
		Where("job_id IN ?", ids).
		Group("job_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.JobID] = row.Count
	}
	for i := range jobs {
		jobs[i].ApplicationsCount = counts[jobs[i].ID]
	}
	return nil
}

func jobFilters(filter JobFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Active != nil {
			db = db.Where("jobs.is_active = ?", *filter.Active)
		}
		if filter.JobType != "" {
			db = db.Where("jobs.job_type = ?", filter.JobType)
		}
		if loc := strings.TrimSpace(filter.Location); loc != "" {
			db = db.Where("LOWER(jobs.location) LIKE ?", likePattern(loc))
		}
		return jobSearch(filter.Search)(db)
	}
}

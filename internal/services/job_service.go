package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type JobService interface {
	// Операции компании
	Create(db *gorm.DB, identity *models.Identity, req *dto.JobRequest) (*models.Job, error)
	Update(db *gorm.DB, identity *models.Identity, jobID string, req *dto.JobRequest) (*models.Job, error)
	Toggle(db *gorm.DB, identity *models.Identity, jobID string) (*models.Job, error)
	Delete(ctx context.Context, db *gorm.DB, identity *models.Identity, jobID string) error
	Get(db *gorm.DB, identity *models.Identity, jobID string) (*models.Job, error)
	List(db *gorm.DB, identity *models.Identity, query *dto.JobListQuery) (*dto.PaginatedResponse, error)

	// Публичный каталог
	ListOpen(db *gorm.DB, query *dto.JobListQuery) (*dto.PaginatedResponse, error)
	GetOpen(db *gorm.DB, jobID string) (*models.Job, error)
}

type JobServiceImpl struct {
	jobRepo repositories.JobRepository
	files   FileService
	now     func() time.Time
}

func NewJobService(jobRepo repositories.JobRepository, files FileService) JobService {
	return &JobServiceImpl{
		jobRepo: jobRepo,
		files:   files,
		now:     time.Now,
	}
}

func (s *JobServiceImpl) Create(db *gorm.DB, identity *models.Identity, req *dto.JobRequest) (*models.Job, error) {
	job := &models.Job{CompanyID: identity.Company.ID}
	if err := applyJobRequest(job, req); err != nil {
		return nil, err
	}
	// Хук BeforeSave сделает то же самое, но результат нужен и без БД
	job.ApplyDeadline(s.now())

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, handleRepoError(err)
	}
	job.Company = identity.Company
	return job, nil
}

func (s *JobServiceImpl) Update(db *gorm.DB, identity *models.Identity, jobID string, req *dto.JobRequest) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDForCompany(db, identity.Company.ID, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := applyJobRequest(job, req); err != nil {
		return nil, err
	}
	job.ApplyDeadline(s.now())

	if err := s.jobRepo.Save(db, job); err != nil {
		return nil, handleRepoError(err)
	}
	return job, nil
}

// Toggle переключает активность. Просроченную вакансию активировать нельзя.
func (s *JobServiceImpl) Toggle(db *gorm.DB, identity *models.Identity, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDForCompany(db, identity.Company.ID, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !job.IsActive && job.IsExpired(s.now()) {
		return nil, apperrors.ErrJobExpired
	}

	job.IsActive = !job.IsActive
	if err := s.jobRepo.Save(db, job); err != nil {
		return nil, handleRepoError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) Delete(ctx context.Context, db *gorm.DB, identity *models.Identity, jobID string) error {
	resumes, err := s.jobRepo.DeleteForCompany(db, identity.Company.ID, jobID)
	if err != nil {
		return handleRepoError(err)
	}
	s.files.Remove(ctx, resumes...)
	logger.CtxInfo(ctx, "Job deleted", "job_id", jobID, "company_id", identity.Company.ID, "applications_removed", len(resumes))
	return nil
}

func (s *JobServiceImpl) Get(db *gorm.DB, identity *models.Identity, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDForCompany(db, identity.Company.ID, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) List(db *gorm.DB, identity *models.Identity, query *dto.JobListQuery) (*dto.PaginatedResponse, error) {
	jobs, total, err := s.jobRepo.ListForCompany(db, identity.Company.ID, toJobFilter(query))
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewPaginatedResponse(jobs, total, query.PageQuery), nil
}

func (s *JobServiceImpl) ListOpen(db *gorm.DB, query *dto.JobListQuery) (*dto.PaginatedResponse, error) {
	jobs, total, err := s.jobRepo.ListOpen(db, toJobFilter(query), s.now())
	if err != nil {
		return nil, handleRepoError(err)
	}
	s.attachLogos(jobs)
	return dto.NewPaginatedResponse(jobs, total, query.PageQuery), nil
}

func (s *JobServiceImpl) GetOpen(db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindOpenByID(db, jobID, s.now())
	if err != nil {
		return nil, handleRepoError(err)
	}
	if job.Company != nil {
		job.Company.LogoURL = s.files.URL(job.Company.LogoPath)
	}
	return job, nil
}

func (s *JobServiceImpl) attachLogos(jobs []models.Job) {
	for i := range jobs {
		if c := jobs[i].Company; c != nil {
			c.LogoURL = s.files.URL(c.LogoPath)
		}
	}
}

// applyJobRequest переносит поля запроса в модель и проверяет связи между полями
func applyJobRequest(job *models.Job, req *dto.JobRequest) error {
	deadline, err := time.Parse(dto.DateLayout, req.Deadline)
	if err != nil {
		return apperrors.ValidationError(map[string]string{"deadline": "Must be a date in format 2006-01-02"})
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return apperrors.ValidationError(map[string]string{"salary_max": "Must be greater than or equal to salary_min"})
	}
	jobType := models.JobType(req.JobType)
	if !jobType.IsValid() {
		return apperrors.ValidationError(map[string]string{"job_type": "Must be one of: full_time, part_time, contract, internship"})
	}

	job.Title = strings.TrimSpace(req.Title)
	job.Description = req.Description
	job.Requirements = req.Requirements
	job.Location = req.Location
	job.SalaryMin = req.SalaryMin
	job.SalaryMax = req.SalaryMax
	job.RequiredSkills = normalizeSkills(req.RequiredSkills)
	job.ExperienceRequired = req.ExperienceRequired
	job.JobType = jobType
	job.Deadline = datatypes.Date(deadline)
	job.IsActive = req.WantsActive()
	job.PositionsAvailable = req.PositionsAvailable
	return nil
}

// normalizeSkills: " go,  sql ,," -> "go, sql"
func normalizeSkills(raw string) string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return strings.Join(skills, ", ")
}

func toJobFilter(q *dto.JobListQuery) repositories.JobFilter {
	page, pageSize := q.Normalize()
	return repositories.JobFilter{
		Active:     q.Active,
		Search:     q.Search,
		JobType:    models.JobType(q.JobType),
		Location:   q.Location,
		Pagination: repositories.Pagination{Page: page, PageSize: pageSize},
	}
}

package services

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

// Время жизни подписанной ссылки на резюме
const resumeURLExpiry = 15 * time.Minute

type ApplicationService interface {
	// Студент
	Apply(ctx context.Context, db *gorm.DB, identity *models.Identity, jobID string, req *dto.ApplyRequest) (*models.JobApplication, error)
	ListForStudent(db *gorm.DB, identity *models.Identity, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error)
	GetForStudent(db *gorm.DB, identity *models.Identity, id string) (*models.JobApplication, error)
	// Withdraw удаляет отклик, пока он в статусе pending
	Withdraw(ctx context.Context, db *gorm.DB, identity *models.Identity, id string) error

	// Компания: только отклики на собственные вакансии
	ListForCompany(db *gorm.DB, identity *models.Identity, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error)
	GetForCompany(db *gorm.DB, identity *models.Identity, id string) (*models.JobApplication, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, identity *models.Identity, id string, req *dto.UpdateStatusRequest) (*dto.StatusChangeResponse, error)
	UpdateNotes(db *gorm.DB, identity *models.Identity, id string, req *dto.UpdateNotesRequest) (*models.JobApplication, error)
	BulkUpdateStatus(db *gorm.DB, identity *models.Identity, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error)
	Stats(db *gorm.DB, identity *models.Identity) (*dto.ApplicationStats, error)
	ResumeDownload(ctx context.Context, db *gorm.DB, identity *models.Identity, id string) (*dto.FileDownload, error)
}

type ApplicationServiceImpl struct {
	appRepo  repositories.ApplicationRepository
	jobRepo  repositories.JobRepository
	files    FileService
	notifier NotificationService
	now      func() time.Time
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	files FileService,
	notifier NotificationService,
) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		files:    files,
		notifier: notifier,
		now:      time.Now,
	}
}

// ==========================
// Student side
// ==========================

func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, identity *models.Identity, jobID string, req *dto.ApplyRequest) (*models.JobApplication, error) {
	student := identity.Student

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !job.IsOpen(s.now()) {
		return nil, apperrors.ErrJobClosed
	}

	exists, err := s.appRepo.ExistsForStudent(db, student.ID, job.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	// Резюме из профиля копируется: отклик владеет своим файлом и
	// переживает замену резюме в профиле
	var resume *dto.UploadResponse
	switch {
	case req.Resume != nil:
		resume, err = s.files.Upload(ctx, config.FileKindResume, req.Resume)
	case student.ResumePath != "":
		resume, err = s.files.Copy(ctx, config.FileKindResume, student.ResumePath)
	default:
		return nil, apperrors.ErrResumeRequired
	}
	if err != nil {
		return nil, err
	}

	portfolio := strings.TrimSpace(req.PortfolioURL)
	if portfolio == "" {
		portfolio = student.PortfolioURL
	}

	app := &models.JobApplication{
		JobID:        job.ID,
		StudentID:    student.ID,
		CoverLetter:  req.CoverLetter,
		ResumePath:   resume.Key,
		PortfolioURL: portfolio,
		Status:       models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(db, app); err != nil {
		s.files.Remove(ctx, resume.Key)
		return nil, handleRepoError(err)
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", app.ID, "job_id", job.ID, "student_id", student.ID)
	s.notifier.NewApplication(ctx, job, identity.User)

	app.Job = job
	return app, nil
}

func (s *ApplicationServiceImpl) ListForStudent(db *gorm.DB, identity *models.Identity, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error) {
	apps, total, err := s.appRepo.ListForStudent(db, identity.Student.ID, toApplicationFilter(query))
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewPaginatedResponse(apps, total, query.PageQuery), nil
}

func (s *ApplicationServiceImpl) GetForStudent(db *gorm.DB, identity *models.Identity, id string) (*models.JobApplication, error) {
	app, err := s.appRepo.FindByIDForStudent(db, identity.Student.ID, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return app, nil
}

func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, db *gorm.DB, identity *models.Identity, id string) error {
	app, err := s.appRepo.FindByIDForStudent(db, identity.Student.ID, id)
	if err != nil {
		return handleRepoError(err)
	}
	if app.Status != models.ApplicationStatusPending {
		return apperrors.ErrWithdrawNotAllowed
	}

	// DELETE повторяет условие status = pending: компания могла успеть сменить статус
	deleted, err := s.appRepo.DeletePendingForStudent(db, identity.Student.ID, id)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if deleted == 0 {
		return apperrors.ErrWithdrawNotAllowed
	}

	s.files.Remove(ctx, app.ResumePath)
	logger.CtxInfo(ctx, "Application withdrawn", "application_id", id, "student_id", identity.Student.ID)
	return nil
}

// ==========================
// Company side
// ==========================

func (s *ApplicationServiceImpl) ListForCompany(db *gorm.DB, identity *models.Identity, query *dto.ApplicationListQuery) (*dto.PaginatedResponse, error) {
	apps, total, err := s.appRepo.ListForCompany(db, identity.Company.ID, toApplicationFilter(query))
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewPaginatedResponse(apps, total, query.PageQuery), nil
}

func (s *ApplicationServiceImpl) GetForCompany(db *gorm.DB, identity *models.Identity, id string) (*models.JobApplication, error) {
	app, err := s.appRepo.FindByIDForCompany(db, identity.Company.ID, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if app.Student != nil {
		app.Student.ProfilePictureURL = s.files.URL(app.Student.ProfilePicturePath)
	}
	return app, nil
}

// UpdateStatus: токен -> владение -> переход. Невалидный токен не трогает запись.
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, identity *models.Identity, id string, req *dto.UpdateStatusRequest) (*dto.StatusChangeResponse, error) {
	next, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		return nil, invalidStatusError(req.Status)
	}

	app, err := s.appRepo.FindByIDForCompany(db, identity.Company.ID, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{
			"from": string(app.Status),
			"to":   string(next),
		})
	}

	// Последняя запись выигрывает: версионирования строки нет
	app.MarkReviewed(next, identity.UserID(), s.now())
	if err := s.appRepo.UpdateReview(db, app); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Application status changed", "application_id", app.ID, "status", next)
	s.notifier.ApplicationStatusChanged(ctx, app)

	return &dto.StatusChangeResponse{
		ID:         app.ID,
		Status:     app.Status,
		Label:      app.Status.Label(),
		ReviewedAt: app.ReviewedAt,
		Message:    next.Message(),
	}, nil
}

func (s *ApplicationServiceImpl) UpdateNotes(db *gorm.DB, identity *models.Identity, id string, req *dto.UpdateNotesRequest) (*models.JobApplication, error) {
	app, err := s.appRepo.FindByIDForCompany(db, identity.Company.ID, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	app.Notes = req.Notes
	if err := s.appRepo.UpdateNotes(db, app); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return app, nil
}

// BulkUpdateStatus - одно UPDATE с фильтром владения внутри.
// Чужие и терминальные отклики не входят в Updated.
func (s *ApplicationServiceImpl) BulkUpdateStatus(db *gorm.DB, identity *models.Identity, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	status, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		return nil, invalidStatusError(req.Status)
	}

	ids := uniqueIDs(req.ApplicationIDs)
	updated, err := s.appRepo.BulkUpdateStatusForCompany(db, identity.Company.ID, ids, status, identity.UserID(), s.now())
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &dto.BulkStatusResponse{
		Requested: len(ids),
		Updated:   updated,
		Status:    status,
	}, nil
}

func (s *ApplicationServiceImpl) Stats(db *gorm.DB, identity *models.Identity) (*dto.ApplicationStats, error) {
	byStatus, err := s.appRepo.CountByStatusForCompany(db, identity.Company.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	perJob, err := s.appRepo.CountByJobForCompany(db, identity.Company.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	stats := BuildApplicationStats(byStatus)
	stats.PerJob = make([]dto.JobApplicationCount, 0, len(perJob))
	for _, row := range perJob {
		stats.PerJob = append(stats.PerJob, dto.JobApplicationCount{JobID: row.JobID, Title: row.Title, Count: row.Count})
	}
	return &stats, nil
}

// ResumeDownload отдает подписанную ссылку, если хранилище умеет, иначе поток
func (s *ApplicationServiceImpl) ResumeDownload(ctx context.Context, db *gorm.DB, identity *models.Identity, id string) (*dto.FileDownload, error) {
	app, err := s.appRepo.FindByIDForCompany(db, identity.Company.ID, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if app.ResumePath == "" {
		return nil, apperrors.ErrNotFound(nil)
	}

	url, err := s.files.SignedURL(ctx, app.ResumePath, resumeURLExpiry)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	if url != "" {
		return &dto.FileDownload{URL: url}, nil
	}

	reader, err := s.files.Open(ctx, app.ResumePath)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}

	ext := path.Ext(app.ResumePath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &dto.FileDownload{
		Reader:      reader,
		Filename:    "resume-" + app.ID + ext,
		ContentType: contentType,
	}, nil
}

func invalidStatusError(raw string) error {
	return apperrors.ErrInvalidStatus("application", fmt.Sprintf("Invalid status %q", raw)).
		WithDetails(map[string]interface{}{"allowed": models.ApplicationStatuses})
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toApplicationFilter(q *dto.ApplicationListQuery) repositories.ApplicationFilter {
	page, pageSize := q.Normalize()
	return repositories.ApplicationFilter{
		Status:     models.ApplicationStatus(q.Status),
		JobID:      q.JobID,
		Search:     q.Search,
		Pagination: repositories.Pagination{Page: page, PageSize: pageSize},
	}
}

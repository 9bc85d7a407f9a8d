package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

const (
	DefaultRecentDays  = 30
	DefaultRecentLimit = 10
)

// DashboardService считает счетчики на каждый запрос, ничего не кеширует
type DashboardService interface {
	CompanyDashboard(db *gorm.DB, identity *models.Identity) (*dto.CompanyDashboard, error)
	StudentDashboard(db *gorm.DB, identity *models.Identity) (*dto.StudentDashboard, error)
}

type DashboardServiceImpl struct {
	jobRepo      repositories.JobRepository
	appRepo      repositories.ApplicationRepository
	savedJobRepo repositories.SavedJobRepository
	studentRepo  repositories.StudentRepository
	files        FileService
	recentDays   int
	recentLimit  int
	now          func() time.Time
}

func NewDashboardService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	savedJobRepo repositories.SavedJobRepository,
	studentRepo repositories.StudentRepository,
	files FileService,
	recentDays, recentLimit int,
) DashboardService {
	if recentDays <= 0 {
		recentDays = DefaultRecentDays
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &DashboardServiceImpl{
		jobRepo:      jobRepo,
		appRepo:      appRepo,
		savedJobRepo: savedJobRepo,
		studentRepo:  studentRepo,
		files:        files,
		recentDays:   recentDays,
		recentLimit:  recentLimit,
		now:          time.Now,
	}
}

func (s *DashboardServiceImpl) CompanyDashboard(db *gorm.DB, identity *models.Identity) (*dto.CompanyDashboard, error) {
	companyID := identity.Company.ID
	now := s.now()
	since := now.AddDate(0, 0, -s.recentDays)

	total, open, err := s.jobRepo.CountForCompany(db, companyID, now)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	byStatus, err := s.appRepo.CountByStatusForCompany(db, companyID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	perJob, err := s.appRepo.CountByJobForCompany(db, companyID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	recentApps, err := s.appRepo.RecentForCompany(db, companyID, since, s.recentLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	recentJobs, err := s.jobRepo.RecentForCompany(db, companyID, since, s.recentLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	stats := BuildApplicationStats(byStatus)
	stats.PerJob = make([]dto.JobApplicationCount, 0, len(perJob))
	for _, row := range perJob {
		stats.PerJob = append(stats.PerJob, dto.JobApplicationCount{JobID: row.JobID, Title: row.Title, Count: row.Count})
	}

	company := *identity.Company
	company.LogoURL = s.files.URL(company.LogoPath)

	return &dto.CompanyDashboard{
		Company:        &company,
		TotalJobs:      total,
		ActiveJobs:     open,
		InactiveJobs:   total - open,
		Applications:   stats,
		RecentActivity: MergeActivity(recentApps, recentJobs, s.recentLimit),
	}, nil
}

func (s *DashboardServiceImpl) StudentDashboard(db *gorm.DB, identity *models.Identity) (*dto.StudentDashboard, error) {
	studentID := identity.Student.ID
	since := s.now().AddDate(0, 0, -s.recentDays)

	// Полный профиль нужен для процента заполненности (навыки, образование)
	profile, err := s.studentRepo.FindDetailedByUserID(db, identity.UserID())
	if err != nil {
		return nil, handleRepoError(err)
	}
	byStatus, err := s.appRepo.CountByStatusForStudent(db, studentID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	saved, err := s.savedJobRepo.CountForStudent(db, studentID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	recentApps, err := s.appRepo.RecentForStudent(db, studentID, since, s.recentLimit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	profile.ProfilePictureURL = s.files.URL(profile.ProfilePicturePath)

	return &dto.StudentDashboard{
		Profile:           profile,
		ProfileCompletion: profile.Completion(),
		SavedJobs:         saved,
		Applications:      BuildApplicationStats(byStatus),
		RecentActivity:    MergeActivity(recentApps, nil, s.recentLimit),
	}, nil
}

// ==========================
// Pure helpers
// ==========================

// BuildApplicationStats заполняет все статусы, даже с нулевым количеством.
// Строки с неизвестным статусом учитываются только в Total.
func BuildApplicationStats(rows []repositories.StatusCount) dto.ApplicationStats {
	byStatus := make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		byStatus[st] = 0
	}

	var total int64
	for _, row := range rows {
		total += row.Count
		if row.Status.IsValid() {
			byStatus[row.Status] += row.Count
		}
	}

	return dto.ApplicationStats{
		Total:        total,
		ByStatus:     byStatus,
		ResponseRate: ResponseRate(total-byStatus[models.ApplicationStatusPending], total),
	}
}

// ResponseRate - доля откликов, на которые ответили, в процентах с одним знаком.
// При total == 0 возвращает 0.
func ResponseRate(responded, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(responded) / float64(total) * 100
	return math.Round(rate*10) / 10
}

// MergeActivity сливает отклики и публикации вакансий в одну ленту,
// новые сверху, не больше limit событий.
func MergeActivity(apps []models.JobApplication, jobs []models.Job, limit int) []dto.ActivityItem {
	items := make([]dto.ActivityItem, 0, len(apps)+len(jobs))

	for _, app := range apps {
		items = append(items, dto.ActivityItem{
			Type:          dto.ActivityApplication,
			Title:         applicationTitle(app),
			JobID:         app.JobID,
			ApplicationID: app.ID,
			Status:        app.Status,
			Timestamp:     app.AppliedAt(),
		})
	}
	for _, job := range jobs {
		items = append(items, dto.ActivityItem{
			Type:      dto.ActivityJobPosted,
			Title:     "Posted " + job.Title,
			JobID:     job.ID,
			Timestamp: job.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func applicationTitle(app models.JobApplication) string {
	jobTitle := "a job"
	if app.Job != nil {
		jobTitle = app.Job.Title
	}
	if app.Student != nil && app.Student.User != nil {
		return app.Student.User.FullName() + " applied for " + jobTitle
	}
	if app.Job != nil && app.Job.Company != nil {
		return "Applied for " + jobTitle + " at " + app.Job.Company.Name
	}
	return "Applied for " + jobTitle
}

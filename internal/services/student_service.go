package services

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type StudentService interface {
	GetProfile(db *gorm.DB, identity *models.Identity) (*models.StudentProfile, error)
	UpdateProfile(db *gorm.DB, identity *models.Identity, req *dto.UpdateStudentRequest) (*models.StudentProfile, error)

	// Разделы профиля заменяются целиком, порядок задается ordinal
	ReplaceSkills(db *gorm.DB, identity *models.Identity, req *dto.SkillsRequest) ([]models.StudentSkill, error)
	ReplaceEducation(db *gorm.DB, identity *models.Identity, req *dto.EducationRequest) ([]models.StudentEducation, error)
	ReplaceExperience(db *gorm.DB, identity *models.Identity, req *dto.ExperienceRequest) ([]models.StudentExperience, error)
	ReplaceProjects(db *gorm.DB, identity *models.Identity, req *dto.ProjectsRequest) ([]models.StudentProject, error)

	UploadPicture(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error)
	DeletePicture(ctx context.Context, db *gorm.DB, identity *models.Identity) error
	UploadResume(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error)
	DeleteResume(ctx context.Context, db *gorm.DB, identity *models.Identity) error

	ToggleSavedJob(db *gorm.DB, identity *models.Identity, jobID string) (*dto.SaveToggleResponse, error)
	ListSavedJobs(db *gorm.DB, identity *models.Identity) ([]models.SavedJob, error)

	DeleteAccount(ctx context.Context, db *gorm.DB, identity *models.Identity) error
}

type StudentServiceImpl struct {
	studentRepo  repositories.StudentRepository
	userRepo     repositories.UserRepository
	jobRepo      repositories.JobRepository
	savedJobRepo repositories.SavedJobRepository
	files        FileService
	now          func() time.Time
}

func NewStudentService(
	studentRepo repositories.StudentRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	savedJobRepo repositories.SavedJobRepository,
	files FileService,
) StudentService {
	return &StudentServiceImpl{
		studentRepo:  studentRepo,
		userRepo:     userRepo,
		jobRepo:      jobRepo,
		savedJobRepo: savedJobRepo,
		files:        files,
		now:          time.Now,
	}
}

// ==========================
// Profile
// ==========================

func (s *StudentServiceImpl) GetProfile(db *gorm.DB, identity *models.Identity) (*models.StudentProfile, error) {
	profile, err := s.studentRepo.FindDetailedByUserID(db, identity.UserID())
	if err != nil {
		return nil, handleRepoError(err)
	}
	profile.ProfilePictureURL = s.files.URL(profile.ProfilePicturePath)
	return profile, nil
}

func (s *StudentServiceImpl) UpdateProfile(db *gorm.DB, identity *models.Identity, req *dto.UpdateStudentRequest) (*models.StudentProfile, error) {
	profile := *identity.Student

	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			dob, err := time.Parse(dto.DateLayout, *req.DateOfBirth)
			if err != nil {
				return nil, apperrors.ValidationError(map[string]string{"date_of_birth": "Must be a date in format 2006-01-02"})
			}
			if !dob.Before(s.now()) {
				return nil, apperrors.ValidationError(map[string]string{"date_of_birth": "Must be in the past"})
			}
			d := datatypes.Date(dob)
			profile.DateOfBirth = &d
		}
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.CollegeName != nil {
		profile.CollegeName = *req.CollegeName
	}
	if req.Degree != nil {
		profile.Degree = *req.Degree
	}
	if req.GraduationYear != nil {
		profile.GraduationYear = req.GraduationYear
	}
	if req.GPA != nil {
		profile.GPA = req.GPA
	}
	if req.LinkedInURL != nil {
		profile.LinkedInURL = *req.LinkedInURL
	}
	if req.GitHubURL != nil {
		profile.GitHubURL = *req.GitHubURL
	}
	if req.PortfolioURL != nil {
		profile.PortfolioURL = *req.PortfolioURL
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if req.FirstName != nil || req.LastName != nil {
		first, last := identity.User.FirstName, identity.User.LastName
		if req.FirstName != nil {
			first = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			last = strings.TrimSpace(*req.LastName)
		}
		if err := s.userRepo.UpdateNames(tx, identity.UserID(), first, last); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
	}
	if err := s.studentRepo.Update(tx, &profile); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return s.GetProfile(db, identity)
}

// ==========================
// Sections
// ==========================

func (s *StudentServiceImpl) ReplaceSkills(db *gorm.DB, identity *models.Identity, req *dto.SkillsRequest) ([]models.StudentSkill, error) {
	if len(req.Skills) > models.MaxStudentSkills {
		return nil, apperrors.ErrTooManyEntries("skills", models.MaxStudentSkills)
	}

	studentID := identity.Student.ID
	rows := make([]models.StudentSkill, 0, len(req.Skills))
	seen := make(map[string]struct{}, len(req.Skills))
	for _, in := range req.Skills {
		name := strings.TrimSpace(in.Name)
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, apperrors.ValidationError(map[string]string{"skills": "Duplicate skill: " + name})
		}
		seen[key] = struct{}{}
		rows = append(rows, models.StudentSkill{
			StudentID: studentID,
			Ordinal:   len(rows),
			Name:      name,
			Level:     in.Level,
		})
	}

	if err := s.studentRepo.ReplaceSkills(db, studentID, rows); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return rows, nil
}

func (s *StudentServiceImpl) ReplaceEducation(db *gorm.DB, identity *models.Identity, req *dto.EducationRequest) ([]models.StudentEducation, error) {
	if len(req.Education) > models.MaxStudentEducation {
		return nil, apperrors.ErrTooManyEntries("education", models.MaxStudentEducation)
	}

	studentID := identity.Student.ID
	rows := make([]models.StudentEducation, 0, len(req.Education))
	for i, in := range req.Education {
		if in.StartYear != nil && in.EndYear != nil && *in.EndYear < *in.StartYear {
			return nil, apperrors.ValidationError(map[string]string{
				sectionField("education", i, "end_year"): "Must not be before start_year",
			})
		}
		rows = append(rows, models.StudentEducation{
			StudentID:    studentID,
			Ordinal:      i,
			Institution:  strings.TrimSpace(in.Institution),
			Degree:       in.Degree,
			FieldOfStudy: in.FieldOfStudy,
			StartYear:    in.StartYear,
			EndYear:      in.EndYear,
		})
	}

	if err := s.studentRepo.ReplaceEducation(db, studentID, rows); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return rows, nil
}

func (s *StudentServiceImpl) ReplaceExperience(db *gorm.DB, identity *models.Identity, req *dto.ExperienceRequest) ([]models.StudentExperience, error) {
	if len(req.Experience) > models.MaxStudentExperience {
		return nil, apperrors.ErrTooManyEntries("experience", models.MaxStudentExperience)
	}

	studentID := identity.Student.ID
	rows := make([]models.StudentExperience, 0, len(req.Experience))
	for i, in := range req.Experience {
		// YYYY-MM сравнивается лексикографически
		if in.EndDate != "" && in.EndDate < in.StartDate {
			return nil, apperrors.ValidationError(map[string]string{
				sectionField("experience", i, "end_date"): "Must not be before start_date",
			})
		}
		rows = append(rows, models.StudentExperience{
			StudentID:   studentID,
			Ordinal:     i,
			Title:       strings.TrimSpace(in.Title),
			Company:     strings.TrimSpace(in.Company),
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Description: in.Description,
		})
	}

	if err := s.studentRepo.ReplaceExperience(db, studentID, rows); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return rows, nil
}

func (s *StudentServiceImpl) ReplaceProjects(db *gorm.DB, identity *models.Identity, req *dto.ProjectsRequest) ([]models.StudentProject, error) {
	if len(req.Projects) > models.MaxStudentProjects {
		return nil, apperrors.ErrTooManyEntries("projects", models.MaxStudentProjects)
	}

	studentID := identity.Student.ID
	rows := make([]models.StudentProject, 0, len(req.Projects))
	for i, in := range req.Projects {
		rows = append(rows, models.StudentProject{
			StudentID:    studentID,
			Ordinal:      i,
			Title:        strings.TrimSpace(in.Title),
			Description:  in.Description,
			URL:          in.URL,
			Technologies: normalizeSkills(in.Technologies),
		})
	}

	if err := s.studentRepo.ReplaceProjects(db, studentID, rows); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return rows, nil
}

// ==========================
// Files
// ==========================

func (s *StudentServiceImpl) UploadPicture(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	return s.replaceFile(ctx, db, identity, config.FileKindProfilePicture, file, func(p *models.StudentProfile) *string {
		return &p.ProfilePicturePath
	})
}

func (s *StudentServiceImpl) UploadResume(ctx context.Context, db *gorm.DB, identity *models.Identity, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	return s.replaceFile(ctx, db, identity, config.FileKindResume, file, func(p *models.StudentProfile) *string {
		return &p.ResumePath
	})
}

func (s *StudentServiceImpl) DeletePicture(ctx context.Context, db *gorm.DB, identity *models.Identity) error {
	return s.clearFile(ctx, db, identity, "profile_picture", func(p *models.StudentProfile) *string {
		return &p.ProfilePicturePath
	})
}

func (s *StudentServiceImpl) DeleteResume(ctx context.Context, db *gorm.DB, identity *models.Identity) error {
	return s.clearFile(ctx, db, identity, "resume", func(p *models.StudentProfile) *string {
		return &p.ResumePath
	})
}

// replaceFile сохраняет новый файл, обновляет ссылку и только потом удаляет старый
func (s *StudentServiceImpl) replaceFile(ctx context.Context, db *gorm.DB, identity *models.Identity, kind config.FileKind, file *multipart.FileHeader, field func(*models.StudentProfile) *string) (*dto.UploadResponse, error) {
	uploaded, err := s.files.Upload(ctx, kind, file)
	if err != nil {
		return nil, err
	}

	profile := *identity.Student
	ref := field(&profile)
	oldKey := *ref
	*ref = uploaded.Key

	if err := s.studentRepo.Update(db, &profile); err != nil {
		s.files.Remove(ctx, uploaded.Key)
		return nil, apperrors.DatabaseError(err)
	}

	s.files.Remove(ctx, oldKey)
	return uploaded, nil
}

func (s *StudentServiceImpl) clearFile(ctx context.Context, db *gorm.DB, identity *models.Identity, name string, field func(*models.StudentProfile) *string) error {
	profile := *identity.Student
	ref := field(&profile)
	if *ref == "" {
		return apperrors.ErrNotFound(nil).WithDetails(map[string]string{name: "No file uploaded"})
	}
	oldKey := *ref
	*ref = ""

	if err := s.studentRepo.Update(db, &profile); err != nil {
		return apperrors.DatabaseError(err)
	}
	s.files.Remove(ctx, oldKey)
	return nil
}

// ==========================
// Saved jobs
// ==========================

// ToggleSavedJob добавляет или снимает закладку. Вакансия должна существовать
func (s *StudentServiceImpl) ToggleSavedJob(db *gorm.DB, identity *models.Identity, jobID string) (*dto.SaveToggleResponse, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, handleRepoError(err)
	}

	saved, err := s.savedJobRepo.Toggle(db, identity.Student.ID, jobID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.SaveToggleResponse{JobID: jobID, Saved: saved}, nil
}

func (s *StudentServiceImpl) ListSavedJobs(db *gorm.DB, identity *models.Identity) ([]models.SavedJob, error) {
	saved, err := s.savedJobRepo.ListForStudent(db, identity.Student.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	for i := range saved {
		if job := saved[i].Job; job != nil && job.Company != nil {
			job.Company.LogoURL = s.files.URL(job.Company.LogoPath)
		}
	}
	return saved, nil
}

// ==========================
// Account
// ==========================

func (s *StudentServiceImpl) DeleteAccount(ctx context.Context, db *gorm.DB, identity *models.Identity) error {
	student := identity.Student

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	resumes, err := s.studentRepo.DeleteCascade(tx, student.ID)
	if err != nil {
		return handleRepoError(err)
	}
	if err := s.userRepo.Delete(tx, identity.UserID()); err != nil {
		return handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.DatabaseError(err)
	}

	s.files.Remove(ctx, append(resumes, student.ResumePath, student.ProfilePicturePath)...)
	logger.CtxInfo(ctx, "Student account deleted", "user_id", identity.UserID(), "student_id", student.ID)
	return nil
}

func sectionField(section string, index int, field string) string {
	return section + "[" + strconv.Itoa(index) + "]." + field
}

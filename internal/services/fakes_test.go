package services

import (
	"context"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
)

// Фейки хранят строки в памяти и повторяют фильтры владения реальных репозиториев.
// *gorm.DB в тестах сервисов всегда nil.

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dateOf(t time.Time) datatypes.Date { return datatypes.Date(models.DateOnly(t)) }

// ---------- applications ----------

type fakeApplicationRepo struct {
	apps       map[string]*models.JobApplication
	jobOwners  map[string]string // jobID -> companyID
	createErr  error
	created    []*models.JobApplication
	bulkCalled bool
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:      map[string]*models.JobApplication{},
		jobOwners: map[string]string{},
	}
}

func (r *fakeApplicationRepo) add(app *models.JobApplication) {
	r.apps[app.ID] = app
}

func clone(app *models.JobApplication) *models.JobApplication {
	cp := *app
	return &cp
}

func (r *fakeApplicationRepo) Create(_ *gorm.DB, app *models.JobApplication) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.apps {
		if existing.StudentID == app.StudentID && existing.JobID == app.JobID {
			return repositories.ErrAlreadyApplied
		}
	}
	app.ID = "app-" + app.StudentID + "-" + app.JobID
	app.CreatedAt = fixedNow
	r.apps[app.ID] = clone(app)
	r.created = append(r.created, app)
	return nil
}

func (r *fakeApplicationRepo) ExistsForStudent(_ *gorm.DB, studentID, jobID string) (bool, error) {
	for _, a := range r.apps {
		if a.StudentID == studentID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) FindByIDForCompany(_ *gorm.DB, companyID, id string) (*models.JobApplication, error) {
	app, ok := r.apps[id]
	if !ok || r.jobOwners[app.JobID] != companyID {
		return nil, repositories.ErrApplicationNotFound
	}
	return clone(app), nil
}

func (r *fakeApplicationRepo) ListForCompany(_ *gorm.DB, companyID string, _ repositories.ApplicationFilter) ([]models.JobApplication, int64, error) {
	var out []models.JobApplication
	for _, a := range r.apps {
		if r.jobOwners[a.JobID] == companyID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) UpdateReview(_ *gorm.DB, app *models.JobApplication) error {
	stored := r.apps[app.ID]
	stored.Status = app.Status
	stored.ReviewedAt = app.ReviewedAt
	stored.ReviewedBy = app.ReviewedBy
	return nil
}

func (r *fakeApplicationRepo) UpdateNotes(_ *gorm.DB, app *models.JobApplication) error {
	r.apps[app.ID].Notes = app.Notes
	return nil
}

func (r *fakeApplicationRepo) BulkUpdateStatusForCompany(_ *gorm.DB, companyID string, ids []string, status models.ApplicationStatus, reviewerID string, at time.Time) (int64, error) {
	r.bulkCalled = true
	var n int64
	for _, id := range ids {
		a, ok := r.apps[id]
		if !ok || r.jobOwners[a.JobID] != companyID || a.Status.IsTerminal() {
			continue
		}
		a.MarkReviewed(status, reviewerID, at)
		n++
	}
	return n, nil
}

func (r *fakeApplicationRepo) CountByStatusForCompany(_ *gorm.DB, companyID string) ([]repositories.StatusCount, error) {
	return r.countBy(func(a *models.JobApplication) bool { return r.jobOwners[a.JobID] == companyID }), nil
}

func (r *fakeApplicationRepo) CountByJobForCompany(_ *gorm.DB, companyID string) ([]repositories.JobApplicationCount, error) {
	counts := map[string]int64{}
	for _, a := range r.apps {
		if r.jobOwners[a.JobID] == companyID {
			counts[a.JobID]++
		}
	}
	var out []repositories.JobApplicationCount
	for jobID, c := range counts {
		out = append(out, repositories.JobApplicationCount{JobID: jobID, Title: jobID, Count: c})
	}
	return out, nil
}

func (r *fakeApplicationRepo) RecentForCompany(_ *gorm.DB, _ string, _ time.Time, _ int) ([]models.JobApplication, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) FindByIDForStudent(_ *gorm.DB, studentID, id string) (*models.JobApplication, error) {
	app, ok := r.apps[id]
	if !ok || app.StudentID != studentID {
		return nil, repositories.ErrApplicationNotFound
	}
	return clone(app), nil
}

func (r *fakeApplicationRepo) ListForStudent(_ *gorm.DB, studentID string, _ repositories.ApplicationFilter) ([]models.JobApplication, int64, error) {
	var out []models.JobApplication
	for _, a := range r.apps {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) DeletePendingForStudent(_ *gorm.DB, studentID, id string) (int64, error) {
	app, ok := r.apps[id]
	if !ok || app.StudentID != studentID || app.Status != models.ApplicationStatusPending {
		return 0, nil
	}
	delete(r.apps, id)
	return 1, nil
}

func (r *fakeApplicationRepo) CountByStatusForStudent(_ *gorm.DB, studentID string) ([]repositories.StatusCount, error) {
	return r.countBy(func(a *models.JobApplication) bool { return a.StudentID == studentID }), nil
}

func (r *fakeApplicationRepo) RecentForStudent(_ *gorm.DB, _ string, _ time.Time, _ int) ([]models.JobApplication, error) {
	return nil, nil
}

func (r *fakeApplicationRepo) countBy(match func(*models.JobApplication) bool) []repositories.StatusCount {
	counts := map[models.ApplicationStatus]int64{}
	for _, a := range r.apps {
		if match(a) {
			counts[a.Status]++
		}
	}
	var out []repositories.StatusCount
	for st, c := range counts {
		out = append(out, repositories.StatusCount{Status: st, Count: c})
	}
	return out
}

// ---------- jobs ----------

type fakeJobRepo struct {
	jobs  map[string]*models.Job
	saved []*models.Job
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[string]*models.Job{}}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ *gorm.DB, job *models.Job) error {
	if job.ID == "" {
		job.ID = "job-new"
	}
	job.CreatedAt = fixedNow
	cp := *job
	r.jobs[job.ID] = &cp
	r.saved = append(r.saved, &cp)
	return nil
}

func (r *fakeJobRepo) Save(_ *gorm.DB, job *models.Job) error {
	cp := *job
	r.jobs[job.ID] = &cp
	r.saved = append(r.saved, &cp)
	return nil
}

func (r *fakeJobRepo) FindByIDForCompany(_ *gorm.DB, companyID, jobID string) (*models.Job, error) {
	j, ok := r.jobs[jobID]
	if !ok || j.CompanyID != companyID {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) ListForCompany(_ *gorm.DB, companyID string, _ repositories.JobFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeJobRepo) DeleteForCompany(_ *gorm.DB, companyID, jobID string) ([]string, error) {
	j, ok := r.jobs[jobID]
	if !ok || j.CompanyID != companyID {
		return nil, repositories.ErrJobNotFound
	}
	delete(r.jobs, jobID)
	return nil, nil
}

func (r *fakeJobRepo) CountForCompany(_ *gorm.DB, companyID string, today time.Time) (int64, int64, error) {
	var total, open int64
	for _, j := range r.jobs {
		if j.CompanyID != companyID {
			continue
		}
		total++
		if j.IsOpen(today) {
			open++
		}
	}
	return total, open, nil
}

func (r *fakeJobRepo) RecentForCompany(_ *gorm.DB, _ string, _ time.Time, _ int) ([]models.Job, error) {
	return nil, nil
}

func (r *fakeJobRepo) FindByID(_ *gorm.DB, jobID string) (*models.Job, error) {
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) FindOpenByID(db *gorm.DB, jobID string, today time.Time) (*models.Job, error) {
	j, err := r.FindByID(db, jobID)
	if err != nil || !j.IsOpen(today) {
		return nil, repositories.ErrJobNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) ListOpen(_ *gorm.DB, _ repositories.JobFilter, today time.Time) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.IsOpen(today) {
			out = append(out, *j)
		}
	}
	return out, int64(len(out)), nil
}

// ---------- users / profiles ----------

type fakeUserRepo struct {
	users      map[string]*models.User
	lastLogins map[string]time.Time
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}, lastLogins: map[string]time.Time{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ *gorm.DB, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	_, err := r.FindByUsername(db, username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ *gorm.DB, email string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ *gorm.DB, userID string, at time.Time) error {
	r.lastLogins[userID] = at
	return nil
}

func (r *fakeUserRepo) UpdateNames(_ *gorm.DB, userID, first, last string) error {
	if u, ok := r.users[userID]; ok {
		u.FirstName, u.LastName = first, last
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ *gorm.DB, userID string) error {
	delete(r.users, userID)
	return nil
}

type fakeCompanyRepo struct {
	byUser map[string]*models.Company
}

func (r *fakeCompanyRepo) Create(_ *gorm.DB, c *models.Company) error {
	r.byUser[c.UserID] = c
	return nil
}

func (r *fakeCompanyRepo) FindByUserID(_ *gorm.DB, userID string) (*models.Company, error) {
	if c, ok := r.byUser[userID]; ok {
		return c, nil
	}
	return nil, repositories.ErrCompanyNotFound
}

func (r *fakeCompanyRepo) Update(_ *gorm.DB, c *models.Company) error {
	r.byUser[c.UserID] = c
	return nil
}

func (r *fakeCompanyRepo) DeleteCascade(_ *gorm.DB, _ string) ([]string, error) {
	return nil, nil
}

type fakeStudentRepo struct {
	byUser       map[string]*models.StudentProfile
	replaceCalls int
	skills       []models.StudentSkill
	education    []models.StudentEducation
}

func (r *fakeStudentRepo) Create(_ *gorm.DB, p *models.StudentProfile) error {
	r.byUser[p.UserID] = p
	return nil
}

func (r *fakeStudentRepo) FindByUserID(_ *gorm.DB, userID string) (*models.StudentProfile, error) {
	if p, ok := r.byUser[userID]; ok {
		return p, nil
	}
	return nil, repositories.ErrStudentNotFound
}

func (r *fakeStudentRepo) FindDetailedByUserID(db *gorm.DB, userID string) (*models.StudentProfile, error) {
	return r.FindByUserID(db, userID)
}

func (r *fakeStudentRepo) Update(_ *gorm.DB, p *models.StudentProfile) error {
	cp := *p
	r.byUser[p.UserID] = &cp
	return nil
}

func (r *fakeStudentRepo) ReplaceSkills(_ *gorm.DB, _ string, rows []models.StudentSkill) error {
	r.replaceCalls++
	r.skills = rows
	return nil
}

func (r *fakeStudentRepo) ReplaceEducation(_ *gorm.DB, _ string, rows []models.StudentEducation) error {
	r.replaceCalls++
	r.education = rows
	return nil
}

func (r *fakeStudentRepo) ReplaceExperience(_ *gorm.DB, _ string, _ []models.StudentExperience) error {
	r.replaceCalls++
	return nil
}

func (r *fakeStudentRepo) ReplaceProjects(_ *gorm.DB, _ string, _ []models.StudentProject) error {
	r.replaceCalls++
	return nil
}

func (r *fakeStudentRepo) DeleteCascade(_ *gorm.DB, _ string) ([]string, error) {
	return nil, nil
}

type fakeSavedJobRepo struct {
	saved map[string]bool
}

func (r *fakeSavedJobRepo) Toggle(_ *gorm.DB, studentID, jobID string) (bool, error) {
	key := studentID + "/" + jobID
	r.saved[key] = !r.saved[key]
	return r.saved[key], nil
}

func (r *fakeSavedJobRepo) ListForStudent(_ *gorm.DB, _ string) ([]models.SavedJob, error) {
	return nil, nil
}

func (r *fakeSavedJobRepo) CountForStudent(_ *gorm.DB, studentID string) (int64, error) {
	var n int64
	for key, ok := range r.saved {
		if ok && strings.HasPrefix(key, studentID+"/") {
			n++
		}
	}
	return n, nil
}

// ---------- files / notifications ----------

type fakeFiles struct {
	stored  []string
	copied  []string
	removed []string
	err     error
}

func (f *fakeFiles) Upload(_ context.Context, kind config.FileKind, _ *multipart.FileHeader) (*dto.UploadResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := string(kind) + "/uploaded.pdf"
	f.stored = append(f.stored, key)
	return &dto.UploadResponse{Key: key}, nil
}

func (f *fakeFiles) Store(_ context.Context, kind config.FileKind, _ io.Reader, _ int64) (*dto.UploadResponse, error) {
	key := string(kind) + "/stored.pdf"
	f.stored = append(f.stored, key)
	return &dto.UploadResponse{Key: key}, nil
}

func (f *fakeFiles) Copy(_ context.Context, kind config.FileKind, src string) (*dto.UploadResponse, error) {
	f.copied = append(f.copied, src)
	key := string(kind) + "/copy-of-" + src
	f.stored = append(f.stored, key)
	return &dto.UploadResponse{Key: key}, nil
}

func (f *fakeFiles) Remove(_ context.Context, keys ...string) {
	for _, k := range keys {
		if k != "" {
			f.removed = append(f.removed, k)
		}
	}
}

func (f *fakeFiles) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
}

func (f *fakeFiles) SignedURL(_ context.Context, _ string, _ time.Duration) (string, error) {
	return "", nil
}

func (f *fakeFiles) URL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

type fakeNotifier struct {
	welcomed      []string
	statusChanged []string
	newApps       []string
}

func (n *fakeNotifier) Welcome(_ context.Context, u *models.User) {
	n.welcomed = append(n.welcomed, u.ID)
}

func (n *fakeNotifier) ApplicationStatusChanged(_ context.Context, app *models.JobApplication) {
	n.statusChanged = append(n.statusChanged, app.ID)
}

func (n *fakeNotifier) NewApplication(_ context.Context, job *models.Job, _ *models.User) {
	n.newApps = append(n.newApps, job.ID)
}

// ---------- fixtures ----------

func companyIdentity(userID, companyID string) *models.Identity {
	user := &models.User{Username: userID, Role: models.UserRoleCompany, IsActive: true}
	user.ID = userID
	company := &models.Company{UserID: userID, Name: "Company " + companyID}
	company.ID = companyID
	return &models.Identity{User: user, Company: company}
}

func studentIdentity(userID, studentID string) *models.Identity {
	user := &models.User{Username: userID, FirstName: "Sam", LastName: "Student", Role: models.UserRoleStudent, IsActive: true}
	user.ID = userID
	student := &models.StudentProfile{UserID: userID}
	student.ID = studentID
	return &models.Identity{User: user, Student: student}
}

func openJob(id, companyID string) *models.Job {
	job := &models.Job{
		CompanyID:          companyID,
		Title:              "Job " + id,
		JobType:            models.JobTypeInternship,
		IsActive:           true,
		PositionsAvailable: 1,
	}
	job.ID = id
	job.Deadline = dateOf(fixedNow.AddDate(0, 0, 7))
	return job
}

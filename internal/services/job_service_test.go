package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

func newTestJobService(jobs ...*models.Job) (*JobServiceImpl, *fakeJobRepo) {
	repo := newFakeJobRepo(jobs...)
	svc := NewJobService(repo, &fakeFiles{}).(*JobServiceImpl)
	svc.now = clock
	return svc, repo
}

func jobRequest(deadline string) *dto.JobRequest {
	active := true
	return &dto.JobRequest{
		Title:              "  Backend intern ",
		Description:        "Write Go",
		RequiredSkills:     " go,  sql ,,",
		JobType:            string(models.JobTypeInternship),
		Deadline:           deadline,
		IsActive:           &active,
		PositionsAvailable: 2,
	}
}

func TestJobCreate_PastDeadlineForcesInactive(t *testing.T) {
	svc, repo := newTestJobService()

	job, err := svc.Create(nil, companyIdentity("u-c1", "c1"), jobRequest("2026-03-09"))
	require.NoError(t, err)

	assert.False(t, job.IsActive)
	require.Len(t, repo.saved, 1)
	assert.False(t, repo.saved[0].IsActive)
	assert.Equal(t, "c1", job.CompanyID)
	assert.Equal(t, "Backend intern", job.Title)
	assert.Equal(t, "go, sql", job.RequiredSkills)
}

func TestJobCreate_DeadlineTodayStaysActive(t *testing.T) {
	svc, _ := newTestJobService()

	job, err := svc.Create(nil, companyIdentity("u-c1", "c1"), jobRequest("2026-03-10"))
	require.NoError(t, err)
	assert.True(t, job.IsActive)
	assert.True(t, job.IsOpen(fixedNow))
}

func TestJobCreate_ValidatesFieldRelations(t *testing.T) {
	svc, repo := newTestJobService()

	req := jobRequest("2026-04-01")
	min, max := 5000, 1000
	req.SalaryMin, req.SalaryMax = &min, &max
	_, err := svc.Create(nil, companyIdentity("u-c1", "c1"), req)
	requireCode(t, err, apperrors.CodeValidationFailed)

	req = jobRequest("01.04.2026")
	_, err = svc.Create(nil, companyIdentity("u-c1", "c1"), req)
	requireCode(t, err, apperrors.CodeValidationFailed)

	req = jobRequest("2026-04-01")
	req.JobType = "freelance"
	_, err = svc.Create(nil, companyIdentity("u-c1", "c1"), req)
	requireCode(t, err, apperrors.CodeValidationFailed)

	assert.Empty(t, repo.saved)
}

func TestJobToggle(t *testing.T) {
	expired := openJob("j-old", "c1")
	expired.IsActive = false
	expired.Deadline = dateOf(fixedNow.AddDate(0, 0, -3))
	svc, _ := newTestJobService(openJob("j1", "c1"), expired)
	company := companyIdentity("u-c1", "c1")

	job, err := svc.Toggle(nil, company, "j1")
	require.NoError(t, err)
	assert.False(t, job.IsActive)

	job, err = svc.Toggle(nil, company, "j1")
	require.NoError(t, err)
	assert.True(t, job.IsActive)

	_, err = svc.Toggle(nil, company, "j-old")
	assert.ErrorIs(t, err, apperrors.ErrJobExpired)
}

func TestJobUpdate_OtherCompanyGetsNotFound(t *testing.T) {
	svc, repo := newTestJobService(openJob("j1", "c1"))

	_, err := svc.Update(nil, companyIdentity("u-c2", "c2"), "j1", jobRequest("2026-04-01"))
	requireCode(t, err, apperrors.CodeNotFound)
	assert.Empty(t, repo.saved)
	assert.Equal(t, "Job j1", repo.jobs["j1"].Title)
}

func TestNormalizeSkills(t *testing.T) {
	assert.Equal(t, "go, sql", normalizeSkills(" go,  sql ,,"))
	assert.Equal(t, "", normalizeSkills(" , "))
}

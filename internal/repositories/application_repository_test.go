package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

func createApplication(t *testing.T, tx *gorm.DB, repo ApplicationRepository, jobID, studentID string, status models.ApplicationStatus) *models.JobApplication {
	t.Helper()
	app := &models.JobApplication{JobID: jobID, StudentID: studentID, CoverLetter: "hello", Status: status}
	require.NoError(t, repo.Create(tx, app))
	return app
}

func TestApplicationRepository_CreateRejectsDuplicate(t *testing.T) {
	tx := openTestDB(t)
	repo := NewApplicationRepository()
	s := seedData(t, tx)

	createApplication(t, tx, repo, s.jobA.ID, s.student.ID, models.ApplicationStatusPending)

	exists, err := repo.ExistsForStudent(tx, s.student.ID, s.jobA.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// в postgres ошибка внутри транзакции ломает ее до отката к savepoint
	tx.SavePoint("duplicate")
	err = repo.Create(tx, &models.JobApplication{JobID: s.jobA.ID, StudentID: s.student.ID, CoverLetter: "again"})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	tx.RollbackTo("duplicate")
}

func TestApplicationRepository_OwnershipScope(t *testing.T) {
	tx := openTestDB(t)
	repo := NewApplicationRepository()
	s := seedData(t, tx)

	app := createApplication(t, tx, repo, s.jobA.ID, s.student.ID, models.ApplicationStatusPending)

	found, err := repo.FindByIDForCompany(tx, s.companyA.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, found.ID)
	require.NotNil(t, found.Job)
	assert.Equal(t, s.companyA.ID, found.Job.CompanyID)

	_, err = repo.FindByIDForCompany(tx, s.companyB.ID, app.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	list, total, err := repo.ListForCompany(tx, s.companyB.ID, ApplicationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	list, total, err = repo.ListForStudent(tx, s.student.ID, ApplicationFilter{Status: models.ApplicationStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestApplicationRepository_BulkUpdateSkipsForeignAndTerminal(t *testing.T) {
	tx := openTestDB(t)
	repo := NewApplicationRepository()
	s := seedData(t, tx)

	otherStudent := createStudent(t, tx)

	pending := createApplication(t, tx, repo, s.jobA.ID, s.student.ID, models.ApplicationStatusPending)
	hired := createApplication(t, tx, repo, s.jobA.ID, otherStudent.ID, models.ApplicationStatusHired)
	foreign := createApplication(t, tx, repo, s.jobB.ID, s.student.ID, models.ApplicationStatusPending)

	at := time.Now().UTC().Truncate(time.Second)
	updated, err := repo.BulkUpdateStatusForCompany(tx, s.companyA.ID,
		[]string{pending.ID, hired.ID, foreign.ID, uuid.NewString()},
		models.ApplicationStatusRejected, s.companyA.UserID, at)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	var statuses []StatusCount
	statuses, err = repo.CountByStatusForCompany(tx, s.companyA.ID)
	require.NoError(t, err)
	counts := map[models.ApplicationStatus]int64{}
	for _, row := range statuses {
		counts[row.Status] = row.Count
	}
	assert.EqualValues(t, 1, counts[models.ApplicationStatusRejected])
	assert.EqualValues(t, 1, counts[models.ApplicationStatusHired])

	var reloaded models.JobApplication
	require.NoError(t, tx.First(&reloaded, "id = ?", foreign.ID).Error)
	assert.Equal(t, models.ApplicationStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedAt)
}

func TestApplicationRepository_DeletePendingForStudent(t *testing.T) {
	tx := openTestDB(t)
	repo := NewApplicationRepository()
	s := seedData(t, tx)

	shortlisted := createApplication(t, tx, repo, s.jobA.ID, s.student.ID, models.ApplicationStatusShortlisted)
	pending := createApplication(t, tx, repo, s.jobB.ID, s.student.ID, models.ApplicationStatusPending)

	n, err := repo.DeletePendingForStudent(tx, s.student.ID, shortlisted.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeletePendingForStudent(tx, s.student.ID, pending.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.FindByIDForStudent(tx, s.student.ID, pending.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApplicationRepository_CountByJob(t *testing.T) {
	tx := openTestDB(t)
	repo := NewApplicationRepository()
	s := seedData(t, tx)

	createApplication(t, tx, repo, s.jobA.ID, s.student.ID, models.ApplicationStatusPending)

	rows, err := repo.CountByJobForCompany(tx, s.companyA.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, s.jobA.ID, rows[0].JobID)
	assert.EqualValues(t, 1, rows[0].Count)
}

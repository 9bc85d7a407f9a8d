package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
)

func TestBuildApplicationStats_ZeroFillsEveryStatus(t *testing.T) {
	stats := BuildApplicationStats(nil)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ResponseRate)
	require.Len(t, stats.ByStatus, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		v, ok := stats.ByStatus[st]
		assert.True(t, ok, "status %s missing", st)
		assert.Zero(t, v)
	}
}

func TestBuildApplicationStats_CountsAndRate(t *testing.T) {
	stats := BuildApplicationStats([]repositories.StatusCount{
		{Status: models.ApplicationStatusPending, Count: 2},
		{Status: models.ApplicationStatusHired, Count: 1},
		{Status: "legacy", Count: 3},
	})

	assert.EqualValues(t, 6, stats.Total)
	assert.EqualValues(t, 2, stats.ByStatus[models.ApplicationStatusPending])
	assert.EqualValues(t, 1, stats.ByStatus[models.ApplicationStatusHired])
	assert.NotContains(t, stats.ByStatus, models.ApplicationStatus("legacy"))
	assert.Equal(t, 66.7, stats.ResponseRate)
}

func TestResponseRate(t *testing.T) {
	assert.Equal(t, 0.0, ResponseRate(0, 0))
	assert.Equal(t, 0.0, ResponseRate(5, -1))
	assert.Equal(t, 33.3, ResponseRate(1, 3))
	assert.Equal(t, 100.0, ResponseRate(4, 4))
}

func TestMergeActivity_NewestFirstAndLimited(t *testing.T) {
	at := func(h int) time.Time { return fixedNow.Add(-time.Duration(h) * time.Hour) }

	apps := []models.JobApplication{
		{JobID: "j1", Status: models.ApplicationStatusPending, Job: &models.Job{Title: "Go dev"}},
		{JobID: "j2", Status: models.ApplicationStatusRejected},
	}
	apps[0].ID, apps[0].CreatedAt = "a1", at(1)
	apps[1].ID, apps[1].CreatedAt = "a2", at(5)

	jobs := []models.Job{{Title: "Data intern"}}
	jobs[0].ID, jobs[0].CreatedAt = "j3", at(3)

	items := MergeActivity(apps, jobs, 2)
	require.Len(t, items, 2)

	assert.Equal(t, dto.ActivityApplication, items[0].Type)
	assert.Equal(t, "a1", items[0].ApplicationID)
	assert.Equal(t, "Applied for Go dev", items[0].Title)

	assert.Equal(t, dto.ActivityJobPosted, items[1].Type)
	assert.Equal(t, "j3", items[1].JobID)
	assert.Equal(t, "Posted Data intern", items[1].Title)

	assert.Len(t, MergeActivity(apps, jobs, 0), 3)
}

func TestCompanyDashboard(t *testing.T) {
	apps := newFakeApplicationRepo()
	apps.jobOwners["j1"] = "c1"
	apps.add(pendingApp("a1", "j1", "s1"))

	closed := openJob("j2", "c1")
	closed.IsActive = false
	jobs := newFakeJobRepo(openJob("j1", "c1"), closed, openJob("j3", "c2"))

	svc := NewDashboardService(jobs, apps, &fakeSavedJobRepo{saved: map[string]bool{}}, &fakeStudentRepo{}, &fakeFiles{}, 0, 0).(*DashboardServiceImpl)
	svc.now = clock
	assert.Equal(t, DefaultRecentDays, svc.recentDays)

	dash, err := svc.CompanyDashboard(nil, companyIdentity("u-c1", "c1"))
	require.NoError(t, err)

	assert.EqualValues(t, 2, dash.TotalJobs)
	assert.EqualValues(t, 1, dash.ActiveJobs)
	assert.EqualValues(t, 1, dash.InactiveJobs)
	assert.EqualValues(t, 1, dash.Applications.Total)
	assert.Equal(t, 0.0, dash.Applications.ResponseRate)
	assert.NotNil(t, dash.RecentActivity)
}

package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/models"
)

func TestStudentRepository_DeleteCascade(t *testing.T) {
	tx := openTestDB(t)
	apps := NewApplicationRepository()
	students := NewStudentRepository()
	s := seedData(t, tx)
	other := createStudent(t, tx)

	own := createApplication(t, tx, apps, s.jobA.ID, s.student.ID, models.ApplicationStatusPending)
	require.NoError(t, tx.Model(own).Update("resume_path", "resumes/2026/03/01/own.pdf").Error)
	createApplication(t, tx, apps, s.jobB.ID, s.student.ID, models.ApplicationStatusRejected)
	kept := createApplication(t, tx, apps, s.jobA.ID, other.ID, models.ApplicationStatusPending)

	_, err := NewSavedJobRepository().Toggle(tx, s.student.ID, s.jobB.ID)
	require.NoError(t, err)
	require.NoError(t, students.ReplaceSkills(tx, s.student.ID, []models.StudentSkill{
		{StudentID: s.student.ID, Ordinal: 0, Name: "Go"},
		{StudentID: s.student.ID, Ordinal: 1, Name: "SQL"},
	}))
	require.NoError(t, students.ReplaceEducation(tx, s.student.ID, []models.StudentEducation{
		{StudentID: s.student.ID, Ordinal: 0, Institution: "KBTU"},
	}))
	require.NoError(t, students.ReplaceSkills(tx, other.ID, []models.StudentSkill{
		{StudentID: other.ID, Ordinal: 0, Name: "Python"},
	}))

	resumes, err := students.DeleteCascade(tx, s.student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"resumes/2026/03/01/own.pdf"}, resumes)

	assert.Zero(t, countRows(t, tx, &models.StudentProfile{}, "id = ?", s.student.ID))
	for _, model := range []interface{}{
		&models.JobApplication{},
		&models.SavedJob{},
		&models.StudentSkill{},
		&models.StudentEducation{},
	} {
		assert.Zero(t, countRows(t, tx, model, "student_id = ?", s.student.ID))
	}

	assert.EqualValues(t, 1, countRows(t, tx, &models.JobApplication{}, "id = ?", kept.ID))
	assert.EqualValues(t, 1, countRows(t, tx, &models.StudentSkill{}, "student_id = ?", other.ID))
	// вакансии остаются на месте
	assert.EqualValues(t, 2, countRows(t, tx, &models.Job{}, "id IN ?", []string{s.jobA.ID, s.jobB.ID}))
}

func TestStudentRepository_DeleteCascadeUnknown(t *testing.T) {
	tx := openTestDB(t)

	_, err := NewStudentRepository().DeleteCascade(tx, uuid.NewString())
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type studentFixture struct {
	svc      *StudentServiceImpl
	students *fakeStudentRepo
	saved    *fakeSavedJobRepo
	files    *fakeFiles
}

func newStudentFixture() *studentFixture {
	students := &fakeStudentRepo{byUser: map[string]*models.StudentProfile{}}
	saved := &fakeSavedJobRepo{saved: map[string]bool{}}
	files := &fakeFiles{}
	svc := NewStudentService(students, newFakeUserRepo(), newFakeJobRepo(openJob("j1", "c1")), saved, files).(*StudentServiceImpl)
	svc.now = clock
	return &studentFixture{svc: svc, students: students, saved: saved, files: files}
}

func intPtr(v int) *int { return &v }

func TestReplaceSkills_CapCheckedBeforeWrite(t *testing.T) {
	f := newStudentFixture()
	skills := make([]dto.SkillInput, models.MaxStudentSkills+1)
	for i := range skills {
		skills[i] = dto.SkillInput{Name: "skill" + string(rune('a'+i))}
	}

	_, err := f.svc.ReplaceSkills(nil, studentIdentity("u1", "s1"), &dto.SkillsRequest{Skills: skills})
	requireCode(t, err, apperrors.CodeLimitExceeded)
	assert.Zero(t, f.students.replaceCalls)
}

func TestReplaceSkills_OrdinalsFollowInput(t *testing.T) {
	f := newStudentFixture()

	rows, err := f.svc.ReplaceSkills(nil, studentIdentity("u1", "s1"), &dto.SkillsRequest{Skills: []dto.SkillInput{
		{Name: " Go ", Level: "advanced"},
		{Name: "SQL"},
	}})
	require.NoError(t, err)

	require.Len(t, f.students.skills, 2)
	assert.Equal(t, rows, f.students.skills)
	assert.Equal(t, "Go", rows[0].Name)
	assert.Equal(t, 0, rows[0].Ordinal)
	assert.Equal(t, "SQL", rows[1].Name)
	assert.Equal(t, 1, rows[1].Ordinal)
	assert.Equal(t, "s1", rows[1].StudentID)
}

func TestReplaceSkills_DuplicateNames(t *testing.T) {
	f := newStudentFixture()

	_, err := f.svc.ReplaceSkills(nil, studentIdentity("u1", "s1"), &dto.SkillsRequest{Skills: []dto.SkillInput{
		{Name: "Go"},
		{Name: "go"},
	}})
	requireCode(t, err, apperrors.CodeValidationFailed)
	assert.Zero(t, f.students.replaceCalls)
}

func TestReplaceSkills_EmptyListClearsSection(t *testing.T) {
	f := newStudentFixture()

	rows, err := f.svc.ReplaceSkills(nil, studentIdentity("u1", "s1"), &dto.SkillsRequest{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1, f.students.replaceCalls)
}

func TestReplaceEducation(t *testing.T) {
	f := newStudentFixture()
	student := studentIdentity("u1", "s1")

	_, err := f.svc.ReplaceEducation(nil, student, &dto.EducationRequest{Education: []dto.EducationInput{
		{Institution: "MIT", StartYear: intPtr(2020), EndYear: intPtr(2024)},
		{Institution: "KBTU", StartYear: intPtr(2024), EndYear: intPtr(2022)},
	}})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, "education[1].end_year")
	assert.Zero(t, f.students.replaceCalls)

	_, err = f.svc.ReplaceEducation(nil, student, &dto.EducationRequest{Education: make([]dto.EducationInput, models.MaxStudentEducation+1)})
	requireCode(t, err, apperrors.CodeLimitExceeded)

	rows, err := f.svc.ReplaceEducation(nil, student, &dto.EducationRequest{Education: []dto.EducationInput{
		{Institution: " MIT ", StartYear: intPtr(2020)},
	}})
	require.NoError(t, err)
	require.Len(t, f.students.education, 1)
	assert.Equal(t, "MIT", rows[0].Institution)
}

func TestReplaceExperience_EndBeforeStart(t *testing.T) {
	f := newStudentFixture()

	_, err := f.svc.ReplaceExperience(nil, studentIdentity("u1", "s1"), &dto.ExperienceRequest{Experience: []dto.ExperienceInput{
		{Title: "Intern", Company: "Acme", StartDate: "2024-06", EndDate: "2024-01"},
	}})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.svc.ReplaceExperience(nil, studentIdentity("u1", "s1"), &dto.ExperienceRequest{Experience: []dto.ExperienceInput{
		{Title: "Intern", Company: "Acme", StartDate: "2024-06"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.students.replaceCalls)
}

func TestUploadResume_ReplacesOldFileAfterUpdate(t *testing.T) {
	f := newStudentFixture()
	student := studentIdentity("u1", "s1")
	student.Student.ResumePath = "resume/old.pdf"

	res, err := f.svc.UploadResume(context.Background(), nil, student, &multipart.FileHeader{Filename: "cv.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "resume/uploaded.pdf", res.Key)
	assert.Equal(t, "resume/uploaded.pdf", f.students.byUser["u1"].ResumePath)
	assert.Equal(t, []string{"resume/old.pdf"}, f.files.removed)
}

func TestDeletePicture_NothingToDelete(t *testing.T) {
	f := newStudentFixture()

	err := f.svc.DeletePicture(context.Background(), nil, studentIdentity("u1", "s1"))
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestToggleSavedJob(t *testing.T) {
	f := newStudentFixture()
	student := studentIdentity("u1", "s1")

	res, err := f.svc.ToggleSavedJob(nil, student, "j1")
	require.NoError(t, err)
	assert.True(t, res.Saved)

	res, err = f.svc.ToggleSavedJob(nil, student, "j1")
	require.NoError(t, err)
	assert.False(t, res.Saved)

	_, err = f.svc.ToggleSavedJob(nil, student, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
}

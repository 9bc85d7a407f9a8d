package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/models"
	"jobportal_backend/pkg/apperrors"
)

func newTestIdentityService() IdentityService {
	company := companyIdentity("u-company", "c1")
	student := studentIdentity("u-student", "s1")

	orphan := &models.User{Username: "orphan", Role: models.UserRoleCompany, IsActive: true}
	orphan.ID = "u-orphan"
	disabled := &models.User{Username: "disabled", Role: models.UserRoleStudent}
	disabled.ID = "u-disabled"

	return NewIdentityService(
		newFakeUserRepo(company.User, student.User, orphan, disabled),
		&fakeCompanyRepo{byUser: map[string]*models.Company{"u-company": company.Company}},
		&fakeStudentRepo{byUser: map[string]*models.StudentProfile{"u-student": student.Student}},
	)
}

func redirectOf(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	return details["redirect"]
}

func TestResolve_FillsAtMostOneProfile(t *testing.T) {
	svc := newTestIdentityService()

	identity, err := svc.Resolve(nil, "u-company")
	require.NoError(t, err)
	assert.True(t, identity.IsCompany())
	assert.False(t, identity.IsStudent())

	identity, err = svc.Resolve(nil, "u-orphan")
	require.NoError(t, err)
	assert.False(t, identity.IsCompany())
	assert.False(t, identity.IsStudent())
}

func TestResolve_MissingOrDisabledAccount(t *testing.T) {
	svc := newTestIdentityService()

	_, err := svc.Resolve(nil, "u-deleted")
	requireCode(t, err, apperrors.CodeUnauthorized)

	_, err = svc.Resolve(nil, "u-disabled")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRequireRole_RedirectHints(t *testing.T) {
	svc := newTestIdentityService()

	identity, err := svc.RequireCompany(nil, "u-company")
	require.NoError(t, err)
	assert.Equal(t, "c1", identity.Company.ID)

	// студент на стороне компании -> вход компании
	_, err = svc.RequireCompany(nil, "u-student")
	requireCode(t, err, apperrors.CodeNoRoleProfile)
	assert.Equal(t, CompanyLoginRoute, redirectOf(t, err))

	// аккаунт компании без профиля -> регистрация компании
	_, err = svc.RequireCompany(nil, "u-orphan")
	requireCode(t, err, apperrors.CodeNoRoleProfile)
	assert.Equal(t, CompanyRegisterRoute, redirectOf(t, err))

	_, err = svc.RequireStudent(nil, "u-company")
	requireCode(t, err, apperrors.CodeNoRoleProfile)
	assert.Equal(t, StudentLoginRoute, redirectOf(t, err))

	identity, err = svc.RequireStudent(nil, "u-student")
	require.NoError(t, err)
	assert.Equal(t, "s1", identity.Student.ID)
}

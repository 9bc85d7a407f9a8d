package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusForm struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type jobForm struct {
	Title   string `json:"title" validate:"required,max=200"`
	JobType string `json:"job_type" validate:"required,is-job-type"`
}

type registerForm struct {
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type skill struct {
	Name string `json:"name" validate:"required"`
}

type skillsForm struct {
	Skills []skill `json:"skills" validate:"max=4,dive"`
}

func TestValidator_ApplicationStatus(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&statusForm{Status: "shortlisted"}))
	assert.NoError(t, v.Validate(&statusForm{Status: "hired"}))

	for _, bad := range []string{"Shortlisted", "accepted", "withdrawn", " pending"} {
		err := v.Validate(&statusForm{Status: bad})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, bad)
		assert.Contains(t, vErr.Errors, "status")
	}
}

func TestValidator_JobTypeAndFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&jobForm{Title: "", JobType: "freelance"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Contains(t, vErr.Errors, "job_type")

	assert.NoError(t, v.Validate(&jobForm{Title: "Backend intern", JobType: "internship"}))
}

func TestValidator_PasswordConfirmation(t *testing.T) {
	v := New()

	err := v.Validate(&registerForm{Password: "longenough1", ConfirmPassword: "different1"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "confirm_password")

	err = v.Validate(&registerForm{Password: "12345678", ConfirmPassword: "12345678"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "password")
}

func TestValidator_NestedSliceFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&skillsForm{Skills: []skill{{Name: "Go"}, {Name: ""}}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "skills[1].name")

	err = v.Validate(&skillsForm{Skills: make([]skill, 5)})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "skills")
}

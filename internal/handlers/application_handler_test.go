package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/validator"
	"jobportal_backend/pkg/apperrors"
	"jobportal_backend/pkg/contextkeys"
)

// stubIdentity: у компании профиль есть только у "company-user"
type stubIdentity struct {
	services.IdentityService
}

func (stubIdentity) RequireCompany(_ *gorm.DB, userID string) (*models.Identity, error) {
	if userID != "company-user" {
		return nil, apperrors.ErrNoRoleProfile("company", services.CompanyRegisterRoute)
	}
	user := &models.User{Role: models.UserRoleCompany, IsActive: true}
	user.ID = userID
	company := &models.Company{UserID: userID}
	company.ID = "c1"
	return &models.Identity{User: user, Company: company}, nil
}

type stubApplications struct {
	services.ApplicationService
	statusCalls []string
	bulkCalls   int
}

func (s *stubApplications) UpdateStatus(_ context.Context, _ *gorm.DB, identity *models.Identity, id string, req *dto.UpdateStatusRequest) (*dto.StatusChangeResponse, error) {
	s.statusCalls = append(s.statusCalls, id)
	status, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus("application", "Invalid status")
	}
	if id == "foreign" {
		return nil, apperrors.ErrNotFound(nil)
	}
	now := time.Now()
	return &dto.StatusChangeResponse{ID: id, Status: status, Label: status.Label(), ReviewedAt: &now, Message: status.Message()}, nil
}

func (s *stubApplications) BulkUpdateStatus(_ *gorm.DB, _ *models.Identity, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	s.bulkCalls++
	return &dto.BulkStatusResponse{Requested: len(req.ApplicationIDs), Updated: 1, Status: models.ApplicationStatus(req.Status)}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Errors  map[string]any  `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager
	apps   *stubApplications
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("secret", "jobportal", time.Hour)
	apps := &stubApplications{}
	h := NewApplicationHandler(NewBaseHandler(validator.New(), stubIdentity{}), apps)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		var db *gorm.DB
		c.Set(string(contextkeys.DBContextKey), db)
		c.Next()
	})
	company := r.Group("/company", middleware.AuthMiddleware(tokens, nil), middleware.RoleMiddleware(models.UserRoleCompany))
	h.RegisterCompanyRoutes(company)

	return &testServer{router: r, tokens: tokens, apps: apps}
}

func (s *testServer) token(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	u := &models.User{Role: role}
	u.ID = userID
	token, _, err := s.tokens.Generate(u)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestUpdateStatus_Envelopes(t *testing.T) {
	s := newTestServer()
	token := s.token(t, "company-user", models.UserRoleCompany)

	w, env := s.do(t, http.MethodPatch, "/company/applications/a1/status", token, `{"status":"shortlisted"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, models.ApplicationStatusShortlisted.Message(), env.Message)
	assert.Contains(t, string(env.Data), `"status":"shortlisted"`)

	w, env = s.do(t, http.MethodPatch, "/company/applications/a1/status", token, `{"status":"Accepted"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, string(apperrors.CodeInvalidStatus), env.Code)

	w, env = s.do(t, http.MethodPatch, "/company/applications/foreign/status", token, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.CodeNotFound), env.Code)
}

func TestUpdateStatus_MissingBodyFieldIsValidationError(t *testing.T) {
	s := newTestServer()
	token := s.token(t, "company-user", models.UserRoleCompany)

	w, env := s.do(t, http.MethodPatch, "/company/applications/a1/status", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), env.Code)
	assert.Contains(t, env.Errors, "status")
	assert.Empty(t, s.apps.statusCalls)
}

func TestCompanyRoutes_AccessControl(t *testing.T) {
	s := newTestServer()

	w, env := s.do(t, http.MethodPatch, "/company/applications/a1/status", "", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	student := s.token(t, "student-user", models.UserRoleStudent)
	w, _ = s.do(t, http.MethodPatch, "/company/applications/a1/status", student, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// роль в токене company, но профиля компании нет
	orphan := s.token(t, "orphan-user", models.UserRoleCompany)
	w, env = s.do(t, http.MethodPatch, "/company/applications/a1/status", orphan, `{"status":"rejected"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, string(apperrors.CodeNoRoleProfile), env.Code)
	assert.Equal(t, services.CompanyRegisterRoute, env.Errors["redirect"])

	assert.Empty(t, s.apps.statusCalls)
}

func TestBulkStatus_Validation(t *testing.T) {
	s := newTestServer()
	token := s.token(t, "company-user", models.UserRoleCompany)

	w, env := s.do(t, http.MethodPost, "/company/applications/bulk-status", token, `{"application_ids":[],"status":"rejected"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), env.Code)
	assert.Contains(t, env.Errors, "application_ids")
	assert.Zero(t, s.apps.bulkCalls)

	w, env = s.do(t, http.MethodPost, "/company/applications/bulk-status", token, `{"application_ids":["a1","a2"],"status":"rejected"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, s.apps.bulkCalls)
}

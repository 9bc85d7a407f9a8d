package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/models"
)

func newAuthRouter(tokens *auth.TokenManager, denylist auth.Denylist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/company", AuthMiddleware(tokens, denylist), RoleMiddleware(models.UserRoleCompany), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "jobportal", time.Hour)
	denylist := auth.NewMemoryDenylist()
	r := newAuthRouter(tokens, denylist)

	company := &models.User{Role: models.UserRoleCompany}
	company.ID = "company-user"
	companyToken, claims, err := tokens.Generate(company)
	require.NoError(t, err)

	student := &models.User{Role: models.UserRoleStudent}
	student.ID = "student-user"
	studentToken, _, err := tokens.Generate(student)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/company", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("company token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/company", nil)
		req.Header.Set("Authorization", "Bearer "+companyToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "company-user", w.Body.String())
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/company", nil)
		req.Header.Set("Authorization", "Bearer "+studentToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, denylist.Revoke(context.Background(), claims.ID, time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/company", nil)
		req.Header.Set("Authorization", "Bearer "+companyToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
)

// Options - то, что нужно маршрутам помимо хэндлеров
type Options struct {
	DB          *gorm.DB
	Tokens      *auth.TokenManager
	Denylist    auth.Denylist
	Limiter     middleware.Limiter
	AuthLimit   int
	AuthWindow  time.Duration
	MediaPrefix string // пусто, если файлы раздает внешнее хранилище
	MediaRoot   string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers, opts Options) {
	router.GET("/health", healthHandler(opts.DB))

	if opts.MediaPrefix != "" && opts.MediaRoot != "" {
		router.Static(opts.MediaPrefix, opts.MediaRoot)
		logger.Info("Serving local media", "prefix", opts.MediaPrefix, "root", opts.MediaRoot)
	}

	authMW := middleware.AuthMiddleware(opts.Tokens, opts.Denylist)
	limit := middleware.RateLimit(opts.Limiter, opts.AuthLimit, opts.AuthWindow)

	api := router.Group("/api/v1")
	{
		h.AuthHandler.RegisterRoutes(api, limit, authMW)
		h.JobHandler.RegisterPublicRoutes(api)

		company := api.Group("/company", authMW, middleware.RoleMiddleware(models.UserRoleCompany))
		h.CompanyHandler.RegisterRoutes(company)
		h.JobHandler.RegisterCompanyRoutes(company)
		h.ApplicationHandler.RegisterCompanyRoutes(company)

		student := api.Group("/student", authMW, middleware.RoleMiddleware(models.UserRoleStudent))
		h.StudentHandler.RegisterRoutes(student)
		h.ApplicationHandler.RegisterStudentRoutes(student)
	}

	logger.Info("HTTP routes registered", "count", len(router.Routes()))
}

// healthHandler проверяет доступность БД
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok", "time": time.Now().UTC()}
		if db == nil {
			c.JSON(http.StatusOK, status)
			return
		}

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "Health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}

		status["database"] = "up"
		c.JSON(http.StatusOK, status)
	}
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jobportal_backend/database"
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/email"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/routes"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/storage"
	"jobportal_backend/internal/validator"
	"jobportal_backend/pkg/apperrors"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env, cfg.Server.LogLevel)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	redisClient := connectRedis(cfg)
	ginRouter := SetupRouter(cfg, gormDB, redisClient)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = sqlDB.Close()
	logger.Info("Server stopped")
}

// SetupRouter собирает хранилище, сервисы, хэндлеры и маршруты.
// redisClient может быть nil: тогда denylist и rate limit живут в памяти.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var (
		denylist auth.Denylist
		limiter  middleware.Limiter
	)
	if redisClient != nil {
		denylist = auth.NewRedisDenylist(redisClient)
		limiter = middleware.NewRedisLimiter(redisClient)
	} else {
		denylist = auth.NewMemoryDenylist()
		limiter = middleware.NewRateLimiter()
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL())

	serviceContainer := services.NewServiceContainer(services.NewRepositoryContainer(), services.Dependencies{
		Config:        cfg,
		Storage:       storageInstance,
		EmailProvider: newEmailProvider(cfg),
		Tokens:        tokens,
		Denylist:      denylist,
	})
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter(cfg, gormDB)

	opts := routes.Options{
		DB:         gormDB,
		Tokens:     tokens,
		Denylist:   denylist,
		Limiter:    limiter,
		AuthLimit:  cfg.RateLimit.AuthRequests,
		AuthWindow: time.Duration(cfg.RateLimit.AuthWindow) * time.Second,
	}
	// Локальные файлы отдаем сами, если base_url - путь на этом же сервере
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		opts.MediaPrefix = cfg.Storage.BaseURL
		opts.MediaRoot = local.BasePath()
	}
	routes.RegisterRoutes(ginRouter, appHandlers, opts)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// connectRedis возвращает nil, если redis не настроен или недоступен
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis is not configured, token denylist and rate limits are in-memory")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return client
}

// newEmailProvider: SMTP при включенной почте, иначе письма пишутся в лог
func newEmailProvider(cfg *config.Config) email.Provider {
	templates := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := templates.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Warn("Failed to load email templates, using built-in", "dir", cfg.Email.TemplatesDir, "error", err)
		}
	}

	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, messages are written to the log")
		return email.NewLogProvider(templates)
	}

	provider, err := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}, templates)
	if err != nil {
		logger.Warn("SMTP is misconfigured, messages are written to the log", "error", err)
		return email.NewLogProvider(templates)
	}
	return provider
}

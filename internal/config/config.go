package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"jobportal_backend/internal/logger"
)

type Config struct {
	Server struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Env             string `yaml:"env"`
		LogLevel        string `yaml:"log_level"`
		ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
	} `yaml:"server"`

	Database struct {
		Driver        string `yaml:"driver"` // postgres, mysql
		DSN           string `yaml:"url"`
		MaxOpenConns  int    `yaml:"max_open_conns"`
		MaxIdleConns  int    `yaml:"max_idle_conns"`
		SlowQueryMs   int    `yaml:"slow_query_ms"`
		AutoMigrate   bool   `yaml:"auto_migrate"`
		LogAllQueries bool   `yaml:"log_all_queries"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
		Issuer string `yaml:"issuer"`
	} `yaml:"jwt"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто = in-memory fallback
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		AuthRequests int `yaml:"auth_requests"` // запросов на окно
		AuthWindow   int `yaml:"auth_window"`   // seconds
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize        int64    `yaml:"max_size"` // bytes
		ResumeTypes    []string `yaml:"resume_types"`
		ImageTypes     []string `yaml:"image_types"`
		ImageMaxWidth  int      `yaml:"image_max_width"`
		ImageMaxHeight int      `yaml:"image_max_height"`
		ImageQuality   int      `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`

	Dashboard struct {
		RecentDays  int `yaml:"recent_days"`
		RecentLimit int `yaml:"recent_limit"`
	} `yaml:"dashboard"`
}

var AppConfig *Config

// Load читает конфигурацию: .env (если есть) -> YAML (если есть) -> переменные окружения.
// Переменные окружения всегда имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env file", "error", err)
	}

	var cfg Config

	if path == "" {
		path = getEnv("CONFIG_PATH", "config/config.yaml")
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
		logger.Info("Configuration loaded from file", "path", path)
	case errors.Is(err, os.ErrNotExist):
		logger.Info("Config file not found, using environment variables", "path", path)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig загружает глобальную конфигурацию и завершает процесс при ошибке
func LoadConfig() {
	cfg, err := Load("")
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.Env = getEnv("SERVER_ENV", cfg.Server.Env)
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", cfg.Server.LogLevel)

	cfg.Database.Driver = getEnv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Database.AutoMigrate = getEnvBool("DATABASE_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.TTL = getEnvInt("JWT_TTL", cfg.JWT.TTL)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORS.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.Email.SMTPHost = getEnv("SMTP_HOST", cfg.Email.SMTPHost)
	cfg.Email.SMTPPort = getEnvInt("SMTP_PORT", cfg.Email.SMTPPort)
	cfg.Email.SMTPUsername = getEnv("SMTP_USER", cfg.Email.SMTPUsername)
	cfg.Email.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.Email.SMTPPassword)
	cfg.Email.FromEmail = getEnv("SMTP_FROM", cfg.Email.FromEmail)
	cfg.Email.Enabled = getEnvBool("SMTP_ENABLED", cfg.Email.Enabled)

	cfg.Storage.Type = getEnv("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.BasePath = getEnv("STORAGE_BASE_PATH", cfg.Storage.BasePath)
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Region = getEnv("STORAGE_REGION", cfg.Storage.Region)
	cfg.Storage.AccessKey = getEnv("STORAGE_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = getEnv("STORAGE_SECRET_KEY", cfg.Storage.SecretKey)
	cfg.Storage.Endpoint = getEnv("STORAGE_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.BaseURL = getEnv("STORAGE_BASE_URL", cfg.Storage.BaseURL)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.SlowQueryMs == 0 {
		cfg.Database.SlowQueryMs = 200
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60 * 24
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "jobportal"
	}
	if cfg.RateLimit.AuthRequests == 0 {
		cfg.RateLimit.AuthRequests = 10
	}
	if cfg.RateLimit.AuthWindow == 0 {
		cfg.RateLimit.AuthWindow = 60
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Job Portal"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/media"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = DefaultMaxUploadSize
	}
	if len(cfg.Upload.ResumeTypes) == 0 {
		cfg.Upload.ResumeTypes = DefaultResumeTypes
	}
	if len(cfg.Upload.ImageTypes) == 0 {
		cfg.Upload.ImageTypes = DefaultImageTypes
	}
	if cfg.Upload.ImageMaxWidth == 0 {
		cfg.Upload.ImageMaxWidth = 1000
	}
	if cfg.Upload.ImageMaxHeight == 0 {
		cfg.Upload.ImageMaxHeight = 1000
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Dashboard.RecentDays == 0 {
		cfg.Dashboard.RecentDays = 30
	}
	if cfg.Dashboard.RecentLimit == 0 {
		cfg.Dashboard.RecentLimit = 10
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Invalid integer in environment, using fallback", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

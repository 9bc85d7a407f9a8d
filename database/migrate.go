package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
)

// Connect открывает пул соединений для драйвера из конфига.
// TranslateError включен: репозитории полагаются на gorm.ErrDuplicatedKey.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	default:
		dialector = postgres.Open(cfg.Database.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.NewGormLogger(
			cfg.Database.LogAllQueries,
			time.Duration(cfg.Database.SlowQueryMs)*time.Millisecond,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Models - все таблицы приложения в порядке создания
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Company{},
		&models.StudentProfile{},
		&models.Job{},
		&models.JobApplication{},
		&models.SavedJob{},
		&models.StudentSkill{},
		&models.StudentEducation{},
		&models.StudentExperience{},
		&models.StudentProject{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logger.Info("✅ Database migrated", "tables", len(Models()))
	return nil
}

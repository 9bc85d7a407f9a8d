package repositories

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jobportal_backend/database"
	"jobportal_backend/internal/models"
)

// Тесты репозиториев идут на postgres из TEST_DATABASE_URL, а без него
// на sqlite в памяти процесса. Каждый тест работает в своей транзакции,
// которая откатывается в конце.

var (
	testDB     *gorm.DB
	testDBErr  error
	testDBOnce sync.Once
)

func usingPostgres() bool {
	return os.Getenv("TEST_DATABASE_URL") != ""
}

// requirePostgres - для проверок, завязанных на диалект postgres
func requirePostgres(t *testing.T) {
	t.Helper()
	if !usingPostgres() {
		t.Skip("TEST_DATABASE_URL is not set")
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBOnce.Do(func() {
		cfg := &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		}
		if usingPostgres() {
			testDB, testDBErr = gorm.Open(postgres.Open(os.Getenv("TEST_DATABASE_URL")), cfg)
		} else {
			testDB, testDBErr = gorm.Open(sqlite.Open("file::memory:"), cfg)
			if testDBErr == nil {
				// у каждого соединения sqlite своя база в памяти.
				// Внешние ключи выключены, каскады проверяются по явным DELETE.
				sqlDB, err := testDB.DB()
				if err != nil {
					testDBErr = err
					return
				}
				sqlDB.SetMaxOpenConns(1)
			}
		}
		if testDBErr == nil {
			testDBErr = testDB.AutoMigrate(database.Models()...)
		}
	})
	require.NoError(t, testDBErr)

	tx := testDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

type seed struct {
	companyA, companyB *models.Company
	jobA, jobB         *models.Job
	student            *models.StudentProfile
}

func createUser(t *testing.T, tx *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	name := uuid.NewString()[:12]
	user := &models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, tx.Create(user).Error)
	return user
}

func createStudent(t *testing.T, tx *gorm.DB) *models.StudentProfile {
	t.Helper()
	user := createUser(t, tx, models.UserRoleStudent)
	student := &models.StudentProfile{UserID: user.ID}
	require.NoError(t, tx.Create(student).Error)
	return student
}

func seedData(t *testing.T, tx *gorm.DB) seed {
	t.Helper()
	var s seed
	deadline := datatypes.Date(time.Now().AddDate(0, 1, 0))

	for _, c := range []**models.Company{&s.companyA, &s.companyB} {
		user := createUser(t, tx, models.UserRoleCompany)
		*c = &models.Company{UserID: user.ID, Name: "Company " + user.Username}
		require.NoError(t, tx.Create(*c).Error)
	}
	for i, j := range []**models.Job{&s.jobA, &s.jobB} {
		owner := s.companyA
		if i == 1 {
			owner = s.companyB
		}
		*j = &models.Job{
			CompanyID:          owner.ID,
			Title:              "Backend intern",
			Description:        "Go services",
			JobType:            models.JobTypeInternship,
			Deadline:           deadline,
			IsActive:           true,
			PositionsAvailable: 1,
		}
		require.NoError(t, tx.Create(*j).Error)
	}

	s.student = createStudent(t, tx)
	return s
}

func countRows(t *testing.T, tx *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tx.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

package repositories

import (
	"strings"

	"gorm.io/gorm"

	"jobportal_backend/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination - общие параметры постраничного вывода
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) normalized() (limit, offset int) {
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return size, (page - 1) * size
}

func paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit, offset := p.normalized()
		return db.Limit(limit).Offset(offset)
	}
}

// likePattern готовит подстроку для LIKE, экранируя спецсимволы
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// jobSearch ищет по названию, описанию, навыкам вакансии и названию компании.
// Запрос должен уже содержать JOIN с jobs и companies.
func jobSearch(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(search) == "" {
			return db
		}
		p := likePattern(search)
		return db.Where(
			"(LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ? OR LOWER(jobs.required_skills) LIKE ? OR LOWER(companies.name) LIKE ?)",
			p, p, p, p,
		)
	}
}

// ownedJobIDs - подзапрос id вакансий компании. Используется и в SELECT, и в UPDATE/DELETE,
// поэтому фильтр владения всегда входит в сам SQL-запрос.
func ownedJobIDs(db *gorm.DB, companyID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Job{}).
		Select("id").
		Where("company_id = ?", companyID)
}

// ownedByCompany ограничивает отклики вакансиями компании
func ownedByCompany(db *gorm.DB, companyID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("job_applications.job_id IN (?)", ownedJobIDs(db, companyID))
	}
}

// ownedByStudent ограничивает отклики студентом
func ownedByStudent(studentID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("job_applications.student_id = ?", studentID)
	}
}

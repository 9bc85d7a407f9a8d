package models

import "strings"

type UserRole string
type ApplicationStatus string
type JobType string

const (
	UserRoleCompany UserRole = "company"
	UserRoleStudent UserRole = "student"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleCompany || r == UserRoleStudent
}

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses - единственный допустимый словарь статусов, в порядке воронки
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusShortlisted,
	ApplicationStatusInterviewed,
	ApplicationStatusHired,
	ApplicationStatusRejected,
}

// ParseApplicationStatus принимает только точные токены из словаря.
// "Pending" или " shortlisted" считаются невалидными.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	s := ApplicationStatus(raw)
	return s, s.IsValid()
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal: после hired/rejected workflow больше не меняет статус
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected
}

// CanTransitionTo проверяет переход. Из любого нетерминального статуса можно
// перейти в любой допустимый, включая возврат в pending.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return next.IsValid() && s.IsValid() && !s.IsTerminal()
}

// TerminalStatuses нужен для фильтра массового обновления
func TerminalStatuses() []ApplicationStatus {
	return []ApplicationStatus{ApplicationStatusHired, ApplicationStatusRejected}
}

// Message - сообщение для пользователя после смены статуса
func (s ApplicationStatus) Message() string {
	switch s {
	case ApplicationStatusPending:
		return "Application moved back to pending review"
	case ApplicationStatusShortlisted:
		return "Candidate has been shortlisted"
	case ApplicationStatusInterviewed:
		return "Candidate marked as interviewed"
	case ApplicationStatusHired:
		return "Candidate has been hired"
	case ApplicationStatusRejected:
		return "Application has been rejected"
	}
	return "Application status updated"
}

// Label - человекочитаемое название статуса
func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

func (t JobType) IsValid() bool {
	for _, v := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}

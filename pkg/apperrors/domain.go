package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок домена портала.
Предопределенные переменные не мутируются: WithDetails/WithError возвращают копию.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется и для чужих записей: вызывающий не должен отличать
// "не существует" от "не ваше".
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrNoRoleProfile - у аккаунта нет профиля нужной роли.
// redirect подсказывает клиенту, куда отправить пользователя.
func ErrNoRoleProfile(role, redirect string) *AppError {
	return New(CodeNoRoleProfile, "identity", "No "+role+" profile is attached to this account", http.StatusForbidden).
		WithDetails(map[string]string{"role": role, "redirect": redirect})
}

// --- Applications ---

var ErrAlreadyApplied = New(
	CodeAlreadyApplied,
	"application",
	"You have already applied for this job",
	http.StatusConflict,
)

var ErrWithdrawNotAllowed = New(
	CodeWithdrawNotAllowed,
	"application",
	"Only pending applications can be withdrawn",
	http.StatusConflict,
)

var ErrInvalidTransition = New(
	CodeInvalidTransition,
	"application",
	"Status cannot be changed from its current value",
	http.StatusConflict,
)

var ErrResumeRequired = New(
	CodeValidationFailed,
	"application",
	"A resume is required: upload one or add it to your profile",
	http.StatusBadRequest,
)

// --- Jobs ---

// ErrJobClosed - вакансия неактивна или дедлайн прошел.
var ErrJobClosed = New(
	CodeJobClosed,
	"job",
	"This job is no longer accepting applications",
	http.StatusConflict,
)

var ErrJobExpired = New(
	CodeInvalidOperation,
	"job",
	"Cannot activate a job whose deadline has passed",
	http.StatusBadRequest,
)

// --- Uploads & Files ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Profiles ---

// ErrTooManyEntries - превышен лимит записей в разделе профиля студента.
func ErrTooManyEntries(section string, max int) *AppError {
	return New(CodeLimitExceeded, "profile", "Too many entries in "+section, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"section": section, "max": max})
}

// --- Auth ---

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"Passwords do not match",
	http.StatusBadRequest,
)

var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Username already taken",
	http.StatusConflict,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

// ErrWrongPortal - аккаунт существует, но зарегистрирован под другой ролью.
func ErrWrongPortal(role string) *AppError {
	return New(CodeForbidden, "auth", "This account is not registered as a "+role, http.StatusForbidden)
}

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrAccountDisabled = New(
	CodeForbidden,
	"auth",
	"Your account has been disabled",
	http.StatusForbidden,
)

var ErrTooManyRequests = New(
	CodeTooManyRequests,
	"rate_limit",
	"Too many requests, slow down",
	http.StatusTooManyRequests,
)

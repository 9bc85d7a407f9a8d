package services

import (
	"errors"

	"jobportal_backend/internal/repositories"
	"jobportal_backend/pkg/apperrors"
)

// handleRepoError переводит ошибки репозиториев в AppError.
// Чужая запись и отсутствующая запись дают одинаковый NOT_FOUND.
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrCompanyNotFound),
		errors.Is(err, repositories.ErrStudentNotFound),
		errors.Is(err, repositories.ErrJobNotFound),
		errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrAlreadyApplied):
		return apperrors.ErrAlreadyApplied
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrAlreadyExists(err)
	}
	return apperrors.DatabaseError(err)
}

package service

import (
	"errors"

	"github.com/synchrony/student-management/internal/repository"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

// lookupErr maps a repository read failure for resource identified by field=value.
func lookupErr(err error, resource, field, value string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, field, value)
	}
	return apperrors.NewInternalError(err)
}

// writeErr maps a repository write failure.
func writeErr(err error, resource, field, value string) error {
	if errors.Is(err, repository.ErrAlreadyExists) {
		return apperrors.NewConflict(resource+" already exists", map[string]any{field: value})
	}
	return lookupErr(err, resource, field, value)
}

func requiredPassword() error {
	return apperrors.NewValidationError(map[string]string{"password": "password is required"})
}

// Package services implements the business logic between handlers and repositories.
package services

import (
	"errors"

	"github.com/memberhub/backend/internal/apperror"
)

// wrap passes typed application errors through untouched and converts
// anything else into an InternalError with a client-safe message.
func wrap(err error, message string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal(message, err)
}

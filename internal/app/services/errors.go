package services

import (
	"errors"

	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrResourceNotFound)
}

// isClientError reports whether err already carries a 4xx classification
// and should reach the caller unchanged
func isClientError(err error) bool {
	return apperrors.Is(err,
		apperrors.ErrResourceNotFound,
		apperrors.ErrPermissionDenied,
		apperrors.ErrUnauthenticated,
		apperrors.ErrConflict,
		apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
	)
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleAPIError maps an error to its HTTP status and writes the error body.
// Client errors carry their CustomError message; server errors only ever
// expose fallback.
func HandleAPIError(c *gin.Context, err error, fallback string) {
	status, code, message := classifyError(err, fallback)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(fallback)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

func classifyError(err error, fallback string) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Unauthorized"
	case apperrors.Is(err, apperrors.ErrUnauthenticated, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, apperrors.Message(err, "Unauthorized")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, apperrors.Message(err, "Invalid login credentials")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, apperrors.Message(err, "Forbidden")
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, apperrors.Message(err, "Not found")
	case errors.Is(err, apperrors.ErrAlreadyReported):
		return http.StatusBadRequest, dto.ErrorCodeAlreadyReported, apperrors.Message(err, "Already reported")
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err, "Already exists")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, apperrors.Message(err, "Validation failed")
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrUnsupported):
		return http.StatusBadRequest, dto.ErrorCodeBadRequest, apperrors.Message(err, "Bad request")
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusInternalServerError, dto.ErrorCodeExternalServiceError, fallback
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, fallback
	}
}

// HandleBindingError writes a 400 for a request body that failed to bind
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.HandleValidationError(err))
}

package server

import (
	"errors"
	"net/http"

	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/observability/logger"
	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e apiError) Error() string { return e.Code }

func newValidationError(field, code, message string) error {
	return apiError{Code: code, Message: message, Field: field}
}

func invalidRequestError() error {
	return apiError{Code: "invalid_request", Message: "invalid request body"}
}

// AbortWithError maps domain errors onto HTTP responses. Unrecognized
// errors become 500s with a generic body so internals never leak.
func AbortWithError(c *gin.Context, err error) {
	var ae apiError
	if errors.As(err, &ae) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ae})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": apiError{
			Code:    "internal_error",
			Message: "internal server error",
		}})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apiError{
		Code:    err.Error(),
		Message: err.Error(),
	}})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, clientdomain.ErrClientNotFound),
		errors.Is(err, chargedomain.ErrChargeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, chargedomain.ErrInvalidTransition),
		errors.Is(err, chargedomain.ErrChargeReferenced),
		errors.Is(err, clientdomain.ErrClientHasCharges):
		return http.StatusConflict
	case isClientValidationError(err),
		isChargeValidationError(err),
		errors.Is(err, paymentdomain.ErrMissingChargeID),
		errors.Is(err, paymentdomain.ErrInvalidChargeID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isClientValidationError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidPhone),
		errors.Is(err, clientdomain.ErrInvalidEmail):
		return true
	default:
		return false
	}
}

func isChargeValidationError(err error) bool {
	switch {
	case errors.Is(err, chargedomain.ErrInvalidChargeID),
		errors.Is(err, chargedomain.ErrInvalidAmount),
		errors.Is(err, chargedomain.ErrInvalidDueDate),
		errors.Is(err, recurrence.ErrInvalidInterval):
		return true
	default:
		return false
	}
}

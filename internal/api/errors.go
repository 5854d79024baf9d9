package api

import (
	"errors"
	"net/http"

	"snowlens/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var unavailable *domain.DataUnavailableError
	var tableNotFound *domain.TableNotFoundError
	var promptErr *domain.PromptConstructionError
	var completionErr *domain.CompletionUnavailableError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &tableNotFound):
		return http.StatusNotFound
	case errors.As(err, &completionErr):
		return http.StatusBadGateway
	case errors.As(err, &promptErr):
		return http.StatusInternalServerError
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package http

import (
	"errors"
	"net/http"

	inErrors "github.com/Alturino/perfumery/internal/errors"
)

// StatusCode maps a storefront error to the HTTP status returned to the client.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, inErrors.ErrValidation),
		errors.Is(err, inErrors.ErrInvalidProduct),
		errors.Is(err, inErrors.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrProductNotFound),
		errors.Is(err, inErrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrSubmissionInProgress),
		errors.Is(err, inErrors.ErrCheckoutClosed),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrOrderFailed),
		errors.Is(err, inErrors.ErrRemoteQuery),
		errors.Is(err, inErrors.ErrRemoteWrite):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package otel

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/perfumery/internal/errors"
)

const keyErrorKind = "error.kind"

var errorKinds = []struct {
	err  error
	kind string
}{
	{inErrors.ErrValidation, "validation"},
	{inErrors.ErrInvalidProduct, "invalid_product"},
	{inErrors.ErrInvalidQuantity, "invalid_quantity"},
	{inErrors.ErrProductNotFound, "product_not_found"},
	{inErrors.ErrSessionNotFound, "session_not_found"},
	{inErrors.ErrEmptyCart, "empty_cart"},
	{inErrors.ErrSubmissionInProgress, "submission_in_progress"},
	{inErrors.ErrCheckoutClosed, "checkout_closed"},
	{inErrors.ErrRemoteQuery, "remote_query"},
	{inErrors.ErrRemoteWrite, "remote_write"},
	{inErrors.ErrOrderFailed, "order_failed"},
}

// ErrorKind names the first storefront sentinel err wraps, or "internal".
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(keyErrorKind, ErrorKind(err)))
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

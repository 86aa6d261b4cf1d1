package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/perfumery/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_NOTIFICATION_SERVICE)

package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/perfumery/internal/constants"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	inHttp "github.com/Alturino/perfumery/internal/http"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/middleware"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/order/internal/otel"
	"github.com/Alturino/perfumery/order/internal/service"
	"github.com/Alturino/perfumery/order/pkg/request"
)

type OrderController struct {
	service  *service.OrderService
	validate *validator.Validate
}

// AttachOrderController must be attached before the cart controller so the
// checkout routes win over the /carts prefix.
func AttachOrderController(mux *mux.Router, service *service.OrderService) {
	controller := OrderController{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	router := mux.PathPrefix("/carts/{cartId}/checkout").Subrouter()
	router.Use(
		otelmux.Middleware(constants.APP_ORDER_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
	router.HandleFunc("", controller.FindCheckout).Methods(http.MethodGet)
}

func (ctrl *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "get cart id").Logger()
	cartId, err := uuid.Parse(mux.Vars(r)["cartId"])
	if err != nil {
		err = fmt.Errorf("invalid cartId with error=%w", errors.Join(inErrors.ErrValidation, err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(log.KeyCartID, cartId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	draft := request.OrderDraft{}
	if err = json.NewDecoder(r.Body).Decode(&draft); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err.Error())
		return
	}
	draft = draft.Normalize()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err = ctrl.validate.StructCtx(c, draft); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	order, err := ctrl.service.Checkout(logger.WithContext(c), cartId, draft)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		message := err.Error()
		if errors.Is(err, inErrors.ErrOrderFailed) {
			message = inErrors.ErrOrderFailed.Error()
		}
		inHttp.WriteFailedResponse(c, w, inHttp.StatusCode(err), message)
		return
	}
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("submitted order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusCreated,
		"message":    "order created",
		"data": map[string]interface{}{
			"order": order,
		},
	})
}

func (ctrl *OrderController) FindCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindCheckout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindCheckout").
		Logger()

	cartId, err := uuid.Parse(mux.Vars(r)["cartId"])
	if err != nil {
		err = fmt.Errorf("invalid cartId with error=%w", errors.Join(inErrors.ErrValidation, err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(log.KeyCartID, cartId.String()).Str(log.KeyProcess, "finding checkout").Logger()

	logger.Trace().Msg("finding checkout")
	checkout, err := ctrl.service.FindCheckout(logger.WithContext(c), cartId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, inHttp.StatusCode(err), err.Error())
		return
	}
	logger.Info().Str(log.KeyCheckoutState, checkout.State).Msg("found checkout")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusOK,
		"message":    "checkout found",
		"data": map[string]interface{}{
			"checkout": checkout,
		},
	})
}

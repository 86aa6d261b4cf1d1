package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/perfumery/cart/internal/otel"
	"github.com/Alturino/perfumery/cart/internal/service"
	"github.com/Alturino/perfumery/cart/pkg/request"
	"github.com/Alturino/perfumery/cart/pkg/response"
	"github.com/Alturino/perfumery/internal/constants"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	inHttp "github.com/Alturino/perfumery/internal/http"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/middleware"
	inOtel "github.com/Alturino/perfumery/internal/otel"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	router := mux.PathPrefix("/carts").Subrouter()
	router.Use(
		otelmux.Middleware(constants.APP_CART_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.HandleFunc("", controller.StartCart).Methods(http.MethodPost)
	router.HandleFunc("/{cartId}", controller.FindCartById).Methods(http.MethodGet)
	router.HandleFunc("/{cartId}", controller.EndCart).Methods(http.MethodDelete)
	router.HandleFunc("/{cartId}/items", controller.InsertCartItem).Methods(http.MethodPost)
	router.HandleFunc("/{cartId}/items", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/{cartId}/items/{productId}", controller.UpdateCartItem).Methods(http.MethodPut)
	router.HandleFunc("/{cartId}/items/{productId}", controller.RemoveCartItem).
		Methods(http.MethodDelete)
}

func cartIdFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["cartId"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid cartId with error=%w", errors.Join(inErrors.ErrValidation, err))
	}
	return id, nil
}

func writeCart(c context.Context, w http.ResponseWriter, statusCode int, message string, cart response.Cart) {
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": statusCode,
		"message":    message,
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (ctrl CartController) StartCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController StartCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController StartCart").
		Str(log.KeyProcess, "starting cart").
		Logger()

	logger.Trace().Msg("starting cart")
	cart := ctrl.service.StartCart(logger.WithContext(c))
	span.SetAttributes(attribute.String(log.KeyCartID, cart.ID.String()))
	logger.Info().Str(log.KeyCartID, cart.ID.String()).Msg("started cart")

	writeCart(c, w, http.StatusCreated, "cart created", cart)
}

func (ctrl CartController) FindCartById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCartById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController FindCartById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "get cart id").Logger()
	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyCartID, id.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	cart, err := ctrl.service.FindCartById(logger.WithContext(c), id)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("found cart")

	writeCart(c, w, http.StatusOK, "cart found", cart)
}

func (ctrl CartController) EndCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController EndCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController EndCart").
		Logger()

	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyCartID, id.String()).Str(log.KeyProcess, "ending cart").Logger()

	logger.Trace().Msg("ending cart")
	if err = ctrl.service.EndCart(logger.WithContext(c), id); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("ended cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusOK,
		"message":    "cart ended",
	})
}

func (ctrl CartController) InsertCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController InsertCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController InsertCartItem").
		Logger()

	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyCartID, id.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.InsertCartItem{}
	if err = json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		fail(c, w, span, logger, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Trace().Msg("validating request body")
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyProductID, reqBody.ProductID).Logger()
	logger.Trace().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "adding product to cart").Logger()
	logger.Trace().Msg("adding product to cart")
	cart, err := ctrl.service.AddItem(logger.WithContext(c), id, reqBody.ProductID)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("added product to cart")

	writeCart(c, w, http.StatusOK, "product added to cart", cart)
}

func (ctrl CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateCartItem").
		Logger()

	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	productId := mux.Vars(r)["productId"]
	logger = logger.With().Str(log.KeyCartID, id.String()).Str(log.KeyProductID, productId).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.UpdateCartItem{}
	if err = json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		fail(c, w, span, logger, err)
		return
	}
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", errors.Join(inErrors.ErrValidation, err))
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Int(log.KeyCartItemQuantity, *reqBody.Quantity).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Trace().Msg("updating cart item")
	cart, err := ctrl.service.UpdateItem(logger.WithContext(c), id, productId, *reqBody.Quantity)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("updated cart item")

	writeCart(c, w, http.StatusOK, "cart item updated", cart)
}

func (ctrl CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveCartItem").
		Logger()

	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	productId := mux.Vars(r)["productId"]
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Str(log.KeyProcess, "removing cart item").
		Logger()

	logger.Trace().Msg("removing cart item")
	cart, err := ctrl.service.RemoveItem(logger.WithContext(c), id, productId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("removed cart item")

	writeCart(c, w, http.StatusOK, "cart item removed", cart)
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	id, err := cartIdFromPath(r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyCartID, id.String()).Str(log.KeyProcess, "clearing cart").Logger()

	logger.Trace().Msg("clearing cart")
	cart, err := ctrl.service.ClearCart(logger.WithContext(c), id)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Msg("cleared cart")

	writeCart(c, w, http.StatusOK, "cart cleared", cart)
}

func fail(c context.Context, w http.ResponseWriter, span trace.Span, logger zerolog.Logger, err error) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteFailedResponse(c, w, inHttp.StatusCode(err), err.Error())
}

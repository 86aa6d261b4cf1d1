package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/perfumery/internal/constants"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	inHttp "github.com/Alturino/perfumery/internal/http"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/middleware"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/product/internal/otel"
	"github.com/Alturino/perfumery/product/internal/service"
	"github.com/Alturino/perfumery/product/pkg/request"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(mux *mux.Router, service *service.ProductService) {
	controller := ProductController{service}

	router := mux.PathPrefix("/products").Subrouter()
	router.Use(
		otelmux.Middleware(constants.APP_PRODUCT_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing category").Logger()
	logger.Trace().Msg("parsing category")
	category, err := request.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		err = fmt.Errorf("failed parsing category with error=%w", errors.Join(inErrors.ErrValidation, err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With().Str(log.KeyCategory, category.String()).Logger()
	logger.Trace().Msg("parsed category")

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	logger.Trace().Msg("finding products")
	c = logger.WithContext(c)
	products, err := ctrl.service.FindProducts(c, request.FindProducts{Category: category})
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteFailedResponse(c, w, inHttp.StatusCode(err), err.Error())
		return
	}
	logger.Info().Int(log.KeyProductsCount, len(products)).Msg("found products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusOK,
		"message":    "products found",
		"data": map[string]interface{}{
			"category": category.String(),
			"products": products,
		},
	})
}

func (ctrl ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "get product id").Logger()
	logger.Trace().Msg("get product id from pathValues")
	pathValues := mux.Vars(r)
	id := pathValues["productId"]
	logger = logger.With().Str(log.KeyProductID, id).Logger()
	logger.Trace().Msg("got product id")

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	c = logger.WithContext(c)
	product, err := ctrl.service.FindProductById(c, request.FindProductById{ID: id})
	if err != nil {
		err = fmt.Errorf("failed finding product with id=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := inHttp.StatusCode(err)
		message := err.Error()
		if statusCode == http.StatusNotFound {
			message = fmt.Sprintf("product with id=%s not found", id)
		}
		inHttp.WriteFailedResponse(c, w, statusCode, message)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     inHttp.STATUS_SUCCESS,
		"statusCode": http.StatusOK,
		"message":    "product found",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

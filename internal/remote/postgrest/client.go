// Package postgrest reaches the remote store through a PostgREST compatible
// REST endpoint such as the one Supabase exposes.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/perfumery/internal/config"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	inHttp "github.com/Alturino/perfumery/internal/http"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/otel"
	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

const (
	headerApiKey         = "apikey"
	headerAuthorization  = "Authorization"
	headerPrefer         = "Prefer"
	preferRepresentation = "return=representation"
	preferMinimal        = "return=minimal"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg config.Remote) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
	}
}

func (cl *Client) newRequest(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body any,
) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed marshaling request body with error=%w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := cl.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(c, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed creating request with error=%w", err)
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Set("Accept", inHttp.VALUE_HEADER_APPLICATION_JSON)
	if cl.apiKey != "" {
		req.Header.Set(headerApiKey, cl.apiKey)
		req.Header.Set(headerAuthorization, "Bearer "+cl.apiKey)
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
	}
	return req, nil
}

// do sends req and decodes a 2xx body into out when out is not nil.
func (cl *Client) do(req *http.Request, out any) (int, error) {
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed sending request with error=%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf(
			"unexpected status=%d body=%s",
			resp.StatusCode,
			strings.TrimSpace(string(detail)),
		)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed decoding response body with error=%w", err)
	}
	return resp.StatusCode, nil
}

func (cl *Client) FetchProducts(c context.Context) ([]productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "postgrest Client FetchProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgrest Client FetchProducts").
		Str(log.KeyProcess, "fetching products").
		Str(log.KeyRemoteURL, cl.baseURL).
		Logger()

	logger.Trace().Msg("fetching products")
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "popularity_score.desc")
	req, err := cl.newRequest(c, http.MethodGet, "/products", query, nil)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	products := []productResponse.Product{}
	statusCode, err := cl.do(req, &products)
	if err != nil {
		err = fmt.Errorf("failed fetching products with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, statusCode).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Int(log.KeyProductsCount, len(products)).Msg("fetched products")

	return products, nil
}

func (cl *Client) FindProductById(c context.Context, id string) (productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "postgrest Client FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgrest Client FindProductById").
		Str(log.KeyProcess, "finding product by id").
		Str(log.KeyProductID, id).
		Logger()

	logger.Trace().Msg("finding product by id")
	query := url.Values{}
	query.Set("select", "*")
	query.Set("id", "eq."+id)
	query.Set("limit", "1")
	req, err := cl.newRequest(c, http.MethodGet, "/products", query, nil)
	if err != nil {
		err = fmt.Errorf("failed finding product by id with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}

	products := []productResponse.Product{}
	statusCode, err := cl.do(req, &products)
	if err != nil {
		err = fmt.Errorf("failed finding product by id with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, statusCode).Msg(err.Error())
		return productResponse.Product{}, err
	}
	if len(products) == 0 {
		err = fmt.Errorf("failed finding product by id with error=%w", inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger.Trace().Msg("found product by id")

	return products[0], nil
}

func (cl *Client) CreateOrder(c context.Context, header orderRequest.CreateOrder) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "postgrest Client CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgrest Client CreateOrder").
		Str(log.KeyProcess, "inserting order").
		Str(log.KeyCartTotal, header.TotalAmount.String()).
		Logger()

	logger.Trace().Msg("inserting order")
	req, err := cl.newRequest(c, http.MethodPost, "/orders", nil, header)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	req.Header.Set(headerPrefer, preferRepresentation)

	orders := []orderResponse.Order{}
	statusCode, err := cl.do(req, &orders)
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, statusCode).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	if len(orders) == 0 || orders[0].ID == uuid.Nil {
		err = fmt.Errorf(
			"failed inserting order with error=%w",
			errors.Join(inErrors.ErrRemoteWrite, errors.New("store returned no order id")),
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	logger.Trace().Str(log.KeyOrderID, orders[0].ID.String()).Msg("inserted order")

	return orders[0], nil
}

func (cl *Client) CreateOrderLineItems(c context.Context, items []orderRequest.OrderItem) error {
	c, span := otel.Tracer.Start(c, "postgrest Client CreateOrderLineItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgrest Client CreateOrderLineItems").
		Str(log.KeyProcess, "inserting orderItems").
		Int(log.KeyOrderItemsCount, len(items)).
		Logger()

	logger.Trace().Msg("inserting orderItems")
	req, err := cl.newRequest(c, http.MethodPost, "/order_items", nil, items)
	if err != nil {
		err = fmt.Errorf("failed inserting orderItems with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(headerPrefer, preferMinimal)

	statusCode, err := cl.do(req, nil)
	if err != nil {
		err = fmt.Errorf("failed inserting orderItems with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, statusCode).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("inserted orderItems")

	return nil
}

func (cl *Client) DeleteOrder(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "postgrest Client DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "postgrest Client DeleteOrder").
		Str(log.KeyProcess, "deleting order").
		Str(log.KeyOrderID, id.String()).
		Logger()

	logger.Trace().Msg("deleting order")
	query := url.Values{}
	query.Set("id", "eq."+id.String())
	req, err := cl.newRequest(c, http.MethodDelete, "/orders", query, nil)
	if err != nil {
		err = fmt.Errorf("failed deleting order with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	statusCode, err := cl.do(req, nil)
	if err != nil {
		err = fmt.Errorf("failed deleting order with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Int(log.KeyStatusCode, statusCode).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("deleted order")

	return nil
}

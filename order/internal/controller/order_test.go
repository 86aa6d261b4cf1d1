package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/session"
	"github.com/Alturino/perfumery/order/internal/service"
	"github.com/Alturino/perfumery/order/pkg/request"
	"github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type fakeWriter struct {
	createErr error
}

func (f fakeWriter) CreateOrder(c context.Context, header request.CreateOrder) (response.Order, error) {
	if f.createErr != nil {
		return response.Order{}, f.createErr
	}
	return response.Order{ID: uuid.New(), Status: header.Status, TotalAmount: header.TotalAmount}, nil
}

func (f fakeWriter) CreateOrderLineItems(c context.Context, items []request.OrderItem) error {
	return nil
}

func (f fakeWriter) DeleteOrder(c context.Context, id uuid.UUID) error {
	return nil
}

type envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Order    response.Order    `json:"order"`
		Checkout response.Checkout `json:"checkout"`
	} `json:"data"`
}

const validDraft = `{
	"customer_name": "Sofiia",
	"customer_phone": "+380991112233",
	"customer_email": "",
	"delivery_address": "Dnipro, Yavornytskoho 5"
}`

func setup(t *testing.T, writer fakeWriter, withItem bool) (*mux.Router, *session.Session) {
	t.Helper()
	registry := session.NewRegistry(writer, session.WithDismissDelay(time.Hour))
	sess := registry.Start(context.Background())
	if withItem {
		require.NoError(t, sess.Add(productResponse.Product{
			ID:       "kilian-angels",
			Name:     "Angels' Share",
			Category: productResponse.CategoryUnisex,
			Price:    decimal.NewFromInt(11500),
			Currency: "UAH",
		}))
	}
	router := mux.NewRouter()
	AttachOrderController(router, service.NewOrderService(registry, nil))
	return router, sess
}

func do(t *testing.T, router http.Handler, method string, target string, body string) (int, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	res := envelope{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	return recorder.Code, res
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name               string
		writer             fakeWriter
		withItem           bool
		body               string
		expectedStatusCode int
		expectedMessage    string
	}{
		{
			name:               "given valid draft should create order",
			withItem:           true,
			body:               validDraft,
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "given missing customer name should return bad request",
			withItem:           true,
			body:               `{"customer_phone":"+380991112233","delivery_address":"Dnipro"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "given invalid email should return bad request",
			withItem:           true,
			body:               `{"customer_name":"S","customer_phone":"1","customer_email":"not-an-email","delivery_address":"D"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "given unknown delivery method should return bad request",
			withItem:           true,
			body:               `{"customer_name":"S","customer_phone":"1","delivery_address":"D","delivery_method":"pigeon"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "given empty cart should return conflict",
			body:               validDraft,
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:               "given store failure should return generic message",
			writer:             fakeWriter{createErr: inErrors.ErrRemoteWrite},
			withItem:           true,
			body:               validDraft,
			expectedStatusCode: http.StatusBadGateway,
			expectedMessage:    inErrors.ErrOrderFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, sess := setup(t, tt.writer, tt.withItem)

			code, res := do(t, router, http.MethodPost, "/carts/"+sess.ID.String()+"/checkout", tt.body)
			assert.Equal(t, tt.expectedStatusCode, code)
			assert.Equal(t, tt.expectedStatusCode, res.StatusCode)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, res.Message)
			}
			if tt.expectedStatusCode == http.StatusCreated {
				assert.Equal(t, request.OrderStatusPending, res.Data.Order.Status)
				assert.True(t, decimal.NewFromInt(11500).Equal(res.Data.Order.TotalAmount))
				assert.Empty(t, sess.Items())
			}
		})
	}
}

func TestCheckoutTwiceReturnsConflict(t *testing.T) {
	router, sess := setup(t, fakeWriter{}, true)
	target := "/carts/" + sess.ID.String() + "/checkout"

	code, _ := do(t, router, http.MethodPost, target, validDraft)
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, router, http.MethodPost, target, validDraft)
	assert.Equal(t, http.StatusConflict, code)

	code, res := do(t, router, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "succeeded", res.Data.Checkout.State)
	assert.NotNil(t, res.Data.Checkout.Order)
}

func TestFindCheckoutUnknownCart(t *testing.T) {
	router, _ := setup(t, fakeWriter{}, false)
	code, _ := do(t, router, http.MethodGet, "/carts/"+uuid.NewString()+"/checkout", "")
	assert.Equal(t, http.StatusNotFound, code)
}

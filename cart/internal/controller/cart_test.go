package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/perfumery/cart/internal/service"
	"github.com/Alturino/perfumery/cart/pkg/response"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/session"
	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type fakeStore struct{}

func (fakeStore) FetchProducts(c context.Context) ([]productResponse.Product, error) {
	return nil, nil
}

func (fakeStore) FindProductById(c context.Context, id string) (productResponse.Product, error) {
	switch id {
	case "chanel-5":
		return productResponse.Product{ID: id, Name: "N°5", Category: productResponse.CategoryWomen, Price: decimal.NewFromInt(6100), Currency: "UAH"}, nil
	case "dior-sauvage":
		return productResponse.Product{ID: id, Name: "Sauvage", Category: productResponse.CategoryMen, Price: decimal.NewFromInt(4100), Currency: "UAH"}, nil
	}
	return productResponse.Product{}, inErrors.ErrProductNotFound
}

func (fakeStore) CreateOrder(c context.Context, header orderRequest.CreateOrder) (orderResponse.Order, error) {
	return orderResponse.Order{ID: uuid.New()}, nil
}

func (fakeStore) CreateOrderLineItems(c context.Context, items []orderRequest.OrderItem) error {
	return nil
}

func (fakeStore) DeleteOrder(c context.Context, id uuid.UUID) error {
	return nil
}

type envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Cart response.Cart `json:"cart"`
	} `json:"data"`
}

func do(t *testing.T, router http.Handler, method string, target string, body string) (int, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	res := envelope{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	return recorder.Code, res
}

func newRouter() *mux.Router {
	store := fakeStore{}
	router := mux.NewRouter()
	AttachCartController(router, service.NewCartService(session.NewRegistry(store), store))
	return router
}

func TestCartEndpoints(t *testing.T) {
	router := newRouter()

	code, res := do(t, router, http.MethodPost, "/carts", "")
	require.Equal(t, http.StatusCreated, code)
	cartId := res.Data.Cart.ID.String()
	base := "/carts/" + cartId

	code, res = do(t, router, http.MethodPost, base+"/items", `{"product_id":"chanel-5"}`)
	require.Equal(t, http.StatusOK, code)
	code, res = do(t, router, http.MethodPost, base+"/items", `{"product_id":"dior-sauvage"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, res.Data.Cart.ItemCount)
	assert.True(t, decimal.NewFromInt(10200).Equal(res.Data.Cart.Total))

	code, res = do(t, router, http.MethodPut, base+"/items/chanel-5", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, res.Data.Cart.CartItems[0].Quantity)
	assert.Equal(t, "chanel-5", res.Data.Cart.CartItems[0].Product.ID)

	code, _ = do(t, router, http.MethodPut, base+"/items/chanel-5", `{"quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = do(t, router, http.MethodDelete, base+"/items/dior-sauvage", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, res.Data.Cart.CartItems, 1)

	code, res = do(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decimal.NewFromInt(18300).Equal(res.Data.Cart.Total))

	code, res = do(t, router, http.MethodDelete, base+"/items", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, res.Data.Cart.CartItems)

	code, _ = do(t, router, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, code)

	code, res = do(t, router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "failed", res.Status)
}

func TestCartEndpointErrors(t *testing.T) {
	router := newRouter()
	_, res := do(t, router, http.MethodPost, "/carts", "")
	base := "/carts/" + res.Data.Cart.ID.String()

	tests := []struct {
		name               string
		method             string
		target             string
		body               string
		expectedStatusCode int
	}{
		{name: "given malformed cart id should return bad request", method: http.MethodGet, target: "/carts/not-a-uuid", expectedStatusCode: http.StatusBadRequest},
		{name: "given unknown cart should return not found", method: http.MethodGet, target: "/carts/" + uuid.NewString(), expectedStatusCode: http.StatusNotFound},
		{name: "given missing product id should return bad request", method: http.MethodPost, target: base + "/items", body: `{}`, expectedStatusCode: http.StatusBadRequest},
		{name: "given malformed body should return bad request", method: http.MethodPost, target: base + "/items", body: `{`, expectedStatusCode: http.StatusBadRequest},
		{name: "given unknown product should return not found", method: http.MethodPost, target: base + "/items", body: `{"product_id":"nope"}`, expectedStatusCode: http.StatusNotFound},
		{name: "given missing quantity should return bad request", method: http.MethodPut, target: base + "/items/chanel-5", body: `{}`, expectedStatusCode: http.StatusBadRequest},
		{name: "given quantity above int32 range should return bad request", method: http.MethodPut, target: base + "/items/chanel-5", body: `{"quantity":4294967297}`, expectedStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.expectedStatusCode, code)
			assert.Equal(t, tt.expectedStatusCode, res.StatusCode)
		})
	}
}

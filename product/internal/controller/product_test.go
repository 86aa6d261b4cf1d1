package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/product/internal/service"
	"github.com/Alturino/perfumery/product/pkg/response"
)

type fakeReader struct {
	products []response.Product
	err      error
}

func (f fakeReader) FetchProducts(c context.Context) ([]response.Product, error) {
	return f.products, f.err
}

func (f fakeReader) FindProductById(c context.Context, id string) (response.Product, error) {
	if f.err != nil {
		return response.Product{}, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return response.Product{}, inErrors.ErrProductNotFound
}

type envelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		Category string             `json:"category"`
		Products []response.Product `json:"products"`
		Product  response.Product   `json:"product"`
	} `json:"data"`
}

func newRouter(reader fakeReader) *mux.Router {
	router := mux.NewRouter()
	AttachProductController(router, service.NewProductService(reader, nil, time.Minute, nil))
	return router
}

func catalog() []response.Product {
	return []response.Product{
		{ID: "w1", Name: "Flowerbomb", Category: response.CategoryWomen, Price: decimal.NewFromInt(5200), Currency: "UAH"},
		{ID: "m1", Name: "Acqua di Gio", Category: response.CategoryMen, Price: decimal.NewFromInt(3900), Currency: "UAH"},
		{ID: "w2", Name: "Black Opium", Category: response.CategoryWomen, Price: decimal.NewFromInt(4700), Currency: "UAH"},
	}
}

func TestFindProducts(t *testing.T) {
	tests := []struct {
		name               string
		reader             fakeReader
		query              string
		expectedStatusCode int
		expectedIds        []string
	}{
		{
			name:               "given women category should return women products",
			reader:             fakeReader{products: catalog()},
			query:              "?category=women",
			expectedStatusCode: http.StatusOK,
			expectedIds:        []string{"w1", "w2"},
		},
		{
			name:               "given no category should return all products",
			reader:             fakeReader{products: catalog()},
			expectedStatusCode: http.StatusOK,
			expectedIds:        []string{"w1", "m1", "w2"},
		},
		{
			name:               "given unknown category should return bad request",
			reader:             fakeReader{products: catalog()},
			query:              "?category=kids",
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "given store failure should return empty catalog",
			reader:             fakeReader{err: inErrors.ErrRemoteQuery},
			expectedStatusCode: http.StatusOK,
			expectedIds:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil)
			newRouter(tt.reader).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatusCode, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-Id"))
			body := envelope{}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
			assert.Equal(t, tt.expectedStatusCode, body.StatusCode)
			if tt.expectedStatusCode != http.StatusOK {
				assert.Equal(t, "failed", body.Status)
				return
			}
			ids := make([]string, 0, len(body.Data.Products))
			for _, p := range body.Data.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expectedIds, ids)
		})
	}
}

func TestFindProductById(t *testing.T) {
	tests := []struct {
		name               string
		reader             fakeReader
		id                 string
		expectedStatusCode int
	}{
		{name: "given known id should return product", reader: fakeReader{products: catalog()}, id: "m1", expectedStatusCode: http.StatusOK},
		{name: "given unknown id should return not found", reader: fakeReader{products: catalog()}, id: "zz", expectedStatusCode: http.StatusNotFound},
		{name: "given store failure should return bad gateway", reader: fakeReader{err: inErrors.ErrRemoteQuery}, id: "m1", expectedStatusCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/products/"+tt.id, nil)
			newRouter(tt.reader).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatusCode, recorder.Code)
			if tt.expectedStatusCode == http.StatusOK {
				body := envelope{}
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
				assert.Equal(t, "Acqua di Gio", body.Data.Product.Name)
			}
		})
	}
}

// Package remote defines the store that owns the catalog and the orders.
// The storefront never keeps products or orders itself.
package remote

import (
	"context"

	"github.com/google/uuid"

	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type ProductReader interface {
	// FetchProducts returns the catalog sorted by descending popularity.
	FetchProducts(c context.Context) ([]productResponse.Product, error)
	FindProductById(c context.Context, id string) (productResponse.Product, error)
}

type OrderWriter interface {
	CreateOrder(c context.Context, header orderRequest.CreateOrder) (orderResponse.Order, error)
	CreateOrderLineItems(c context.Context, items []orderRequest.OrderItem) error
	DeleteOrder(c context.Context, id uuid.UUID) error
}

type Store interface {
	ProductReader
	OrderWriter
}

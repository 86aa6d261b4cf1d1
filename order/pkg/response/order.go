package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/perfumery/order/pkg/request"
)

type Order struct {
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	OrderItems      []OrderItem            `json:"order_items,omitempty"`
	CustomerName    string                 `json:"customer_name"`
	CustomerPhone   string                 `json:"customer_phone"`
	CustomerEmail   *string                `json:"customer_email"`
	DeliveryAddress string                 `json:"delivery_address"`
	DeliveryMethod  request.DeliveryMethod `json:"delivery_method"`
	Status          request.OrderStatus    `json:"status"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Currency        string                 `json:"currency"`
	ID              uuid.UUID              `json:"id"`
}

type OrderItem struct {
	CreatedAt    time.Time       `json:"created_at"`
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
	Quantity     int32           `json:"quantity"`
}

// OrderCreated is published once an order and all of its line items are stored.
type OrderCreated struct {
	Order     Order     `json:"order"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Checkout is the view of a session's checkout workflow.
type Checkout struct {
	State string `json:"state"`
	Order *Order `json:"order,omitempty"`
}

package request

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryMethodNovaPoshta DeliveryMethod = "nova_poshta"
	DeliveryMethodUkrposhta  DeliveryMethod = "ukrposhta"
	DeliveryMethodCourier    DeliveryMethod = "courier"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderDraft is the checkout form as entered by the customer.
type OrderDraft struct {
	CustomerName    string         `validate:"required"                                       json:"customer_name"`
	CustomerPhone   string         `validate:"required"                                       json:"customer_phone"`
	CustomerEmail   string         `validate:"omitempty,email"                                json:"customer_email"`
	DeliveryAddress string         `validate:"required"                                       json:"delivery_address"`
	DeliveryMethod  DeliveryMethod `validate:"required,oneof=nova_poshta ukrposhta courier" json:"delivery_method"`
}

// Normalize trims the free-text fields and fills in the default delivery method.
func (d OrderDraft) Normalize() OrderDraft {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerPhone = strings.TrimSpace(d.CustomerPhone)
	d.CustomerEmail = strings.TrimSpace(d.CustomerEmail)
	d.DeliveryAddress = strings.TrimSpace(d.DeliveryAddress)
	if d.DeliveryMethod == "" {
		d.DeliveryMethod = DeliveryMethodNovaPoshta
	}
	return d
}

// CreateOrder is the order header written before its line items.
type CreateOrder struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   *string         `json:"customer_email"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryMethod  DeliveryMethod  `json:"delivery_method"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Currency        string          `json:"currency"`
}

func NewCreateOrder(draft OrderDraft, total decimal.Decimal, currency string) CreateOrder {
	var email *string
	if draft.CustomerEmail != "" {
		email = &draft.CustomerEmail
	}
	return CreateOrder{
		CustomerName:    draft.CustomerName,
		CustomerPhone:   draft.CustomerPhone,
		CustomerEmail:   email,
		DeliveryAddress: draft.DeliveryAddress,
		DeliveryMethod:  draft.DeliveryMethod,
		Status:          OrderStatusPending,
		TotalAmount:     total,
		Currency:        currency,
	}
}

type OrderItem struct {
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int32           `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

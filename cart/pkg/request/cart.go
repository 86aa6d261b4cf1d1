package request

import (
	"github.com/google/uuid"
)

type InsertCartItem struct {
	ProductID string `validate:"required" json:"product_id"`
}

type UpdateCartItem struct {
	Quantity *int `validate:"required,max=2147483647" json:"quantity"`
}

type FindCartById struct {
	ID uuid.UUID `validate:"required"`
}

package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/perfumery/cart/pkg/store"
	"github.com/Alturino/perfumery/internal/constants"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type Cart struct {
	ID        uuid.UUID       `json:"id"`
	CartItems []CartItem      `json:"cart_items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

type CartItem struct {
	Product  productResponse.Product `json:"product"`
	Quantity int                     `json:"quantity"`
	Subtotal decimal.Decimal         `json:"subtotal"`
}

func NewCart(id uuid.UUID, createdAt time.Time, cart *store.Cart) Cart {
	items := cart.Items()
	cartItems := make([]CartItem, 0, len(items))
	for _, item := range items {
		cartItems = append(cartItems, CartItem{
			Product:  item.Product,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal(),
		})
	}
	return Cart{
		ID:        id,
		CartItems: cartItems,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
		Currency:  constants.CURRENCY_UAH,
		CreatedAt: createdAt,
	}
}

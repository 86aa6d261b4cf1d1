// Package store holds the in-memory cart of a single storefront session.
//
// A Cart is not safe for concurrent use; the owning session serialises access.
package store

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/product/pkg/response"
)

// LineItem is a product snapshot taken when it was first added, with its quantity.
type LineItem struct {
	Product  response.Product
	Quantity int
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps line items in the order they were first added.
// Every line item has a quantity of at least 1 and a product id unique in the cart.
type Cart struct {
	items []LineItem
}

// MaxQuantity is the largest quantity a line item can hold; order lines store it as int32.
const MaxQuantity = math.MaxInt32

func New() *Cart {
	return &Cart{items: []LineItem{}}
}

func (c *Cart) indexOf(productId string) int {
	for i, item := range c.items {
		if item.Product.ID == productId {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line item or appends product with quantity 1.
// The stored snapshot is never refreshed by later adds.
func (c *Cart) Add(product response.Product) error {
	if product.ID == "" {
		return inErrors.ErrInvalidProduct
	}
	if i := c.indexOf(product.ID); i >= 0 {
		if c.items[i].Quantity >= MaxQuantity {
			return fmt.Errorf(
				"failed adding productId=%s with error=%w",
				product.ID,
				inErrors.ErrInvalidQuantity,
			)
		}
		c.items[i].Quantity++
		return nil
	}
	c.items = append(c.items, LineItem{Product: product, Quantity: 1})
	return nil
}

// SetQuantity overwrites the quantity in place, removes the line item on 0 and
// ignores products that are not in the cart. Quantities outside [0, MaxQuantity]
// are rejected.
func (c *Cart) SetQuantity(productId string, quantity int) error {
	if quantity < 0 || quantity > MaxQuantity {
		return fmt.Errorf("failed setting quantity=%d with error=%w", quantity, inErrors.ErrInvalidQuantity)
	}
	i := c.indexOf(productId)
	if i < 0 {
		return nil
	}
	if quantity == 0 {
		c.removeAt(i)
		return nil
	}
	c.items[i].Quantity = quantity
	return nil
}

func (c *Cart) Remove(productId string) {
	if i := c.indexOf(productId); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *Cart) Clear() {
	c.items = []LineItem{}
}

// Total is the sum of price times quantity over all line items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, as shown on the cart badge.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the line items in cart order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clone returns an independent cart holding the same line items.
func (c *Cart) Clone() *Cart {
	return &Cart{items: c.Items()}
}

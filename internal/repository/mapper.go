package repository

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

func Numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func (p Product) Response() (productResponse.Product, error) {
	category, err := productResponse.ParseCategory(p.Category)
	if err != nil {
		return productResponse.Product{}, fmt.Errorf("failed mapping productId=%s with error=%w", p.ID, err)
	}
	return productResponse.Product{
		ID:               p.ID,
		Brand:            p.Brand,
		Name:             p.Name,
		Category:         category,
		Price:            Decimal(p.Price),
		Currency:         p.Currency,
		Volume:           p.Volume,
		Concentration:    p.Concentration.String,
		Longevity:        p.Longevity.String,
		NotesTop:         p.NotesTop.String,
		NotesHeart:       p.NotesHeart.String,
		NotesBase:        p.NotesBase.String,
		DescriptionShort: p.DescriptionShort.String,
		DescriptionFull:  p.DescriptionFull.String,
		ImageURL:         p.ImageUrl,
		InStock:          p.InStock,
		PopularityScore:  p.PopularityScore,
		CreatedAt:        p.CreatedAt.Time,
		UpdatedAt:        p.UpdatedAt.Time,
	}, nil
}

func (o Order) Response() orderResponse.Order {
	var email *string
	if o.CustomerEmail.Valid {
		email = &o.CustomerEmail.String
	}
	return orderResponse.Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   email,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryMethod:  orderRequest.DeliveryMethod(o.DeliveryMethod),
		Status:          orderRequest.OrderStatus(o.Status),
		TotalAmount:     Decimal(o.TotalAmount),
		Currency:        o.Currency,
		CreatedAt:       o.CreatedAt.Time,
		UpdatedAt:       o.UpdatedAt.Time,
	}
}

func NewInsertOrderParams(header orderRequest.CreateOrder) InsertOrderParams {
	email := pgtype.Text{}
	if header.CustomerEmail != nil {
		email = pgtype.Text{String: *header.CustomerEmail, Valid: true}
	}
	return InsertOrderParams{
		CustomerName:    header.CustomerName,
		CustomerPhone:   header.CustomerPhone,
		CustomerEmail:   email,
		DeliveryAddress: header.DeliveryAddress,
		DeliveryMethod:  string(header.DeliveryMethod),
		Status:          string(header.Status),
		TotalAmount:     Numeric(header.TotalAmount),
		Currency:        header.Currency,
	}
}

func NewInsertOrderItemsParams(items []orderRequest.OrderItem) []InsertOrderItemsParams {
	args := make([]InsertOrderItemsParams, len(items))
	for i, item := range items {
		args[i] = InsertOrderItemsParams{
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PriceAtOrder: Numeric(item.PriceAtOrder),
		}
	}
	return args
}

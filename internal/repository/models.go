package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Brand            string             `json:"brand"`
	Category         string             `json:"category"`
	Price            pgtype.Numeric     `json:"price"`
	Currency         string             `json:"currency"`
	Volume           int32              `json:"volume"`
	Concentration    pgtype.Text        `json:"concentration"`
	Longevity        pgtype.Text        `json:"longevity"`
	NotesTop         pgtype.Text        `json:"notes_top"`
	NotesHeart       pgtype.Text        `json:"notes_heart"`
	NotesBase        pgtype.Text        `json:"notes_base"`
	DescriptionShort pgtype.Text        `json:"description_short"`
	DescriptionFull  pgtype.Text        `json:"description_full"`
	ImageUrl         string             `json:"image_url"`
	InStock          bool               `json:"in_stock"`
	PopularityScore  int32              `json:"popularity_score"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID          `json:"id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   pgtype.Text        `json:"customer_email"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryMethod  string             `json:"delivery_method"`
	Status          string             `json:"status"`
	TotalAmount     pgtype.Numeric     `json:"total_amount"`
	Currency        string             `json:"currency"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type OrderItem struct {
	ID           uuid.UUID          `json:"id"`
	OrderID      uuid.UUID          `json:"order_id"`
	ProductID    string             `json:"product_id"`
	ProductName  string             `json:"product_name"`
	Quantity     int32              `json:"quantity"`
	PriceAtOrder pgtype.Numeric     `json:"price_at_order"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `INSERT INTO orders (
    customer_name, customer_phone, customer_email, delivery_address,
    delivery_method, status, total_amount, currency
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, customer_name, customer_phone, customer_email, delivery_address,
    delivery_method, status, total_amount, currency, created_at, updated_at
`

type InsertOrderParams struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerEmail   pgtype.Text    `json:"customer_email"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryMethod  string         `json:"delivery_method"`
	Status          string         `json:"status"`
	TotalAmount     pgtype.Numeric `json:"total_amount"`
	Currency        string         `json:"currency"`
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, insertOrder,
		arg.CustomerName,
		arg.CustomerPhone,
		arg.CustomerEmail,
		arg.DeliveryAddress,
		arg.DeliveryMethod,
		arg.Status,
		arg.TotalAmount,
		arg.Currency,
	)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerName,
		&i.CustomerPhone,
		&i.CustomerEmail,
		&i.DeliveryAddress,
		&i.DeliveryMethod,
		&i.Status,
		&i.TotalAmount,
		&i.Currency,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type InsertOrderItemsParams struct {
	OrderID      uuid.UUID      `json:"order_id"`
	ProductID    string         `json:"product_id"`
	ProductName  string         `json:"product_name"`
	Quantity     int32          `json:"quantity"`
	PriceAtOrder pgtype.Numeric `json:"price_at_order"`
}

const deleteOrder = `DELETE FROM orders WHERE id = $1`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

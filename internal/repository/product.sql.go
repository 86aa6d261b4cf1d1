package repository

import (
	"context"
)

const productColumns = `id, name, brand, category, price, currency, volume, concentration, longevity,
    notes_top, notes_heart, notes_base, description_short, description_full, image_url,
    in_stock, popularity_score, created_at, updated_at`

const findProducts = `SELECT ` + productColumns + `
FROM products
ORDER BY popularity_score DESC, created_at DESC
`

func scanProduct(row interface{ Scan(...any) error }, i *Product) error {
	return row.Scan(
		&i.ID,
		&i.Name,
		&i.Brand,
		&i.Category,
		&i.Price,
		&i.Currency,
		&i.Volume,
		&i.Concentration,
		&i.Longevity,
		&i.NotesTop,
		&i.NotesHeart,
		&i.NotesBase,
		&i.DescriptionShort,
		&i.DescriptionFull,
		&i.ImageUrl,
		&i.InStock,
		&i.PopularityScore,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

func (q *Queries) FindProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := scanProduct(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findProductById = `SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) FindProductById(ctx context.Context, id string) (Product, error) {
	row := q.db.QueryRow(ctx, findProductById, id)
	var i Product
	err := scanProduct(row, &i)
	return i, err
}

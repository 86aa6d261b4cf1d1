package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string          `json:"id"`
	Brand            string          `json:"brand"`
	Name             string          `json:"name"`
	Category         Category        `json:"category"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	Volume           int32           `json:"volume"`
	Concentration    string          `json:"concentration,omitempty"`
	Longevity        string          `json:"longevity,omitempty"`
	NotesTop         string          `json:"notes_top,omitempty"`
	NotesHeart       string          `json:"notes_heart,omitempty"`
	NotesBase        string          `json:"notes_base,omitempty"`
	DescriptionShort string          `json:"description_short,omitempty"`
	DescriptionFull  string          `json:"description_full,omitempty"`
	ImageURL         string          `json:"image_url"`
	InStock          bool            `json:"in_stock"`
	PopularityScore  int32           `json:"popularity_score"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

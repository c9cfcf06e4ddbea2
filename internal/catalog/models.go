package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product is priced in TWD; CostCNY is the purchase cost on the source marketplace.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	CategoryID  *int64          `json:"category_id"`
	Price       int64           `json:"price"`
	CostCNY     decimal.Decimal `json:"cost_cny"`
	IsArchived  bool            `json:"is_archived"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	CategoryID  *int64          `json:"category_id"`
	Price       int64           `json:"price"`
	CostCNY     decimal.Decimal `json:"cost_cny"`
}

type ProductFilter struct {
	CategoryID      *int64
	IncludeArchived bool
}

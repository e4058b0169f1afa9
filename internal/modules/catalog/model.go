package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. Prices are whole rupees; Quantity is stock on hand.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Price       int64     `json:"price"`
	MRP         int64     `json:"mrp"`
	Quantity    int       `json:"quantity"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Images      []string  `json:"images"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InStock reports whether at least qty units are on hand.
func (p *Product) InStock(qty int) bool {
	return p.Quantity >= qty
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Price       int64    `json:"price"`
	MRP         int64    `json:"mrp"`
	Quantity    int      `json:"quantity"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	IsActive    *bool    `json:"isActive"`
}

// ListFilter narrows a product listing. Zero values mean no filter.
type ListFilter struct {
	Category   string
	Featured   bool
	Search     string
	ActiveOnly bool
	Limit      int
}

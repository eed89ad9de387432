package catalog

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog listing. Prices are in the smallest currency
// unit; DiscountedPrice is the price actually charged.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Brand           string    `json:"brand"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	OriginalPrice   int       `json:"original_price"`
	DiscountedPrice int       `json:"discounted_price"`
	ImageURL        string    `json:"image_url,omitempty"`
	Stock           int       `json:"stock"`
	RatingAverage   float64   `json:"rating_average"`
	RatingCount     int       `json:"rating_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Category is a top-level browse category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed set of browse categories.
var Categories = []Category{
	{ID: "electronics", Name: "Electronics"},
	{ID: "fashion", Name: "Fashion"},
	{ID: "beauty", Name: "Beauty & Personal Care"},
	{ID: "sports", Name: "Sports & Outdoors"},
	{ID: "home", Name: "Home & Garden"},
}

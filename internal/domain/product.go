package domain

import "time"

// Product is a catalog product as returned by the commerce backend.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Variants    []Variant `json:"variants"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant is a specific color/SKU instance of a product, the unit actually
// added to a cart. Prices are in cents.
type Variant struct {
	ID                 string   `json:"id"`
	SKU                string   `json:"sku"`
	Color              string   `json:"color"`
	UnitPriceRetail    int64    `json:"unit_price_retail"`
	UnitPriceWholesale int64    `json:"unit_price_wholesale"`
	Stock              int      `json:"stock"`
	ImageURLs          []string `json:"image_urls,omitempty"`
}

package domain

import "time"

// Product identity is the composed display name (base name plus variant
// label) or the storefront SKU when one is supplied. Price fields are set
// on first reference and deliberately never updated afterwards; see the
// catalog repository for the rationale.
type Product struct {
	ID         uint
	Name       string
	SKU        *string
	MRP        float64
	OfferPrice float64
	InStock    bool
	StockCount int
	CreatedAt  time.Time
}

// ComposeProductName builds the catalog identity key from a base name and
// an optional variant label.
func ComposeProductName(name, variant string) string {
	if variant == "" {
		return name
	}
	return name + " - " + variant
}

package dto

import "radagast/internal/domain"

// PlacementResult is what the order transaction hands downstream: the
// created order IDs plus the resolved identities, so shipment
// provisioning and notification never re-resolve them.
type PlacementResult struct {
	Customer    *domain.Customer
	Lines       []PlacedLine
	TotalAmount float64

	// Duplicate is set when a payment confirmation was already
	// materialized; the order IDs then refer to the earlier rows.
	Duplicate bool
}

type PlacedLine struct {
	OrderID uint
	Product *domain.Product
}

func (r *PlacementResult) OrderIDs() []uint {
	ids := make([]uint, len(r.Lines))
	for i, line := range r.Lines {
		ids[i] = line.OrderID
	}
	return ids
}

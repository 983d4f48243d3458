package domain

import "time"

// Customer is keyed by email. The handle is a derived, human-readable
// identifier that stays stable once assigned; contact and address fields
// are overwritten in place on every subsequent order from the same email.
type Customer struct {
	ID        uint
	Handle    string
	Email     string
	Name      string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	Pincode   *string
	Country   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

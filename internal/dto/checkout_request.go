package dto

type CheckoutRequest struct {
	Customer      CheckoutCustomer `json:"customer"`
	Items         []CheckoutItem   `json:"items"`
	PaymentStatus string           `json:"paymentStatus,omitempty"`

	// Gateway references are present when the checkout arrives through a
	// payment confirmation rather than a plain storefront event.
	GatewayOrderID   string `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string `json:"gatewayPaymentId,omitempty"`
}

type CheckoutCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

type CheckoutItem struct {
	Name      string  `json:"name"`
	Variant   string  `json:"variant,omitempty"`
	SKU       string  `json:"sku,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice,omitempty"`
	Total     float64 `json:"total"`

	// Parcel dimensions in cm and weight in kg; zero values fall back to
	// the configured package defaults at provisioning time.
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

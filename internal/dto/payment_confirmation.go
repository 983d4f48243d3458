package dto

type PaymentConfirmationRequest struct {
	GatewayOrderID   string           `json:"gatewayOrderId"`
	GatewayPaymentID string           `json:"gatewayPaymentId"`
	Signature        string           `json:"signature"`
	Customer         CheckoutCustomer `json:"customer"`
	Items            []CheckoutItem   `json:"items"`
}

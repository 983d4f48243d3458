package dto

import "time"

type CheckoutResponse struct {
	TraceID     string    `json:"traceId"`
	OrderIDs    []uint    `json:"orderIds"`
	CustomerID  uint      `json:"customerId"`
	Handle      string    `json:"handle"`
	TotalAmount float64   `json:"totalAmount"`
	Duplicate   bool      `json:"duplicate,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

package dto

import "time"

// Carrier wire format. Field names follow the carrier's JSON contract
// (snake_case), which is why these diverge from the rest of the DTOs.

type CarrierAuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CarrierAuthResponse struct {
	Token string `json:"token"`
}

type CarrierOrderRequest struct {
	OrderID         string             `json:"order_id"`
	OrderDate       string             `json:"order_date"`
	PickupLocation  string             `json:"pickup_location"`
	BillingName     string             `json:"billing_customer_name"`
	BillingAddress  string             `json:"billing_address"`
	BillingCity     string             `json:"billing_city"`
	BillingPincode  string             `json:"billing_pincode"`
	BillingState    string             `json:"billing_state"`
	BillingCountry  string             `json:"billing_country"`
	BillingEmail    string             `json:"billing_email"`
	BillingPhone    string             `json:"billing_phone"`
	ShippingIsBilling bool             `json:"shipping_is_billing"`
	OrderItems      []CarrierOrderItem `json:"order_items"`
	PaymentMethod   string             `json:"payment_method"`
	SubTotal        float64            `json:"sub_total"`
	Length          float64            `json:"length"`
	Breadth         float64            `json:"breadth"`
	Height          float64            `json:"height"`
	Weight          float64            `json:"weight"`
}

type CarrierOrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

type CarrierOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	ShipmentID  int64  `json:"shipment_id"`
	Status      string `json:"status"`
	TrackingURL string `json:"tracking_url,omitempty"`
}

type CarrierTrackingResponse struct {
	Data CarrierTrackingData `json:"data"`
}

type CarrierTrackingData struct {
	Status string `json:"status"`
}

// ProvisionResult is the workflow's success output; the carrier IDs are
// persisted onto the order as its carrier references.
type ProvisionResult struct {
	CarrierOrderID string `json:"carrierOrderId"`
	ShipmentID     string `json:"shipmentId"`
	TrackingURL    string `json:"trackingUrl,omitempty"`
	PickupLocation string `json:"pickupLocation"`
}

type SyncStatusResult struct {
	OrderID        uint   `json:"orderId"`
	DeliveryStatus string `json:"deliveryStatus"`
	CarrierStatus  string `json:"carrierStatus"`
}

type ShipmentResponse struct {
	TraceID   string           `json:"traceId"`
	Result    *ProvisionResult `json:"result"`
	Timestamp time.Time        `json:"timestamp"`
}

type SyncStatusResponse struct {
	TraceID   string            `json:"traceId"`
	Result    *SyncStatusResult `json:"result"`
	Timestamp time.Time         `json:"timestamp"`
}

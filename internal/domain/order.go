package domain

import (
	"strings"
	"time"
)

// Order is one checkout line item: exactly one customer, one product. A
// multi-item checkout produces one Order row per line, never a parent
// cart aggregate.
//
// The three status axes are independently mutable on purpose: an
// administrator may override any one of them without the others being
// cross-validated. Only the reconciliation engine writes DeliveryStatus.
type Order struct {
	ID         uint
	CustomerID uint
	ProductID  uint
	Quantity   int
	AmountPaid float64

	// Parcel dimensions in cm and weight in kg, captured from the
	// checkout line when supplied. Nil means the carrier submission uses
	// the configured package defaults.
	Length *float64
	Width  *float64
	Height *float64
	Weight *float64

	OrderStatus      string
	PaymentStatus    string
	DeliveryStatus   string
	CarrierOrderID   *string
	ShipmentID       *string
	CarrierStatus    *string
	TrackingURL      *string
	GatewayOrderID   *string
	GatewayPaymentID *string
	OrderDate        time.Time
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"
	PaymentStatusFailed  = "Failed"
)

const (
	DeliveryStatusNotDispatched = "Not Dispatched"
	DeliveryStatusInTransit     = "In Transit"
	DeliveryStatusDelivered     = "Delivered"
	DeliveryStatusReturned      = "Returned"
)

// Local markers written to the carrier-status column by the provisioning
// workflow. Success and failure share the column; a failure marker keeps
// the reason text after the prefix.
const (
	CarrierStatusCreated      = "Created"
	CarrierStatusFailedPrefix = "Failed: "
)

// ClassifyCarrierStatus maps free-text carrier status into the delivery
// state machine by ordered substring containment. Unrecognized text keeps
// the current state: the carrier is the sole source of transitions and
// this classifier never invents one.
func ClassifyCarrierStatus(raw, current string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "delivered"):
		return DeliveryStatusDelivered
	case strings.Contains(s, "shipped"), strings.Contains(s, "transit"):
		return DeliveryStatusInTransit
	case strings.Contains(s, "dispatched"):
		return DeliveryStatusInTransit
	default:
		return current
	}
}

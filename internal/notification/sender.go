package notification

import (
	"context"

	"go.uber.org/zap"

	"radagast/internal/dto"
)

// Sender delivers an order confirmation to the customer. Delivery is
// best-effort from the caller's perspective: a send failure must never
// fail or roll back the order that triggered it.
type Sender interface {
	Send(ctx context.Context, customer dto.CheckoutCustomer, items []dto.CheckoutItem, paymentID string, totalAmount float64) error
}

// LogSender records the notification instead of delivering it. The real
// delivery channel is an external collaborator; this keeps the send path
// exercised until one is wired in.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, customer dto.CheckoutCustomer, items []dto.CheckoutItem, paymentID string, totalAmount float64) error {
	s.logger.Info("order confirmation notification",
		zap.String("email", customer.Email),
		zap.Int("itemCount", len(items)),
		zap.String("paymentId", paymentID),
		zap.Float64("totalAmount", totalAmount),
	)
	return nil
}

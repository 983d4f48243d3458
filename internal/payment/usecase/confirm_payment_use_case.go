package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/notification"
)

type SignatureVerifier interface {
	Verify(gatewayOrderID, gatewayPaymentID, signature string) bool
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error)
}

type OrderLookup interface {
	FindByGatewayPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error)
}

type CustomerLookup interface {
	FindByID(ctx context.Context, id uint) (*domain.Customer, error)
}

// ConfirmPaymentUseCase materializes orders from a verified payment
// confirmation exactly once. A replayed confirmation for the same
// gateway payment answers with the rows the first one created.
type ConfirmPaymentUseCase struct {
	verifier       SignatureVerifier
	placer         OrderPlacer
	orderLookup    OrderLookup
	customerLookup CustomerLookup
	notifier       notification.Sender
	logger         *zap.Logger
}

func NewConfirmPaymentUseCase(
	verifier SignatureVerifier,
	placer OrderPlacer,
	orderLookup OrderLookup,
	customerLookup CustomerLookup,
	notifier notification.Sender,
	logger *zap.Logger,
) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		verifier:       verifier,
		placer:         placer,
		orderLookup:    orderLookup,
		customerLookup: customerLookup,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *ConfirmPaymentUseCase) Confirm(ctx context.Context, req dto.PaymentConfirmationRequest) (*dto.PlacementResult, error) {
	logger := uc.logger.With(
		zap.String("gatewayOrderId", req.GatewayOrderID),
		zap.String("gatewayPaymentId", req.GatewayPaymentID),
	)

	if !uc.verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		logger.Warn("payment signature verification failed")
		return nil, apperrors.NewPaymentVerificationError("payment signature verification failed")
	}

	result, err := uc.placer.PlaceOrder(ctx, dto.CheckoutRequest{
		Customer:         req.Customer,
		Items:            req.Items,
		PaymentStatus:    domain.PaymentStatusPaid,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
	})

	if _, ok := apperrors.IsConflictError(err); ok {
		// The confirmation was already materialized, most likely by a
		// gateway retry. Answer with what the first confirmation created.
		logger.Info("duplicate payment confirmation, treating as no-op success")
		return uc.duplicateResult(ctx, logger, req)
	}
	if err != nil {
		return nil, err
	}

	uc.notifyAsync(req, result, logger)

	return result, nil
}

// duplicateResult rebuilds the original confirmation's response from
// the rows it committed: the lines, their total, and the customer the
// first confirmation resolved.
func (uc *ConfirmPaymentUseCase) duplicateResult(ctx context.Context, logger *zap.Logger, req dto.PaymentConfirmationRequest) (*dto.PlacementResult, error) {
	orders, err := uc.orderLookup.FindByGatewayPayment(ctx, req.GatewayOrderID, req.GatewayPaymentID)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.PlacedLine, len(orders))
	total := 0.0
	for i, o := range orders {
		lines[i] = dto.PlacedLine{OrderID: o.ID}
		total += o.AmountPaid
	}

	customer := &domain.Customer{}
	if len(orders) > 0 {
		customer, err = uc.customerLookup.FindByID(ctx, orders[0].CustomerID)
		if err != nil {
			logger.Warn("failed to resolve customer for duplicate confirmation", zap.Error(err))
			customer = &domain.Customer{}
		}
	}

	return &dto.PlacementResult{
		Customer:    customer,
		Lines:       lines,
		TotalAmount: total,
		Duplicate:   true,
	}, nil
}

// notifyAsync fires the confirmation email off the request path. The
// send gets its own deadline because the request context ends when the
// response is written; a failure is logged and nothing else.
func (uc *ConfirmPaymentUseCase) notifyAsync(req dto.PaymentConfirmationRequest, result *dto.PlacementResult, logger *zap.Logger) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := uc.notifier.Send(ctx, req.Customer, req.Items, req.GatewayPaymentID, result.TotalAmount); err != nil {
			logger.Warn("order confirmation notification failed", zap.Error(err))
		}
	}()
}

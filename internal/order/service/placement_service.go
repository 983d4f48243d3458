package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type IdentityResolver interface {
	ResolveCustomer(ctx context.Context, tx *sql.Tx, in dto.CheckoutCustomer) (*domain.Customer, error)
	ResolveProduct(ctx context.Context, tx *sql.Tx, item dto.CheckoutItem) (*domain.Product, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error)
}

type ConfirmationRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, gatewayOrderID, gatewayPaymentID string) error
}

// PlacementService turns one checkout event into N order rows, or none.
// Identity resolution, the idempotency guard, and every line insert share
// one transaction: a failure anywhere rolls back newly created customer
// and product rows along with any orders already inserted for the
// request.
type PlacementService struct {
	db               TransactionManager
	identity         IdentityResolver
	orderRepo        OrderRepository
	confirmationRepo ConfirmationRepository
	logger           *zap.Logger
	txTimeout        time.Duration
}

func NewPlacementService(
	db TransactionManager,
	identity IdentityResolver,
	orderRepo OrderRepository,
	confirmationRepo ConfirmationRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *PlacementService {
	return &PlacementService{
		db:               db,
		identity:         identity,
		orderRepo:        orderRepo,
		confirmationRepo: confirmationRepo,
		logger:           logger,
		txTimeout:        txTimeout,
	}
}

func (s *PlacementService) PlaceOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback on any exit path. MySQL ignores it after a commit.
	defer tx.Rollback()

	if req.GatewayPaymentID != "" {
		if err := s.confirmationRepo.Insert(txCtx, tx, req.GatewayOrderID, req.GatewayPaymentID); err != nil {
			return nil, err
		}
	}

	customer, err := s.identity.ResolveCustomer(txCtx, tx, req.Customer)
	if err != nil {
		s.logger.Error("customer resolution failed", zap.String("email", req.Customer.Email), zap.Error(err))
		return nil, err
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentStatusPending
	}

	lines := make([]dto.PlacedLine, 0, len(req.Items))
	total := 0.0

	for _, item := range req.Items {
		product, err := s.identity.ResolveProduct(txCtx, tx, item)
		if err != nil {
			s.logger.Error("product resolution failed", zap.String("product", item.Name), zap.Error(err))
			return nil, err
		}

		order := domain.Order{
			CustomerID:     customer.ID,
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			AmountPaid:     lineAmount(item),
			Length:         optDim(item.Length),
			Width:          optDim(item.Width),
			Height:         optDim(item.Height),
			Weight:         optDim(item.Weight),
			OrderStatus:    domain.OrderStatusPending,
			PaymentStatus:  paymentStatus,
			DeliveryStatus: domain.DeliveryStatusNotDispatched,
		}
		if req.GatewayOrderID != "" {
			order.GatewayOrderID = &req.GatewayOrderID
		}
		if req.GatewayPaymentID != "" {
			order.GatewayPaymentID = &req.GatewayPaymentID
		}

		orderID, err := s.orderRepo.Insert(txCtx, tx, order)
		if err != nil {
			s.logger.Error("order insert failed", zap.Uint("customerId", customer.ID), zap.Uint("productId", product.ID), zap.Error(err))
			return nil, err
		}

		lines = append(lines, dto.PlacedLine{OrderID: orderID, Product: product})
		total += order.AmountPaid
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit order placement", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placement committed",
		zap.Uint("customerId", customer.ID),
		zap.Int("lineCount", len(lines)),
		zap.Float64("totalAmount", total),
	)

	return &dto.PlacementResult{
		Customer:    customer,
		Lines:       lines,
		TotalAmount: total,
	}, nil
}

// optDim keeps a checkout dimension only when the caller supplied one;
// zero and negative values fall through to the configured package
// defaults at shipment time.
func optDim(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func lineAmount(item dto.CheckoutItem) float64 {
	if item.Total > 0 {
		return item.Total
	}
	return item.UnitPrice * float64(item.Quantity)
}

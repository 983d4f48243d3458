package usecase

import (
	"context"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type TrackingClient interface {
	GetOrder(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error)
}

type StatusOrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	UpdateDeliveryStatus(ctx context.Context, id uint, deliveryStatus, carrierStatus string) error
}

// SyncStatusUseCase pulls the carrier's current status for one order and
// folds it into the local delivery state machine. The carrier is the
// sole source of transitions; a fetch failure leaves local state
// untouched and is safe to retry.
type SyncStatusUseCase struct {
	orderRepo StatusOrderRepository
	sessions  SessionManager
	client    TrackingClient
	logger    *zap.Logger
}

func NewSyncStatusUseCase(orderRepo StatusOrderRepository, sessions SessionManager, client TrackingClient, logger *zap.Logger) *SyncStatusUseCase {
	return &SyncStatusUseCase{
		orderRepo: orderRepo,
		sessions:  sessions,
		client:    client,
		logger:    logger,
	}
}

func (uc *SyncStatusUseCase) Sync(ctx context.Context, orderID uint) (*dto.SyncStatusResult, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.CarrierOrderID == nil {
		return nil, apperrors.NewConflictError("order has not been provisioned with the carrier")
	}

	token, err := uc.sessions.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	tracking, err := uc.client.GetOrder(ctx, token, *order.CarrierOrderID)
	if err != nil {
		uc.logger.Warn("carrier status fetch failed", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, apperrors.NewReconciliationError("carrier status fetch failed", err)
	}

	raw := tracking.Data.Status
	deliveryStatus := domain.ClassifyCarrierStatus(raw, order.DeliveryStatus)

	if err := uc.orderRepo.UpdateDeliveryStatus(ctx, orderID, deliveryStatus, raw); err != nil {
		return nil, err
	}

	uc.logger.Info("delivery status reconciled",
		zap.Uint("orderId", orderID),
		zap.String("carrierStatus", raw),
		zap.String("deliveryStatus", deliveryStatus),
	)

	return &dto.SyncStatusResult{
		OrderID:        orderID,
		DeliveryStatus: deliveryStatus,
		CarrierStatus:  raw,
	}, nil
}

package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type OrderPlacementService interface {
	PlaceOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error)
}

type PlaceOrderUseCase struct {
	placementSvc OrderPlacementService
	logger       *zap.Logger
}

func NewPlaceOrderUseCase(placementSvc OrderPlacementService, logger *zap.Logger) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		placementSvc: placementSvc,
		logger:       logger,
	}
}

// PlaceOrder validates the checkout before any write; a request that
// fails validation produces zero rows.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
	uc.logger.Info("checkout started",
		zap.String("email", req.Customer.Email),
		zap.Int("itemCount", len(req.Items)),
	)

	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	return uc.placementSvc.PlaceOrder(ctx, req)
}

func validateCheckout(req dto.CheckoutRequest) error {
	var details []apperrors.ValidationDetail

	if req.Customer.Name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.name",
			Message: "customer name is required",
		})
	}

	if req.Customer.Email == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.email",
			Message: "customer email is required",
		})
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	for idx, item := range req.Items {
		prefix := "items[" + strconv.Itoa(idx) + "]"

		if item.Name == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".name",
				Message: "product name is required",
			})
		}

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".quantity",
				Message: "quantity must be at least 1",
			})
		}

		if item.Total <= 0 && item.UnitPrice <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".total",
				Message: "line amount is required",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

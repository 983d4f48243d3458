package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type ConfirmPaymentUseCase interface {
	Confirm(ctx context.Context, req dto.PaymentConfirmationRequest) (*dto.PlacementResult, error)
}

type PaymentController struct {
	useCase ConfirmPaymentUseCase
	logger  *zap.Logger
}

func NewPaymentController(useCase ConfirmPaymentUseCase, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *PaymentController) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PaymentConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON")
		return
	}

	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "gatewayOrderId, gatewayPaymentId and signature are required")
		return
	}

	result, err := c.useCase.Confirm(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	c.writeJSON(w, status, dto.CheckoutResponse{
		TraceID:     traceID,
		OrderIDs:    result.OrderIDs(),
		CustomerID:  result.Customer.ID,
		Handle:      result.Customer.Handle,
		TotalAmount: result.TotalAmount,
		Duplicate:   result.Duplicate,
		Timestamp:   time.Now().UTC(),
	})
}

func (c *PaymentController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsPaymentVerificationError(err); ok {
		c.writeError(w, traceID, http.StatusUnauthorized, "PAYMENT_VERIFICATION_FAILED", err.Error())
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeError(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *PaymentController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *PaymentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

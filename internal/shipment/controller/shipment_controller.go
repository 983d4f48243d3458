package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type ProvisionUseCase interface {
	Provision(ctx context.Context, orderID uint) (*dto.ProvisionResult, error)
}

type SyncStatusUseCase interface {
	Sync(ctx context.Context, orderID uint) (*dto.SyncStatusResult, error)
}

type ShipmentController struct {
	provisionUC ProvisionUseCase
	syncUC      SyncStatusUseCase
	logger      *zap.Logger
}

func NewShipmentController(provisionUC ProvisionUseCase, syncUC SyncStatusUseCase, logger *zap.Logger) *ShipmentController {
	return &ShipmentController{
		provisionUC: provisionUC,
		syncUC:      syncUC,
		logger:      logger,
	}
}

func (c *ShipmentController) HandleProvision(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderIDFromPath(w, r, logger)
	if !ok {
		return
	}

	result, err := c.provisionUC.Provision(r.Context(), orderID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ShipmentResponse{
		TraceID:   traceID,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderIDFromPath(w, r, logger)
	if !ok {
		return
	}

	result, err := c.syncUC.Sync(r.Context(), orderID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.SyncStatusResponse{
		TraceID:   traceID,
		Result:    result,
		Timestamp: time.Now().UTC(),
	})
}

func (c *ShipmentController) orderIDFromPath(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	orderIDStr := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil || orderID == 0 {
		logger.Warn("invalid orderId in path", zap.String("orderId", orderIDStr))
		c.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "VALIDATION_ERROR",
			"message": "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(orderID), true
}

func (c *ShipmentController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "an unexpected error occurred"

	switch {
	case isValidation(err):
		status, code, message = http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case isNotFound(err):
		status, code, message = http.StatusNotFound, "NOT_FOUND", err.Error()
	case isConflict(err):
		status, code, message = http.StatusConflict, "CONFLICT", err.Error()
	case isCredential(err):
		status, code, message = http.StatusBadGateway, "CARRIER_CREDENTIAL_FAILED", err.Error()
	case isProvisioning(err):
		status, code, message = http.StatusBadGateway, "SHIPMENT_PROVISIONING_FAILED", err.Error()
	case isReconciliation(err):
		status, code, message = http.StatusBadGateway, "STATUS_SYNC_FAILED", err.Error()
	default:
		logger.Error("unexpected error", zap.Error(err))
	}

	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func isValidation(err error) bool     { _, ok := apperrors.IsValidationError(err); return ok }
func isNotFound(err error) bool       { _, ok := apperrors.IsNotFoundError(err); return ok }
func isConflict(err error) bool       { _, ok := apperrors.IsConflictError(err); return ok }
func isCredential(err error) bool     { _, ok := apperrors.IsCredentialError(err); return ok }
func isProvisioning(err error) bool   { _, ok := apperrors.IsProvisioningError(err); return ok }
func isReconciliation(err error) bool { _, ok := apperrors.IsReconciliationError(err); return ok }

func (c *ShipmentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type mockStatusOrderRepo struct {
	FindByIDFunc   func(ctx context.Context, id uint) (*domain.Order, error)
	deliveryStatus string
	carrierStatus  string
	updates        int
}

func (m *mockStatusOrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockStatusOrderRepo) UpdateDeliveryStatus(ctx context.Context, id uint, deliveryStatus, carrierStatus string) error {
	m.updates++
	m.deliveryStatus = deliveryStatus
	m.carrierStatus = carrierStatus
	return nil
}

type mockTrackingClient struct {
	GetOrderFunc func(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error)
	calls        int
}

func (m *mockTrackingClient) GetOrder(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
	m.calls++
	return m.GetOrderFunc(ctx, token, carrierOrderID)
}

func provisionedOrder() *domain.Order {
	o := testOrder()
	id := "991"
	o.CarrierOrderID = &id
	o.DeliveryStatus = domain.DeliveryStatusNotDispatched
	return o
}

func newTestSyncUseCase(orderRepo *mockStatusOrderRepo, client *mockTrackingClient) *SyncStatusUseCase {
	sessions := &mockSessions{
		GetTokenFunc: func(ctx context.Context) (string, error) {
			return "tok-123", nil
		},
	}
	return NewSyncStatusUseCase(orderRepo, sessions, client, zap.NewNop())
}

func TestSync_NotProvisioned(t *testing.T) {
	orderRepo := &mockStatusOrderRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return testOrder(), nil
		},
	}
	client := &mockTrackingClient{
		GetOrderFunc: func(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
			t.Fatal("carrier must not be called for an unprovisioned order")
			return nil, nil
		},
	}

	uc := newTestSyncUseCase(orderRepo, client)

	_, err := uc.Sync(context.Background(), 42)
	if _, ok := apperrors.IsConflictError(err); !ok {
		t.Errorf("expected ConflictError, got %T", err)
	}
}

func TestSync_FetchFailureLeavesStateUnchanged(t *testing.T) {
	orderRepo := &mockStatusOrderRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return provisionedOrder(), nil
		},
	}
	client := &mockTrackingClient{
		GetOrderFunc: func(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
			return nil, apperrors.NewCarrierError(503, "service unavailable")
		},
	}

	uc := newTestSyncUseCase(orderRepo, client)

	_, err := uc.Sync(context.Background(), 42)
	if _, ok := apperrors.IsReconciliationError(err); !ok {
		t.Errorf("expected ReconciliationError, got %T", err)
	}
	if orderRepo.updates != 0 {
		t.Errorf("fetch failure must not update local state, got %d updates", orderRepo.updates)
	}
}

func TestSync_StatusMapping(t *testing.T) {
	tests := []struct {
		name         string
		carrierText  string
		wantDelivery string
	}{
		{"shipped maps to in transit", "Shipped for Delivery", domain.DeliveryStatusInTransit},
		{"delivered maps to delivered", "Delivered to consignee", domain.DeliveryStatusDelivered},
		{"unknown keeps prior state", "Processing", domain.DeliveryStatusNotDispatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mockStatusOrderRepo{
				FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
					return provisionedOrder(), nil
				},
			}
			client := &mockTrackingClient{
				GetOrderFunc: func(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
					return &dto.CarrierTrackingResponse{
						Data: dto.CarrierTrackingData{Status: tt.carrierText},
					}, nil
				},
			}

			uc := newTestSyncUseCase(orderRepo, client)

			result, err := uc.Sync(context.Background(), 42)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.DeliveryStatus != tt.wantDelivery {
				t.Errorf("expected %s, got %s", tt.wantDelivery, result.DeliveryStatus)
			}
			// Raw text is always recorded, recognized or not.
			if orderRepo.carrierStatus != tt.carrierText {
				t.Errorf("raw status must be recorded, got %q", orderRepo.carrierStatus)
			}
			if orderRepo.updates != 1 {
				t.Errorf("expected exactly 1 update, got %d", orderRepo.updates)
			}
		})
	}
}

func TestSync_UsesStoredCarrierOrderID(t *testing.T) {
	orderRepo := &mockStatusOrderRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			return provisionedOrder(), nil
		},
	}

	var gotID string
	client := &mockTrackingClient{
		GetOrderFunc: func(ctx context.Context, token, carrierOrderID string) (*dto.CarrierTrackingResponse, error) {
			gotID = carrierOrderID
			return &dto.CarrierTrackingResponse{Data: dto.CarrierTrackingData{Status: "In Transit"}}, nil
		},
	}

	uc := newTestSyncUseCase(orderRepo, client)

	if _, err := uc.Sync(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "991" {
		t.Errorf("expected carrier order id 991, got %s", gotID)
	}
}

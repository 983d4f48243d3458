package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type mockVerifier struct {
	ok bool
}

func (m *mockVerifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return m.ok
}

type mockPlacer struct {
	PlaceOrderFunc func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error)
	calls          int
	lastReq        dto.CheckoutRequest
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
	m.calls++
	m.lastReq = req
	return m.PlaceOrderFunc(ctx, req)
}

type mockOrderLookup struct {
	FindFunc func(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error)
}

func (m *mockOrderLookup) FindByGatewayPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error) {
	return m.FindFunc(ctx, gatewayOrderID, gatewayPaymentID)
}

type mockCustomerLookup struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Customer, error)
	calls        int
}

func (m *mockCustomerLookup) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	m.calls++
	return m.FindByIDFunc(ctx, id)
}

type mockNotifier struct {
	sent chan struct{}
}

func (m *mockNotifier) Send(ctx context.Context, customer dto.CheckoutCustomer, items []dto.CheckoutItem, paymentID string, totalAmount float64) error {
	close(m.sent)
	return nil
}

func confirmationRequest() dto.PaymentConfirmationRequest {
	return dto.PaymentConfirmationRequest{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_123",
		Signature:        "sig",
		Customer: dto.CheckoutCustomer{
			Name:  "Jane Doe",
			Email: "jane@example.com",
		},
		Items: []dto.CheckoutItem{
			{Name: "Tea Sampler", Quantity: 2, Total: 998},
		},
	}
}

func placedResult() *dto.PlacementResult {
	return &dto.PlacementResult{
		Customer:    &domain.Customer{ID: 7, Handle: "janedoe"},
		Lines:       []dto.PlacedLine{{OrderID: 42}},
		TotalAmount: 998,
	}
}

func TestConfirm_SignatureMismatch(t *testing.T) {
	placer := &mockPlacer{
		PlaceOrderFunc: func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
			return placedResult(), nil
		},
	}
	uc := NewConfirmPaymentUseCase(&mockVerifier{ok: false}, placer, &mockOrderLookup{}, &mockCustomerLookup{}, &mockNotifier{sent: make(chan struct{})}, zap.NewNop())

	_, err := uc.Confirm(context.Background(), confirmationRequest())
	if _, ok := apperrors.IsPaymentVerificationError(err); !ok {
		t.Fatalf("expected PaymentVerificationError, got %T", err)
	}
	if placer.calls != 0 {
		t.Errorf("a failed signature must create no orders, got %d placement calls", placer.calls)
	}
}

func TestConfirm_PlacesOrdersAsPaid(t *testing.T) {
	placer := &mockPlacer{
		PlaceOrderFunc: func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
			return placedResult(), nil
		},
	}
	notifier := &mockNotifier{sent: make(chan struct{})}
	uc := NewConfirmPaymentUseCase(&mockVerifier{ok: true}, placer, &mockOrderLookup{}, &mockCustomerLookup{}, notifier, zap.NewNop())

	result, err := uc.Confirm(context.Background(), confirmationRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if placer.calls != 1 {
		t.Fatalf("expected exactly one placement, got %d", placer.calls)
	}
	if placer.lastReq.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("confirmation must place orders as Paid, got %s", placer.lastReq.PaymentStatus)
	}
	if placer.lastReq.GatewayPaymentID != "pay_123" {
		t.Errorf("gateway refs must flow into placement, got %s", placer.lastReq.GatewayPaymentID)
	}
	if len(result.Lines) != 1 || result.Lines[0].OrderID != 42 {
		t.Errorf("unexpected result: %+v", result)
	}

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Error("expected notification to be sent")
	}
}

func TestConfirm_DuplicateIsNoOpSuccess(t *testing.T) {
	placer := &mockPlacer{
		PlaceOrderFunc: func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
			return nil, apperrors.NewConflictError("payment pay_123 already confirmed")
		},
	}
	lookup := &mockOrderLookup{
		FindFunc: func(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error) {
			return []domain.Order{
				{ID: 42, CustomerID: 7, AmountPaid: 998},
				{ID: 43, CustomerID: 7, AmountPaid: 350},
			}, nil
		},
	}
	customers := &mockCustomerLookup{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Customer, error) {
			if id != 7 {
				t.Errorf("expected customer 7 from the original rows, got %d", id)
			}
			return &domain.Customer{ID: 7, Handle: "janedoe", Email: "jane@example.com"}, nil
		},
	}
	uc := NewConfirmPaymentUseCase(&mockVerifier{ok: true}, placer, lookup, customers, &mockNotifier{sent: make(chan struct{})}, zap.NewNop())

	result, err := uc.Confirm(context.Background(), confirmationRequest())
	if err != nil {
		t.Fatalf("duplicate confirmation must succeed, got %v", err)
	}
	if !result.Duplicate {
		t.Error("expected duplicate flag")
	}
	ids := result.OrderIDs()
	if len(ids) != 2 || ids[0] != 42 || ids[1] != 43 {
		t.Errorf("expected the original order ids, got %v", ids)
	}
	if result.Customer == nil || result.Customer.ID != 7 || result.Customer.Handle != "janedoe" {
		t.Errorf("duplicate response must carry the original customer, got %+v", result.Customer)
	}
	if result.TotalAmount != 1348 {
		t.Errorf("duplicate response must sum the original lines, got %v", result.TotalAmount)
	}
	if customers.calls != 1 {
		t.Errorf("expected one customer lookup, got %d", customers.calls)
	}
}

func TestConfirm_DuplicateCustomerLookupFailureDegrades(t *testing.T) {
	placer := &mockPlacer{
		PlaceOrderFunc: func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
			return nil, apperrors.NewConflictError("payment pay_123 already confirmed")
		},
	}
	lookup := &mockOrderLookup{
		FindFunc: func(ctx context.Context, gatewayOrderID, gatewayPaymentID string) ([]domain.Order, error) {
			return []domain.Order{{ID: 42, CustomerID: 7, AmountPaid: 998}}, nil
		},
	}
	customers := &mockCustomerLookup{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Customer, error) {
			return nil, apperrors.NewNotFoundError("customer 7 not found")
		},
	}
	uc := NewConfirmPaymentUseCase(&mockVerifier{ok: true}, placer, lookup, customers, &mockNotifier{sent: make(chan struct{})}, zap.NewNop())

	// The lines are still the answer; a missing customer row must not
	// turn the no-op success into an error.
	result, err := uc.Confirm(context.Background(), confirmationRequest())
	if err != nil {
		t.Fatalf("duplicate confirmation must succeed, got %v", err)
	}
	if !result.Duplicate || len(result.Lines) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Customer == nil {
		t.Error("customer must not be nil even when the lookup fails")
	}
}

func TestConfirm_PlacementErrorPropagates(t *testing.T) {
	placer := &mockPlacer{
		PlaceOrderFunc: func(ctx context.Context, req dto.CheckoutRequest) (*dto.PlacementResult, error) {
			return nil, apperrors.NewValidationError("validation failed")
		},
	}
	uc := NewConfirmPaymentUseCase(&mockVerifier{ok: true}, placer, &mockOrderLookup{}, &mockCustomerLookup{}, &mockNotifier{sent: make(chan struct{})}, zap.NewNop())

	_, err := uc.Confirm(context.Background(), confirmationRequest())
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

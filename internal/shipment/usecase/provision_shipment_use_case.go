package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"radagast/internal/config"
	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type SessionManager interface {
	GetToken(ctx context.Context) (string, error)
}

type CarrierClient interface {
	CreateOrder(ctx context.Context, token string, req dto.CarrierOrderRequest) (*dto.CarrierOrderResponse, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	SetCarrierRefs(ctx context.Context, id uint, carrierOrderID, shipmentID string, trackingURL *string, carrierStatus string) error
	SetCarrierStatus(ctx context.Context, id uint, carrierStatus string) error
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Customer, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
}

// ProvisionShipmentUseCase creates a carrier shipment order for an
// already-committed local order. Carrier failures never roll the order
// back; they only land in its carrier reference fields.
type ProvisionShipmentUseCase struct {
	orderRepo    OrderRepository
	customerRepo CustomerRepository
	productRepo  ProductRepository
	sessions     SessionManager
	client       CarrierClient
	carrierCfg   config.CarrierConfig
	logger       *zap.Logger
}

func NewProvisionShipmentUseCase(
	orderRepo OrderRepository,
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	sessions SessionManager,
	client CarrierClient,
	carrierCfg config.CarrierConfig,
	logger *zap.Logger,
) *ProvisionShipmentUseCase {
	return &ProvisionShipmentUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		sessions:     sessions,
		client:       client,
		carrierCfg:   carrierCfg,
		logger:       logger,
	}
}

// Provision submits the order to the carrier, trying each configured
// pickup-location candidate in turn. A 400 means the carrier rejected
// the pickup location, so the next candidate is tried; any other failure
// stops the loop immediately. The list is bounded external configuration,
// not a time-based retry policy, and carries no idempotency key.
func (uc *ProvisionShipmentUseCase) Provision(ctx context.Context, orderID uint) (*dto.ProvisionResult, error) {
	logger := uc.logger.With(zap.Uint("orderId", orderID))

	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.FindByID(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.FindByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}

	token, err := uc.sessions.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateShippingAddress(customer); err != nil {
		return nil, err
	}

	var lastErr *apperrors.CarrierError
	for _, pickup := range uc.carrierCfg.PickupLocations {
		payload := uc.buildCarrierRequest(order, customer, product, pickup)

		resp, err := uc.client.CreateOrder(ctx, token, payload)
		if err == nil {
			return uc.recordSuccess(ctx, logger, order.ID, pickup, resp)
		}

		ce, ok := apperrors.IsCarrierError(err)
		if !ok {
			logger.Error("carrier call failed", zap.String("pickupLocation", pickup), zap.Error(err))
			return nil, uc.recordFailure(ctx, logger, order.ID, err.Error(), err)
		}

		if ce.StatusCode == 400 {
			// Pickup location rejected; try the next candidate.
			logger.Warn("pickup location rejected", zap.String("pickupLocation", pickup))
			lastErr = ce
			continue
		}

		logger.Error("carrier rejected shipment order", zap.String("pickupLocation", pickup), zap.Int("statusCode", ce.StatusCode))
		return nil, uc.recordFailure(ctx, logger, order.ID, ce.Message, ce)
	}

	message := "all pickup locations rejected"
	var cause error
	if lastErr != nil {
		message = lastErr.Message
		cause = lastErr
	}
	return nil, uc.recordFailure(ctx, logger, order.ID, message, cause)
}

func (uc *ProvisionShipmentUseCase) recordSuccess(ctx context.Context, logger *zap.Logger, orderID uint, pickup string, resp *dto.CarrierOrderResponse) (*dto.ProvisionResult, error) {
	carrierOrderID := strconv.FormatInt(resp.OrderID, 10)
	shipmentID := strconv.FormatInt(resp.ShipmentID, 10)

	var trackingURL *string
	if resp.TrackingURL != "" {
		trackingURL = &resp.TrackingURL
	}

	if err := uc.orderRepo.SetCarrierRefs(ctx, orderID, carrierOrderID, shipmentID, trackingURL, domain.CarrierStatusCreated); err != nil {
		return nil, err
	}

	logger.Info("shipment provisioned",
		zap.String("carrierOrderId", carrierOrderID),
		zap.String("shipmentId", shipmentID),
		zap.String("pickupLocation", pickup),
	)

	return &dto.ProvisionResult{
		CarrierOrderID: carrierOrderID,
		ShipmentID:     shipmentID,
		TrackingURL:    resp.TrackingURL,
		PickupLocation: pickup,
	}, nil
}

// recordFailure persists the failure marker into the same column the
// success marker uses, then surfaces a ProvisioningError. The marker
// write is best-effort: the original failure is what the caller needs.
func (uc *ProvisionShipmentUseCase) recordFailure(ctx context.Context, logger *zap.Logger, orderID uint, reason string, cause error) error {
	if err := uc.orderRepo.SetCarrierStatus(ctx, orderID, domain.CarrierStatusFailedPrefix+reason); err != nil {
		logger.Error("failed to record provisioning failure", zap.Error(err))
	}

	return apperrors.NewProvisioningError("shipment provisioning failed", cause)
}

func (uc *ProvisionShipmentUseCase) buildCarrierRequest(order *domain.Order, customer *domain.Customer, product *domain.Product, pickup string) dto.CarrierOrderRequest {
	paymentMethod := "COD"
	if order.PaymentStatus == domain.PaymentStatusPaid {
		paymentMethod = "Prepaid"
	}

	country := deref(customer.Country)
	if country == "" {
		country = "India"
	}

	return dto.CarrierOrderRequest{
		OrderID:           strconv.FormatUint(uint64(order.ID), 10),
		OrderDate:         order.OrderDate.Format("2006-01-02 15:04"),
		PickupLocation:    pickup,
		BillingName:       customer.Name,
		BillingAddress:    deref(customer.Address),
		BillingCity:       deref(customer.City),
		BillingPincode:    deref(customer.Pincode),
		BillingState:      deref(customer.State),
		BillingCountry:    country,
		BillingEmail:      customer.Email,
		BillingPhone:      deref(customer.Phone),
		ShippingIsBilling: true,
		OrderItems: []dto.CarrierOrderItem{
			{
				Name:         product.Name,
				SKU:          productSKU(product),
				Units:        order.Quantity,
				SellingPrice: product.OfferPrice,
			},
		},
		PaymentMethod: paymentMethod,
		SubTotal:      order.AmountPaid,
		Length:        dimension(order.Length, uc.carrierCfg.PackageLength),
		Breadth:       dimension(order.Width, uc.carrierCfg.PackageWidth),
		Height:        dimension(order.Height, uc.carrierCfg.PackageHeight),
		Weight:        dimension(order.Weight, uc.carrierCfg.PackageWeight),
	}
}

// dimension prefers the parcel measurement captured at checkout and
// falls back to the configured package default when none was recorded.
func dimension(v *float64, fallback float64) float64 {
	if v != nil && *v > 0 {
		return *v
	}
	return fallback
}

// validateShippingAddress checks the minimum fields the carrier demands
// before any network call is made.
func validateShippingAddress(customer *domain.Customer) error {
	var details []apperrors.ValidationDetail

	if deref(customer.Address) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "address", Message: "shipping address line is required"})
	}
	if deref(customer.City) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "city", Message: "shipping city is required"})
	}
	if deref(customer.State) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "state", Message: "shipping state is required"})
	}
	if deref(customer.Pincode) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "pincode", Message: "shipping pincode is required"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("shipping address incomplete", details...)
	}

	return nil
}

func productSKU(p *domain.Product) string {
	if p.SKU != nil {
		return *p.SKU
	}
	return p.Name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package order

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "radagast/internal/catalog/repository"
	"radagast/internal/config"
	customerrepo "radagast/internal/customer/repository"
	"radagast/internal/order/controller"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/order/service"
	"radagast/internal/order/usecase"
	paymentrepo "radagast/internal/payment/repository"
)

type Module struct {
	Controller *controller.CheckoutController
	UseCase    *usecase.PlaceOrderUseCase
	OrderRepo  *orderrepo.MySQLOrderRepository
}

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Module {
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)
	productRepo := catalogrepo.NewMySQLProductRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	confirmationRepo := paymentrepo.NewMySQLConfirmationRepository(db)

	identitySvc := service.NewIdentityService(customerRepo, productRepo, logger)
	placementSvc := service.NewPlacementService(
		db,
		identitySvc,
		orderRepo,
		confirmationRepo,
		logger,
		cfg.Order.PlacementTxTimeout,
	)

	uc := usecase.NewPlaceOrderUseCase(placementSvc, logger)

	return &Module{
		Controller: controller.NewCheckoutController(uc, logger),
		UseCase:    uc,
		OrderRepo:  orderRepo,
	}
}

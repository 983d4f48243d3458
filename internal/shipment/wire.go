package shipment

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "radagast/internal/catalog/repository"
	"radagast/internal/config"
	customerrepo "radagast/internal/customer/repository"
	"radagast/internal/infrastructure/carrier"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/shipment/controller"
	"radagast/internal/shipment/service"
	"radagast/internal/shipment/usecase"
)

type Module struct {
	Controller  *controller.ShipmentController
	ProvisionUC *usecase.ProvisionShipmentUseCase
	SyncUC      *usecase.SyncStatusUseCase
}

func NewModule(db *sql.DB, client *carrier.Client, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)
	productRepo := catalogrepo.NewMySQLProductRepository(db)

	sessions := service.NewSessionManager(client, logger)

	provisionUC := usecase.NewProvisionShipmentUseCase(
		orderRepo,
		customerRepo,
		productRepo,
		sessions,
		client,
		cfg.Carrier,
		logger,
	)
	syncUC := usecase.NewSyncStatusUseCase(orderRepo, sessions, client, logger)

	return &Module{
		Controller:  controller.NewShipmentController(provisionUC, syncUC, logger),
		ProvisionUC: provisionUC,
		SyncUC:      syncUC,
	}
}

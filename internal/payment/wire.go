package payment

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/config"
	customerrepo "radagast/internal/customer/repository"
	"radagast/internal/notification"
	"radagast/internal/order"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/payment/controller"
	"radagast/internal/payment/service"
	"radagast/internal/payment/usecase"
)

type Module struct {
	Controller *controller.PaymentController
	UseCase    *usecase.ConfirmPaymentUseCase
}

func NewModule(db *sql.DB, orderModule *order.Module, notifier notification.Sender, cfg *config.Config, logger *zap.Logger) *Module {
	verifier := service.NewSignatureVerifier(cfg.Gateway.KeySecret)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)

	uc := usecase.NewConfirmPaymentUseCase(
		verifier,
		orderModule.UseCase,
		orderRepo,
		customerRepo,
		notifier,
		logger,
	)

	return &Module{
		Controller: controller.NewPaymentController(uc, logger),
		UseCase:    uc,
	}
}

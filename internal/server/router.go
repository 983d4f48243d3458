package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	ordercontroller "radagast/internal/order/controller"
	paymentcontroller "radagast/internal/payment/controller"
	shipmentcontroller "radagast/internal/shipment/controller"
)

func NewRouter(
	checkoutCtrl *ordercontroller.CheckoutController,
	paymentCtrl *paymentcontroller.PaymentController,
	shipmentCtrl *shipmentcontroller.ShipmentController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", checkoutCtrl.HandleCheckout)
		r.Post("/payment/confirm", paymentCtrl.HandleConfirm)
		r.Route("/orders/{orderId}", func(r chi.Router) {
			r.Post("/shipment", shipmentCtrl.HandleProvision)
			r.Post("/sync-status", shipmentCtrl.HandleSyncStatus)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

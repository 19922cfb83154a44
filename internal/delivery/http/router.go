package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courierhub/shift-settlement-service/internal/delivery/http/handlers"
)

// NewRouter wires the courier and transaction handlers into a chi mux.
func NewRouter(courier *handlers.CourierHandler, tx *handlers.TransactionHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Courier-ID", "X-Manager-ID"},
		AllowCredentials: false,
	}))

	r.Route("/couriers", func(r chi.Router) {
		r.Post("/open_time_entry", courier.OpenTimeEntry)
		r.Post("/close_time_entry", courier.CloseTimeEntry)
		r.Post("/try_set_daily_garant", courier.TrySetDailyGarant)
		r.Get("/terminal_balance", courier.TerminalBalance)
		r.Post("/manager_withdraw", courier.ManagerWithdraw)
	})

	r.Post("/order_transactions", tx.CreateOrderTransaction)
	r.Post("/orders/calculate_garant", tx.CalculateGarant)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

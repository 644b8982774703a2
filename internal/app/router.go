package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nanoerp/nanoerp/internal/backup"
	"github.com/nanoerp/nanoerp/internal/customers"
	"github.com/nanoerp/nanoerp/internal/expenses"
	"github.com/nanoerp/nanoerp/internal/invoices"
	"github.com/nanoerp/nanoerp/internal/payments"
	"github.com/nanoerp/nanoerp/internal/products"
	"github.com/nanoerp/nanoerp/internal/reports"
	"github.com/nanoerp/nanoerp/internal/settings"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	SettingsHandler  *settings.Handler
	CustomersHandler *customers.Handler
	ProductsHandler  *products.Handler
	ExpensesHandler  *expenses.Handler
	InvoicesHandler  *invoices.Handler
	PaymentsHandler  *payments.Handler
	ReportsHandler   *reports.Handler
	BackupHandler    *backup.Handler
}

// NewRouter constructs the chi.Router with application defaults. All module
// routes mount under /api/v1.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.SettingsHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.ProductsHandler.MountRoutes(r)
		params.ExpensesHandler.MountRoutes(r)
		params.InvoicesHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
		if params.BackupHandler != nil {
			params.BackupHandler.MountRoutes(r)
		}
	})

	return r
}

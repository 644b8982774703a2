package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nanoerp/nanoerp/internal/app"
	"github.com/nanoerp/nanoerp/internal/backup"
	"github.com/nanoerp/nanoerp/internal/customers"
	"github.com/nanoerp/nanoerp/internal/expenses"
	"github.com/nanoerp/nanoerp/internal/invoices"
	"github.com/nanoerp/nanoerp/internal/payments"
	"github.com/nanoerp/nanoerp/internal/platform/db"
	"github.com/nanoerp/nanoerp/internal/products"
	"github.com/nanoerp/nanoerp/internal/reports"
	"github.com/nanoerp/nanoerp/internal/settings"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	conn, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("open database", slog.String("path", cfg.DBPath), slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.Bootstrap(ctx, conn); err != nil {
		logger.Error("bootstrap schema", slog.Any("error", err))
		os.Exit(1)
	}

	settingsStore := settings.NewStore(conn)
	stockAdjuster := products.NewStockAdjuster()

	customersService := customers.NewService(customers.NewRepository(conn))
	productsService := products.NewService(products.NewRepository(conn), cfg.LowStockThreshold)
	expensesService := expenses.NewService(expenses.NewRepository(conn))
	invoicesService := invoices.NewService(invoices.NewRepository(conn, stockAdjuster), settingsStore)
	paymentsService := payments.NewService(payments.NewRepository(conn), settingsStore)
	reportsService := reports.NewService(conn, settingsStore, cfg.LowStockThreshold)
	backupService := backup.NewService(conn, cfg.DBPath, cfg.BackupDir)

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,

		SettingsHandler:  settings.NewHandler(logger, settingsStore),
		CustomersHandler: customers.NewHandler(logger, customersService),
		ProductsHandler:  products.NewHandler(logger, productsService),
		ExpensesHandler:  expenses.NewHandler(logger, expensesService),
		InvoicesHandler:  invoices.NewHandler(logger, invoicesService),
		PaymentsHandler:  payments.NewHandler(logger, paymentsService),
		ReportsHandler:   reports.NewHandler(logger, reportsService),
		BackupHandler:    backup.NewHandler(logger, backupService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

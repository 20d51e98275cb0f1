package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mealorders/internal/blob"
	"mealorders/internal/config"
	"mealorders/internal/database"
	"mealorders/internal/handler"
	"mealorders/internal/repository"
	"mealorders/internal/service"
	"mealorders/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	gw := database.NewGateway(db)

	uploader := blob.NewUploader(cfg.Blob)
	if !cfg.Blob.Complete() {
		slog.Warn("blob storage configuration incomplete, uploads degrade to local placeholders",
			"missing", cfg.Blob.Missing())
	}

	// Repositories and services
	orderRepo := repository.NewOrderRepository(gw)
	uploadPool := worker.NewUploadPool(cfg.UploadWorkers, uploader, orderRepo)
	orderSvc := service.NewOrderService(orderRepo, uploadPool)
	lookupSvc := service.NewLookupService(gw)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthHandler())

		r.Post("/orders", handler.CreateOrderHandler(orderSvc))
		r.Post("/orders/{id}/attestation", handler.SubmitAttestationHandler(orderSvc))
		r.Get("/orders/pending-attestation", handler.PendingAttestationHandler(orderSvc))
		r.Get("/orders/latest", handler.LatestOrdersHandler(orderSvc))

		r.Get("/suppliers", handler.SuppliersHandler(lookupSvc))
		r.Get("/org-chart", handler.OrgChartHandler(lookupSvc))
		r.Get("/employees", handler.EmployeesHandler(lookupSvc))
		r.Get("/card-accounts", handler.CardAccountsHandler(lookupSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	uploadPool.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop upload workers
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}

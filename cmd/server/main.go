package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"

	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger/api"
	"github.com/BetoIII/atlas-lease-extractor/pkg/leaseledger/config"
)

func main() {
	_ = godotenv.Load()

	serverConfig, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, repo, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	// Idempotent schema creation at process start.
	if err := repo.CreateTables(ctx); err != nil {
		slog.Error("Failed to create tables", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if serverConfig.DatabaseType == "postgres" {
			if err := config.PingPostgres(serverConfig.DatabaseURL); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	ledgerHandler := api.NewLedgerHandler(svc)
	r.Mount("/api/v1", ledgerHandler.Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Lease ledger server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infinite-experiment/flightboard/internal/api"
	"infinite-experiment/flightboard/internal/config"
	"infinite-experiment/flightboard/internal/jobs"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/metrics"
	"infinite-experiment/flightboard/internal/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Flight Board API
// @version 1.0
// @description Departures and arrivals boards over the flight operations service, with admin writes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.App.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Flight board starting up",
		"environment", cfg.App.Env,
		"flightops_base_url", cfg.FlightOps.BaseURL,
		"cache_backend", cfg.Cache.Backend,
		"audit_driver", cfg.Audit.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial load; the board serves an empty snapshot until one succeeds
	if _, err := deps.Services.Store.Load(ctx); err != nil {
		logging.Warn("Initial load failed, serving empty snapshot", "error", err.Error())
	}

	if jobs.InitializeJobs(ctx, cfg.Board.RefreshInterval, deps.Services.Store, deps.Services.Board) != nil {
		logging.Info("Store refresh scheduled", "interval", cfg.Board.RefreshInterval.String())
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTP.Port, "environment", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}

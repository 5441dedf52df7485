package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "storefront-library/internal/api/grpc"
	httpapi "storefront-library/internal/api/http"
	"storefront-library/internal/catalog"
	"storefront-library/internal/config"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
	"storefront-library/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting game library server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Catalog configuration", "base_url", cfg.Catalog.BaseURL, "timeout", cfg.GetCatalogTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// gRPC health comes up first so probes see NOT_SERVING while storage opens
	var healthSrv *grpcapi.HealthServer
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		healthSrv = grpcapi.NewHealthServer()
		go func() {
			if err := healthSrv.Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	// Initialize storage
	docs, err := repository.OpenDocumentStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "driver", cfg.Storage.Driver)
		log.Fatalf("Failed to open storage: %v", err)
	}
	store := repository.NewStore(docs, cfg.Storage.WriteRetries)
	defer store.Close()
	logger.Info("Storage ready", "driver", cfg.Storage.Driver)

	// Initialize Email Service
	mailer, err := service.NewMailer(cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	emailSvc := service.NewEmailService(mailer)

	// Initialize Services
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.GetCatalogTimeout())
	librarySvc := service.NewLibraryService(store.Owned, store.Favorites, nil)
	lendingSvc := service.NewLendingService(
		store.Lent,
		librarySvc,
		emailSvc,
		service.LendingLimits{
			MaxDurationDays: cfg.Lending.MaxDurationDays,
			MaxTotalDays:    cfg.Lending.MaxTotalDays,
		},
		nil,
	)
	sharingSvc := service.NewSharingService(store.Shared, store, librarySvc, nil)
	placing, processing := cfg.GetCheckoutDelays()
	checkoutSvc := service.NewCheckoutService(catalogClient, librarySvc, placing, processing, nil)

	// Initialize HTTP handlers
	handler := httpapi.NewHandler(catalogClient, librarySvc, lendingSvc, sharingSvc, checkoutSvc, httpapi.Options{
		PageSize: cfg.Catalog.DefaultPageSize,
		LendDays: cfg.Lending.DefaultDurationDays,
	})
	httpSrv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()
	if healthSrv != nil {
		healthSrv.MarkServing()
	}

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down server...")
	if healthSrv != nil {
		healthSrv.MarkNotServing()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if healthSrv != nil {
		healthSrv.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/atlasvoyages/quotation-api/internal/config"
	"github.com/atlasvoyages/quotation-api/internal/database"
	"github.com/atlasvoyages/quotation-api/internal/http/handler"
	"github.com/atlasvoyages/quotation-api/internal/http/middleware"
	"github.com/atlasvoyages/quotation-api/internal/http/router"
	"github.com/atlasvoyages/quotation-api/internal/jobs"
	"github.com/atlasvoyages/quotation-api/internal/logger"
	"github.com/atlasvoyages/quotation-api/internal/repository"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// In development the schema is kept in sync directly; deployed
	// environments run the goose migrations via cmd/migrate instead.
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	// Initialize repositories
	inquiryRepo := repository.NewInquiryRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	rateRepo := repository.NewCatalogRateRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	// Initialize services
	inquiryService := service.NewInquiryService(inquiryRepo, quotationRepo, sequenceRepo, log)
	quotationService := service.NewQuotationService(
		quotationRepo,
		inquiryRepo,
		itineraryRepo,
		log,
		cfg.Quotation.DefaultCurrency,
		cfg.Quotation.ValidityDays,
	)
	itineraryService := service.NewItineraryService(quotationRepo, itineraryRepo, rateRepo, log)
	catalogService := service.NewCatalogService(rateRepo, log)

	// Initialize middleware and handlers
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	inquiryHandler := handler.NewInquiryHandler(inquiryService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	itineraryHandler := handler.NewItineraryHandler(itineraryService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		inquiryHandler,
		quotationHandler,
		itineraryHandler,
		catalogHandler,
	)

	// Start the expiry sweep so sent quotations past their validity
	// window roll over to expired without manual intervention
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ExpirySweepEnabled {
		scheduler = jobs.NewScheduler(log)
		expiryJob := jobs.NewExpiryJob(quotationService, log, jobs.DefaultExpiryTimeout)
		if err := scheduler.AddJob(jobs.ExpiryJobName, cfg.Jobs.ExpirySweepCron, expiryJob.Run); err != nil {
			log.Error("Failed to register expiry sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with expiry sweep job",
				zap.String("cron_expr", cfg.Jobs.ExpirySweepCron),
			)
		}
	} else {
		log.Info("Expiry sweep disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

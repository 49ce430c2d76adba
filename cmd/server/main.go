package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
	"github.com/dockervision/ulip-vehicle-management/internal/infrastructure/config"
	"github.com/dockervision/ulip-vehicle-management/internal/infrastructure/persistence"
	"github.com/dockervision/ulip-vehicle-management/internal/infrastructure/ulip"
	"github.com/dockervision/ulip-vehicle-management/internal/interface/httpapi"
	bookingRepo "github.com/dockervision/ulip-vehicle-management/internal/interface/repository"
	"github.com/dockervision/ulip-vehicle-management/internal/usecase"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
	"github.com/dockervision/ulip-vehicle-management/pkg/metrics"
	"github.com/dockervision/ulip-vehicle-management/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting ULIP Vehicle Booking Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.ULIPUsername == "" || cfg.ULIPPassword == "" {
		log.Warn("ULIP credentials not configured; provider calls will fail auth")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Booking seed source: MongoDB when configured, built-in fixtures otherwise
	var mongoClient *mongo.Client
	var seedSource repository.BookingSeedSource
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		seedSource = bookingRepo.NewMongoBookingSeedRepository(db)
	} else {
		log.Info("No MongoDB DSN configured, using fixture bookings")
		seedSource = bookingRepo.NewFixtureBookingSeedRepository()
	}

	// Port location reference: Postgres when configured, IST fallback otherwise
	var locationRepository repository.LocationRepository
	if cfg.PostgresDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		locationRepository = bookingRepo.NewGormLocationRepository(gormDB)
	} else {
		locationRepository = bookingRepo.NewStaticLocationRepository()
	}

	// Seed the in-memory registry. Mutated state lives only in memory and is
	// rebuilt from the seed source on every start.
	registry := bookingRepo.NewMemoryBookingRepository(log)
	records, err := seedSource.LoadBookings(ctx)
	if err != nil {
		log.Fatal("Failed to load booking seed", "error", err)
	}
	registry.Seed(records)

	// Wire the tracking pipeline
	trailExtractor := utils.NewTrailExtractor(locationRepository, log)
	providerClient := ulip.NewClient(cfg.ULIPBaseURL, cfg.ULIPUsername, cfg.ULIPPassword, log)
	appMetrics := metrics.NewMetrics("ulip_vbs")
	processor := usecase.NewTrackingProcessor(registry, providerClient, trailExtractor, appMetrics, log)

	// Optional background reconciliation of all pending bookings
	if cfg.TrackingPollInterval > 0 {
		go func() {
			pollTicker := time.NewTicker(cfg.TrackingPollInterval)
			defer pollTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("Background reconciler stopped")
					return
				case <-pollTicker.C:
					log.Info("Reconciling pending bookings")
					if err := processor.ReconcilePending(ctx); err != nil {
						log.Error("Error reconciling pending bookings", "error", err)
					}
				}
			}
		}()
	}

	// Set up HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(processor, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("ULIP Vehicle Booking Service stopped")
}

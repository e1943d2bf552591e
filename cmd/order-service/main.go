package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/client"
	"github.com/bloomlane/bloom-order-service/internal/config"
	"github.com/bloomlane/bloom-order-service/internal/delivery/httpapi"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/logger"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/metrics"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/migrate"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/notifier"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/postgres"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/postgres/repository"
	stripegw "github.com/bloomlane/bloom-order-service/internal/infrastructure/stripe"
	"github.com/bloomlane/bloom-order-service/internal/usecase/checkout"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.OrderDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init order repo
	orderRepo := repository.NewDefaultOrderRepository(db)
	// Init webhook/checkout event logger
	eventLogger := logger.NewPGOrderEventLogger(db)

	// Init account directory client
	accounts, err := client.NewHTTPAccountClient(fmt.Sprintf("http://%s:%s", cfg.AccountService.Host, cfg.AccountService.Port))
	if err != nil {
		log.Fatalf("failed to init account client: %v", err)
	}

	// Init payment gateway
	gateway := stripegw.NewGateway(cfg.Stripe)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)
	defer pub.Close()

	// Init order notifier
	orderNotifier := notifier.New(cfg.Notifier.URL)

	orderMetrics := metrics.NewOrderMetrics()

	uc := checkout.NewDefaultCheckoutUsecase(
		orderRepo,
		gateway,
		accounts,
		eventLogger,
		pub,
		orderNotifier,
		orderMetrics,
		cfg.Maintenance.StalePendingTTL,
	)

	router := httpapi.NewRouter(uc, cfg.Auth.JWTSecret)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Периодический запуск ReconcileStalePending
	go func() {
		ticker := time.NewTicker(cfg.Maintenance.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := uc.ReconcileStalePending(ctx); err != nil {
					log.Printf("stale pending sweep error: %v", err)
				}
			}
		}
	}()

	go func() {
		log.Printf("HTTP server started on %s:%s\n", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v\n", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

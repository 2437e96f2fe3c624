package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-merch-store/internal/auth"
	"campus-merch-store/internal/client"
	"campus-merch-store/internal/config"
	"campus-merch-store/internal/logger"
	"campus-merch-store/internal/repository"
	"campus-merch-store/internal/server"
	"campus-merch-store/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	if cfg.Database.Seed {
		if err := repository.Seed(context.Background(), db); err != nil {
			log.Fatal("seed demo catalog", zap.Error(err))
		}
	}

	rdb, err := client.InitRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	store, err := client.NewLocalObjectStore(&cfg.Storage)
	if err != nil {
		log.Fatal("init object store", zap.Error(err))
	}

	events := client.NewOrderEventPublisher(&cfg.Kafka)
	defer events.Close()

	categoryRepo := repository.NewCategoryRepository(db)
	shopRepo := repository.NewShopRepository(db)
	merchRepo := repository.NewCachedMerchandiseRepository(
		repository.NewMerchandiseRepository(db), rdb, cfg.Redis.CatalogTTL, log,
	)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)

	actors := auth.ContextResolver{}
	services := server.Services{
		Catalog: service.NewCatalogService(categoryRepo, shopRepo, merchRepo),
		Cart:    service.NewCartService(actors, cartRepo, merchRepo, log),
		Order: service.NewOrderService(
			actors,
			merchRepo,
			cartRepo,
			orderRepo,
			store,
			events,
			service.NewProofProcessor(&cfg.Storage),
			cfg.Order.BatchWorkers,
			log,
		),
		Profile: service.NewProfileService(actors, profileRepo, membershipRepo, collegeRepo, shopRepo, log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Order.ReconcileInterval > 0 {
		reconciler := service.NewReconciler(orderRepo, cfg.Order.ReconcileGrace, log)
		go reconciler.Run(ctx, cfg.Order.ReconcileInterval)
	}

	tokens := auth.NewTokenParser(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	srv := server.NewServer(cfg, log, tokens, services)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

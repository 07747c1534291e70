package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinichq/clinic-backend/internal/api"
	"github.com/clinichq/clinic-backend/internal/infrastructure/config"
	mongorepo "github.com/clinichq/clinic-backend/internal/infrastructure/db/mongo"
	redisinfra "github.com/clinichq/clinic-backend/internal/infrastructure/db/redis"
	"github.com/clinichq/clinic-backend/internal/infrastructure/gateway"
	"github.com/clinichq/clinic-backend/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// @title        Clinic Backend API
// @version      1.0
// @description  Appointment booking, payment verification and back-office API.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Missing .env is fine; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Config{
		Level:   cfg.LogLevel,
		Service: "clinic-backend",
		Pretty:  cfg.IsDev(),
	})
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("starting clinic backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := disconnect(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rzp := gateway.NewRazorpayGateway(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.Timeout,
		logger.Component("razorpay"),
	)

	e := api.NewRouter(cfg, db, rdb, rzp)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongorepo.NewAppointmentRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongorepo.NewAdminRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongorepo.NewContactRepository(db).EnsureIndexes(ctx)
}

// @title                       FinanzApp API
// @version                     1.0
// @description                 Personal finance backend: accounts, session, income and expense ledger, badges.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	_ "github.com/finanzapp/finance-api/docs"
	"github.com/finanzapp/finance-api/internal/api"
	"github.com/finanzapp/finance-api/internal/api/handler"
	"github.com/finanzapp/finance-api/internal/config"
	"github.com/finanzapp/finance-api/internal/core/ports"
	"github.com/finanzapp/finance-api/internal/core/service"
	mongodb "github.com/finanzapp/finance-api/internal/infrastructure/db/mongo"
	redisdb "github.com/finanzapp/finance-api/internal/infrastructure/db/redis"
	"github.com/finanzapp/finance-api/internal/infrastructure/logsink"
	"github.com/finanzapp/finance-api/internal/infrastructure/memory"
	"github.com/finanzapp/finance-api/internal/infrastructure/queue"
	"github.com/finanzapp/finance-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("startup failed")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty || cfg.IsDevelopment(),
		Service: "finance-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := make(map[string]handler.HealthCheck)

	// --- Audit trail ---
	var store ports.ActivityStore = logsink.NewActivityStore(log)
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		repo := mongodb.NewActivityRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		store = repo
		checks["mongodb"] = mongodb.HealthCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("activity audit trail enabled")
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, store, log)

	// --- Idempotency keys ---
	var idem ports.IdempotencyStore = memory.NewIdempotencyStore(cfg.Ledger.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}()

		idem = redisdb.NewIdempotencyStore(rdb, cfg.Ledger.IdempotencyTTL)
		checks["redis"] = redisdb.HealthCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("shared idempotency store enabled")
	}

	// --- Application state ---
	directory := service.NewDirectory(dispatcher, log)
	ledger := service.NewLedger(dispatcher, log)
	if cfg.Ledger.SeedDemo {
		ledger.Seed()
		log.Info().Int("transactions", ledger.Len()).Msg("ledger seeded with demo data")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral signing key")
	}

	e := api.NewRouter(api.Dependencies{
		Directory:    directory,
		Ledger:       ledger,
		Tokens:       service.NewTokenService(secret, cfg.Auth.TokenTTL),
		Idempotency:  idem,
		HealthChecks: checks,
		Log:          log,
	})

	// Workers outlive the HTTP server so records emitted by in-flight
	// requests are still drained.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return e.Shutdown(sctx)
	})

	err := g.Wait()
	stopWorkers()
	dispatcher.Wait()
	return err
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

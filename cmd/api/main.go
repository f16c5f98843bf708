package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kpmroadlines/lr-console/internal/api"
	"github.com/kpmroadlines/lr-console/internal/api/metrics"
	"github.com/kpmroadlines/lr-console/internal/core/service"
	"github.com/kpmroadlines/lr-console/internal/core/session"
	"github.com/kpmroadlines/lr-console/internal/infrastructure/authprovider"
	mongodb "github.com/kpmroadlines/lr-console/internal/infrastructure/db/mongo"
	redisdb "github.com/kpmroadlines/lr-console/internal/infrastructure/db/redis"
	"github.com/kpmroadlines/lr-console/internal/infrastructure/gateway"
	"github.com/kpmroadlines/lr-console/internal/infrastructure/queue"
	"github.com/kpmroadlines/lr-console/internal/pkg/config"
	"github.com/kpmroadlines/lr-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	activity := redisdb.NewActivityStore(rdb, cfg.Session.IdleTimeout)
	tokens := redisdb.NewTokenStore(rdb)

	// The sweep must run before the auth provider exists: its background
	// refresher would otherwise revive a token whose session already idled out.
	swept, err := service.SweepStaleToken(ctx, tokens, activity, cfg.Session.IdleTimeout, nil)
	if err != nil {
		log.Warn().Err(err).Msg("stale token sweep failed")
	} else if swept {
		log.Info().Msg("stale session token swept before startup")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	gw := gateway.NewRetrier(
		mongodb.NewGateway(db),
		cfg.Gateway.Timeout,
		cfg.Gateway.Retries,
		cfg.Gateway.Backoff,
		log,
	)

	identities := mongodb.NewIdentityRepository(gw)
	bookings := mongodb.NewBookingRepository(gw)
	transporters := mongodb.NewTransporterRepository(gw)
	branches := mongodb.NewBranchRepository(gw)

	provider := authprovider.New(identities, tokens, cfg.JWTSecret, cfg.Session.TokenTTL, log)
	provider.StartAutoRefresh()
	defer provider.Close()

	store := session.NewStore()
	controller := service.NewSessionController(provider, identities, activity, store, cfg.Session.RestoreDeadline, log)
	controller.Start()
	defer controller.Stop()

	monitor := service.NewIdleMonitor(
		cfg.Session.IdleTimeout,
		cfg.Session.ActivityThrottle,
		activity,
		func(expireCtx context.Context) {
			controller.Logout(expireCtx)
			metrics.IdleLogoutsTotal.Inc()
		},
		log,
	)
	defer monitor.Stop()

	// A sign-out observed on the provider event stream ends the session
	// without passing through the HTTP logout handler; disarm the timer too.
	controller.OnSessionEnded(monitor.Stop)

	if ident := controller.RestoreSession(ctx); ident != nil {
		metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
		monitor.Start(ctx)
		log.Info().Str("identity", ident.ID).Str("handle", ident.Handle).Msg("session restored")
	} else {
		metrics.SessionRestoresTotal.WithLabelValues("logged_out").Inc()
	}

	runner := queue.NewAssigner(0, log)
	settlement := service.NewSettlementService(bookings, transporters, branches, runner, log)
	bookingSvc := service.NewBookingService(bookings, branches, log)
	masters := service.NewMasterDataService(transporters, branches, log)

	e := api.NewRouter(api.Deps{
		DB:         db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Sessions:   controller,
		Snapshot:   store,
		Monitor:    monitor,
		Settlement: settlement,
		Bookings:   bookingSvc,
		Masters:    masters,
		Logger:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securebase/auth-service/internal/api"
	"github.com/securebase/auth-service/internal/infrastructure/bootstrap"
	mongodb "github.com/securebase/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/securebase/auth-service/internal/infrastructure/db/redis"
	"github.com/securebase/auth-service/internal/pkg/config"
	"github.com/securebase/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; config failures go straight to stderr.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	roles := mongodb.NewRoleRepository(db)

	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	// All three roles must resolve before the server accepts traffic.
	if err := bootstrap.EnsureRoles(ctx, roles, log); err != nil {
		log.Fatal().Err(err).Msg("role integrity check failed")
	}

	if cfg.Env == "development" {
		if err := bootstrap.SeedDevUsers(ctx, users, roles, log); err != nil {
			log.Fatal().Err(err).Msg("dev user seeding failed")
		}
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

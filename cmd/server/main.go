package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mentorny/user-api/internal/api"
	"github.com/mentorny/user-api/internal/core/service"
	"github.com/mentorny/user-api/internal/infrastructure/config"
	mongodb "github.com/mentorny/user-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mentorny/user-api/internal/infrastructure/db/redis"
	"github.com/mentorny/user-api/internal/infrastructure/queue"
	"github.com/mentorny/user-api/internal/pkg/hash"
	"github.com/mentorny/user-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	// --- Audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(db)
	auditDedup := redisdb.NewAuditDedupChecker(rdb)
	auditService := service.NewAuditService(auditRepo, auditDedup, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- First-admin bootstrap ---
	if cfg.Seed.Email != "" && cfg.Seed.Password != "" {
		skillRepo := mongodb.NewSkillRepository(db)
		hasher := hash.NewBcrypt(cfg.BcryptCost)
		userService := service.NewUserService(userRepo, skillRepo, hasher, dispatcher, log)
		if _, err := userService.BootstrapSuperAdmin(ctx, cfg.Seed.Email, cfg.Seed.Password, cfg.Seed.Name, cfg.Seed.Age); err != nil {
			log.Fatal().Err(err).Msg("super admin bootstrap failed")
		}
	}

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, cfg, dispatcher, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

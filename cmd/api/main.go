package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-care-backend/internal/adapters/auth/jwtauth"
	"pet-care-backend/internal/adapters/cache/redistrend"
	"pet-care-backend/internal/adapters/messaging/natsbus"
	pg "pet-care-backend/internal/adapters/storage/postgres"
	"pet-care-backend/internal/config"
	"pet-care-backend/internal/domain/habits"
	"pet-care-backend/internal/platform/logger"
	"pet-care-backend/internal/ports/events"
	"pet-care-backend/internal/router"
	"pet-care-backend/internal/scheduler"

	"go.uber.org/zap"
)

// @title Pet Care API
// @version 1.0
// @description Salud, hábitos diarios, recordatorios y comunidad para dueños de mascotas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		App:    cfg.Log.App,
	}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Location()

	// Postgres si hay DSN; si no, repos in-memory.
	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = pg.Open(cfg.Database.DSN)
		if err != nil {
			baseLogger.Fatal("failed to open database", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = pg.CreateSchema(schemaCtx, db)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to create schema", zap.Error(err))
		}
		baseLogger.Info("postgres storage enabled")
	} else {
		baseLogger.Warn("DB_DSN missing, using in-memory storage")
	}

	var publisher events.Publisher = events.Nop()
	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(cfg.NATS.URL, cfg.Log.App, logger.Named(baseLogger, "nats"))
		if err != nil {
			baseLogger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer func() {
			if err := bus.Close(); err != nil {
				baseLogger.Error("failed to drain nats connection", zap.Error(err))
			}
		}()
		publisher = bus
		baseLogger.Info("nats event publishing enabled")
	} else {
		baseLogger.Warn("NATS_URL missing, domain events disabled")
	}

	var trendCache habits.TrendCache
	if cfg.Redis.Addr != "" {
		client, err := redistrend.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			baseLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		trendCache = redistrend.New(client, cfg.Redis.TrendTTL)
		baseLogger.Info("redis trend cache enabled")
	}

	tokens := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handler, services := router.Build(router.Options{
		AuthVerifier: tokens,
		Tokens:       tokens,
		DB:           db,
		Logger:       baseLogger,
		Publisher:    publisher,
		TrendCache:   trendCache,
		Location:     loc,
	})

	var sched *scheduler.Scheduler
	if cfg.Reminders.Enabled {
		sched = scheduler.NewScheduler(scheduler.Options{
			Spec:     cfg.Reminders.Cron,
			Location: loc,
		}, services.Reminders, services.Pets, publisher, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
}

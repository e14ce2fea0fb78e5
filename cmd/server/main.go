// Command server runs the mindwell HTTP API.
//
// Configuration comes from the environment (optionally seeded from a .env
// file); see internal/config for the recognised variables.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tbourn/mindwell-api/internal/config"
	"github.com/tbourn/mindwell-api/internal/directory"
	httpapi "github.com/tbourn/mindwell-api/internal/http"
	"github.com/tbourn/mindwell-api/internal/observability"
	"github.com/tbourn/mindwell-api/internal/repo"
	"github.com/tbourn/mindwell-api/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title           MindWell API
// @version         1.0
// @description     Anonymous mood logging, WhatsApp message ingestion and resource utilization tracking.
// @BasePath        /api
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB.Driver, sysutil.DatabaseDSN(cfg.DB))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if !sysutil.EnvFlag("SKIP_AUTOMIGRATE") {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("automigrate")
		}
	}

	// Directory utilization backends. Redis holds the counters and its errors
	// fail the request; the AMQP feed is best effort.
	var backends []directory.Manager
	var rdb *redis.Client
	if rdb = config.NewRedisClient(cfg.Redis); rdb != nil {
		backends = append(backends, directory.NewRedisManager(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else if cfg.Redis.Addr != "" {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unreachable; using in-process rate limiting")
	}
	var pub *directory.AMQPPublisher
	if cfg.AMQP.URL != "" {
		if pub, err = directory.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue); err != nil {
			log.Warn().Err(err).Msg("amqp unavailable; utilization events will not be published")
		} else {
			backends = append(backends, directory.BestEffort("amqp", pub))
		}
	}
	manager := directory.Compose(backends...)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	if rdb != nil {
		httpapi.RegisterRoutes(r, db, manager, rdb, cfg)
	} else {
		httpapi.RegisterRoutes(r, db, manager, nil, cfg)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Str("db", cfg.DB.Driver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if pub != nil {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("amqp close")
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
}

// setupLogging sets the global level and routes logs to stdout (pretty in
// development) and, when configured, a rotating file.
func setupLogging(cfg config.Config) {
	lvl := sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}
	if cfg.LogFile.Path != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile.Path,
			MaxSize:    cfg.LogFile.MaxSizeMB,
			MaxBackups: cfg.LogFile.MaxBackups,
			MaxAge:     cfg.LogFile.MaxAgeDays,
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("service", cfg.OTEL.ServiceName).Logger()
	log.Debug().Stringer("level", lvl).Msg("logging configured")
}

package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/theater-billing/internal/config"
	"github.com/iliyamo/theater-billing/internal/database"
	"github.com/iliyamo/theater-billing/internal/handler"
	"github.com/iliyamo/theater-billing/internal/logging"
	"github.com/iliyamo/theater-billing/internal/middleware"
	"github.com/iliyamo/theater-billing/internal/queue"
	"github.com/iliyamo/theater-billing/internal/repository"
	"github.com/iliyamo/theater-billing/internal/router"
	"github.com/iliyamo/theater-billing/internal/service"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("catalog database unavailable")
	}
	defer db.Close()

	plays := repository.NewPlayRepo(db)
	if err := plays.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("catalog schema")
	}

	rdb := config.NewRedisClient(log)
	cacheCfg := config.LoadCacheConfig()

	var events handler.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewQueuePublisher(cfg.AMQPURL, log)
		consumer := &queue.Consumer{URL: cfg.AMQPURL, LogDir: "logs", Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("statement consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(log))

	router.RegisterRoutes(e)
	router.RegisterPlays(e, &handler.PlayHandler{
		Store: plays,
		Log:   log,
		OnChange: func(ctx context.Context) error {
			return middleware.PurgeCache(ctx, rdb, cacheCfg.Prefix)
		},
	}, cfg.JWTSecret, middleware.NewRedisCache(cacheCfg, rdb, log))
	router.RegisterStatements(e,
		handler.NewStatementHandler(plays, events, log),
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

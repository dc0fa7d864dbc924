package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/database"
	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/logger"
	"github.com/iliyamo/event-hotel-booking/internal/metrics"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
	"github.com/iliyamo/event-hotel-booking/internal/router"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(db.DB); err != nil {
			return err
		}
		log.Info("database migrations applied")
	}

	rdb := config.NewRedisClient()
	var locker service.RoomLocker
	if rdb != nil {
		defer rdb.Close()
		locker = repository.NewRoomLockRepo(rdb, cfg.Lock.TTL, cfg.Lock.Retries, cfg.Lock.RetryDelay)
		log.Info("redis connected: distributed room locks and rate limiting enabled")
	} else {
		log.Warn("redis unavailable: using in-process room locks, rate limiting disabled")
	}

	var publisher service.EventPublisher
	if cfg.Events.Enabled {
		publisher = service.NewAMQPPublisher(cfg.Events.RabbitMQURL)
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.Events.RabbitMQURL, cfg.Events.LogDir, log.Named("booking-consumer")); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer exited", zap.Error(err))
			}
		}()
	}

	m := metrics.New()

	bookings := repository.NewBookingRepo(db)
	svc := service.NewBookingService(
		bookings,
		service.NewRoomAvailability(repository.NewRoomRepo(db), bookings),
		service.NewEligibilityValidator(repository.NewTicketRepo(db)),
		locker,
		publisher,
		log.Named("booking"),
		m,
	)

	e := router.New(router.Deps{
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		Booking:   handler.NewBookingHandler(svc),
		DB:        db,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

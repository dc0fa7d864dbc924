// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/metrics"
	"github.com/iliyamo/event-hotel-booking/internal/middleware"
)

// Deps is everything the routes need.  DB, Redis, Metrics and Gatherer may
// be nil; the matching feature is then skipped.
type Deps struct {
	Log       *zap.Logger
	JWTSecret string
	Booking   *handler.BookingHandler
	DB        handler.Pinger
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// New builds the echo instance with the global middleware chain, the
// validator and error handler installed.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(d.Log)

	// Recover sits inside the logger and metrics so a panic is counted and
	// logged as a 500 like any other failure.
	e.Use(echomw.RequestID())
	e.Use(middleware.Metrics(d.Metrics))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			d.Log.Error("panic recovered",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
				zap.ByteString("stack", stack),
			)
			return err
		},
	}))

	RegisterRoutes(e, d)
	RegisterBooking(e, d)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterBooking mounts /booking behind JWTAuth and the rate limiter.  The
// limiter runs after JWTAuth so it can key on the user.
func RegisterBooking(e *echo.Echo, d Deps) {
	if d.Booking == nil {
		return
	}
	g := e.Group("/booking")
	g.Use(middleware.JWTAuth(d.JWTSecret))
	g.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))

	g.GET("", d.Booking.GetBooking)
	g.POST("", d.Booking.CreateBooking)
	g.PUT("/:bookingId", d.Booking.UpdateBooking)
}

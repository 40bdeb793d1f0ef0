package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/coderr/marketplace/internal/api"
	"github.com/coderr/marketplace/internal/infrastructure/http/handlers"
)

// Options carries what the router needs besides the API services.
type Options struct {
	Log zerolog.Logger
	// Dependencies are pinged by the readiness check, keyed by name.
	Dependencies map[string]handlers.Pinger
	// Metrics exposes GET /metrics and instruments every request.
	Metrics bool
	// Swagger serves the API documentation under /swagger.
	Swagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps api.Dependencies, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(opts.Log))
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware("coderr"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(opts.Dependencies)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	if opts.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api.Register(e, deps)
	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"qurainbot/internal/interfaces/api/handler"
	"qurainbot/internal/pkg/logger"
)

// Config holds the dependencies for the router.
type Config struct {
	WebhookHandler  *handler.WebhookHandler
	DispatchHandler *handler.DispatchHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.With("request_id", v.RequestID).Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s",
				v.Method, v.URI, v.Status, v.Latency,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       300,
	}))

	e.GET("/", handler.Health)

	e.POST("/webhook", cfg.WebhookHandler.HandleWebhook)

	// The dispatcher is triggered by an external scheduler hitting either path.
	for _, path := range []string{"/send_reminders", "/run-reminders"} {
		e.GET(path, cfg.DispatchHandler.RunReminders)
		e.POST(path, cfg.DispatchHandler.RunReminders)
	}

	cfg.Logger.Info("Router initialized with routes.")
	return e
}

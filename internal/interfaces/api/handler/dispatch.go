package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"qurainbot/internal/application/service"
	"qurainbot/internal/pkg/logger"
)

// DispatchHandler exposes the due-reminder run to an external trigger.
type DispatchHandler struct {
	dispatcher service.DispatcherService
	log        logger.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(dispatcher service.DispatcherService, log logger.Logger) *DispatchHandler {
	return &DispatchHandler{dispatcher: dispatcher, log: log}
}

// RunReminders performs one dispatcher run and reports its result.
func (h *DispatchHandler) RunReminders(c echo.Context) error {
	result := h.dispatcher.RunOnce(c.Request().Context())
	h.log.Info(fmt.Sprintf("Dispatch triggered over HTTP: status=%s sent=%d errors=%d",
		result.Status, result.SentCount, len(result.Errors)))
	return c.JSON(http.StatusOK, result)
}

// Health answers the liveness probe.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

package handler

import (
	"context"
	"net/http"
	"time"

	"bellyfied/internal/metrics"

	"github.com/labstack/echo/v4"
)

// DBの疎通確認（*sql.DBが実装）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// /health と /metrics
type SystemHandler struct {
	db Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

func (h *SystemHandler) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, M{"status": "unavailable", "database": "down"})
	}
	return c.JSON(http.StatusOK, M{"status": "ok", "database": "up"})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "carlot/internal/errors"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler serves connectivity checks.
type ProbeHandler struct {
	db  Pinger
	now func() time.Time
}

// NewProbeHandler creates a probe handler.
func NewProbeHandler(db Pinger) *ProbeHandler {
	return &ProbeHandler{db: db, now: time.Now}
}

// TestResponse acknowledges a connection.
type TestResponse struct {
	Connection string    `json:"connection"`
	Time       time.Time `json:"time"`
}

// Test godoc
// @Summary Connectivity check
// @Tags probe
// @Produce json
// @Success 200 {object} TestResponse
// @Router /test [get]
func (h *ProbeHandler) Test(c echo.Context) error {
	c.Logger().Info("Connection made...")
	return c.JSON(http.StatusOK, TestResponse{
		Connection: "successful",
		Time:       h.now(),
	})
}

// Healthz godoc
// @Summary Database health check
// @Tags probe
// @Produce plain
// @Success 200 {string} string
// @Failure 503 {object} errors.ErrorResponse
// @Router /healthz [get]
func (h *ProbeHandler) Healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.Logger().Errorf("health check: %v", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, apperrors.ErrorResponse{
			Error: "database unavailable",
			Code:  "DATABASE_UNAVAILABLE",
		})
	}
	return c.String(http.StatusOK, "ok")
}

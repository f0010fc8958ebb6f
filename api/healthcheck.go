package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wardbook/records/store"
)

const readinessTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheck struct {
	ready  *atomic.Bool
	db     Pinger
	logger *zap.SugaredLogger
}

func NewHealthCheck(connector *store.Connector, logger *zap.SugaredLogger) *HealthCheck {
	return NewHealthCheckWithPinger(connector, logger)
}

func NewHealthCheckWithPinger(db Pinger, logger *zap.SugaredLogger) *HealthCheck {
	return &HealthCheck{
		ready:  &atomic.Bool{},
		db:     db,
		logger: logger,
	}
}

func (h *HealthCheck) IsReady() bool {
	return h.ready.Load()
}

// Check pings the database and records the outcome. Transitions are logged once.
func (h *HealthCheck) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	err := h.db.Ping(ctx)
	ready := err == nil
	if previous := h.ready.Swap(ready); previous != ready {
		if ready {
			h.logger.Infow("database is reachable")
		} else {
			h.logger.Warnw("database is not reachable", "error", err)
		}
	}
	return ready
}

// Readiness probe
func (h *HealthCheck) Ready(c echo.Context) error {
	if !h.Check(c.Request().Context()) {
		return c.NoContent(http.StatusServiceUnavailable)
	}

	return c.NoContent(http.StatusOK)
}

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"github.com/wardbook/records/config"
	internalErrs "github.com/wardbook/records/errors"
)

const (
	rateLimiterCleanupInterval = time.Minute
	rateLimiterIdleTimeout     = 3 * time.Minute
)

var ErrTooManyRequests = internalErrs.New(internalErrs.TooManyRequests, "Too many requests, please try again later")

// RateLimiter keeps one token bucket per client ip
type RateLimiter struct {
	visitors map[string]*visitor
	mu       *sync.Mutex
	r        rate.Limit
	b        int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		mu:       &sync.Mutex{},
		r:        r,
		b:        b,
	}
}

// NewAuthRateLimiter returns the limiter for the login and registration endpoints.
// Idle visitors are removed in the background while the application runs.
func NewAuthRateLimiter(cfg *config.Config, lifecycle fx.Lifecycle) *RateLimiter {
	limiter := NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst)

	var cancel context.CancelFunc
	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			go limiter.Cleanup(ctx, rateLimiterCleanupInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})

	return limiter
}

func (l *RateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.r, l.b)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *RateLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.removeIdle(rateLimiterIdleTimeout)
		}
	}
}

func (l *RateLimiter) removeIdle(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(l.visitors, ip)
		}
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return ErrTooManyRequests
			}
			return next(c)
		}
	}
}

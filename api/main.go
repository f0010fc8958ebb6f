package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/authz"
	"github.com/wardbook/records/config"
	"github.com/wardbook/records/logger"
	patientsRepository "github.com/wardbook/records/patients/repository"
	patientsService "github.com/wardbook/records/patients/service"
	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
	usersRepository "github.com/wardbook/records/users/repository"
	usersService "github.com/wardbook/records/users/service"
)

// Dependencies returns the providers of the records service. They are shared by
// the http server and the command line tools.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			logger.Suggar,
			store.NewConfig,
			store.NewConnector,
			usersRepository.NewRepository,
			usersService.NewService,
			patientsRepository.NewRepository,
			patientsService.NewService,
			NewRoleResolver,
			auth.NewTokenManager,
			auth.NewTokenVerifier,
			auth.NewAuthenticator,
			auth.NewService,
			auth.NewAuthRateLimiter,
			authz.NewRequestAuthorizer,
			NewHealthCheck,
			NewHandler,
			NewServer,
		),
	}
}

func NewRoleResolver(cfg *config.Config) users.RoleResolver {
	return users.NewRoleResolver(cfg.AdminPosition)
}

func Start(e *echo.Echo, cfg *config.Config, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	address := fmt.Sprintf(":%d", cfg.HttpPort)
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Infow("starting http server", "address", address)
				if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorw("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// SetReady tries to reach the database at startup. The server is started even
// when the database is down, the readiness probe keeps retrying.
func SetReady(healthCheck *HealthCheck, logger *zap.SugaredLogger, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !healthCheck.Check(ctx) {
				logger.Warnw("database is not reachable at startup, serving anyway")
			}
			return nil
		},
	})
}

func MainLoop() {
	fx.New(
		append(Dependencies(),
			fx.Invoke(SetReady),
			fx.Invoke(Start),
		)...,
	).Run()
}

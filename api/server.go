package api

import (
	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/authz"
	"github.com/wardbook/records/config"
	"github.com/wardbook/records/errors"
	"github.com/wardbook/records/validation"
)

const (
	ApiPrefix = "/api"
	ReadyPath = "/ready"
)

// Pages and assets which are served without a session
var (
	publicPaths    = []string{ReadyPath, "/register", "/favicon.ico"}
	publicPrefixes = []string{ApiPrefix + "/", "/assets/", "/static/"}
)

type ServerParams struct {
	fx.In

	Config        *config.Config
	Logger        *zap.Logger
	Handler       *Handler
	HealthCheck   *HealthCheck
	Authenticator *auth.Authenticator
	Authorizer    authz.RequestAuthorizer
	RateLimiter   *auth.RateLimiter
}

type requestValidator struct{}

func (requestValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}

func NewServer(p ServerParams) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = errors.NewHTTPErrorHandler(p.Config, p.Logger.Sugar())

	// Skip logging for the readiness probe
	loggingSkipper := RouteSkipper([]string{ReadyPath})
	edgeSkipper := PathSkipper(append([]string{p.Config.LoginPath, ApiPrefix}, publicPaths...), publicPrefixes)

	e.Use(middleware.Recover())
	e.Use(skipped(loggingSkipper, echozap.ZapLogger(p.Logger)))
	e.Use(auth.NewEdgeGuard(p.Authenticator, p.Authorizer, p.Config, auth.EdgeGuardOpts{
		Skipper: edgeSkipper,
	}))
	if p.Config.WebRoot != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:    p.Config.WebRoot,
			HTML5:   true,
			Skipper: PathSkipper([]string{ApiPrefix, ReadyPath}, []string{ApiPrefix + "/"}),
		}))
	}

	e.GET(ReadyPath, p.HealthCheck.Ready)
	registerApiHandlers(e.Group(ApiPrefix), p)

	return e, nil
}

func registerApiHandlers(g *echo.Group, p ServerParams) {
	h := p.Handler
	limit := p.RateLimiter.Middleware()

	g.Use(auth.NewAuthMiddleware(p.Authenticator, p.Config, auth.AuthMiddlewareOpts{
		Skipper: RouteSkipper([]string{
			ApiPrefix + "/auth/register",
			ApiPrefix + "/auth/login",
			ApiPrefix + "/auth/logout",
		}),
	}))

	g.POST("/auth/register", h.Register, limit)
	g.POST("/auth/login", h.Login, limit)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/user", h.CurrentUser)

	g.GET("/patients", h.ListPatients)
	g.GET("/patients/next-id", h.NextPatientId)
	g.GET("/patients/:patient_id", h.GetPatient)
	g.POST("/patients", h.CreatePatient)
	g.PUT("/patients", h.UpdatePatient)
	g.DELETE("/patients/:patient_id", h.DeletePatient)

	g.GET("/admin/users", h.ListUsers)
	g.PATCH("/admin/users", h.UpdateUserStatus)
	g.DELETE("/admin/users", h.DeleteUser)
}

// skipped bypasses a middleware which has no skipper of its own
func skipped(skipper middleware.Skipper, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			return wrapped(c)
		}
	}
}

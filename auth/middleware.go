package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wardbook/records/authz"
	"github.com/wardbook/records/config"
)

const bearerPrefix = "Bearer "

// TokenFromRequest reads the session token from the session cookie or, for api
// clients, from the Authorization header
func TokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}

type AuthMiddlewareOpts struct {
	Skipper middleware.Skipper
}

// NewAuthMiddleware rejects api requests without a valid session with 401
func NewAuthMiddleware(authenticator *Authenticator, cfg *config.Config, opts AuthMiddlewareOpts) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Allow skipping authentication for certain routes (e.g. readiness probe)
			if opts.Skipper != nil && opts.Skipper(c) {
				return next(c)
			}

			token := TokenFromRequest(c.Request(), cfg.SessionCookieName)
			auth, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			SetAuthData(c, auth)
			return next(c)
		}
	}
}

type EdgeGuardOpts struct {
	Skipper middleware.Skipper
}

// NewEdgeGuard protects the pages of the web application. Visitors without a
// valid session are sent to the login page, signed in users without access to
// a page are sent to the home page.
func NewEdgeGuard(authenticator *Authenticator, authorizer authz.RequestAuthorizer, cfg *config.Config, opts EdgeGuardOpts) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if opts.Skipper != nil && opts.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			token := TokenFromRequest(req, cfg.SessionCookieName)
			auth, err := authenticator.Authenticate(ctx, token)
			if errors.Is(err, ErrUnauthenticated) {
				return c.Redirect(http.StatusSeeOther, LoginRedirectLocation(cfg.LoginPath, req.URL))
			} else if err != nil {
				return err
			}

			err = authorizer.Authorize(ctx, authz.Request{
				Method: req.Method,
				Path:   req.URL.Path,
				User:   auth.User,
			})
			if errors.Is(err, authz.ErrForbidden) {
				return c.Redirect(http.StatusSeeOther, "/")
			} else if err != nil {
				return err
			}

			SetAuthData(c, auth)
			return next(c)
		}
	}
}

func LoginRedirectLocation(loginPath string, target *url.URL) string {
	if loginPath == "" {
		loginPath = "/login"
	}
	next := target.Path
	if target.RawQuery != "" {
		next += "?" + target.RawQuery
	}
	return loginPath + "?" + url.Values{"next": []string{next}}.Encode()
}

func SetSessionCookie(c echo.Context, cfg *config.Config, session *Session, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context, cfg *config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/wardbook/records/auth"
	"github.com/wardbook/records/authz"
	"github.com/wardbook/records/config"
	"github.com/wardbook/records/patients"
	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
)

type Handler struct {
	config     *config.Config
	identity   auth.Service
	tokens     *auth.TokenManager
	authorizer authz.RequestAuthorizer
	patients   patients.Service
	users      users.Service
}

type Params struct {
	fx.In

	Config     *config.Config
	Identity   auth.Service
	Tokens     *auth.TokenManager
	Authorizer authz.RequestAuthorizer
	Patients   patients.Service
	Users      users.Service
}

func NewHandler(p Params) *Handler {
	return &Handler{
		config:     p.Config,
		identity:   p.Identity,
		tokens:     p.Tokens,
		authorizer: p.Authorizer,
		patients:   p.Patients,
		users:      p.Users,
	}
}

// pagination reads 1-based page and limit query parameters. Missing or malformed
// values fall back to the defaults.
func pagination(ec echo.Context) store.Pagination {
	page, _ := strconv.Atoi(ec.QueryParam("page"))
	limit, _ := strconv.Atoi(ec.QueryParam("limit"))
	return store.PageToPagination(page, limit)
}

func queryParam(ec echo.Context, name string) *string {
	if value := ec.QueryParam(name); value != "" {
		return &value
	}
	return nil
}

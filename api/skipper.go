package api

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouteSkipper matches the registered route of a request, not its raw path
func RouteSkipper(routes []string) middleware.Skipper {
	set := mapset.NewThreadUnsafeSet(routes...)

	return func(ec echo.Context) bool {
		return set.Contains(ec.Path())
	}
}

// PathSkipper matches request paths exactly or by one of the given prefixes
func PathSkipper(paths []string, prefixes []string) middleware.Skipper {
	set := mapset.NewThreadUnsafeSet(paths...)

	return func(ec echo.Context) bool {
		path := ec.Request().URL.Path
		if set.Contains(path) {
			return true
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}
}

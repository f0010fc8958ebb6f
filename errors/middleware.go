package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wardbook/records/config"
	"github.com/wardbook/records/validation"
)

const internalErrorMessage = "Internal server error"

type Response struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler renders every error returned by a handler as {"message": ...}.
// The underlying error text is only exposed outside production.
func NewHTTPErrorHandler(cfg *config.Config, logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := Describe(err)
		if code >= http.StatusInternalServerError {
			logger.Errorw("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		}

		res := Response{Message: message}
		if !cfg.IsProduction() && message != err.Error() {
			res.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, res)
		}
		if err != nil {
			logger.Warnw("unable to write error response", "error", err)
		}
	}
}

// Describe returns the status code and the client facing message of an error
func Describe(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code(), e.message
	}

	var v *validation.Error
	if errors.As(err, &v) {
		return http.StatusBadRequest, v.Error()
	}

	var h HttpError
	if errors.As(err, &h) {
		if h.Code >= http.StatusInternalServerError {
			return h.Code, internalErrorMessage
		}
		return h.Code, h.Error()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	return http.StatusInternalServerError, internalErrorMessage
}

package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Response struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Render maps any error to the status and body sent to the client. Unknown
// errors become a generic 500 so internals never leak.
func Render(err error) (int, Response) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status, Response{Message: ae.Message, Errors: ae.Fields}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			message = s
		}
		return he.Code, Response{Message: message}
	}
	return http.StatusInternalServerError, Response{Message: "Server error"}
}

func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.Int("status", status),
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

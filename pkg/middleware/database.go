package middleware

import (
	"HostelManagement/internal/apperr"

	"github.com/labstack/echo/v4"
)

// Readiness is satisfied by config.MongoDBClient.
type Readiness interface {
	Ready() bool
}

// RequireDatabase fails fast with 503 while the last database ping failed.
func RequireDatabase(db Readiness) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !db.Ready() {
				return apperr.Unavailable("Database unavailable")
			}
			return next(c)
		}
	}
}

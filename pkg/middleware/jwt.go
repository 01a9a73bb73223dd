package middleware

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewJWTMiddleware parses the bearer token, rejects revoked sessions and
// stores the claims under auth.ContextKey.
func NewJWTMiddleware(tokens *auth.TokenManager, revoked RevocationChecker, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return apperr.Unauthorized("Not authorized, no token")
			}
			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == "" {
				return apperr.Unauthorized("Not authorized, no token")
			}

			claims, err := tokens.ValidateJWT(tokenString)
			if err != nil {
				return apperr.Unauthorized("Not authorized, token failed")
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					log.Warn("revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
					return apperr.Unavailable("Session store unavailable")
				}
				if isRevoked {
					return apperr.Unauthorized("Not authorized, token revoked")
				}
			}

			c.Set(auth.ContextKey, claims)
			return next(c)
		}
	}
}

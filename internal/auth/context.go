package auth

import (
	"HostelManagement/internal/apperr"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextKey is where the JWT middleware stores the caller's claims.
const ContextKey = "user"

// Identity is the authenticated caller.
type Identity struct {
	ID   primitive.ObjectID
	Role Role
	Name string
}

func ClaimsFrom(c echo.Context) (*JWTClaims, error) {
	claims, ok := c.Get(ContextKey).(*JWTClaims)
	if !ok || claims == nil {
		return nil, apperr.Unauthorized("Not authorized, no token")
	}
	return claims, nil
}

func CurrentIdentity(c echo.Context) (Identity, error) {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return Identity{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return Identity{}, apperr.Unauthorized("Not authorized, token failed")
	}
	return Identity{ID: id, Role: claims.Role, Name: claims.Name}, nil
}

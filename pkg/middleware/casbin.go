package middleware

import (
	"HostelManagement/internal/apperr"
	"HostelManagement/internal/auth"
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// authenticated is the group every signed-in role belongs to.
const authenticated = "authenticated"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

var roleGroups = [][]string{
	{string(auth.RoleStudent), authenticated},
	{string(auth.RoleAccountant), authenticated},
	{string(auth.RoleAdmin), authenticated},
}

// policies maps route patterns (as registered with echo) to the roles allowed
// to call them.
var policies = [][]string{
	{authenticated, "/api/auth/me", http.MethodGet},
	{authenticated, "/api/auth/logout", http.MethodPost},
	{"admin", "/api/admin/students", http.MethodGet},
	{"accountant", "/api/accountant/students", http.MethodGet},

	{"student", "/api/students/room-allocation", http.MethodPost},
	{"student", "/api/students/room-details", http.MethodGet},
	{"admin", "/api/admin/room-requests", http.MethodGet},
	{"admin", "/api/admin/room-requests/:id/approve", http.MethodPut},
	{"admin", "/api/admin/room-requests/:id/reject", http.MethodPut},
	{authenticated, "/api/rooms", http.MethodGet},
	{"admin", "/api/rooms", http.MethodPost},
	{authenticated, "/api/rooms/charges", http.MethodGet},
	{"admin", "/api/rooms/charges", http.MethodPut},
	{"admin", "/api/rooms/allocations", http.MethodGet},

	{authenticated, "/api/fees", http.MethodGet},
	{"accountant", "/api/fees", http.MethodPost},
	{"admin", "/api/fees", http.MethodPost},
	{"student", "/api/fees/status", http.MethodGet},
	{"accountant", "/api/fees/pending-fines", http.MethodGet},
	{"accountant", "/api/fees/:id/pay", http.MethodPut},
	{"admin", "/api/fees/:id/pay", http.MethodPut},
	{"accountant", "/api/fees/:id/add-fine", http.MethodPut},
	{"admin", "/api/fees/:id/add-fine", http.MethodPut},

	{"student", "/api/complaints", http.MethodPost},
	{authenticated, "/api/complaints", http.MethodGet},
	{authenticated, "/api/complaints/:id", http.MethodGet},
	{"admin", "/api/complaints/:id/resolve", http.MethodPut},
	{"admin", "/api/complaints/:id", http.MethodDelete},

	{"admin", "/api/notifications", http.MethodPost},
	{authenticated, "/api/notifications", http.MethodGet},
	{authenticated, "/api/notifications/unread-count", http.MethodGet},
	{authenticated, "/api/notifications/read-all", http.MethodPut},
	{authenticated, "/api/notifications/:id", http.MethodGet},
	{authenticated, "/api/notifications/:id/read", http.MethodPut},
	{"admin", "/api/notifications/:id", http.MethodDelete},

	{authenticated, "/api/mess/menu", http.MethodGet},
	{authenticated, "/api/mess/timings", http.MethodGet},
	{"admin", "/api/mess/menu", http.MethodPut},
	{"admin", "/api/mess/timings", http.MethodPut},

	{"accountant", "/api/accountant/reports", http.MethodGet},
	{"accountant", "/api/accountant/reports/send", http.MethodPost},
	{"admin", "/api/admin/reports", http.MethodGet},
}

// NewEnforcer builds the RBAC enforcer from the in-code model and policy table.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(roleGroups); err != nil {
		return nil, fmt.Errorf("casbin roles: %w", err)
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("casbin policies: %w", err)
	}
	return enforcer, nil
}

// NewCasbinMiddleware enforces the role policy for the matched route. It must
// run after the JWT middleware.
func NewCasbinMiddleware(enforcer *casbin.Enforcer, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.ClaimsFrom(c)
			if err != nil {
				return err
			}
			role := string(claims.Role)
			obj := c.Path()
			act := c.Request().Method

			allowed, err := enforcer.Enforce(role, obj, act)
			if err != nil {
				log.Error("casbin enforce failed", zap.String("role", role), zap.String("obj", obj), zap.Error(err))
				return err
			}
			if !allowed {
				log.Debug("casbin denied", zap.String("role", role), zap.String("obj", obj), zap.String("act", act))
				return apperr.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", role))
			}
			return next(c)
		}
	}
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// RBAC admits only callers whose role, as resolved by Auth, is one of roles.
// It must run after Auth; a request with no role is treated as anonymous.
func RBAC(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no autenticado")
			}
			if !allowed[role] {
				return fmt.Errorf("role %s on %s: %w", role, c.Path(), domain.ErrForbidden)
			}
			return next(c)
		}
	}
}

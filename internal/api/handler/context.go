package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/api/middleware"
	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// callerFrom extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: role must be
// non-empty (presence proves the middleware ran).
func callerFrom(c echo.Context) (domain.Caller, error) {
	role, _ := c.Get(middleware.KeyRole).(string)
	if role == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "no autenticado")
	}
	userID, _ := c.Get(middleware.KeyUserID).(string)
	return domain.Caller{UserID: userID, Role: role}, nil
}

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig is a fixed origin allow-list. Origins outside the list receive
// DefaultOrigin instead of a rejection; the browser enforces the mismatch.
type CORSConfig struct {
	AllowedOrigins []string
	DefaultOrigin  string
}

var corsAllowHeaders = strings.Join([]string{
	echo.HeaderContentType,
	echo.HeaderAuthorization,
	HeaderUserID,
	HeaderUserRole,
}, ", ")

// CORS sets the CORS headers before the handler runs so they are present on
// error responses too. Preflight requests are answered with 204.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			allowOrigin := cfg.DefaultOrigin
			if slices.Contains(cfg.AllowedOrigins, origin) {
				allowOrigin = origin
			}
			if allowOrigin != "" {
				h.Set(echo.HeaderAccessControlAllowOrigin, allowOrigin)
			}
			h.Add(echo.HeaderVary, echo.HeaderOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(echo.HeaderAccessControlAllowCredentials, "true")
			h.Set(echo.HeaderAccessControlMaxAge, "3600")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// Legacy identity headers, honoured only when explicitly trusted.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// Context keys set by Auth.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyName   = "name"
)

// Auth resolves the caller identity and injects user_id and role into the
// context. A verified HS256 Bearer token is preferred; browsers that cannot
// set headers (websockets) may pass it as access_token. When trustHeaders is
// set, requests without a token fall back to the legacy identity headers.
func Auth(jwtSecret string, trustHeaders bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			if raw == "" {
				if !trustHeaders {
					return echo.NewHTTPError(http.StatusUnauthorized, "falta el encabezado Authorization")
				}
				userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
				role := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole)))
				if userID == "" && role == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "no autenticado")
				}
				if role == "" {
					role = domain.RoleCommercial
				}
				if !domain.ValidRole(role) {
					return echo.NewHTTPError(http.StatusUnauthorized, "rol desconocido")
				}
				c.Set(KeyUserID, userID)
				c.Set(KeyRole, role)
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "token inválido")
			}

			sub, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			if sub == "" || !domain.ValidRole(role) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token inválido")
			}

			c.Set(KeyUserID, sub)
			c.Set(KeyRole, role)
			c.Set(KeyName, claims["name"])

			return next(c)
		}
	}
}

// bearerToken returns the raw token or "" when none was sent.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return c.QueryParam("access_token"), nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "encabezado Authorization inválido")
	}
	return strings.TrimSpace(parts[1]), nil
}

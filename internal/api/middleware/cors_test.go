package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

var testCORS = CORSConfig{
	AllowedOrigins: []string{"https://app.example.com", "http://localhost:5173"},
	DefaultOrigin:  "https://app.example.com",
}

func corsRequest(t *testing.T, method, origin string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/clients", nil)
	if origin != "" {
		req.Header.Set(echo.HeaderOrigin, origin)
	}
	rec := httptest.NewRecorder()
	err := CORS(testCORS)(next)(e.NewContext(req, rec))
	return rec, err
}

func TestCORS_EchoesAllowedOrigin(t *testing.T) {
	rec, err := corsRequest(t, http.MethodGet, "http://localhost:5173", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:5173" {
		t.Fatalf("expected echoed origin, got %q", got)
	}
}

func TestCORS_UnknownOriginGetsDefault(t *testing.T) {
	rec, _ := corsRequest(t, http.MethodGet, "https://evil.example.org", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://app.example.com" {
		t.Fatalf("expected default origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown origins must not be rejected, got %d", rec.Code)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	rec, err := corsRequest(t, http.MethodOptions, "https://app.example.com", func(c echo.Context) error {
		t.Fatalf("preflight should not reach the handler")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowMethods) == "" {
		t.Fatalf("missing allow-methods header")
	}
}

func TestCORS_HeadersSurviveHandlerError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := CORS(testCORS)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})(c)
	e.HTTPErrorHandler(err, c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) == "" {
		t.Fatalf("CORS header missing on error response")
	}
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation reason", domain.Invalid("email inválido: x"), http.StatusBadRequest, CodeValidation, "email inválido: x"},
		{"reference", fmt.Errorf("create session: %w", domain.ErrReferenceNotFound), http.StatusBadRequest, CodeReference, "El registro referenciado no existe"},
		{"client not found", domain.ErrClientNotFound, http.StatusNotFound, CodeNotFound, "Cliente no encontrado"},
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound, CodeNotFound, "Sesión no encontrada"},
		{"opportunity not found", domain.ErrOpportunityNotFound, http.StatusNotFound, CodeNotFound, "Oportunidad no encontrada"},
		{"conflict", domain.ErrConflict, http.StatusConflict, CodeConflict, "Ya existe un registro con esos datos"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized, "Credenciales inválidas"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, CodeForbidden, "Acceso denegado"},
		{"upstream", fmt.Errorf("whatsapp: %w: 502", domain.ErrUpstreamUnavailable), http.StatusInternalServerError, CodeUpstream, "Servicio externo no disponible"},
		{"unknown", errors.New("pq: something exploded"), http.StatusInternalServerError, CodeInternal, "Error interno del servidor"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, CodeValidation, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Code != tt.wantCode || body.Error != tt.wantMsg {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

type stubClientService struct {
	listFn   func(ctx context.Context, caller domain.Caller, filter domain.ClientFilter) ([]*domain.Client, error)
	getFn    func(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error)
	createFn func(ctx context.Context, caller domain.Caller, c *domain.Client) (*domain.Client, error)
	updateFn func(ctx context.Context, caller domain.Caller, id string, patch domain.ClientPatch) (*domain.Client, error)
	deleteFn func(ctx context.Context, caller domain.Caller, id string) error
}

func (s *stubClientService) List(ctx context.Context, caller domain.Caller, filter domain.ClientFilter) ([]*domain.Client, error) {
	return s.listFn(ctx, caller, filter)
}

func (s *stubClientService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Client, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubClientService) Create(ctx context.Context, caller domain.Caller, c *domain.Client) (*domain.Client, error) {
	return s.createFn(ctx, caller, c)
}

func (s *stubClientService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.ClientPatch) (*domain.Client, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubClientService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

type stubTransfer struct {
	importFn func(ctx context.Context, caller domain.Caller, file []byte) (*ports.ImportResult, error)
	exportFn func(ctx context.Context, caller domain.Caller) ([]byte, error)
}

func (s *stubTransfer) Import(ctx context.Context, caller domain.Caller, file []byte) (*ports.ImportResult, error) {
	return s.importFn(ctx, caller, file)
}

func (s *stubTransfer) Export(ctx context.Context, caller domain.Caller) ([]byte, error) {
	return s.exportFn(ctx, caller)
}

// authed returns a context carrying the identity the Auth middleware sets.
func authed(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c
}

func TestClientHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubClientService{
		createFn: func(ctx context.Context, caller domain.Caller, c *domain.Client) (*domain.Client, error) {
			if caller.UserID != "u1" || caller.Role != domain.RoleCommercial {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			if c.Status != domain.ClientNew || len(c.InterestedServices) != 1 || c.InterestedServices[0] != domain.ServiceWebsites {
				t.Fatalf("unexpected draft: %+v", c)
			}
			c.ID = "c1"
			c.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
			owner := caller.UserID
			c.OwnerUserID = &owner
			return c, nil
		},
	}
	h := NewClientHandler(stub, nil)

	body := `{"name":"Ana Ruiz","email":"ana@x.com","phone":"+573001234567","interestedServices":["paginas-web"],"estado":"nuevo"}`
	rec := httptest.NewRecorder()
	c := authed(e, jsonRequest(http.MethodPost, "/clients", body), rec, "u1", domain.RoleCommercial)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "c1" || resp["name"] != "Ana Ruiz" || resp["estado"] != "nuevo" || resp["ownerUserId"] != "u1" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	services, _ := resp["interestedServices"].([]any)
	if len(services) != 1 || services[0] != "paginas-web" {
		t.Fatalf("unexpected services: %+v", resp["interestedServices"])
	}
}

func TestClientHandler_Create_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(&stubClientService{}, nil)

	c := e.NewContext(jsonRequest(http.MethodPost, "/clients", `{}`), httptest.NewRecorder())

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestClientHandler_List_PassesFilters(t *testing.T) {
	e := newTestEcho()
	stub := &stubClientService{
		listFn: func(ctx context.Context, caller domain.Caller, filter domain.ClientFilter) ([]*domain.Client, error) {
			if filter.Status != domain.ClientInterested || filter.Search != "ruiz" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			return []*domain.Client{}, nil
		},
	}
	h := NewClientHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := authed(e, httptest.NewRequest(http.MethodGet, "/clients?estado=interesado&q=ruiz", nil), rec, "u1", domain.RoleAdmin)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestClientHandler_Update_MapsPatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubClientService{
		updateFn: func(ctx context.Context, caller domain.Caller, id string, patch domain.ClientPatch) (*domain.Client, error) {
			if id != "c1" {
				t.Fatalf("unexpected id %s", id)
			}
			if patch.Status == nil || *patch.Status != domain.ClientContacted {
				t.Fatalf("status not mapped: %+v", patch)
			}
			if patch.Name != nil || patch.Email != nil || patch.InterestedServices != nil {
				t.Fatalf("omitted fields must stay nil: %+v", patch)
			}
			return &domain.Client{ID: id, Name: "Ana", Status: *patch.Status}, nil
		},
	}
	h := NewClientHandler(stub, nil)

	rec := httptest.NewRecorder()
	c := authed(e, jsonRequest(http.MethodPatch, "/clients/c1", `{"estado":"contactado","id":"ignored"}`), rec, "u1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestClientHandler_Delete(t *testing.T) {
	e := newTestEcho()
	deleted := map[string]bool{}
	stub := &stubClientService{
		deleteFn: func(ctx context.Context, caller domain.Caller, id string) error {
			if deleted[id] {
				return domain.ErrClientNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	h := NewClientHandler(stub, nil)

	run := func() (*httptest.ResponseRecorder, error) {
		rec := httptest.NewRecorder()
		c := authed(e, httptest.NewRequest(http.MethodDelete, "/clients/c1", nil), rec, "u1", domain.RoleAdmin)
		c.SetParamNames("id")
		c.SetParamValues("c1")
		return rec, h.Delete(c)
	}

	rec, err := run()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if _, err := run(); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound on second delete, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Import / export
// ---------------------------------------------------------------------------

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "clientes.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/clients/import", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestClientHandler_Import(t *testing.T) {
	e := newTestEcho()
	transfer := &stubTransfer{
		importFn: func(ctx context.Context, caller domain.Caller, file []byte) (*ports.ImportResult, error) {
			if string(file) != "xlsx-bytes" {
				t.Fatalf("unexpected file: %q", file)
			}
			return &ports.ImportResult{
				Accepted: []*domain.Client{{ID: "c1", Name: "Ana"}},
				Rejected: []ports.ImportRejection{{Row: 3, Reason: "falta el campo email", Raw: map[string]string{"name": "Beto"}}},
			}, nil
		},
	}
	h := NewClientHandler(nil, transfer)

	rec := httptest.NewRecorder()
	c := authed(e, multipartRequest(t, "file", []byte("xlsx-bytes")), rec, "u1", domain.RoleCommercial)

	if err := h.Import(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp importResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Accepted) != 1 || len(resp.Rejected) != 1 || resp.Rejected[0].Row != 3 {
		t.Fatalf("unexpected result: %+v", resp)
	}
}

func TestClientHandler_Import_MissingFile(t *testing.T) {
	e := newTestEcho()
	h := NewClientHandler(nil, &stubTransfer{})

	c := authed(e, multipartRequest(t, "other", []byte("x")), httptest.NewRecorder(), "u1", domain.RoleCommercial)

	if err := h.Import(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientHandler_Export(t *testing.T) {
	e := newTestEcho()
	transfer := &stubTransfer{
		exportFn: func(ctx context.Context, caller domain.Caller) ([]byte, error) {
			return []byte("PK-sheet"), nil
		},
	}
	h := NewClientHandler(nil, transfer)

	rec := httptest.NewRecorder()
	c := authed(e, httptest.NewRequest(http.MethodGet, "/clients/export", nil), rec, "u1", domain.RoleAdmin)

	if err := h.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != xlsxMIME {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.HasPrefix(cd, "attachment;") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
	if rec.Body.String() != "PK-sheet" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

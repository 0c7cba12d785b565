package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub client repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	byID map[string]*domain.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byID: make(map[string]*domain.Client)}
}

func cloneClient(c *domain.Client) *domain.Client {
	clone := *c
	clone.InterestedServices = append([]domain.ServiceTag(nil), c.InterestedServices...)
	return &clone
}

func ownedBy(ownerID *string, owner string) bool {
	return owner == "" || (ownerID != nil && *ownerID == owner)
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) error {
	for _, existing := range r.byID {
		if existing.Email == c.Email {
			return domain.ErrConflict
		}
	}
	r.byID[c.ID] = cloneClient(c)
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id, owner string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok || !ownedBy(c.OwnerUserID, owner) {
		return nil, domain.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *stubClientRepo) List(_ context.Context, f domain.ClientFilter) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0)
	for _, c := range r.byID {
		if !ownedBy(c.OwnerUserID, f.OwnerUserID) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneClient(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, id, owner string, p domain.ClientPatch) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok || !ownedBy(c.OwnerUserID, owner) {
		return nil, domain.ErrClientNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.InterestedServices != nil {
		c.InterestedServices = *p.InterestedServices
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.OwnerUserID != nil {
		c.OwnerUserID = nilIfEmpty(*p.OwnerUserID)
	}
	return cloneClient(c), nil
}

func (r *stubClientRepo) Delete(_ context.Context, id, owner string) error {
	c, ok := r.byID[id]
	if !ok || !ownedBy(c.OwnerUserID, owner) {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	admin = domain.Caller{UserID: "u-admin", Role: domain.RoleAdmin}
	alice = domain.Caller{UserID: "u-alice", Role: domain.RoleCommercial}
	bruno = domain.Caller{UserID: "u-bruno", Role: domain.RoleCommercial}
)

func ana() *domain.Client {
	return &domain.Client{
		Name:               "Ana Ruiz",
		Email:              "ana@x.com",
		Phone:              "+573001234567",
		InterestedServices: []domain.ServiceTag{domain.ServiceWebsites},
		Status:             domain.ClientNew,
	}
}

func strPtr(s string) *string { return &s }

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestClientService_CreateThenList(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())

	created, err := svc.Create(context.Background(), admin, ana())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and createdAt, got %+v", created)
	}

	list, err := svc.List(context.Background(), admin, domain.ClientFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].Email != "ana@x.com" {
		t.Fatalf("expected exactly the created client, got %+v", list)
	}
}

func TestClientService_Create_DefaultsStatus(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	c := ana()
	c.Status = ""

	created, err := svc.Create(context.Background(), admin, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.ClientNew {
		t.Fatalf("expected default status %s, got %s", domain.ClientNew, created.Status)
	}
}

func TestClientService_Create_Validation(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())

	cases := map[string]func(c *domain.Client){
		"missing email":   func(c *domain.Client) { c.Email = "" },
		"malformed email": func(c *domain.Client) { c.Email = "ana-at-x" },
		"missing phone":   func(c *domain.Client) { c.Phone = "  " },
		"unknown status":  func(c *domain.Client) { c.Status = "dormido" },
		"unknown service": func(c *domain.Client) { c.InterestedServices = []domain.ServiceTag{"vuelos"} },
	}
	for name, mutate := range cases {
		c := ana()
		mutate(c)
		if _, err := svc.Create(context.Background(), admin, c); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestClientService_Create_NonAdminOwnsRecord(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	c := ana()
	c.OwnerUserID = strPtr("u-someone-else")

	created, err := svc.Create(context.Background(), alice, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.OwnerUserID == nil || *created.OwnerUserID != alice.UserID {
		t.Fatalf("expected owner %s, got %v", alice.UserID, created.OwnerUserID)
	}
}

func TestClientService_OwnershipScoping(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()

	a := ana()
	b := ana()
	b.Email = "beto@x.com"
	b.Name = "Beto"

	ca, err := svc.Create(ctx, alice, a)
	if err != nil {
		t.Fatalf("create for alice: %v", err)
	}
	cb, err := svc.Create(ctx, bruno, b)
	if err != nil {
		t.Fatalf("create for bruno: %v", err)
	}

	aliceList, _ := svc.List(ctx, alice, domain.ClientFilter{})
	if len(aliceList) != 1 || aliceList[0].ID != ca.ID {
		t.Fatalf("alice should see only her client, got %+v", aliceList)
	}
	adminList, _ := svc.List(ctx, admin, domain.ClientFilter{})
	if len(adminList) != 2 {
		t.Fatalf("admin should see both clients, got %d", len(adminList))
	}

	if _, err := svc.Get(ctx, alice, cb.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("alice must not read bruno's client, got %v", err)
	}
	if err := svc.Delete(ctx, alice, cb.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("alice must not delete bruno's client, got %v", err)
	}
}

func TestClientService_List_CallerWithoutUserIDIsUnscoped(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, ana()); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, domain.Caller{Role: domain.RoleCommercial}, domain.ClientFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected unscoped list, got %d records", len(list))
	}
}

func TestClientService_UpdateIsPartialAndIdempotent(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	created, _ := svc.Create(ctx, admin, ana())

	status := domain.ClientContacted
	patch := domain.ClientPatch{Status: &status}

	first, err := svc.Update(ctx, admin, created.ID, patch)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	second, err := svc.Update(ctx, admin, created.ID, patch)
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}

	if second.Status != domain.ClientContacted {
		t.Fatalf("expected status %s, got %s", domain.ClientContacted, second.Status)
	}
	if second.Name != created.Name || second.Email != created.Email || second.Phone != created.Phone {
		t.Fatalf("unspecified fields changed: %+v", second)
	}
	if first.Status != second.Status {
		t.Fatalf("applying the same update twice should yield the same state")
	}
}

func TestClientService_Update_TrimsPhone(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	created, _ := svc.Create(ctx, admin, ana())

	updated, err := svc.Update(ctx, admin, created.ID, domain.ClientPatch{Phone: strPtr("  +52 55 9876 5432 ")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Phone != "+52 55 9876 5432" {
		t.Fatalf("expected trimmed phone, got %q", updated.Phone)
	}
}

func TestClientService_Update_NonAdminCannotReassignOwner(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, ana())

	updated, err := svc.Update(ctx, alice, created.ID, domain.ClientPatch{OwnerUserID: strPtr("u-bruno")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.OwnerUserID == nil || *updated.OwnerUserID != alice.UserID {
		t.Fatalf("owner should stay %s, got %v", alice.UserID, updated.OwnerUserID)
	}
}

func TestClientService_DeleteTwice(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	created, _ := svc.Create(ctx, admin, ana())

	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, created.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound on second delete, got %v", err)
	}
	name := "Otra"
	if _, err := svc.Update(ctx, admin, created.ID, domain.ClientPatch{Name: &name}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound on update after delete, got %v", err)
	}
}

func TestClientService_Create_DuplicateEmail(t *testing.T) {
	svc := NewClientService(newStubClientRepo(), zerolog.Nop())
	ctx := context.Background()
	if _, err := svc.Create(ctx, admin, ana()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, admin, ana()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

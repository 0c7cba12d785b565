package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

type stubSessionRepo struct {
	clients map[string]*domain.Client
	byID    map[string]*domain.Session
}

func newStubSessionRepo(clients ...*domain.Client) *stubSessionRepo {
	r := &stubSessionRepo{clients: make(map[string]*domain.Client), byID: make(map[string]*domain.Session)}
	for _, c := range clients {
		r.clients[c.ID] = c
	}
	return r
}

// clientRepo exposes the seeded clients as a ClientRepository.
func (r *stubSessionRepo) clientRepo() *stubClientRepo {
	return &stubClientRepo{byID: r.clients}
}

func newSessionServiceWith(clients ...*domain.Client) *SessionService {
	repo := newStubSessionRepo(clients...)
	return NewSessionService(repo, repo.clientRepo(), zerolog.Nop())
}

func ownedClient(id, owner string) *domain.Client {
	return &domain.Client{ID: id, Name: "Cliente " + id, OwnerUserID: &owner}
}

func (r *stubSessionRepo) withClient(s *domain.Session) *domain.Session {
	clone := *s
	clone.Client = r.clients[s.ClientID]
	return &clone
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	if _, ok := r.clients[s.ClientID]; !ok {
		return domain.ErrReferenceNotFound
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id, owner string) (*domain.Session, error) {
	s, ok := r.byID[id]
	if !ok || !ownedBy(s.OwnerUserID, owner) {
		return nil, domain.ErrSessionNotFound
	}
	return r.withClient(s), nil
}

func (r *stubSessionRepo) List(_ context.Context, f domain.SessionFilter) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0)
	for _, s := range r.byID {
		if ownedBy(s.OwnerUserID, f.OwnerUserID) && (f.ClientID == "" || s.ClientID == f.ClientID) {
			out = append(out, r.withClient(s))
		}
	}
	return out, nil
}

func (r *stubSessionRepo) Update(_ context.Context, id, owner string, p domain.SessionPatch) (*domain.Session, error) {
	s, ok := r.byID[id]
	if !ok || !ownedBy(s.OwnerUserID, owner) {
		return nil, domain.ErrSessionNotFound
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Time != nil {
		s.Time = *p.Time
	}
	if p.Notes != nil {
		s.Notes = *p.Notes
	}
	return r.withClient(s), nil
}

func (r *stubSessionRepo) Delete(_ context.Context, id, owner string) error {
	s, ok := r.byID[id]
	if !ok || !ownedBy(s.OwnerUserID, owner) {
		return domain.ErrSessionNotFound
	}
	delete(r.byID, id)
	return nil
}

func discovery(clientID string) *domain.Session {
	return &domain.Session{
		ClientID: clientID,
		Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:     "10:30",
		Service:  domain.ServiceSEO,
	}
}

func TestSessionService_Create_JoinsClientAndDefaultsStatus(t *testing.T) {
	ana := ownedClient("c1", alice.UserID)
	ana.Name = "Ana Ruiz"
	svc := newSessionServiceWith(ana)

	created, err := svc.Create(context.Background(), alice, discovery("c1"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Client == nil || created.Client.Name != "Ana Ruiz" {
		t.Fatalf("expected joined client, got %+v", created.Client)
	}
	if created.Status != domain.SessionScheduled {
		t.Fatalf("expected status %s, got %s", domain.SessionScheduled, created.Status)
	}
	if created.OwnerUserID == nil || *created.OwnerUserID != alice.UserID {
		t.Fatalf("expected owner %s, got %v", alice.UserID, created.OwnerUserID)
	}
}

func TestSessionService_Create_Validation(t *testing.T) {
	svc := newSessionServiceWith(&domain.Client{ID: "c1"})

	cases := map[string]func(s *domain.Session){
		"missing client": func(s *domain.Session) { s.ClientID = "" },
		"missing date":   func(s *domain.Session) { s.Date = time.Time{} },
		"bad time":       func(s *domain.Session) { s.Time = "25:00" },
		"bad service":    func(s *domain.Session) { s.Service = "catering" },
		"bad status":     func(s *domain.Session) { s.Status = "olvidada" },
	}
	for name, mutate := range cases {
		s := discovery("c1")
		mutate(s)
		if _, err := svc.Create(context.Background(), admin, s); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestSessionService_Create_UnknownClient(t *testing.T) {
	svc := newSessionServiceWith()

	if _, err := svc.Create(context.Background(), admin, discovery("ghost")); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestSessionService_Update_AnyStatusToAny(t *testing.T) {
	svc := newSessionServiceWith(&domain.Client{ID: "c1"})
	ctx := context.Background()
	created, _ := svc.Create(ctx, admin, discovery("c1"))

	for _, st := range []domain.SessionStatus{domain.SessionCompleted, domain.SessionScheduled, domain.SessionCancelled} {
		st := st
		updated, err := svc.Update(ctx, admin, created.ID, domain.SessionPatch{Status: &st})
		if err != nil {
			t.Fatalf("move to %s: %v", st, err)
		}
		if updated.Status != st {
			t.Fatalf("expected %s, got %s", st, updated.Status)
		}
		if updated.Time != "10:30" {
			t.Fatalf("unspecified field changed: %s", updated.Time)
		}
	}
}

func TestSessionService_List_ScopedToOwner(t *testing.T) {
	svc := newSessionServiceWith(ownedClient("c-alice", alice.UserID), ownedClient("c-bruno", bruno.UserID))
	ctx := context.Background()
	if _, err := svc.Create(ctx, alice, discovery("c-alice")); err != nil {
		t.Fatalf("alice create: %v", err)
	}
	if _, err := svc.Create(ctx, bruno, discovery("c-bruno")); err != nil {
		t.Fatalf("bruno create: %v", err)
	}

	mine, _ := svc.List(ctx, alice, domain.SessionFilter{})
	all, _ := svc.List(ctx, admin, domain.SessionFilter{})
	if len(mine) != 1 || len(all) != 2 {
		t.Fatalf("expected 1 scoped and 2 total sessions, got %d and %d", len(mine), len(all))
	}
}

func TestSessionService_List_RejectsUnknownStatus(t *testing.T) {
	svc := newSessionServiceWith()

	if _, err := svc.List(context.Background(), admin, domain.SessionFilter{Status: "perdida"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Client references are ownership-scoped
// ---------------------------------------------------------------------------

func TestSessionService_Create_ForeignClientRejected(t *testing.T) {
	repo := newStubSessionRepo(ownedClient("c-alice", alice.UserID))
	svc := NewSessionService(repo, repo.clientRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), bruno, discovery("c-alice"))
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no session should be stored, got %d", len(repo.byID))
	}
}

func TestSessionService_Create_AdminMayUseAnyClient(t *testing.T) {
	svc := newSessionServiceWith(ownedClient("c-alice", alice.UserID))

	if _, err := svc.Create(context.Background(), admin, discovery("c-alice")); err != nil {
		t.Fatalf("admin create: %v", err)
	}
}

func TestSessionService_Update_ForeignClientRejected(t *testing.T) {
	svc := newSessionServiceWith(ownedClient("c-alice", alice.UserID), ownedClient("c-bruno", bruno.UserID))
	ctx := context.Background()
	created, err := svc.Create(ctx, bruno, discovery("c-bruno"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	foreign := "c-alice"
	if _, err := svc.Update(ctx, bruno, created.ID, domain.SessionPatch{ClientID: &foreign}); !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
	got, _ := svc.Get(ctx, bruno, created.ID)
	if got.ClientID != "c-bruno" {
		t.Fatalf("client reference changed to %s", got.ClientID)
	}
}

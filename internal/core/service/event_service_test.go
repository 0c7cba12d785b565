package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubMessageRepo struct {
	insertErr error
	updateErr error
	inserted  []*domain.Message
	updated   []domain.StatusEvent
}

func (r *stubMessageRepo) Insert(_ context.Context, m *domain.Message) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, m)
	return nil
}

func (r *stubMessageRepo) UpdateStatus(_ context.Context, ev domain.StatusEvent) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, ev)
	return nil
}

func (r *stubMessageRepo) List(_ context.Context, to string, limit int) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.inserted {
		if to == "" || m.To == to {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubEventRepo struct {
	insertErr error
	inserted  []domain.StatusEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, ev domain.StatusEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, ev)
	return nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, _, _ string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, messageID, status string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, messageID+":"+status)
	return nil
}

func newEventSvc(msgRepo *stubMessageRepo, evRepo *stubEventRepo, dedup *stubDedup) ports.EventService {
	return NewEventService(msgRepo, evRepo, dedup, zerolog.Nop())
}

func deliveredEvent() domain.StatusEvent {
	return domain.StatusEvent{
		MessageID:   "wamid.ABC",
		Status:      domain.MessageDelivered,
		Timestamp:   time.Now().UTC(),
		RecipientID: "5215512345678",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestEventService_Process_HappyPath(t *testing.T) {
	msgRepo := &stubMessageRepo{}
	evRepo := &stubEventRepo{}
	dedup := &stubDedup{}

	err := newEventSvc(msgRepo, evRepo, dedup).Process(context.Background(), deliveredEvent())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(msgRepo.updated) != 1 || msgRepo.updated[0].MessageID != "wamid.ABC" {
		t.Errorf("expected message status updated, got: %v", msgRepo.updated)
	}
	if len(evRepo.inserted) != 1 {
		t.Errorf("expected webhook event inserted")
	}
	if len(dedup.marked) != 1 || dedup.marked[0] != "wamid.ABC:delivered" {
		t.Errorf("expected dedup key marked, got %v", dedup.marked)
	}
}

func TestEventService_Process_DuplicateSkipped(t *testing.T) {
	msgRepo := &stubMessageRepo{}
	evRepo := &stubEventRepo{}
	dedup := &stubDedup{dupResult: true}

	err := newEventSvc(msgRepo, evRepo, dedup).Process(context.Background(), deliveredEvent())
	if err != nil {
		t.Fatalf("expected no error for duplicate, got: %v", err)
	}
	if len(msgRepo.updated) != 0 || len(evRepo.inserted) != 0 {
		t.Errorf("expected no writes for duplicate event")
	}
}

func TestEventService_Process_DedupCheckError_ProcessesAnyway(t *testing.T) {
	msgRepo := &stubMessageRepo{}
	dedup := &stubDedup{dupErr: errors.New("redis timeout")}

	err := newEventSvc(msgRepo, &stubEventRepo{}, dedup).Process(context.Background(), deliveredEvent())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(msgRepo.updated) != 1 {
		t.Errorf("expected update to proceed when dedup check errors")
	}
}

func TestEventService_Process_UpdateFailureIsReturned(t *testing.T) {
	msgRepo := &stubMessageRepo{updateErr: errors.New("mongo unavailable")}
	evRepo := &stubEventRepo{}

	err := newEventSvc(msgRepo, evRepo, &stubDedup{}).Process(context.Background(), deliveredEvent())
	if err == nil {
		t.Fatalf("expected error when ledger update fails")
	}
	if len(evRepo.inserted) != 0 {
		t.Errorf("expected no audit entry after a failed update")
	}
}

func TestEventService_Process_AuditFailureIsNonFatal(t *testing.T) {
	msgRepo := &stubMessageRepo{}
	evRepo := &stubEventRepo{insertErr: errors.New("mongo unavailable")}

	err := newEventSvc(msgRepo, evRepo, &stubDedup{}).Process(context.Background(), deliveredEvent())
	if err != nil {
		t.Fatalf("expected audit failure to be non-fatal, got: %v", err)
	}
	if len(msgRepo.updated) != 1 {
		t.Error("expected message status to be updated")
	}
}

package domain

import (
	"slices"
	"time"
)

// SessionStatus tracks a scheduled meeting. Any status may follow any other.
type SessionStatus string

const (
	SessionScheduled   SessionStatus = "programada"
	SessionConfirmed   SessionStatus = "confirmada"
	SessionCompleted   SessionStatus = "completada"
	SessionCancelled   SessionStatus = "cancelada"
	SessionRescheduled SessionStatus = "reprogramada"
)

var sessionStatuses = []SessionStatus{
	SessionScheduled, SessionConfirmed, SessionCompleted, SessionCancelled, SessionRescheduled,
}

func (s SessionStatus) Valid() bool {
	return slices.Contains(sessionStatuses, s)
}

// Session is a meeting scheduled with exactly one client.
type Session struct {
	ID          string
	ClientID    string
	Client      *Client
	Date        time.Time
	Time        string
	Service     ServiceTag
	Status      SessionStatus
	Notes       string
	MeetingURL  string
	OwnerUserID *string
	CreatedAt   time.Time
}

type SessionPatch struct {
	ClientID    *string
	Date        *time.Time
	Time        *string
	Service     *ServiceTag
	Status      *SessionStatus
	Notes       *string
	MeetingURL  *string
	OwnerUserID *string
}

type SessionFilter struct {
	OwnerUserID string
	ClientID    string
	Status      SessionStatus
	From        time.Time
	To          time.Time
}

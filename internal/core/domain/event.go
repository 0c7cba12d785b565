package domain

import "time"

// MessageStatus is the delivery state reported by the WhatsApp provider.
type MessageStatus string

const (
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
	MessageFailed    MessageStatus = "failed"
)

// Message is the ledger entry for one outbound WhatsApp message.
type Message struct {
	ProviderID string        `json:"id" bson:"_id"`
	To         string        `json:"to" bson:"to"`
	Body       string        `json:"body" bson:"body"`
	Status     MessageStatus `json:"status" bson:"status"`
	SentBy     string        `json:"sentBy,omitempty" bson:"sent_by,omitempty"`
	BatchID    string        `json:"batchId,omitempty" bson:"batch_id,omitempty"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updated_at"`
}

// StatusEvent is a delivery status callback received from the provider.
type StatusEvent struct {
	MessageID   string
	Status      MessageStatus
	Timestamp   time.Time
	RecipientID string
	Error       string
}

// BatchSummary records the outcome of one bulk dispatch.
type BatchSummary struct {
	ID        string    `bson:"_id"`
	Channel   string    `bson:"channel"`
	Requested int       `bson:"requested"`
	Succeeded int       `bson:"succeeded"`
	Failed    int       `bson:"failed"`
	SentBy    string    `bson:"sent_by,omitempty"`
	StartedAt time.Time `bson:"started_at"`
	Duration  float64   `bson:"duration_seconds"`
}

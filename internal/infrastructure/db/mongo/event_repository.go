package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent appends a delivery status to the whatsapp_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, ev domain.StatusEvent) error {
	doc := bson.M{
		"message_id":   ev.MessageID,
		"status":       string(ev.Status),
		"timestamp":    ev.Timestamp.UTC(),
		"recipient_id": ev.RecipientID,
		"processed_at": time.Now().UTC(),
	}
	if ev.Error != "" {
		doc["error"] = ev.Error
	}

	_, err := r.db.Collection(collEvents).InsertOne(ctx, doc)
	return err
}

// BatchRepository implements ports.BatchRepository using MongoDB.
type BatchRepository struct {
	db *mongo.Database
}

func NewBatchRepository(db *mongo.Database) ports.BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) InsertBatch(ctx context.Context, b *domain.BatchSummary) error {
	_, err := r.db.Collection(collBatches).InsertOne(ctx, b)
	return err
}

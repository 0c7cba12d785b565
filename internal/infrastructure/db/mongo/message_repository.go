package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// MessageRepository implements ports.MessageRepository using MongoDB.
type MessageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) ports.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(ctx context.Context, m *domain.Message) error {
	_, err := r.db.Collection(collMessages).InsertOne(ctx, m)
	return err
}

// UpdateStatus applies a provider status to the ledger entry. Events for
// messages that are not in the ledger (sent by another system) are ignored.
// A status only moves forward: a late "sent" never overwrites "read".
func (r *MessageRepository) UpdateStatus(ctx context.Context, ev domain.StatusEvent) error {
	set := bson.M{
		"status":     string(ev.Status),
		"updated_at": ev.Timestamp.UTC(),
	}
	if ev.Error != "" {
		set["error"] = ev.Error
	}

	filter := bson.M{
		"_id":    ev.MessageID,
		"status": bson.M{"$in": statusesBefore(ev.Status)},
	}
	_, err := r.db.Collection(collMessages).UpdateOne(ctx, filter, bson.M{"$set": set})
	return err
}

// List returns the newest ledger entries, optionally for one recipient.
func (r *MessageRepository) List(ctx context.Context, to string, limit int) ([]*domain.Message, error) {
	filter := bson.M{}
	if to != "" {
		filter["to"] = to
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.db.Collection(collMessages).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.Message, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// statusesBefore lists the statuses a message may hold for next to apply.
// "failed" may replace anything except itself.
func statusesBefore(next domain.MessageStatus) []string {
	order := []domain.MessageStatus{domain.MessageSent, domain.MessageDelivered, domain.MessageRead}
	if next == domain.MessageFailed {
		return []string{string(domain.MessageSent), string(domain.MessageDelivered), string(domain.MessageRead)}
	}
	out := []string{}
	for _, s := range order {
		if s == next {
			break
		}
		out = append(out, string(s))
	}
	return out
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorny/user-api/internal/core/domain"
)

const auditCollection = "auth_audit"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Email     string             `bson:"email,omitempty"`
	Action    string             `bson:"action"`
	ActorID   string             `bson:"actor_id,omitempty"`
	Timestamp int64              `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		UserID:    event.UserID,
		Email:     event.Email,
		Action:    event.Action,
		ActorID:   event.ActorID,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.AuditEvent
	for cur.Next(ctx) {
		var me mongoAuditEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, &domain.AuditEvent{
			ID:        me.ID.Hex(),
			UserID:    me.UserID,
			Email:     me.Email,
			Action:    me.Action,
			ActorID:   me.ActorID,
			Timestamp: unixToTime(me.Timestamp),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

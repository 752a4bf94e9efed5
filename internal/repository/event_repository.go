// internal/repository/event_repository.go
package repository

import (
	"context"
	"time"

	"maw-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// maxScanRows caps every range scan so an unbounded window can never
	// blow up request memory.
	maxScanRows = 200000

	// idChunkSize is the largest identifier set sent in a single $in
	// filter; larger sets are split and issued sequentially.
	idChunkSize = 500
)

type EventRepository interface {
	Create(ctx context.Context, event *models.AIUsageEvent) error
	// FindSince returns events with created_at >= since, newest first,
	// capped at maxScanRows.
	FindSince(ctx context.Context, since time.Time) ([]models.AIUsageEvent, error)
	// DistinctActiveUsers returns the distinct owning user ids of events
	// since the given time. System events without an owner are excluded.
	DistinctActiveUsers(ctx context.Context, since time.Time) ([]string, error)
	// FindByUserIDsSince returns events for an identifier set of any size
	// with created_at >= since, oldest first, chunked at idChunkSize.
	FindByUserIDsSince(ctx context.Context, userIDs []string, since time.Time) ([]models.AIUsageEvent, error)
}

type eventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(collection *mongo.Collection) EventRepository {
	return &eventRepository{
		collection: collection,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *models.AIUsageEvent) error {
	event.ID = primitive.NewObjectID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.Normalize()

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *eventRepository) FindSince(ctx context.Context, since time.Time) ([]models.AIUsageEvent, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(maxScanRows)

	return r.find(ctx, filter, opts)
}

func (r *eventRepository) DistinctActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": since},
		"user_id":    bson.M{"$nin": bson.A{nil, ""}},
	}

	raw, err := r.collection.Distinct(ctx, "user_id", filter)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok && id != "" {
			userIDs = append(userIDs, id)
		}
	}
	return userIDs, nil
}

func (r *eventRepository) FindByUserIDsSince(ctx context.Context, userIDs []string, since time.Time) ([]models.AIUsageEvent, error) {
	var events []models.AIUsageEvent
	for _, chunk := range chunkIDs(userIDs, idChunkSize) {
		filter := bson.M{
			"user_id":    bson.M{"$in": chunk},
			"created_at": bson.M{"$gte": since},
		}
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: 1}}).
			SetLimit(maxScanRows)

		batch, err := r.find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		events = append(events, batch...)
	}
	return events, nil
}

func (r *eventRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.AIUsageEvent, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.AIUsageEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	for i := range events {
		events[i].Normalize()
	}
	return events, nil
}

// chunkIDs splits an identifier set into slices of at most size elements.
// All batched "in-set" lookups go through this one helper so the chunking
// behavior stays consistent across call sites.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}

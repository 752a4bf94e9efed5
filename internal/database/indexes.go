// internal/database/indexes.go
package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	log.Println("Creating database indexes...")

	usersCollection := m.GetCollection("users")
	if err := m.createUsersIndexes(ctx, usersCollection); err != nil {
		return err
	}

	eventsCollection := m.GetCollection("ai_usage_events")
	if err := m.createEventsIndexes(ctx, eventsCollection); err != nil {
		return err
	}

	log.Println("Database indexes created successfully")
	return nil
}

func (m *MongoDB) createUsersIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return err
	}

	log.Println("Users collection indexes created")
	return nil
}

func (m *MongoDB) createEventsIndexes(ctx context.Context, collection *mongo.Collection) error {
	// The usage log is append-only; every analytics scan is a created_at
	// range, optionally narrowed by user_id.
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return err
	}

	log.Println("Usage events collection indexes created")
	return nil
}

// internal/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"maw-backend/internal/models"
	apperrors "maw-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountFounding(ctx context.Context) (int64, error)
	FindCreatedSince(ctx context.Context, since time.Time) ([]models.User, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]models.User, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]models.User, error)
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) UserRepository {
	return &userRepository{
		collection: collection,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewUserAlreadyExistsError()
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewUserNotFoundError()
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *userRepository) CountFounding(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"founding_member": true})
}

func (r *userRepository) FindCreatedSince(ctx context.Context, since time.Time) ([]models.User, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

func (r *userRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]models.User, error) {
	return r.find(ctx, bson.M{"created_at": bson.M{"$gte": from, "$lt": to}})
}

// FindByUserIDs fetches user records for an identifier set of any size,
// splitting the $in filter into chunks the store handles safely.
func (r *userRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	var users []models.User
	for _, chunk := range chunkIDs(userIDs, idChunkSize) {
		batch, err := r.find(ctx, bson.M{"user_id": bson.M{"$in": chunk}})
		if err != nil {
			return nil, err
		}
		users = append(users, batch...)
	}
	return users, nil
}

func (r *userRepository) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

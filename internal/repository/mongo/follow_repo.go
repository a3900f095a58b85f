package mongo

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const followCollectionName = "follows"

// mongoFollowRepository implements repository.FollowRepository
type mongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new Follow repository.
func NewMongoFollowRepository(db *mongo.Database) repository.FollowRepository {
	return &mongoFollowRepository{
		collection: db.Collection(followCollectionName),
	}
}

// Create inserts a new follow relationship.
func (r *mongoFollowRepository) Create(ctx context.Context, follow *domain.Follow) (primitive.ObjectID, error) {
	if follow.UserID == primitive.NilObjectID || follow.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("follow requires userId and trainerId")
	}
	follow.ID = primitive.NewObjectID()
	follow.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, follow)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted follow ID")
	}
	return insertedID, nil
}

// Get retrieves the follow record for a (user, trainer) pair.
func (r *mongoFollowRepository) Get(ctx context.Context, userID, trainerID primitive.ObjectID) (*domain.Follow, error) {
	var follow domain.Follow
	filter := bson.M{"userId": userID, "trainerId": trainerID}
	err := r.collection.FindOne(ctx, filter).Decode(&follow)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &follow, nil
}

// GetByUserID retrieves everyone the user follows, newest first.
func (r *mongoFollowRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Follow, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// GetByTrainerID retrieves the trainer's followers, newest first.
func (r *mongoFollowRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Follow, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// CountByTrainerID counts the trainer's followers.
func (r *mongoFollowRepository) CountByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"trainerId": trainerID})
}

// Delete removes the follow record for a (user, trainer) pair.
func (r *mongoFollowRepository) Delete(ctx context.Context, userID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFollowRepository) find(ctx context.Context, filter bson.M) ([]domain.Follow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	follows := []domain.Follow{}
	if err := cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// EnsureFollowIndexes creates necessary indexes for the follows collection.
// The compound unique index enforces one follow per (user, trainer) pair.
func EnsureFollowIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "trainerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

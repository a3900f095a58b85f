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

const progressCollectionName = "progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new Progress repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new progress record.
func (r *mongoProgressRepository) Create(ctx context.Context, progress *domain.Progress) (primitive.ObjectID, error) {
	if progress.UserID == primitive.NilObjectID || progress.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress requires userId and planId")
	}
	progress.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	progress.CreatedAt = now
	progress.UpdatedAt = now
	if progress.CompletedDaysList == nil {
		progress.CompletedDaysList = []string{}
	}

	result, err := r.collection.InsertOne(ctx, progress)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress ID")
	}
	return insertedID, nil
}

// GetByUserAndPlan retrieves the progress record for a (user, plan) pair.
func (r *mongoProgressRepository) GetByUserAndPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error) {
	var progress domain.Progress
	filter := bson.M{"userId": userID, "planId": planID}
	err := r.collection.FindOne(ctx, filter).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// Update persists the completed-day state.
func (r *mongoProgressRepository) Update(ctx context.Context, progress *domain.Progress) error {
	filter := bson.M{"_id": progress.ID}
	update := bson.M{
		"$set": bson.M{
			"completedDays":     progress.CompletedDays,
			"completedDaysList": progress.CompletedDaysList,
			"updatedAt":         time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressIndexes creates necessary indexes for the progress collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

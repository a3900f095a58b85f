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

const trainerCollectionName = "trainers"

// mongoTrainerRepository implements repository.TrainerRepository
type mongoTrainerRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerRepository creates a new Trainer repository.
func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{
		collection: db.Collection(trainerCollectionName),
	}
}

// Create inserts a new trainer profile.
func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	if trainer.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("trainer requires userId")
	}
	trainer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, trainer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted trainer ID")
	}
	return insertedID, nil
}

// GetByID retrieves a trainer profile by its ID.
func (r *mongoTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	var trainer domain.Trainer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trainer, nil
}

// GetByUserID retrieves the trainer profile owned by the given user.
func (r *mongoTrainerRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	var trainer domain.Trainer
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&trainer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trainer, nil
}

// Update persists the mutable profile fields.
func (r *mongoTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	filter := bson.M{"_id": trainer.ID}
	update := bson.M{
		"$set": bson.M{
			"certification":  trainer.Certification,
			"bio":            trainer.Bio,
			"specialization": trainer.Specialization,
			"updatedAt":      time.Now().UTC(),
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

// EnsureTrainerIndexes creates necessary indexes for the trainers collection.
func EnsureTrainerIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

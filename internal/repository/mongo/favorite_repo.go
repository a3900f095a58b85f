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

const favoriteCollectionName = "favorites"

// mongoFavoriteRepository implements repository.FavoriteRepository
type mongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository creates a new Favorite repository.
func NewMongoFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &mongoFavoriteRepository{
		collection: db.Collection(favoriteCollectionName),
	}
}

// Create inserts a new favorite.
func (r *mongoFavoriteRepository) Create(ctx context.Context, fav *domain.Favorite) (primitive.ObjectID, error) {
	if fav.UserID == primitive.NilObjectID || fav.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("favorite requires userId and planId")
	}
	fav.ID = primitive.NewObjectID()
	fav.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, fav)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted favorite ID")
	}
	return insertedID, nil
}

// Get retrieves the favorite for a (user, plan) pair.
func (r *mongoFavoriteRepository) Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Favorite, error) {
	var fav domain.Favorite
	filter := bson.M{"userId": userID, "planId": planID}
	err := r.collection.FindOne(ctx, filter).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &fav, nil
}

// GetByUserID retrieves a user's favorites, newest first.
func (r *mongoFavoriteRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	favorites := []domain.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// Delete removes the favorite for a (user, plan) pair.
func (r *mongoFavoriteRepository) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "planId": planID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFavoriteIndexes creates necessary indexes for the favorites collection.
func EnsureFavoriteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

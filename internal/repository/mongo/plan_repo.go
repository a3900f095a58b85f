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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.TrainerID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("plan requires trainerId and title")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetAll retrieves every plan, newest first.
func (r *mongoPlanRepository) GetAll(ctx context.Context) ([]domain.Plan, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

// GetByTrainerID retrieves all plans authored by a trainer, newest first.
func (r *mongoPlanRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID}, newestFirst())
}

// GetByTrainerIDs retrieves plans authored by any of the given trainers, newest first.
// An empty ID set yields an empty result, not an error.
func (r *mongoPlanRepository) GetByTrainerIDs(ctx context.Context, trainerIDs []primitive.ObjectID) ([]domain.Plan, error) {
	if len(trainerIDs) == 0 {
		return []domain.Plan{}, nil
	}
	return r.find(ctx, bson.M{"trainerId": bson.M{"$in": trainerIDs}}, newestFirst())
}

// Search retrieves plans matching the filter. The "popular" sort is resolved by
// the service layer since it needs subscriber counts; here it falls back to newest.
func (r *mongoPlanRepository) Search(ctx context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	query := bson.M{}

	if filter.Query != "" {
		regex := bson.M{"$regex": filter.Query, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
		}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.Duration > 0 {
		query["duration"] = filter.Duration
	}

	sort := newestFirst()
	switch filter.Sort {
	case repository.SortPriceLow:
		sort = options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	case repository.SortPriceHigh:
		sort = options.Find().SetSort(bson.D{{Key: "price", Value: -1}})
	}

	return r.find(ctx, query, sort)
}

// Update persists the mutable plan fields.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	filter := bson.M{"_id": plan.ID, "trainerId": plan.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"title":       plan.Title,
			"description": plan.Description,
			"price":       plan.Price,
			"duration":    plan.Duration,
			"coverKey":    plan.CoverKey,
			"updatedAt":   time.Now().UTC(),
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

// Delete removes a plan, scoped to its owning trainer. Dependent subscriptions,
// progress and favorites are left in place; joined reads tolerate the orphans.
func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainerId": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Plan, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.Plan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// EnsurePlanIndexes creates necessary indexes for the plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

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

const subscriptionCollectionName = "subscriptions"

// mongoSubscriptionRepository implements repository.SubscriptionRepository
type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new Subscription repository.
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{
		collection: db.Collection(subscriptionCollectionName),
	}
}

// Create inserts a new subscription.
func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	if sub.UserID == primitive.NilObjectID || sub.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("subscription requires userId and planId")
	}
	sub.ID = primitive.NewObjectID()
	sub.UpdatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted subscription ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single subscription by its ID.
func (r *mongoSubscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetByUserID retrieves all of a user's subscriptions, newest purchase first.
func (r *mongoSubscriptionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "purchasedAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// GetByPlanID retrieves all subscriptions against a plan, regardless of status.
func (r *mongoSubscriptionRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Subscription, error) {
	return r.find(ctx, bson.M{"planId": planID}, nil)
}

// GetByPlanIDs retrieves all subscriptions against any of the given plans.
func (r *mongoSubscriptionRepository) GetByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.Subscription, error) {
	if len(planIDs) == 0 {
		return []domain.Subscription{}, nil
	}
	return r.find(ctx, bson.M{"planId": bson.M{"$in": planIDs}}, nil)
}

// FindActive retrieves the subscription granting (userID, planID) access at the
// given instant: status ACTIVE and not yet expired.
func (r *mongoSubscriptionRepository) FindActive(ctx context.Context, userID, planID primitive.ObjectID, now time.Time) (*domain.Subscription, error) {
	filter := bson.M{
		"userId":    userID,
		"planId":    planID,
		"status":    domain.SubscriptionActive,
		"expiresAt": bson.M{"$gte": now},
	}
	var sub domain.Subscription
	err := r.collection.FindOne(ctx, filter).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CountByPlanID counts all subscriptions ever sold against a plan.
func (r *mongoSubscriptionRepository) CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"planId": planID})
}

// UpdateStatus flips the subscription status. The caller guarantees the
// ACTIVE -> EXPIRED direction; nothing here reverses it.
func (r *mongoSubscriptionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SubscriptionStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ExpireDue flips all ACTIVE subscriptions past their expiry to EXPIRED.
func (r *mongoSubscriptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":    domain.SubscriptionActive,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.SubscriptionExpired,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoSubscriptionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Subscription, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []domain.Subscription{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// EnsureSubscriptionIndexes creates necessary indexes for the subscriptions collection.
func EnsureSubscriptionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

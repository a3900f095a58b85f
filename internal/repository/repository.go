package repository

import (
	"context"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanSort enumerates the orderings a plan search can request.
type PlanSort string

const (
	SortNewest    PlanSort = "newest"
	SortPriceLow  PlanSort = "price-low"
	SortPriceHigh PlanSort = "price-high"
	SortPopular   PlanSort = "popular" // Applied by the service layer, needs subscriber counts
)

// PlanFilter narrows a plan search. Zero values mean "no constraint".
type PlanFilter struct {
	Query    string   // Case-insensitive substring match on title or description
	MinPrice *float64
	MaxPrice *float64
	Duration int
	Sort     PlanSort
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// TrainerRepository defines the interface for interacting with trainer profiles.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
}

// PlanRepository defines the interface for interacting with fitness plans.
// List results are ordered newest first unless the filter says otherwise.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetAll(ctx context.Context) ([]domain.Plan, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error)
	GetByTrainerIDs(ctx context.Context, trainerIDs []primitive.ObjectID) ([]domain.Plan, error)
	Search(ctx context.Context, filter PlanFilter) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the plan
}

// SubscriptionRepository defines the interface for interacting with subscriptions.
// Subscriptions are never deleted; the only mutation is the status flip.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Subscription, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Subscription, error) // Newest purchase first
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Subscription, error)
	GetByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.Subscription, error)
	FindActive(ctx context.Context, userID, planID primitive.ObjectID, now time.Time) (*domain.Subscription, error)
	CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SubscriptionStatus) error
	// ExpireDue flips every ACTIVE subscription whose expiresAt has passed to
	// EXPIRED and reports how many records changed.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// FollowRepository defines the interface for interacting with follows.
type FollowRepository interface {
	Create(ctx context.Context, follow *domain.Follow) (primitive.ObjectID, error)
	Get(ctx context.Context, userID, trainerID primitive.ObjectID) (*domain.Follow, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Follow, error)    // Newest first
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Follow, error) // Newest first
	CountByTrainerID(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, userID, trainerID primitive.ObjectID) error
}

// FavoriteRepository defines the interface for interacting with favorites.
type FavoriteRepository interface {
	Create(ctx context.Context, fav *domain.Favorite) (primitive.ObjectID, error)
	Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Favorite, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Favorite, error) // Newest first
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
}

// ProgressRepository defines the interface for interacting with progress records.
type ProgressRepository interface {
	Create(ctx context.Context, progress *domain.Progress) (primitive.ObjectID, error)
	GetByUserAndPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error)
	Update(ctx context.Context, progress *domain.Progress) error
}

package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository/memory"
	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-secret"

// env wires every service over a fresh in-memory store.
type env struct {
	store         *memory.Store
	auth          service.AuthService
	plans         service.PlanService
	subscriptions service.SubscriptionService
	follows       service.FollowService
	feed          service.FeedService
	favorites     service.FavoriteService
	progress      service.ProgressService
	stats         service.StatsService
	trainers      service.TrainerService
}

func newEnv() *env {
	store := memory.NewStore()
	users := store.Users()
	trainers := store.Trainers()
	plans := store.Plans()
	subs := store.Subscriptions()
	follows := store.Follows()
	favorites := store.Favorites()
	progress := store.Progress()

	return &env{
		store:         store,
		auth:          service.NewAuthService(users, trainers, plans, follows, testJWTSecret, time.Hour),
		plans:         service.NewPlanService(plans, trainers, users, subs, nil),
		subscriptions: service.NewSubscriptionService(subs, plans, trainers, users),
		follows:       service.NewFollowService(follows, trainers, users, plans),
		feed:          service.NewFeedService(follows, plans, subs, trainers, users),
		favorites:     service.NewFavoriteService(favorites, plans, trainers, users),
		progress:      service.NewProgressService(progress, subs, plans),
		stats:         service.NewStatsService(trainers, plans, subs, follows),
		trainers:      service.NewTrainerService(trainers, users, plans, follows, subs),
	}
}

// signupUser registers a regular user and returns its ID.
func signupUser(t *testing.T, e *env, email string) primitive.ObjectID {
	t.Helper()
	_, user, err := e.auth.Signup(context.Background(), "User "+email, email, "password123", domain.RoleUser)
	require.NoError(t, err)
	return user.ID
}

// signupTrainer registers a trainer and returns the user ID and the trainer
// profile ID.
func signupTrainer(t *testing.T, e *env, email string) (userID, trainerID primitive.ObjectID) {
	t.Helper()
	_, user, err := e.auth.Signup(context.Background(), "Trainer "+email, email, "password123", domain.RoleTrainer)
	require.NoError(t, err)

	trainer, err := e.store.Trainers().GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	return user.ID, trainer.ID
}

// createPlan authors a plan on behalf of the trainer's user account.
func createPlan(t *testing.T, e *env, trainerUserID primitive.ObjectID, title string, price float64, duration int) *domain.Plan {
	t.Helper()
	detail, err := e.plans.Create(context.Background(), trainerUserID, service.PlanInput{
		Title:       title,
		Description: fmt.Sprintf("Description of %s", title),
		Price:       price,
		Duration:    duration,
	})
	require.NoError(t, err)
	return detail.Plan
}

// seedSubscription inserts a subscription record directly, bypassing the
// purchase path, so tests can backdate purchases and expiries.
func seedSubscription(t *testing.T, e *env, userID, planID primitive.ObjectID, status domain.SubscriptionStatus, purchasedAt, expiresAt time.Time) *domain.Subscription {
	t.Helper()
	sub := &domain.Subscription{
		UserID:      userID,
		PlanID:      planID,
		Status:      status,
		PurchasedAt: purchasedAt,
		ExpiresAt:   expiresAt,
	}
	_, err := e.store.Subscriptions().Create(context.Background(), sub)
	require.NoError(t, err)
	return sub
}

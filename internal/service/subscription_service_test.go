package service_test

import (
	"context"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubscribe(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	t.Run("SetsExpiryFromPlanDuration", func(t *testing.T) {
		before := time.Now().UTC()
		detail, err := e.subscriptions.Subscribe(ctx, userID, plan.ID)
		require.NoError(t, err)

		sub := detail.Subscription
		assert.Equal(t, domain.SubscriptionActive, sub.Status)
		wantExpiry := sub.PurchasedAt.AddDate(0, 0, plan.Duration)
		assert.Equal(t, wantExpiry, sub.ExpiresAt)
		assert.False(t, sub.PurchasedAt.Before(before))
		require.NotNil(t, detail.Plan)
		assert.Equal(t, plan.ID, detail.Plan.ID)
	})

	t.Run("DuplicateActiveConflicts", func(t *testing.T) {
		_, err := e.subscriptions.Subscribe(ctx, userID, plan.ID)
		assert.ErrorIs(t, err, service.ErrAlreadySubscribed)
	})

	t.Run("UnknownPlan", func(t *testing.T) {
		_, err := e.subscriptions.Subscribe(ctx, userID, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}

func TestSubscribe_AgainAfterExpiry(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	now := time.Now().UTC()
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionActive,
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))

	// The old subscription is past its expiry, so a new purchase is allowed.
	_, err := e.subscriptions.Subscribe(context.Background(), userID, plan.ID)
	require.NoError(t, err)
}

func TestListForUser_ReconcilesExpiredFirst(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	now := time.Now().UTC()
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionActive,
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))

	details, err := e.subscriptions.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, domain.SubscriptionExpired, details[0].Subscription.Status,
		"the read path flips overdue subscriptions before returning them")
}

func TestListForUser_NewestPurchaseFirst(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	planA := createPlan(t, e, trainerUserID, "A", 10, 30)
	planB := createPlan(t, e, trainerUserID, "B", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	now := time.Now().UTC()
	seedSubscription(t, e, userID, planA.ID, domain.SubscriptionActive,
		now.Add(-2*time.Hour), now.AddDate(0, 0, 30))
	seedSubscription(t, e, userID, planB.ID, domain.SubscriptionActive,
		now.Add(-1*time.Hour), now.AddDate(0, 0, 30))

	details, err := e.subscriptions.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, planB.ID, details[0].Plan.ID)
	assert.Equal(t, planA.ID, details[1].Plan.ID)
}

func TestGetSubscription_OwnerOnly(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	ownerID := signupUser(t, e, "owner@example.com")
	strangerID := signupUser(t, e, "stranger@example.com")

	detail, err := e.subscriptions.Subscribe(context.Background(), ownerID, plan.ID)
	require.NoError(t, err)
	subID := detail.Subscription.ID

	_, err = e.subscriptions.Get(context.Background(), ownerID, subID)
	require.NoError(t, err)

	_, err = e.subscriptions.Get(context.Background(), strangerID, subID)
	assert.ErrorIs(t, err, service.ErrSubscriptionAccessDenied)

	_, err = e.subscriptions.Get(context.Background(), ownerID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrSubscriptionNotFound)
}

func TestReconcileExpired_IsIdempotent(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	now := time.Now().UTC()
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionActive,
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))
	// Still-current subscription must not be touched.
	other := createPlan(t, e, trainerUserID, "Other", 10, 30)
	seedSubscription(t, e, userID, other.ID, domain.SubscriptionActive,
		now, now.AddDate(0, 0, 30))

	flipped, err := e.subscriptions.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	flipped, err = e.subscriptions.ReconcileExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), flipped)
}

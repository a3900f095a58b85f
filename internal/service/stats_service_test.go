package service_test

import (
	"context"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerStats(t *testing.T) {
	e := newEnv()
	trainerUserID, trainerID := signupTrainer(t, e, "coach@example.com")
	hit := createPlan(t, e, trainerUserID, "Bestseller", 10, 30)
	slow := createPlan(t, e, trainerUserID, "Slow Mover", 20, 30)
	createPlan(t, e, trainerUserID, "No Takers", 30, 30)
	ctx := context.Background()

	now := time.Now().UTC()
	// Four buyers of the bestseller, one of them lapsed; one buyer of the
	// slow mover.
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		buyer := signupUser(t, e, email)
		_, err := e.subscriptions.Subscribe(ctx, buyer, hit.ID)
		require.NoError(t, err)
	}
	lapsed := signupUser(t, e, "lapsed@x.com")
	seedSubscription(t, e, lapsed, hit.ID, domain.SubscriptionExpired,
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))
	other := signupUser(t, e, "other@x.com")
	_, err := e.subscriptions.Subscribe(ctx, other, slow.ID)
	require.NoError(t, err)

	_, err = e.follows.Follow(ctx, other, trainerID)
	require.NoError(t, err)

	stats, err := e.stats.TrainerStats(ctx, trainerUserID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalPlans)
	assert.Equal(t, 5, stats.TotalSubscribers)
	assert.Equal(t, 4, stats.ActiveSubscriptions)
	// Revenue is recognized at purchase and never reversed: 4*10 + 1*20.
	assert.Equal(t, 60.0, stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.Followers)
	assert.Equal(t, 20.0, stats.AveragePlanPrice)
}

func TestTrainerStats_MonthlyRevenueBuckets(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	now := time.Now().UTC()
	// One purchase this month, one three months back, one outside the window.
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionActive,
		now, now.AddDate(0, 0, 30))
	threeBack := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -3, 0)
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionExpired,
		threeBack, threeBack.AddDate(0, 0, 30))
	old := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -8, 0)
	seedSubscription(t, e, userID, plan.ID, domain.SubscriptionExpired,
		old, old.AddDate(0, 0, 30))

	stats, err := e.stats.TrainerStats(ctx, trainerUserID)
	require.NoError(t, err)

	require.Len(t, stats.MonthlyRevenue, 6)
	// Oldest bucket first, current month last, labeled with the short name.
	assert.Equal(t, now.Month().String()[:3], stats.MonthlyRevenue[5].Month)
	assert.Equal(t, 10.0, stats.MonthlyRevenue[5].Revenue)
	assert.Equal(t, 10.0, stats.MonthlyRevenue[2].Revenue)
	assert.Equal(t, 0.0, stats.MonthlyRevenue[0].Revenue)

	var windowTotal float64
	for _, m := range stats.MonthlyRevenue {
		windowTotal += m.Revenue
	}
	assert.Equal(t, 20.0, windowTotal, "the purchase outside the window is not bucketed")
}

func TestTrainerStats_TopPlans(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	ctx := context.Background()

	// Seven plans with descending subscriber counts 7..1; only five may rank.
	plans := make([]*domain.Plan, 0, 7)
	for i := 0; i < 7; i++ {
		plans = append(plans, createPlan(t, e, trainerUserID, string(rune('A'+i)), 10, 30))
	}
	now := time.Now().UTC()
	for i, plan := range plans {
		for j := 0; j <= 6-i; j++ {
			buyer := signupUser(t, e, string(rune('a'+i))+string(rune('a'+j))+"@x.com")
			seedSubscription(t, e, buyer, plan.ID, domain.SubscriptionActive,
				now, now.AddDate(0, 0, 30))
		}
	}

	stats, err := e.stats.TrainerStats(ctx, trainerUserID)
	require.NoError(t, err)

	require.Len(t, stats.TopPlans, 5)
	assert.Equal(t, plans[0].ID, stats.TopPlans[0].ID)
	assert.Equal(t, 7, stats.TopPlans[0].Subscribers)
	assert.Equal(t, 70.0, stats.TopPlans[0].Revenue)
	assert.Equal(t, 3, stats.TopPlans[4].Subscribers)
}

func TestTrainerStats_RequiresTrainerProfile(t *testing.T) {
	e := newEnv()
	userID := signupUser(t, e, "user@example.com")

	_, err := e.stats.TrainerStats(context.Background(), userID)
	assert.ErrorIs(t, err, service.ErrTrainerProfileMissing)
}

func TestTrainerStats_EmptyTrainer(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "fresh@example.com")

	stats, err := e.stats.TrainerStats(context.Background(), trainerUserID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPlans)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.AveragePlanPrice)
	assert.Len(t, stats.MonthlyRevenue, 6)
	assert.Empty(t, stats.TopPlans)
}

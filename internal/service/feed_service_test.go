package service_test

import (
	"context"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeed_EmptyWithoutFollows(t *testing.T) {
	e := newEnv()
	userID := signupUser(t, e, "user@example.com")

	feed, err := e.feed.BuildFeed(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Equal(t, 0, feed.TotalPlans)
	assert.Equal(t, 0, feed.SubscribedPlans)
}

func TestBuildFeed_OnlyFollowedTrainers(t *testing.T) {
	e := newEnv()
	coachUserID, coachID := signupTrainer(t, e, "coach@example.com")
	yogiUserID, _ := signupTrainer(t, e, "yogi@example.com")
	coachPlan := createPlan(t, e, coachUserID, "Strength 101", 10, 30)
	createPlan(t, e, yogiUserID, "Sun Salutations", 5, 14)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	_, err := e.follows.Follow(ctx, userID, coachID)
	require.NoError(t, err)

	feed, err := e.feed.BuildFeed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, coachPlan.ID, feed.Items[0].ID)
	require.NotNil(t, feed.Items[0].Trainer)
	assert.Equal(t, coachID, feed.Items[0].Trainer.Trainer.ID)
	assert.Equal(t, 1, feed.TotalPlans)
}

func TestBuildFeed_SubscriptionFlags(t *testing.T) {
	e := newEnv()
	coachUserID, coachID := signupTrainer(t, e, "coach@example.com")
	subscribed := createPlan(t, e, coachUserID, "Subscribed", 10, 30)
	lapsed := createPlan(t, e, coachUserID, "Lapsed", 10, 30)
	createPlan(t, e, coachUserID, "Unsubscribed", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	_, err := e.follows.Follow(ctx, userID, coachID)
	require.NoError(t, err)
	_, err = e.subscriptions.Subscribe(ctx, userID, subscribed.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	seedSubscription(t, e, userID, lapsed.ID, domain.SubscriptionActive,
		now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))

	feed, err := e.feed.BuildFeed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, 3, feed.TotalPlans)
	assert.Equal(t, 1, feed.SubscribedPlans, "a past-expiry subscription does not count")

	flags := make(map[string]bool, 3)
	for _, item := range feed.Items {
		flags[item.Title] = item.IsSubscribed
	}
	assert.True(t, flags["Subscribed"])
	assert.False(t, flags["Lapsed"])
	assert.False(t, flags["Unsubscribed"])
}

func TestBuildFeed_NewestFirst(t *testing.T) {
	e := newEnv()
	coachUserID, coachID := signupTrainer(t, e, "coach@example.com")
	createPlan(t, e, coachUserID, "Older", 10, 30)
	time.Sleep(2 * time.Millisecond)
	newer := createPlan(t, e, coachUserID, "Newer", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	_, err := e.follows.Follow(ctx, userID, coachID)
	require.NoError(t, err)

	feed, err := e.feed.BuildFeed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, newer.ID, feed.Items[0].ID)
}

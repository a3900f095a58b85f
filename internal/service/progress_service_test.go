package service_test

import (
	"context"
	"testing"

	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProgress_RequiresActiveSubscription(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	_, err := e.progress.Get(context.Background(), userID, plan.ID)
	assert.ErrorIs(t, err, service.ErrNoActiveSubscription)

	_, err = e.progress.SetDayStatus(context.Background(), userID, plan.ID, 1, true)
	assert.ErrorIs(t, err, service.ErrNoActiveSubscription)
}

func TestProgress_LazyCreation(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	_, err := e.subscriptions.Subscribe(context.Background(), userID, plan.ID)
	require.NoError(t, err)

	progress, err := e.progress.Get(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Duration, progress.TotalDays)
	assert.Equal(t, 0, progress.CompletedDays)
	assert.Empty(t, progress.CompletedDaysList)

	// A second read returns the same record, not a fresh one.
	again, err := e.progress.Get(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, again.ID)
}

func TestSetDayStatus(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	_, err := e.subscriptions.Subscribe(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("MarkComplete", func(t *testing.T) {
		progress, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 3, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, progress.CompletedDaysList)
		assert.Equal(t, 1, progress.CompletedDays)
	})

	t.Run("IdempotentComplete", func(t *testing.T) {
		progress, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 3, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, progress.CompletedDaysList)
		assert.Equal(t, 1, progress.CompletedDays)
	})

	t.Run("NumericOrder", func(t *testing.T) {
		_, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 10, true)
		require.NoError(t, err)
		progress, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 2, true)
		require.NoError(t, err)
		// "10" sorts after "2" numerically, not lexically.
		assert.Equal(t, []string{"2", "3", "10"}, progress.CompletedDaysList)
		assert.Equal(t, 3, progress.CompletedDays)
	})

	t.Run("Unmark", func(t *testing.T) {
		progress, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 3, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "10"}, progress.CompletedDaysList)
		assert.Equal(t, 2, progress.CompletedDays)
	})

	t.Run("IdempotentUnmark", func(t *testing.T) {
		progress, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 3, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "10"}, progress.CompletedDaysList)
	})

	t.Run("DayOutOfRange", func(t *testing.T) {
		_, err := e.progress.SetDayStatus(ctx, userID, plan.ID, 0, true)
		assert.ErrorIs(t, err, service.ErrDayOutOfRange)
		_, err = e.progress.SetDayStatus(ctx, userID, plan.ID, plan.Duration+1, true)
		assert.ErrorIs(t, err, service.ErrDayOutOfRange)
	})
}

func TestProgress_UnknownPlan(t *testing.T) {
	e := newEnv()
	userID := signupUser(t, e, "user@example.com")

	_, err := e.progress.Get(context.Background(), userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrNoActiveSubscription)
}

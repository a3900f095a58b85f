package service_test

import (
	"context"
	"testing"

	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFavorites(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		detail, err := e.favorites.Add(ctx, userID, plan.ID)
		require.NoError(t, err)
		require.NotNil(t, detail.Plan)
		assert.Equal(t, plan.ID, detail.Plan.ID)
	})

	t.Run("DuplicateConflicts", func(t *testing.T) {
		_, err := e.favorites.Add(ctx, userID, plan.ID)
		assert.ErrorIs(t, err, service.ErrAlreadyFavorited)
	})

	t.Run("Check", func(t *testing.T) {
		yes, err := e.favorites.IsFavorited(ctx, userID, plan.ID)
		require.NoError(t, err)
		assert.True(t, yes)

		yes, err = e.favorites.IsFavorited(ctx, userID, primitive.NewObjectID())
		require.NoError(t, err)
		assert.False(t, yes)
	})

	t.Run("List", func(t *testing.T) {
		favs, err := e.favorites.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, plan.ID, favs[0].Plan.ID)
		require.NotNil(t, favs[0].Trainer)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, e.favorites.Remove(ctx, userID, plan.ID))

		yes, err := e.favorites.IsFavorited(ctx, userID, plan.ID)
		require.NoError(t, err)
		assert.False(t, yes)

		err = e.favorites.Remove(ctx, userID, plan.ID)
		assert.ErrorIs(t, err, service.ErrFavoriteNotFound)
	})
}

func TestAddFavorite_UnknownPlan(t *testing.T) {
	e := newEnv()
	userID := signupUser(t, e, "user@example.com")

	_, err := e.favorites.Add(context.Background(), userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, service.ErrPlanNotFound)
}

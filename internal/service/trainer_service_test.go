package service_test

import (
	"context"
	"testing"

	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPublicProfile(t *testing.T) {
	e := newEnv()
	trainerUserID, trainerID := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "viewer@example.com")
	ctx := context.Background()

	buyer := signupUser(t, e, "buyer@example.com")
	_, err := e.subscriptions.Subscribe(ctx, buyer, plan.ID)
	require.NoError(t, err)

	t.Run("Anonymous", func(t *testing.T) {
		profile, err := e.trainers.PublicProfile(ctx, trainerID, primitive.NilObjectID)
		require.NoError(t, err)
		assert.Equal(t, "Trainer coach@example.com", profile.User.Name)
		assert.Equal(t, int64(1), profile.PlanCount)
		require.Len(t, profile.Plans, 1)
		assert.Equal(t, int64(1), profile.Plans[0].SubscriberCount)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("FollowingViewer", func(t *testing.T) {
		_, err := e.follows.Follow(ctx, userID, trainerID)
		require.NoError(t, err)

		profile, err := e.trainers.PublicProfile(ctx, trainerID, userID)
		require.NoError(t, err)
		assert.True(t, profile.IsFollowing)
		assert.Equal(t, int64(1), profile.FollowerCount)
	})

	t.Run("UnknownTrainer", func(t *testing.T) {
		_, err := e.trainers.PublicProfile(ctx, primitive.NewObjectID(), userID)
		assert.ErrorIs(t, err, service.ErrTrainerNotFound)
	})
}

func TestUpdateTrainerProfile(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	ctx := context.Background()

	trainer, err := e.trainers.UpdateProfile(ctx, trainerUserID, service.ProfileInput{
		Certification:  "NASM-CPT",
		Bio:            "Ten years of coaching.",
		Specialization: "Powerlifting",
	})
	require.NoError(t, err)
	assert.Equal(t, "NASM-CPT", trainer.Certification)

	stored, err := e.store.Trainers().GetByUserID(ctx, trainerUserID)
	require.NoError(t, err)
	assert.Equal(t, "Powerlifting", stored.Specialization)

	userID := signupUser(t, e, "user@example.com")
	_, err = e.trainers.UpdateProfile(ctx, userID, service.ProfileInput{Bio: "nope"})
	assert.ErrorIs(t, err, service.ErrTrainerProfileMissing)
}

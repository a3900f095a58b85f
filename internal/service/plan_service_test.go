package service_test

import (
	"context"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"fitmarket/fitness-marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePlan_RequiresTrainerProfile(t *testing.T) {
	e := newEnv()
	userID := signupUser(t, e, "user@example.com")

	_, err := e.plans.Create(context.Background(), userID, service.PlanInput{
		Title: "Plan", Price: 10, Duration: 30,
	})
	assert.ErrorIs(t, err, service.ErrTrainerProfileMissing)
}

func TestCreatePlan_Validation(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")

	cases := []struct {
		name  string
		input service.PlanInput
	}{
		{"EmptyTitle", service.PlanInput{Price: 10, Duration: 30}},
		{"NegativePrice", service.PlanInput{Title: "P", Price: -1, Duration: 30}},
		{"ZeroDuration", service.PlanInput{Title: "P", Price: 10, Duration: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.plans.Create(context.Background(), trainerUserID, tc.input)
			assert.ErrorIs(t, err, service.ErrInvalidPlanInput)
		})
	}
}

func TestGetPlan_AccessGating(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Strength 101", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	t.Run("Anonymous", func(t *testing.T) {
		detail, err := e.plans.Get(context.Background(), plan.ID, primitive.NilObjectID)
		require.NoError(t, err)
		assert.False(t, detail.HasAccess)
	})

	t.Run("NotSubscribed", func(t *testing.T) {
		detail, err := e.plans.Get(context.Background(), plan.ID, userID)
		require.NoError(t, err)
		assert.False(t, detail.HasAccess)
	})

	t.Run("ActiveSubscription", func(t *testing.T) {
		_, err := e.subscriptions.Subscribe(context.Background(), userID, plan.ID)
		require.NoError(t, err)

		detail, err := e.plans.Get(context.Background(), plan.ID, userID)
		require.NoError(t, err)
		assert.True(t, detail.HasAccess)
	})

	t.Run("ExpiredSubscription", func(t *testing.T) {
		other := signupUser(t, e, "lapsed@example.com")
		now := time.Now().UTC()
		seedSubscription(t, e, other, plan.ID, domain.SubscriptionActive,
			now.AddDate(0, 0, -40), now.AddDate(0, 0, -10))

		detail, err := e.plans.Get(context.Background(), plan.ID, other)
		require.NoError(t, err)
		assert.False(t, detail.HasAccess, "a past-expiry subscription grants no access even before the sweep")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := e.plans.Get(context.Background(), primitive.NewObjectID(), userID)
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}

func TestUpdatePlan_OwnerOnly(t *testing.T) {
	e := newEnv()
	ownerUserID, _ := signupTrainer(t, e, "owner@example.com")
	otherUserID, _ := signupTrainer(t, e, "other@example.com")
	plan := createPlan(t, e, ownerUserID, "Original", 10, 30)

	_, err := e.plans.Update(context.Background(), otherUserID, plan.ID, service.PlanInput{
		Title: "Hijacked", Price: 1, Duration: 1,
	})
	assert.ErrorIs(t, err, service.ErrPlanAccessDenied)

	detail, err := e.plans.Update(context.Background(), ownerUserID, plan.ID, service.PlanInput{
		Title: "Renamed", Price: 20, Duration: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Plan.Title)
	assert.Equal(t, 45, detail.Plan.Duration)
}

func TestDeletePlan_OrphanTolerantReads(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	plan := createPlan(t, e, trainerUserID, "Doomed", 10, 30)
	userID := signupUser(t, e, "user@example.com")

	_, err := e.subscriptions.Subscribe(context.Background(), userID, plan.ID)
	require.NoError(t, err)
	_, err = e.favorites.Add(context.Background(), userID, plan.ID)
	require.NoError(t, err)

	require.NoError(t, e.plans.Delete(context.Background(), trainerUserID, plan.ID))

	subs, err := e.subscriptions.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Nil(t, subs[0].Plan, "deleted plan leaves the subscription record with no plan")

	favs, err := e.favorites.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Nil(t, favs[0].Plan)
}

func TestSearchPlans(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	cheap := createPlan(t, e, trainerUserID, "Beginner Yoga", 5, 14)
	mid := createPlan(t, e, trainerUserID, "Strength Builder", 20, 30)
	pricey := createPlan(t, e, trainerUserID, "Elite Powerlifting", 50, 30)

	ctx := context.Background()

	t.Run("QueryIsCaseInsensitive", func(t *testing.T) {
		results, err := e.plans.Search(ctx, repository.PlanFilter{Query: "YOGA"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, cheap.ID, results[0].ID)
	})

	t.Run("QueryMatchesDescription", func(t *testing.T) {
		results, err := e.plans.Search(ctx, repository.PlanFilter{Query: "description of strength"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, mid.ID, results[0].ID)
	})

	t.Run("PriceRange", func(t *testing.T) {
		min, max := 10.0, 30.0
		results, err := e.plans.Search(ctx, repository.PlanFilter{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, mid.ID, results[0].ID)
	})

	t.Run("Duration", func(t *testing.T) {
		results, err := e.plans.Search(ctx, repository.PlanFilter{Duration: 14})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, cheap.ID, results[0].ID)
	})

	t.Run("SortPriceLow", func(t *testing.T) {
		results, err := e.plans.Search(ctx, repository.PlanFilter{Sort: repository.SortPriceLow})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, cheap.ID, results[0].ID)
		assert.Equal(t, pricey.ID, results[2].ID)
	})

	t.Run("SortPopular", func(t *testing.T) {
		userID := signupUser(t, e, "sub@example.com")
		_, err := e.subscriptions.Subscribe(ctx, userID, mid.ID)
		require.NoError(t, err)

		results, err := e.plans.Search(ctx, repository.PlanFilter{Sort: repository.SortPopular})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, mid.ID, results[0].ID)
		assert.Equal(t, int64(1), results[0].SubscriberCount)
	})
}

func TestListPlans_NewestFirstWithCounts(t *testing.T) {
	e := newEnv()
	trainerUserID, _ := signupTrainer(t, e, "coach@example.com")
	first := createPlan(t, e, trainerUserID, "First", 10, 30)
	time.Sleep(2 * time.Millisecond)
	second := createPlan(t, e, trainerUserID, "Second", 10, 30)

	previews, err := e.plans.List(context.Background())
	require.NoError(t, err)
	require.Len(t, previews, 2)
	assert.Equal(t, second.ID, previews[0].ID)
	assert.Equal(t, first.ID, previews[1].ID)
	assert.Equal(t, "Trainer coach@example.com", previews[0].TrainerName)
}

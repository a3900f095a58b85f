package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitmarket/fitness-marketplace/internal/api"
	"fitmarket/fitness-marketplace/internal/repository/memory"
	"fitmarket/fitness-marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "routes-test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	users := store.Users()
	trainers := store.Trainers()
	plans := store.Plans()
	subs := store.Subscriptions()
	follows := store.Follows()
	favorites := store.Favorites()
	progress := store.Progress()

	router := gin.New()
	api.SetupRoutes(router, testJWTSecret, api.Services{
		Auth:         service.NewAuthService(users, trainers, plans, follows, testJWTSecret, time.Hour),
		Plan:         service.NewPlanService(plans, trainers, users, subs, nil),
		Subscription: service.NewSubscriptionService(subs, plans, trainers, users),
		Follow:       service.NewFollowService(follows, trainers, users, plans),
		Feed:         service.NewFeedService(follows, plans, subs, trainers, users),
		Favorite:     service.NewFavoriteService(favorites, plans, trainers, users),
		Progress:     service.NewProgressService(progress, subs, plans),
		Stats:        service.NewStatsService(trainers, plans, subs, follows),
		Trainer:      service.NewTrainerService(trainers, users, plans, follows, subs),
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	parsed := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func signup(t *testing.T, router *gin.Engine, email, role string) string {
	t.Helper()
	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     "Test " + email,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createPlanHTTP(t *testing.T, router *gin.Engine, token, title string, price float64, duration int) string {
	t.Helper()
	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/plans", token, gin.H{
		"title":       title,
		"description": "Full program for " + title,
		"price":       price,
		"duration":    duration,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan, _ := body["plan"].(map[string]any)
	id, _ := plan["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestSignupEndpoint(t *testing.T) {
	router := newTestRouter()

	t.Run("Created", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
			"name": "Alice", "email": "alice@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		user, _ := body["user"].(map[string]any)
		assert.Equal(t, "USER", user["role"])
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
			"name": "Alice Again", "email": "alice@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("InvalidRoleRejected", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
			"name": "Bob", "email": "bob@example.com", "password": "password123", "role": "ADMIN",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter()
	signup(t, router, "carol@example.com", "")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "carol@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "carol@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, body["message"])
}

func TestTrainerOnlyRoutes(t *testing.T) {
	router := newTestRouter()
	userToken := signup(t, router, "user@example.com", "USER")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/plans", userToken, gin.H{
		"title": "Sneaky", "price": 10, "duration": 30,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/stats/trainer", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/plans", "", gin.H{
		"title": "Anonymous", "price": 10, "duration": 30,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlanDetailProjection(t *testing.T) {
	router := newTestRouter()
	trainerToken := signup(t, router, "coach@example.com", "TRAINER")
	planID := createPlanHTTP(t, router, trainerToken, "Strength 101", 10, 30)
	userToken := signup(t, router, "user@example.com", "USER")

	t.Run("AnonymousGetsPreview", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodGet, "/api/v1/plans/"+planID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["hasAccess"])
		plan, _ := body["plan"].(map[string]any)
		_, hasDescription := plan["description"]
		assert.False(t, hasDescription, "preview carries no description")
	})

	t.Run("SubscriberGetsFullContent", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/subscriptions/"+planID, userToken, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, body := doJSON(t, router, http.MethodGet, "/api/v1/plans/"+planID, userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["hasAccess"])
		plan, _ := body["plan"].(map[string]any)
		assert.Equal(t, "Full program for Strength 101", plan["description"])
	})

	t.Run("DuplicateSubscriptionConflicts", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/subscriptions/"+planID, userToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("UnknownPlanIs404", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/plans/ffffffffffffffffffffffff", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProgressEndpoint(t *testing.T) {
	router := newTestRouter()
	trainerToken := signup(t, router, "coach@example.com", "TRAINER")
	planID := createPlanHTTP(t, router, trainerToken, "Strength 101", 10, 30)
	userToken := signup(t, router, "user@example.com", "USER")

	t.Run("ForbiddenWithoutSubscription", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/progress/"+planID, userToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/subscriptions/"+planID, userToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("MarkDay", func(t *testing.T) {
		rec, body := doJSON(t, router, http.MethodPut, "/api/v1/progress/"+planID, userToken, gin.H{
			"day": 5, "completed": true,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, float64(1), body["completedDays"])
		assert.Equal(t, []any{"5"}, body["completedDaysList"])
	})

	t.Run("DayOutOfRangeIs400", func(t *testing.T) {
		rec, _ := doJSON(t, router, http.MethodPut, "/api/v1/progress/"+planID, userToken, gin.H{
			"day": 31, "completed": true,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFollowAndFeedEndpoints(t *testing.T) {
	router := newTestRouter()
	trainerToken := signup(t, router, "coach@example.com", "TRAINER")
	planID := createPlanHTTP(t, router, trainerToken, "Strength 101", 10, 30)
	userToken := signup(t, router, "user@example.com", "USER")

	// The trainer profile ID comes from the trainer's own /auth/me.
	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", trainerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile, _ := body["trainerProfile"].(map[string]any)
	trainerID, _ := profile["id"].(string)
	require.NotEmpty(t, trainerID)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/follows/"+trainerID, userToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/follows/"+trainerID, userToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = doJSON(t, router, http.MethodGet, "/api/v1/feed", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["totalPlans"])
	feed, _ := body["feed"].([]any)
	require.Len(t, feed, 1)
	item, _ := feed[0].(map[string]any)
	assert.Equal(t, planID, item["id"])

	rec, body = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/trainer/%s", trainerID), userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["isFollowing"])

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/follows/"+trainerID, userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFavoritesEndpoints(t *testing.T) {
	router := newTestRouter()
	trainerToken := signup(t, router, "coach@example.com", "TRAINER")
	planID := createPlanHTTP(t, router, trainerToken, "Strength 101", 10, 30)
	userToken := signup(t, router, "user@example.com", "USER")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/favorites/"+planID, userToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, router, http.MethodGet, "/api/v1/favorites/check/"+planID, userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["isFavorited"])

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/favorites/"+planID, userToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/favorites/"+planID, userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/favorites/"+planID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

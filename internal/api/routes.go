package api

import (
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router needs.
type Services struct {
	Auth         service.AuthService
	Plan         service.PlanService
	Subscription service.SubscriptionService
	Follow       service.FollowService
	Feed         service.FeedService
	Favorite     service.FavoriteService
	Progress     service.ProgressService
	Stats        service.StatsService
	Trainer      service.TrainerService
}

// SetupRoutes registers every API endpoint on the router.
func SetupRoutes(router *gin.Engine, jwtSecret string, svcs Services) {
	authHandler := NewAuthHandler(svcs.Auth)
	planHandler := NewPlanHandler(svcs.Plan)
	subscriptionHandler := NewSubscriptionHandler(svcs.Subscription)
	followHandler := NewFollowHandler(svcs.Follow)
	feedHandler := NewFeedHandler(svcs.Feed)
	favoriteHandler := NewFavoriteHandler(svcs.Favorite)
	progressHandler := NewProgressHandler(svcs.Progress)
	statsHandler := NewStatsHandler(svcs.Stats)
	trainerHandler := NewTrainerHandler(svcs.Trainer)

	authMiddleware := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)
	trainerOnly := RoleMiddleware(domain.RoleTrainer)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
	}

	// Public and optional-auth reads. Authenticated callers on the optional
	// routes get access-aware projections.
	apiV1.GET("/plans", planHandler.GetPlans)
	apiV1.GET("/plans/:id", optionalAuth, planHandler.GetPlanByID)
	apiV1.GET("/search/plans", planHandler.SearchPlans)
	apiV1.GET("/users/trainer/:trainerId", optionalAuth, trainerHandler.GetTrainerProfile)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", trainerOnly, planHandler.CreatePlan)
			planGroup.PUT("/:id", trainerOnly, planHandler.UpdatePlan)
			planGroup.DELETE("/:id", trainerOnly, planHandler.DeletePlan)
			planGroup.GET("/trainer/my-plans", trainerOnly, planHandler.GetMyPlans)
			planGroup.POST("/:id/cover", trainerOnly, planHandler.RequestCoverUpload)
		}

		subscriptionGroup := protected.Group("/subscriptions")
		{
			subscriptionGroup.POST("/:planId", subscriptionHandler.Subscribe)
			subscriptionGroup.GET("", subscriptionHandler.GetSubscriptions)
			subscriptionGroup.GET("/:id", subscriptionHandler.GetSubscriptionByID)
		}

		followGroup := protected.Group("/follows")
		{
			followGroup.POST("/:trainerId", followHandler.Follow)
			followGroup.DELETE("/:trainerId", followHandler.Unfollow)
			followGroup.GET("/following", followHandler.Following)
			followGroup.GET("/trainer/followers", trainerOnly, followHandler.Followers)
		}

		protected.GET("/feed", feedHandler.GetFeed)

		favoriteGroup := protected.Group("/favorites")
		{
			favoriteGroup.POST("/:planId", favoriteHandler.AddFavorite)
			favoriteGroup.DELETE("/:planId", favoriteHandler.RemoveFavorite)
			favoriteGroup.GET("", favoriteHandler.GetFavorites)
			favoriteGroup.GET("/check/:planId", favoriteHandler.CheckFavorite)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("/:planId", progressHandler.GetProgress)
			progressGroup.PUT("/:planId", progressHandler.UpdateProgress)
		}

		protected.GET("/stats/trainer", trainerOnly, statsHandler.GetTrainerStats)
		protected.PUT("/users/trainer/profile", trainerOnly, trainerHandler.UpdateTrainerProfile)
	}
}

package main

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/api"
	"fitmarket/fitness-marketplace/internal/config"
	"fitmarket/fitness-marketplace/internal/repository"
	"fitmarket/fitness-marketplace/internal/repository/memory"
	mongorepo "fitmarket/fitness-marketplace/internal/repository/mongo"
	"fitmarket/fitness-marketplace/internal/service"
	"fitmarket/fitness-marketplace/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type repositories struct {
	users         repository.UserRepository
	trainers      repository.TrainerRepository
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	follows       repository.FollowRepository
	favorites     repository.FavoriteRepository
	progress      repository.ProgressRepository
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting fitness marketplace server")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("Could not load config", zap.Error(err))
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Repositories ---
	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Info("Using in-memory repository backend")
		store := memory.NewStore()
		repos = repositories{
			users:         store.Users(),
			trainers:      store.Trainers(),
			plans:         store.Plans(),
			subscriptions: store.Subscriptions(),
			follows:       store.Follows(),
			favorites:     store.Favorites(),
			progress:      store.Progress(),
		}
	case config.DriverMongo:
		dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
		if err != nil {
			logger.Fatal("Could not connect to MongoDB", zap.Error(err))
		}
		defer func() {
			if err := mongorepo.DisconnectDB(dbClient); err != nil {
				logger.Error("Failed to disconnect MongoDB", zap.Error(err))
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		logger.Info("Database connection established", zap.String("database", cfg.Database.Name))

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongorepo.EnsureUserIndexes(ctx, appDB.Collection("users"))
			mongorepo.EnsureTrainerIndexes(ctx, appDB.Collection("trainers"))
			mongorepo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
			mongorepo.EnsureSubscriptionIndexes(ctx, appDB.Collection("subscriptions"))
			mongorepo.EnsureFollowIndexes(ctx, appDB.Collection("follows"))
			mongorepo.EnsureFavoriteIndexes(ctx, appDB.Collection("favorites"))
			mongorepo.EnsureProgressIndexes(ctx, appDB.Collection("progress"))
			logger.Info("Index creation process completed")
		}()

		repos = repositories{
			users:         mongorepo.NewMongoUserRepository(appDB),
			trainers:      mongorepo.NewMongoTrainerRepository(appDB),
			plans:         mongorepo.NewMongoPlanRepository(appDB),
			subscriptions: mongorepo.NewMongoSubscriptionRepository(appDB),
			follows:       mongorepo.NewMongoFollowRepository(appDB),
			favorites:     mongorepo.NewMongoFavoriteRepository(appDB),
			progress:      mongorepo.NewMongoProgressRepository(appDB),
		}
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}

	// --- Object storage (plan cover images) ---
	var covers storage.ObjectStorage
	if cfg.S3.Endpoint != "" {
		covers, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		logger.Info("Object storage initialized", zap.String("bucket", cfg.S3.BucketName))
	} else {
		logger.Warn("No S3 endpoint configured; cover image uploads disabled")
	}

	// --- Services ---
	authService := service.NewAuthService(repos.users, repos.trainers, repos.plans, repos.follows, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(repos.plans, repos.trainers, repos.users, repos.subscriptions, covers)
	subscriptionService := service.NewSubscriptionService(repos.subscriptions, repos.plans, repos.trainers, repos.users)
	followService := service.NewFollowService(repos.follows, repos.trainers, repos.users, repos.plans)
	feedService := service.NewFeedService(repos.follows, repos.plans, repos.subscriptions, repos.trainers, repos.users)
	favoriteService := service.NewFavoriteService(repos.favorites, repos.plans, repos.trainers, repos.users)
	progressService := service.NewProgressService(repos.progress, repos.subscriptions, repos.plans)
	statsService := service.NewStatsService(repos.trainers, repos.plans, repos.subscriptions, repos.follows)
	trainerService := service.NewTrainerService(repos.trainers, repos.users, repos.plans, repos.follows, repos.subscriptions)

	// --- Scheduled subscription-expiry sweep ---
	if cfg.Expiry.Schedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Expiry.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			flipped, err := subscriptionService.ReconcileExpired(ctx)
			if err != nil {
				logger.Error("Subscription expiry sweep failed", zap.Error(err))
				return
			}
			if flipped > 0 {
				logger.Info("Subscription expiry sweep", zap.Int64("expired", flipped))
			}
		})
		if err != nil {
			logger.Fatal("Invalid expiry schedule", zap.String("schedule", cfg.Expiry.Schedule), zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Expiry sweep scheduled", zap.String("schedule", cfg.Expiry.Schedule))
	}

	// --- Router ---
	router := gin.New()
	router.Use(api.RequestLogger(logger), gin.Recovery())

	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:         authService,
		Plan:         planService,
		Subscription: subscriptionService,
		Follow:       followService,
		Feed:         feedService,
		Favorite:     favoriteService,
		Progress:     progressService,
		Stats:        statsService,
		Trainer:      trainerService,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

package service

import (
	"context"
	"fitmarket/fitness-marketplace/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedItem is a plan from a followed trainer, annotated with the viewer's
// subscription status.
type FeedItem struct {
	ID           primitive.ObjectID
	Title        string
	Description  string
	Price        float64
	Duration     int
	Trainer      *TrainerInfo
	IsSubscribed bool
	CreatedAt    time.Time
}

// Feed is the personalized feed with its summary counts.
type Feed struct {
	Items           []FeedItem
	TotalPlans      int
	SubscribedPlans int
}

// --- Service Interface ---
type FeedService interface {
	// BuildFeed returns every plan from the trainers the user follows, newest
	// plan first. An empty follow set yields an empty feed, not an error.
	BuildFeed(ctx context.Context, userID primitive.ObjectID) (*Feed, error)
}

// --- Service Implementation ---

type feedService struct {
	followRepo  repository.FollowRepository
	planRepo    repository.PlanRepository
	subRepo     repository.SubscriptionRepository
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	resolver    resolver
}

// NewFeedService creates a new instance of feedService.
func NewFeedService(
	followRepo repository.FollowRepository,
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
) FeedService {
	return &feedService{
		followRepo:  followRepo,
		planRepo:    planRepo,
		subRepo:     subRepo,
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		resolver:    resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

// BuildFeed assembles the feed: followed trainers -> their plans -> each plan
// annotated with the viewer's active-subscription status.
func (s *feedService) BuildFeed(ctx context.Context, userID primitive.ObjectID) (*Feed, error) {
	follows, err := s.followRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	trainerIDs := make([]primitive.ObjectID, 0, len(follows))
	for i := range follows {
		trainerIDs = append(trainerIDs, follows[i].TrainerID)
	}

	plans, err := s.planRepo.GetByTrainerIDs(ctx, trainerIDs)
	if err != nil {
		return nil, err
	}

	// The set of plans the viewer can currently access.
	subs, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	subscribed := make(map[primitive.ObjectID]bool, len(subs))
	for i := range subs {
		if subs[i].IsActive(now) {
			subscribed[subs[i].PlanID] = true
		}
	}

	cache := newTrainerInfoCache(&s.resolver)
	feed := &Feed{Items: make([]FeedItem, 0, len(plans))}
	for i := range plans {
		plan := plans[i]
		info, err := cache.get(ctx, plan.TrainerID)
		if err != nil {
			return nil, err
		}
		item := FeedItem{
			ID:           plan.ID,
			Title:        plan.Title,
			Description:  plan.Description,
			Price:        plan.Price,
			Duration:     plan.Duration,
			Trainer:      info,
			IsSubscribed: subscribed[plan.ID],
			CreatedAt:    plan.CreatedAt,
		}
		feed.Items = append(feed.Items, item)
		if item.IsSubscribed {
			feed.SubscribedPlans++
		}
	}
	feed.TotalPlans = len(feed.Items)
	return feed, nil
}

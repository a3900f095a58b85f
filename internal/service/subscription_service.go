package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAlreadySubscribed        = errors.New("an active subscription to this plan already exists")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrSubscriptionAccessDenied = errors.New("not authorized to view this subscription")
)

// SubscriptionDetail is a subscription joined with its plan and the plan's
// trainer. Plan is nil when the plan has since been deleted.
type SubscriptionDetail struct {
	Subscription *domain.Subscription
	Plan         *domain.Plan
	Trainer      *TrainerInfo
}

// --- Service Interface ---
type SubscriptionService interface {
	// Subscribe purchases a plan for the user. Payment is simulated; the
	// subscription starts now and expires after the plan's duration in days.
	Subscribe(ctx context.Context, userID, planID primitive.ObjectID) (*SubscriptionDetail, error)
	// ListForUser reconciles expired subscriptions first, then returns the
	// user's subscriptions, newest purchase first.
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]SubscriptionDetail, error)
	Get(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*SubscriptionDetail, error)
	// ReconcileExpired flips every ACTIVE subscription past its expiry to
	// EXPIRED. Invoked on a schedule and as a pre-check on the read path;
	// repeated calls are no-ops.
	ReconcileExpired(ctx context.Context) (int64, error)
}

// --- Service Implementation ---

type subscriptionService struct {
	subRepo     repository.SubscriptionRepository
	planRepo    repository.PlanRepository
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	resolver    resolver
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
) SubscriptionService {
	return &subscriptionService{
		subRepo:     subRepo,
		planRepo:    planRepo,
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		resolver:    resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

// Subscribe purchases a plan.
func (s *subscriptionService) Subscribe(ctx context.Context, userID, planID primitive.ObjectID) (*SubscriptionDetail, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.subRepo.FindActive(ctx, userID, planID, now); err == nil {
		return nil, ErrAlreadySubscribed
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	sub := &domain.Subscription{
		UserID:      userID,
		PlanID:      planID,
		Status:      domain.SubscriptionActive,
		PurchasedAt: now,
		ExpiresAt:   now.AddDate(0, 0, plan.Duration),
	}
	if _, err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return s.detail(ctx, sub, newTrainerInfoCache(&s.resolver))
}

// ListForUser returns the user's subscription history.
func (s *subscriptionService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]SubscriptionDetail, error) {
	// Deliberate pre-check instead of flipping records inside the read loop.
	if _, err := s.ReconcileExpired(ctx); err != nil {
		return nil, err
	}

	subs, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cache := newTrainerInfoCache(&s.resolver)
	details := make([]SubscriptionDetail, 0, len(subs))
	for i := range subs {
		detail, err := s.detail(ctx, &subs[i], cache)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// Get returns one subscription, owner only.
func (s *subscriptionService) Get(ctx context.Context, userID, subscriptionID primitive.ObjectID) (*SubscriptionDetail, error) {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrSubscriptionAccessDenied
	}
	return s.detail(ctx, sub, newTrainerInfoCache(&s.resolver))
}

// ReconcileExpired runs the expiry sweep.
func (s *subscriptionService) ReconcileExpired(ctx context.Context) (int64, error) {
	return s.subRepo.ExpireDue(ctx, time.Now().UTC())
}

// detail joins a subscription with its plan and trainer. A deleted plan leaves
// Plan nil rather than failing the whole read.
func (s *subscriptionService) detail(ctx context.Context, sub *domain.Subscription, cache *trainerInfoCache) (*SubscriptionDetail, error) {
	detail := &SubscriptionDetail{Subscription: sub}

	plan, err := s.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail, nil
		}
		return nil, err
	}
	detail.Plan = plan

	info, err := cache.get(ctx, plan.TrainerID)
	if err != nil {
		return nil, err
	}
	detail.Trainer = info
	return detail, nil
}

package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoActiveSubscription = errors.New("no active subscription for this plan")
	ErrDayOutOfRange        = errors.New("day is outside the plan schedule")
)

// --- Service Interface ---
type ProgressService interface {
	// Get returns the user's progress for a plan, creating the record on first
	// access. Requires an active subscription.
	Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error)
	// SetDayStatus marks a scheduled day complete or incomplete. Idempotent:
	// re-marking a day in its current state changes nothing. Day must be
	// within [1, totalDays].
	SetDayStatus(ctx context.Context, userID, planID primitive.ObjectID, day int, completed bool) (*domain.Progress, error)
}

// --- Service Implementation ---

type progressService struct {
	progressRepo repository.ProgressRepository
	subRepo      repository.SubscriptionRepository
	planRepo     repository.PlanRepository
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		subRepo:      subRepo,
		planRepo:     planRepo,
	}
}

// Get returns (or lazily creates) the progress record.
func (s *progressService) Get(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error) {
	if err := s.requireActiveSubscription(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, userID, planID)
}

// SetDayStatus toggles one scheduled day and recomputes the derived state.
func (s *progressService) SetDayStatus(ctx context.Context, userID, planID primitive.ObjectID, day int, completed bool) (*domain.Progress, error) {
	if err := s.requireActiveSubscription(ctx, userID, planID); err != nil {
		return nil, err
	}

	progress, err := s.getOrCreate(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	if day < 1 || day > progress.TotalDays {
		return nil, ErrDayOutOfRange
	}

	dayStr := strconv.Itoa(day)
	list := progress.CompletedDaysList
	if completed {
		if !containsDay(list, dayStr) {
			list = append(list, dayStr)
		}
	} else {
		filtered := list[:0]
		for _, d := range list {
			if d != dayStr {
				filtered = append(filtered, d)
			}
		}
		list = filtered
	}

	// Keep the list numerically sorted; entries are day numbers as strings.
	sort.Slice(list, func(i, j int) bool {
		a, _ := strconv.Atoi(list[i])
		b, _ := strconv.Atoi(list[j])
		return a < b
	})

	progress.CompletedDaysList = list
	progress.CompletedDays = len(list)
	if err := s.progressRepo.Update(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// requireActiveSubscription gates the progress ledger behind the access policy.
func (s *progressService) requireActiveSubscription(ctx context.Context, userID, planID primitive.ObjectID) error {
	_, err := s.subRepo.FindActive(ctx, userID, planID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActiveSubscription
		}
		return err
	}
	return nil
}

func (s *progressService) getOrCreate(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error) {
	progress, err := s.progressRepo.GetByUserAndPlan(ctx, userID, planID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	progress = &domain.Progress{
		UserID:            userID,
		PlanID:            planID,
		TotalDays:         plan.Duration,
		CompletedDays:     0,
		CompletedDaysList: []string{},
	}
	if _, err := s.progressRepo.Create(ctx, progress); err != nil {
		// A concurrent first access may have created it already.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.progressRepo.GetByUserAndPlan(ctx, userID, planID)
		}
		return nil, err
	}
	return progress, nil
}

func containsDay(list []string, day string) bool {
	for _, d := range list {
		if d == day {
			return true
		}
	}
	return false
}

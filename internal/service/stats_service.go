package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	topPlanLimit       = 5
	revenueMonthWindow = 6
)

// MonthRevenue is one bucket of the trailing monthly-revenue series.
type MonthRevenue struct {
	Month   string  // Short month name, e.g. "Sep"
	Revenue float64
}

// TopPlan ranks one plan by subscriber count.
type TopPlan struct {
	ID          primitive.ObjectID
	Title       string
	Subscribers int
	// Revenue is subscriber count times the plan's current price. Price is
	// read from the plan, not the subscription, so historical price changes
	// are not reflected.
	Revenue float64
}

// TrainerStats aggregates a trainer's business numbers.
type TrainerStats struct {
	TotalPlans          int
	TotalSubscribers    int
	ActiveSubscriptions int
	TotalRevenue        float64 // Recognized at purchase, never reversed on expiry
	Followers           int64
	AveragePlanPrice    float64 // 0 when the trainer has no plans
	MonthlyRevenue      []MonthRevenue
	TopPlans            []TopPlan
}

// --- Service Interface ---
type StatsService interface {
	// TrainerStats computes the dashboard numbers for the trainer behind userID.
	TrainerStats(ctx context.Context, userID primitive.ObjectID) (*TrainerStats, error)
}

// --- Service Implementation ---

type statsService struct {
	trainerRepo repository.TrainerRepository
	planRepo    repository.PlanRepository
	subRepo     repository.SubscriptionRepository
	followRepo  repository.FollowRepository
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(
	trainerRepo repository.TrainerRepository,
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	followRepo repository.FollowRepository,
) StatsService {
	return &statsService{
		trainerRepo: trainerRepo,
		planRepo:    planRepo,
		subRepo:     subRepo,
		followRepo:  followRepo,
	}
}

// TrainerStats scans every subscription against the trainer's plans and
// derives all numbers in one pass over the data.
func (s *statsService) TrainerStats(ctx context.Context, userID primitive.ObjectID) (*TrainerStats, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileMissing
		}
		return nil, err
	}

	plans, err := s.planRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}

	planIDs := make([]primitive.ObjectID, 0, len(plans))
	priceByPlan := make(map[primitive.ObjectID]float64, len(plans))
	for i := range plans {
		planIDs = append(planIDs, plans[i].ID)
		priceByPlan[plans[i].ID] = plans[i].Price
	}

	subs, err := s.subRepo.GetByPlanIDs(ctx, planIDs)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountByTrainerID(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stats := &TrainerStats{
		TotalPlans:       len(plans),
		TotalSubscribers: len(subs),
		Followers:        followers,
	}

	subsByPlan := make(map[primitive.ObjectID]int, len(plans))
	for i := range subs {
		sub := subs[i]
		// Revenue at current plan price; recognized at purchase.
		stats.TotalRevenue += priceByPlan[sub.PlanID]
		if sub.IsActive(now) {
			stats.ActiveSubscriptions++
		}
		subsByPlan[sub.PlanID]++
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)

	if len(plans) > 0 {
		var priceSum float64
		for i := range plans {
			priceSum += plans[i].Price
		}
		stats.AveragePlanPrice = round2(priceSum / float64(len(plans)))
	}

	stats.MonthlyRevenue = monthlyRevenue(subs, priceByPlan, now)
	stats.TopPlans = topPlans(plans, subsByPlan)
	return stats, nil
}

// monthlyRevenue buckets purchases into the trailing six calendar months,
// oldest bucket first, current month last.
func monthlyRevenue(subs []domain.Subscription, priceByPlan map[primitive.ObjectID]float64, now time.Time) []MonthRevenue {
	buckets := make([]MonthRevenue, 0, revenueMonthWindow)
	for i := revenueMonthWindow - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		nextMonth := monthStart.AddDate(0, 1, 0)

		var revenue float64
		for j := range subs {
			purchased := subs[j].PurchasedAt
			if !purchased.Before(monthStart) && purchased.Before(nextMonth) {
				revenue += priceByPlan[subs[j].PlanID]
			}
		}
		buckets = append(buckets, MonthRevenue{
			Month:   monthStart.Month().String()[:3],
			Revenue: round2(revenue),
		})
	}
	return buckets
}

// topPlans ranks plans by subscriber count, descending. The sort is stable so
// ties keep the incoming plan order.
func topPlans(plans []domain.Plan, subsByPlan map[primitive.ObjectID]int) []TopPlan {
	ranked := make([]TopPlan, 0, len(plans))
	for i := range plans {
		plan := plans[i]
		count := subsByPlan[plan.ID]
		ranked = append(ranked, TopPlan{
			ID:          plan.ID,
			Title:       plan.Title,
			Subscribers: count,
			Revenue:     round2(float64(count) * plan.Price),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Subscribers > ranked[j].Subscribers
	})
	if len(ranked) > topPlanLimit {
		ranked = ranked[:topPlanLimit]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package memory

import (
	"context"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionRepo implements repository.SubscriptionRepository over the shared store.
type SubscriptionRepo struct {
	store *Store
}

func (r *SubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sub.ID = newID()
	sub.UpdatedAt = nowUTC()
	r.store.subscriptions = append(r.store.subscriptions, *sub)
	return sub.ID, nil
}

func (r *SubscriptionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.subscriptions {
		if r.store.subscriptions[i].ID == id {
			s := r.store.subscriptions[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SubscriptionRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subs := []domain.Subscription{}
	for i := range r.store.subscriptions {
		if r.store.subscriptions[i].UserID == userID {
			subs = append(subs, r.store.subscriptions[i])
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].PurchasedAt.After(subs[j].PurchasedAt)
	})
	return subs, nil
}

func (r *SubscriptionRepo) GetByPlanID(_ context.Context, planID primitive.ObjectID) ([]domain.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	subs := []domain.Subscription{}
	for i := range r.store.subscriptions {
		if r.store.subscriptions[i].PlanID == planID {
			subs = append(subs, r.store.subscriptions[i])
		}
	}
	return subs, nil
}

func (r *SubscriptionRepo) GetByPlanIDs(_ context.Context, planIDs []primitive.ObjectID) ([]domain.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]bool, len(planIDs))
	for _, id := range planIDs {
		wanted[id] = true
	}

	subs := []domain.Subscription{}
	for i := range r.store.subscriptions {
		if wanted[r.store.subscriptions[i].PlanID] {
			subs = append(subs, r.store.subscriptions[i])
		}
	}
	return subs, nil
}

func (r *SubscriptionRepo) FindActive(_ context.Context, userID, planID primitive.ObjectID, now time.Time) (*domain.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.subscriptions {
		s := r.store.subscriptions[i]
		if s.UserID == userID && s.PlanID == planID && s.IsActive(now) {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SubscriptionRepo) CountByPlanID(_ context.Context, planID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for i := range r.store.subscriptions {
		if r.store.subscriptions[i].PlanID == planID {
			count++
		}
	}
	return count, nil
}

func (r *SubscriptionRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var flipped int64
	for i := range r.store.subscriptions {
		s := &r.store.subscriptions[i]
		if s.Status == domain.SubscriptionActive && s.ExpiresAt.Before(now) {
			s.Status = domain.SubscriptionExpired
			s.UpdatedAt = nowUTC()
			flipped++
		}
	}
	return flipped, nil
}

func (r *SubscriptionRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.SubscriptionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.subscriptions {
		if r.store.subscriptions[i].ID == id {
			r.store.subscriptions[i].Status = status
			r.store.subscriptions[i].UpdatedAt = nowUTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

package memory

import (
	"context"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanRepo implements repository.PlanRepository over the shared store.
type PlanRepo struct {
	store *Store
}

func (r *PlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	plan.ID = newID()
	now := nowUTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.store.plans = append(r.store.plans, *plan)
	return plan.ID, nil
}

func (r *PlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.plans {
		if r.store.plans[i].ID == id {
			p := r.store.plans[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PlanRepo) GetAll(_ context.Context) ([]domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortNewestFirst(append([]domain.Plan{}, r.store.plans...)), nil
}

func (r *PlanRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	plans := []domain.Plan{}
	for i := range r.store.plans {
		if r.store.plans[i].TrainerID == trainerID {
			plans = append(plans, r.store.plans[i])
		}
	}
	return sortNewestFirst(plans), nil
}

func (r *PlanRepo) GetByTrainerIDs(_ context.Context, trainerIDs []primitive.ObjectID) ([]domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[primitive.ObjectID]bool, len(trainerIDs))
	for _, id := range trainerIDs {
		wanted[id] = true
	}

	plans := []domain.Plan{}
	for i := range r.store.plans {
		if wanted[r.store.plans[i].TrainerID] {
			plans = append(plans, r.store.plans[i])
		}
	}
	return sortNewestFirst(plans), nil
}

func (r *PlanRepo) Search(_ context.Context, filter repository.PlanFilter) ([]domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	plans := []domain.Plan{}
	for i := range r.store.plans {
		p := r.store.plans[i]
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.Duration > 0 && p.Duration != filter.Duration {
			continue
		}
		plans = append(plans, p)
	}

	switch filter.Sort {
	case repository.SortPriceLow:
		sort.SliceStable(plans, func(i, j int) bool { return plans[i].Price < plans[j].Price })
	case repository.SortPriceHigh:
		sort.SliceStable(plans, func(i, j int) bool { return plans[i].Price > plans[j].Price })
	default:
		sortNewestFirst(plans)
	}
	return plans, nil
}

func (r *PlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.plans {
		if r.store.plans[i].ID == plan.ID && r.store.plans[i].TrainerID == plan.TrainerID {
			r.store.plans[i].Title = plan.Title
			r.store.plans[i].Description = plan.Description
			r.store.plans[i].Price = plan.Price
			r.store.plans[i].Duration = plan.Duration
			r.store.plans[i].CoverKey = plan.CoverKey
			r.store.plans[i].UpdatedAt = nowUTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *PlanRepo) Delete(_ context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.plans {
		if r.store.plans[i].ID == id && r.store.plans[i].TrainerID == trainerID {
			r.store.plans = append(r.store.plans[:i], r.store.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func sortNewestFirst(plans []domain.Plan) []domain.Plan {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans
}

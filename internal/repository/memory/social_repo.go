package memory

import (
	"context"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowRepo implements repository.FollowRepository over the shared store.
type FollowRepo struct {
	store *Store
}

func (r *FollowRepo) Create(_ context.Context, follow *domain.Follow) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.follows {
		if r.store.follows[i].UserID == follow.UserID && r.store.follows[i].TrainerID == follow.TrainerID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	follow.ID = newID()
	follow.CreatedAt = nowUTC()
	r.store.follows = append(r.store.follows, *follow)
	return follow.ID, nil
}

func (r *FollowRepo) Get(_ context.Context, userID, trainerID primitive.ObjectID) (*domain.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.follows {
		if r.store.follows[i].UserID == userID && r.store.follows[i].TrainerID == trainerID {
			f := r.store.follows[i]
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FollowRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	follows := []domain.Follow{}
	for i := range r.store.follows {
		if r.store.follows[i].UserID == userID {
			follows = append(follows, r.store.follows[i])
		}
	}
	return sortFollowsNewestFirst(follows), nil
}

func (r *FollowRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Follow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	follows := []domain.Follow{}
	for i := range r.store.follows {
		if r.store.follows[i].TrainerID == trainerID {
			follows = append(follows, r.store.follows[i])
		}
	}
	return sortFollowsNewestFirst(follows), nil
}

func (r *FollowRepo) CountByTrainerID(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for i := range r.store.follows {
		if r.store.follows[i].TrainerID == trainerID {
			count++
		}
	}
	return count, nil
}

func (r *FollowRepo) Delete(_ context.Context, userID, trainerID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.follows {
		if r.store.follows[i].UserID == userID && r.store.follows[i].TrainerID == trainerID {
			r.store.follows = append(r.store.follows[:i], r.store.follows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func sortFollowsNewestFirst(follows []domain.Follow) []domain.Follow {
	sort.SliceStable(follows, func(i, j int) bool {
		return follows[i].CreatedAt.After(follows[j].CreatedAt)
	})
	return follows
}

// FavoriteRepo implements repository.FavoriteRepository over the shared store.
type FavoriteRepo struct {
	store *Store
}

func (r *FavoriteRepo) Create(_ context.Context, fav *domain.Favorite) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.favorites {
		if r.store.favorites[i].UserID == fav.UserID && r.store.favorites[i].PlanID == fav.PlanID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	fav.ID = newID()
	fav.CreatedAt = nowUTC()
	r.store.favorites = append(r.store.favorites, *fav)
	return fav.ID, nil
}

func (r *FavoriteRepo) Get(_ context.Context, userID, planID primitive.ObjectID) (*domain.Favorite, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.favorites {
		if r.store.favorites[i].UserID == userID && r.store.favorites[i].PlanID == planID {
			f := r.store.favorites[i]
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FavoriteRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Favorite, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	favorites := []domain.Favorite{}
	for i := range r.store.favorites {
		if r.store.favorites[i].UserID == userID {
			favorites = append(favorites, r.store.favorites[i])
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})
	return favorites, nil
}

func (r *FavoriteRepo) Delete(_ context.Context, userID, planID primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.favorites {
		if r.store.favorites[i].UserID == userID && r.store.favorites[i].PlanID == planID {
			r.store.favorites = append(r.store.favorites[:i], r.store.favorites[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ProgressRepo implements repository.ProgressRepository over the shared store.
type ProgressRepo struct {
	store *Store
}

func (r *ProgressRepo) Create(_ context.Context, progress *domain.Progress) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.progress {
		if r.store.progress[i].UserID == progress.UserID && r.store.progress[i].PlanID == progress.PlanID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	progress.ID = newID()
	now := nowUTC()
	progress.CreatedAt = now
	progress.UpdatedAt = now
	if progress.CompletedDaysList == nil {
		progress.CompletedDaysList = []string{}
	}
	r.store.progress = append(r.store.progress, *progress)
	return progress.ID, nil
}

func (r *ProgressRepo) GetByUserAndPlan(_ context.Context, userID, planID primitive.ObjectID) (*domain.Progress, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.progress {
		if r.store.progress[i].UserID == userID && r.store.progress[i].PlanID == planID {
			p := r.store.progress[i]
			p.CompletedDaysList = append([]string{}, p.CompletedDaysList...)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ProgressRepo) Update(_ context.Context, progress *domain.Progress) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.progress {
		if r.store.progress[i].ID == progress.ID {
			r.store.progress[i].CompletedDays = progress.CompletedDays
			r.store.progress[i].CompletedDaysList = append([]string{}, progress.CompletedDaysList...)
			r.store.progress[i].UpdatedAt = nowUTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

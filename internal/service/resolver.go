package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerInfo is a trainer joined with its owning user, the display shape
// every read path needs.
type TrainerInfo struct {
	Trainer *domain.Trainer
	User    *domain.User
}

// resolver attaches related records to an entity by repeated lookup. The
// collections are small and unjoined; every read re-resolves.
type resolver struct {
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
}

// trainerWithUser resolves trainer -> owning user. Returns ErrNotFound from
// the repository when either side is missing.
func (r *resolver) trainerWithUser(ctx context.Context, trainerID primitive.ObjectID) (*TrainerInfo, error) {
	trainer, err := r.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	user, err := r.userRepo.GetByID(ctx, trainer.UserID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &TrainerInfo{Trainer: trainer, User: user}, nil
}

// trainerInfoCache memoizes trainerWithUser within a single request, so list
// endpoints resolve each trainer once instead of once per row.
type trainerInfoCache struct {
	res   *resolver
	cache map[primitive.ObjectID]*TrainerInfo
}

func newTrainerInfoCache(res *resolver) *trainerInfoCache {
	return &trainerInfoCache{res: res, cache: map[primitive.ObjectID]*TrainerInfo{}}
}

// get resolves a trainer, caching hits and misses. A missing trainer yields
// (nil, nil): joined reads tolerate orphans left by plan deletion.
func (c *trainerInfoCache) get(ctx context.Context, trainerID primitive.ObjectID) (*TrainerInfo, error) {
	if info, ok := c.cache[trainerID]; ok {
		return info, nil
	}
	info, err := c.res.trainerWithUser(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.cache[trainerID] = nil
			return nil, nil
		}
		return nil, err
	}
	c.cache[trainerID] = info
	return info, nil
}

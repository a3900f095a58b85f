package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTrainerNotFound  = errors.New("trainer not found")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this trainer")
	ErrNotFollowing     = errors.New("not following this trainer")
)

// FollowedTrainer is a follow joined with the trainer's display info and counts.
type FollowedTrainer struct {
	Follow        *domain.Follow
	Trainer       *TrainerInfo
	PlanCount     int64
	FollowerCount int64
}

// Follower is a follow joined with the following user.
type Follower struct {
	Follow *domain.Follow
	User   *domain.User
}

// --- Service Interface ---
type FollowService interface {
	Follow(ctx context.Context, userID, trainerID primitive.ObjectID) (*FollowedTrainer, error)
	Unfollow(ctx context.Context, userID, trainerID primitive.ObjectID) error
	// Following lists the trainers the user follows, newest first.
	Following(ctx context.Context, userID primitive.ObjectID) ([]FollowedTrainer, error)
	// Followers lists the authenticated trainer's followers, newest first.
	Followers(ctx context.Context, trainerUserID primitive.ObjectID) ([]Follower, error)
	IsFollowing(ctx context.Context, userID, trainerID primitive.ObjectID) (bool, error)
}

// --- Service Implementation ---

type followService struct {
	followRepo  repository.FollowRepository
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	planRepo    repository.PlanRepository
	resolver    resolver
}

// NewFollowService creates a new instance of followService.
func NewFollowService(
	followRepo repository.FollowRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
) FollowService {
	return &followService{
		followRepo:  followRepo,
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		planRepo:    planRepo,
		resolver:    resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

// Follow creates a follow relationship.
func (s *followService) Follow(ctx context.Context, userID, trainerID primitive.ObjectID) (*FollowedTrainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	if trainer.UserID == userID {
		return nil, ErrSelfFollow
	}

	follow := &domain.Follow{UserID: userID, TrainerID: trainerID}
	if _, err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	return s.followed(ctx, follow, newTrainerInfoCache(&s.resolver))
}

// Unfollow removes a follow relationship.
func (s *followService) Unfollow(ctx context.Context, userID, trainerID primitive.ObjectID) error {
	if err := s.followRepo.Delete(ctx, userID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return err
	}
	return nil
}

// Following lists the trainers the user follows.
func (s *followService) Following(ctx context.Context, userID primitive.ObjectID) ([]FollowedTrainer, error) {
	follows, err := s.followRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cache := newTrainerInfoCache(&s.resolver)
	followed := make([]FollowedTrainer, 0, len(follows))
	for i := range follows {
		item, err := s.followed(ctx, &follows[i], cache)
		if err != nil {
			return nil, err
		}
		followed = append(followed, *item)
	}
	return followed, nil
}

// Followers lists the followers of the trainer behind trainerUserID.
func (s *followService) Followers(ctx context.Context, trainerUserID primitive.ObjectID) ([]Follower, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, trainerUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileMissing
		}
		return nil, err
	}

	follows, err := s.followRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}

	followers := make([]Follower, 0, len(follows))
	for i := range follows {
		follow := follows[i]
		user, err := s.userRepo.GetByID(ctx, follow.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		user.PasswordHash = ""
		followers = append(followers, Follower{Follow: &follow, User: user})
	}
	return followers, nil
}

// IsFollowing reports whether the follow relationship exists.
func (s *followService) IsFollowing(ctx context.Context, userID, trainerID primitive.ObjectID) (bool, error) {
	_, err := s.followRepo.Get(ctx, userID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *followService) followed(ctx context.Context, follow *domain.Follow, cache *trainerInfoCache) (*FollowedTrainer, error) {
	item := &FollowedTrainer{Follow: follow}

	info, err := cache.get(ctx, follow.TrainerID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return item, nil
	}
	item.Trainer = info

	plans, err := s.planRepo.GetByTrainerID(ctx, follow.TrainerID)
	if err != nil {
		return nil, err
	}
	item.PlanCount = int64(len(plans))

	followers, err := s.followRepo.CountByTrainerID(ctx, follow.TrainerID)
	if err != nil {
		return nil, err
	}
	item.FollowerCount = followers
	return item, nil
}

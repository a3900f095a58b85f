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
	ErrAlreadyFavorited = errors.New("plan already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteDetail is a favorite joined with its plan and the plan's trainer.
// Plan is nil when the plan has since been deleted.
type FavoriteDetail struct {
	Favorite *domain.Favorite
	Plan     *domain.Plan
	Trainer  *TrainerInfo
}

// --- Service Interface ---
type FavoriteService interface {
	Add(ctx context.Context, userID, planID primitive.ObjectID) (*FavoriteDetail, error)
	Remove(ctx context.Context, userID, planID primitive.ObjectID) error
	// List returns the user's favorites, newest first.
	List(ctx context.Context, userID primitive.ObjectID) ([]FavoriteDetail, error)
	IsFavorited(ctx context.Context, userID, planID primitive.ObjectID) (bool, error)
}

// --- Service Implementation ---

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	planRepo     repository.PlanRepository
	trainerRepo  repository.TrainerRepository
	userRepo     repository.UserRepository
	resolver     resolver
}

// NewFavoriteService creates a new instance of favoriteService.
func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	planRepo repository.PlanRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		planRepo:     planRepo,
		trainerRepo:  trainerRepo,
		userRepo:     userRepo,
		resolver:     resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

// Add bookmarks a plan.
func (s *favoriteService) Add(ctx context.Context, userID, planID primitive.ObjectID) (*FavoriteDetail, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	fav := &domain.Favorite{UserID: userID, PlanID: planID}
	if _, err := s.favoriteRepo.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}

	return &FavoriteDetail{Favorite: fav, Plan: plan}, nil
}

// Remove deletes the bookmark.
func (s *favoriteService) Remove(ctx context.Context, userID, planID primitive.ObjectID) error {
	if err := s.favoriteRepo.Delete(ctx, userID, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

// List returns the user's favorites with their plans resolved. Favorites whose
// plan has been deleted are returned with a nil Plan.
func (s *favoriteService) List(ctx context.Context, userID primitive.ObjectID) ([]FavoriteDetail, error) {
	favorites, err := s.favoriteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cache := newTrainerInfoCache(&s.resolver)
	details := make([]FavoriteDetail, 0, len(favorites))
	for i := range favorites {
		fav := favorites[i]
		detail := FavoriteDetail{Favorite: &fav}

		plan, err := s.planRepo.GetByID(ctx, fav.PlanID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		} else {
			detail.Plan = plan
			info, err := cache.get(ctx, plan.TrainerID)
			if err != nil {
				return nil, err
			}
			detail.Trainer = info
		}
		details = append(details, detail)
	}
	return details, nil
}

// IsFavorited reports whether the user has bookmarked the plan.
func (s *favoriteService) IsFavorited(ctx context.Context, userID, planID primitive.ObjectID) (bool, error) {
	_, err := s.favoriteRepo.Get(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

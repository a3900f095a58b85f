package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerProfile is the public profile page for a trainer: display info,
// plan previews, counts, and whether the viewer follows them.
type TrainerProfile struct {
	Trainer       *domain.Trainer
	User          *domain.User
	Plans         []PlanPreview
	PlanCount     int64
	FollowerCount int64
	IsFollowing   bool
}

// ProfileInput carries the mutable trainer profile fields.
type ProfileInput struct {
	Certification  string
	Bio            string
	Specialization string
}

// --- Service Interface ---
type TrainerService interface {
	// PublicProfile resolves a trainer's public page. viewerID may be
	// NilObjectID for anonymous viewers (IsFollowing stays false).
	PublicProfile(ctx context.Context, trainerID, viewerID primitive.ObjectID) (*TrainerProfile, error)
	// UpdateProfile fills in or edits the trainer's own profile fields.
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*domain.Trainer, error)
}

// --- Service Implementation ---

type trainerService struct {
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	planRepo    repository.PlanRepository
	followRepo  repository.FollowRepository
	subRepo     repository.SubscriptionRepository
	resolver    resolver
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	followRepo repository.FollowRepository,
	subRepo repository.SubscriptionRepository,
) TrainerService {
	return &trainerService{
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		planRepo:    planRepo,
		followRepo:  followRepo,
		subRepo:     subRepo,
		resolver:    resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

// PublicProfile assembles the trainer page.
func (s *trainerService) PublicProfile(ctx context.Context, trainerID, viewerID primitive.ObjectID) (*TrainerProfile, error) {
	info, err := s.resolver.trainerWithUser(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	plans, err := s.planRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	previews := make([]PlanPreview, 0, len(plans))
	for i := range plans {
		plan := plans[i]
		count, err := s.subRepo.CountByPlanID(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		previews = append(previews, PlanPreview{
			ID:              plan.ID,
			Title:           plan.Title,
			Price:           plan.Price,
			Duration:        plan.Duration,
			TrainerID:       trainerID,
			TrainerName:     info.User.Name,
			SubscriberCount: count,
			CreatedAt:       plan.CreatedAt,
		})
	}

	followers, err := s.followRepo.CountByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	profile := &TrainerProfile{
		Trainer:       info.Trainer,
		User:          info.User,
		Plans:         previews,
		PlanCount:     int64(len(plans)),
		FollowerCount: followers,
	}

	if viewerID != primitive.NilObjectID {
		_, err := s.followRepo.Get(ctx, viewerID, trainerID)
		if err == nil {
			profile.IsFollowing = true
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile edits the caller's own trainer profile.
func (s *trainerService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileMissing
		}
		return nil, err
	}

	trainer.Certification = input.Certification
	trainer.Bio = input.Bio
	trainer.Specialization = input.Specialization
	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

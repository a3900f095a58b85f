package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"fitmarket/fitness-marketplace/internal/storage"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound          = errors.New("plan not found")
	ErrTrainerProfileMissing = errors.New("trainer profile not found")
	ErrPlanAccessDenied      = errors.New("not authorized to modify this plan")
	ErrInvalidPlanInput      = errors.New("invalid plan input")
)

// PlanInput carries the mutable plan fields.
type PlanInput struct {
	Title       string
	Description string
	Price       float64
	Duration    int
}

// PlanPreview is the public projection of a plan: no description.
type PlanPreview struct {
	ID              primitive.ObjectID
	Title           string
	Price           float64
	Duration        int
	TrainerID       primitive.ObjectID
	TrainerName     string
	SubscriberCount int64
	CoverURL        string
	CreatedAt       time.Time
}

// PlanDetail is a plan joined with its trainer. HasAccess tells the caller
// whether the full content (description) may be exposed.
type PlanDetail struct {
	Plan      *domain.Plan
	Trainer   *TrainerInfo
	CoverURL  string
	HasAccess bool
}

// CoverUpload is a presigned PUT target for a plan cover image.
type CoverUpload struct {
	UploadURL string
	ObjectKey string
}

// --- Service Interface ---
type PlanService interface {
	Create(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*PlanDetail, error)
	// List returns previews of every plan, newest first.
	List(ctx context.Context) ([]PlanPreview, error)
	// Get resolves a plan with its trainer. callerID may be NilObjectID for
	// anonymous callers, who always get HasAccess=false.
	Get(ctx context.Context, planID, callerID primitive.ObjectID) (*PlanDetail, error)
	// TrainerPlans returns the authenticated trainer's own plans with
	// subscriber counts.
	TrainerPlans(ctx context.Context, userID primitive.ObjectID) ([]PlanPreview, error)
	Update(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*PlanDetail, error)
	Delete(ctx context.Context, userID, planID primitive.ObjectID) error
	Search(ctx context.Context, filter repository.PlanFilter) ([]PlanPreview, error)
	// HasAccess reports whether userID holds an ACTIVE, non-expired
	// subscription to planID. Absence of access is a normal branch, not an error.
	HasAccess(ctx context.Context, userID, planID primitive.ObjectID) (bool, error)
	// RequestCoverUpload issues a presigned upload URL for the plan's cover
	// image and records the object key on the plan.
	RequestCoverUpload(ctx context.Context, userID, planID primitive.ObjectID, contentType string) (*CoverUpload, error)
}

// --- Service Implementation ---

type planService struct {
	planRepo    repository.PlanRepository
	trainerRepo repository.TrainerRepository
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	covers      storage.ObjectStorage
	resolver    resolver
}

// NewPlanService creates a new instance of planService. covers may be nil when
// object storage is not configured; cover operations then fail gracefully.
func NewPlanService(
	planRepo repository.PlanRepository,
	trainerRepo repository.TrainerRepository,
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	covers storage.ObjectStorage,
) PlanService {
	return &planService{
		planRepo:    planRepo,
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		subRepo:     subRepo,
		covers:      covers,
		resolver:    resolver{trainerRepo: trainerRepo, userRepo: userRepo},
	}
}

func validatePlanInput(input PlanInput) error {
	if input.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPlanInput)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidPlanInput)
	}
	if input.Duration < 1 {
		return fmt.Errorf("%w: duration must be >= 1 day", ErrInvalidPlanInput)
	}
	return nil
}

// Create authors a new plan for the trainer owning userID.
func (s *planService) Create(ctx context.Context, userID primitive.ObjectID, input PlanInput) (*PlanDetail, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	trainer, err := s.trainerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		TrainerID:   trainer.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	info, err := s.resolver.trainerWithUser(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: plan, Trainer: info, HasAccess: true}, nil
}

// List returns the public catalogue, newest first.
func (s *planService) List(ctx context.Context) ([]PlanPreview, error) {
	plans, err := s.planRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.previews(ctx, plans)
}

// Get resolves a plan and evaluates the caller's access.
func (s *planService) Get(ctx context.Context, planID, callerID primitive.ObjectID) (*PlanDetail, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	info, err := s.resolver.trainerWithUser(ctx, plan.TrainerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hasAccess := false
	if callerID != primitive.NilObjectID {
		hasAccess, err = s.HasAccess(ctx, callerID, planID)
		if err != nil {
			return nil, err
		}
	}

	return &PlanDetail{
		Plan:      plan,
		Trainer:   info,
		CoverURL:  s.coverURL(ctx, plan),
		HasAccess: hasAccess,
	}, nil
}

// TrainerPlans lists the authenticated trainer's plans.
func (s *planService) TrainerPlans(ctx context.Context, userID primitive.ObjectID) ([]PlanPreview, error) {
	trainer, err := s.trainerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}
	return s.previews(ctx, plans)
}

// Update modifies a plan owned by the trainer behind userID.
func (s *planService) Update(ctx context.Context, userID, planID primitive.ObjectID, input PlanInput) (*PlanDetail, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	trainer, err := s.trainerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainer.ID {
		return nil, ErrPlanAccessDenied
	}

	plan.Title = input.Title
	plan.Description = input.Description
	plan.Price = input.Price
	plan.Duration = input.Duration
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	info, err := s.resolver.trainerWithUser(ctx, trainer.ID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: plan, Trainer: info, CoverURL: s.coverURL(ctx, plan), HasAccess: true}, nil
}

// Delete removes a plan owned by the trainer behind userID. Subscriptions,
// progress and favorites referencing the plan stay; reads skip the orphans.
func (s *planService) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	trainer, err := s.trainerByUser(ctx, userID)
	if err != nil {
		return err
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.TrainerID != trainer.ID {
		return ErrPlanAccessDenied
	}

	if err := s.planRepo.Delete(ctx, planID, trainer.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	// Best effort; a dangling cover object is harmless.
	if s.covers != nil && plan.CoverKey != "" {
		_ = s.covers.DeleteObject(ctx, plan.CoverKey)
	}
	return nil
}

// Search filters and sorts the catalogue. The "popular" ordering is resolved
// here because it needs subscriber counts.
func (s *planService) Search(ctx context.Context, filter repository.PlanFilter) ([]PlanPreview, error) {
	plans, err := s.planRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	previews, err := s.previews(ctx, plans)
	if err != nil {
		return nil, err
	}
	if filter.Sort == repository.SortPopular {
		sort.SliceStable(previews, func(i, j int) bool {
			return previews[i].SubscriberCount > previews[j].SubscriberCount
		})
	}
	return previews, nil
}

// HasAccess is the access policy: true iff an ACTIVE, non-expired subscription
// for (userID, planID) exists right now.
func (s *planService) HasAccess(ctx context.Context, userID, planID primitive.ObjectID) (bool, error) {
	_, err := s.subRepo.FindActive(ctx, userID, planID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RequestCoverUpload issues a presigned PUT URL and stores the object key.
func (s *planService) RequestCoverUpload(ctx context.Context, userID, planID primitive.ObjectID, contentType string) (*CoverUpload, error) {
	if s.covers == nil {
		return nil, errors.New("object storage is not configured")
	}

	trainer, err := s.trainerByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainer.ID {
		return nil, ErrPlanAccessDenied
	}

	objectKey := fmt.Sprintf("covers/%s/%s", planID.Hex(), uuid.NewString())
	uploadURL, err := s.covers.PresignUpload(ctx, objectKey, contentType, storage.DefaultPresignExpiry)
	if err != nil {
		return nil, err
	}

	oldKey := plan.CoverKey
	plan.CoverKey = objectKey
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	if oldKey != "" {
		_ = s.covers.DeleteObject(ctx, oldKey)
	}

	return &CoverUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// --- helpers ---

func (s *planService) trainerByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := s.trainerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileMissing
		}
		return nil, err
	}
	return trainer, nil
}

// previews maps plans to their public projection, resolving trainer names and
// subscriber counts.
func (s *planService) previews(ctx context.Context, plans []domain.Plan) ([]PlanPreview, error) {
	cache := newTrainerInfoCache(&s.resolver)
	previews := make([]PlanPreview, 0, len(plans))
	for i := range plans {
		plan := plans[i]
		info, err := cache.get(ctx, plan.TrainerID)
		if err != nil {
			return nil, err
		}
		count, err := s.subRepo.CountByPlanID(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		preview := PlanPreview{
			ID:              plan.ID,
			Title:           plan.Title,
			Price:           plan.Price,
			Duration:        plan.Duration,
			TrainerID:       plan.TrainerID,
			SubscriberCount: count,
			CoverURL:        s.coverURL(ctx, &plan),
			CreatedAt:       plan.CreatedAt,
		}
		if info != nil {
			preview.TrainerName = info.User.Name
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// coverURL presigns a download URL for the plan's cover image, if any.
func (s *planService) coverURL(ctx context.Context, plan *domain.Plan) string {
	if s.covers == nil || plan.CoverKey == "" {
		return ""
	}
	url, err := s.covers.PresignDownload(ctx, plan.CoverKey, storage.DefaultPresignExpiry)
	if err != nil {
		return ""
	}
	return url
}

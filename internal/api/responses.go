package api

import (
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// UserResponse excludes sensitive info like password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TrainerBrief is the display projection of a trainer attached to joined reads.
type TrainerBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PlanPreviewResponse is the public projection of a plan: no description.
type PlanPreviewResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Price           float64   `json:"price"`
	Duration        int       `json:"duration"`
	TrainerID       string    `json:"trainerId"`
	TrainerName     string    `json:"trainerName"`
	SubscriberCount int64     `json:"subscriberCount"`
	CoverURL        string    `json:"coverUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func mapTrainerBrief(info *service.TrainerInfo) *TrainerBrief {
	if info == nil {
		return nil
	}
	return &TrainerBrief{
		ID:    info.Trainer.ID.Hex(),
		Name:  info.User.Name,
		Email: info.User.Email,
	}
}

func mapPlanPreview(p service.PlanPreview) PlanPreviewResponse {
	return PlanPreviewResponse{
		ID:              p.ID.Hex(),
		Title:           p.Title,
		Price:           p.Price,
		Duration:        p.Duration,
		TrainerID:       p.TrainerID.Hex(),
		TrainerName:     p.TrainerName,
		SubscriberCount: p.SubscriberCount,
		CoverURL:        p.CoverURL,
		CreatedAt:       p.CreatedAt,
	}
}

func mapPlanPreviews(previews []service.PlanPreview) []PlanPreviewResponse {
	out := make([]PlanPreviewResponse, 0, len(previews))
	for _, p := range previews {
		out = append(out, mapPlanPreview(p))
	}
	return out
}

// respondServiceError maps service-layer sentinels onto the HTTP error
// taxonomy: 400 validation, 401 auth, 403 authorization, 404 not-found,
// 409 conflict, 500 everything else.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPlanInput),
		errors.Is(err, service.ErrDayOutOfRange),
		errors.Is(err, service.ErrSelfFollow):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrTrainerProfileMissing),
		errors.Is(err, service.ErrPlanAccessDenied),
		errors.Is(err, service.ErrSubscriptionAccessDenied),
		errors.Is(err, service.ErrNoActiveSubscription):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrTrainerNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, service.ErrFavoriteNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrAlreadyFavorited):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

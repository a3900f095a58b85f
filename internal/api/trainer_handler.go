package api

import (
	"fitmarket/fitness-marketplace/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// UpdateTrainerProfileRequest carries the mutable trainer profile fields.
type UpdateTrainerProfileRequest struct {
	Certification  string `json:"certification" binding:"max=200"`
	Bio            string `json:"bio" binding:"max=2000"`
	Specialization string `json:"specialization" binding:"max=200"`
}

// PublicTrainerResponse is a trainer's public page.
type PublicTrainerResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Certification  string                `json:"certification,omitempty"`
	Bio            string                `json:"bio,omitempty"`
	Specialization string                `json:"specialization,omitempty"`
	PlanCount      int64                 `json:"planCount"`
	FollowerCount  int64                 `json:"followerCount"`
	IsFollowing    bool                  `json:"isFollowing"`
	Plans          []PlanPreviewResponse `json:"plans"`
}

// GetTrainerProfile returns a trainer's public page. Works without a token;
// IsFollowing is only meaningful for authenticated viewers.
func (h *TrainerHandler) GetTrainerProfile(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	profile, err := h.trainerService.PublicProfile(c.Request.Context(), trainerID, optionalUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PublicTrainerResponse{
		ID:             profile.Trainer.ID.Hex(),
		Name:           profile.User.Name,
		Certification:  profile.Trainer.Certification,
		Bio:            profile.Trainer.Bio,
		Specialization: profile.Trainer.Specialization,
		PlanCount:      profile.PlanCount,
		FollowerCount:  profile.FollowerCount,
		IsFollowing:    profile.IsFollowing,
		Plans:          mapPlanPreviews(profile.Plans),
	})
}

// UpdateTrainerProfile edits the authenticated trainer's own profile fields.
func (h *TrainerHandler) UpdateTrainerProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var req UpdateTrainerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainer, err := h.trainerService.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
		Certification:  req.Certification,
		Bio:            req.Bio,
		Specialization: req.Specialization,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "trainer": trainer})
}

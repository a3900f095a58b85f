package api

import (
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowHandler holds the follow service dependency.
type FollowHandler struct {
	followService service.FollowService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(followService service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// FollowedTrainerResponse is one entry of the following list.
type FollowedTrainerResponse struct {
	Trainer       *TrainerBrief `json:"trainer"`
	PlanCount     int64         `json:"planCount"`
	FollowerCount int64         `json:"followerCount"`
	FollowedAt    time.Time     `json:"followedAt"`
}

// FollowerResponse is one entry of a trainer's followers list.
type FollowerResponse struct {
	User       UserResponse `json:"user"`
	FollowedAt time.Time    `json:"followedAt"`
}

// Follow creates a follow relationship with a trainer.
func (h *FollowHandler) Follow(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	followed, err := h.followService.Follow(c.Request.Context(), userID, trainerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully followed trainer",
		"follow":  mapFollowedTrainer(followed),
	})
}

// Unfollow removes a follow relationship.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, trainerID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unfollowed trainer"})
}

// Following lists the trainers the authenticated user follows.
func (h *FollowHandler) Following(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	followed, err := h.followService.Following(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	following := make([]FollowedTrainerResponse, 0, len(followed))
	for i := range followed {
		following = append(following, mapFollowedTrainer(&followed[i]))
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

// Followers lists the authenticated trainer's followers.
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	list, err := h.followService.Followers(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	followers := make([]FollowerResponse, 0, len(list))
	for i := range list {
		followers = append(followers, FollowerResponse{
			User:       MapUserToResponse(list[i].User),
			FollowedAt: list[i].Follow.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func mapFollowedTrainer(followed *service.FollowedTrainer) FollowedTrainerResponse {
	return FollowedTrainerResponse{
		Trainer:       mapTrainerBrief(followed.Trainer),
		PlanCount:     followed.PlanCount,
		FollowerCount: followed.FollowerCount,
		FollowedAt:    followed.Follow.CreatedAt,
	}
}

package api

import (
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressHandler holds the progress service dependency.
type ProgressHandler struct {
	progressService service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// UpdateProgressRequest marks one scheduled day complete or incomplete.
type UpdateProgressRequest struct {
	Day       int   `json:"day" binding:"required,min=1"`
	Completed *bool `json:"completed" binding:"required"`
}

// ProgressResponse is the per-user, per-plan completion record.
type ProgressResponse struct {
	PlanID            string   `json:"planId"`
	TotalDays         int      `json:"totalDays"`
	CompletedDays     int      `json:"completedDays"`
	CompletedDaysList []string `json:"completedDaysList"`
}

// GetProgress returns the user's progress for a plan, creating the record on
// first access. Requires an active subscription.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	progress, err := h.progressService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProgress(progress))
}

// UpdateProgress toggles a day's completion state. Idempotent.
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	progress, err := h.progressService.SetDayStatus(c.Request.Context(), userID, planID, req.Day, *req.Completed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProgress(progress))
}

func mapProgress(p *domain.Progress) ProgressResponse {
	list := p.CompletedDaysList
	if list == nil {
		list = []string{}
	}
	return ProgressResponse{
		PlanID:            p.PlanID.Hex(),
		TotalDays:         p.TotalDays,
		CompletedDays:     p.CompletedDays,
		CompletedDaysList: list,
	}
}

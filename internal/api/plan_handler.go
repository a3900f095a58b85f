package api

import (
	"fitmarket/fitness-marketplace/internal/repository"
	"fitmarket/fitness-marketplace/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type PlanRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"required,min=1"`
}

// PlanDetailResponse carries the full plan content. Description is omitted
// when the caller lacks access.
type PlanDetailResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Duration    int           `json:"duration"`
	TrainerID   string        `json:"trainerId"`
	TrainerName string        `json:"trainerName,omitempty"`
	Trainer     *TrainerBrief `json:"trainer,omitempty"`
	CoverURL    string        `json:"coverUrl,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type CoverUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// CreatePlan authors a new plan. Trainer only.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	detail, err := h.planService.Create(c.Request.Context(), userID, service.PlanInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Plan created successfully",
		"plan":    mapPlanDetail(detail),
	})
}

// GetPlans lists the public catalogue, preview projection only.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	previews, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": mapPlanPreviews(previews)})
}

// GetPlanByID returns the full plan for subscribers, the preview for everyone
// else. Anonymous callers always get the preview.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	detail, err := h.planService.Get(c.Request.Context(), planID, optionalUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := mapPlanDetail(detail)
	if !detail.HasAccess {
		resp.Description = ""
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":      resp,
		"hasAccess": detail.HasAccess,
	})
}

// GetMyPlans lists the authenticated trainer's own plans.
func (h *PlanHandler) GetMyPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	previews, err := h.planService.TrainerPlans(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": mapPlanPreviews(previews)})
}

// UpdatePlan edits a plan. Owner only.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	detail, err := h.planService.Update(c.Request.Context(), userID, planID, service.PlanInput(req))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Plan updated successfully",
		"plan":    mapPlanDetail(detail),
	})
}

// DeletePlan removes a plan. Owner only.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

// SearchPlans filters the catalogue by text, price range, duration and sort order.
func (h *PlanHandler) SearchPlans(c *gin.Context) {
	filter := repository.PlanFilter{
		Query: c.Query("q"),
		Sort:  repository.PlanSort(c.DefaultQuery("sortBy", string(repository.SortNewest))),
	}

	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid minPrice")
			return
		}
		filter.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid maxPrice")
			return
		}
		filter.MaxPrice = &price
	}
	if v := c.Query("duration"); v != "" {
		duration, err := strconv.Atoi(v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid duration")
			return
		}
		filter.Duration = duration
	}

	previews, err := h.planService.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plans": mapPlanPreviews(previews),
		"total": len(previews),
	})
}

// RequestCoverUpload issues a presigned PUT URL for the plan's cover image.
// Owner only.
func (h *PlanHandler) RequestCoverUpload(c *gin.Context) {
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req CoverUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	upload, err := h.planService.RequestCoverUpload(c.Request.Context(), userID, planID, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": upload.UploadURL,
		"objectKey": upload.ObjectKey,
	})
}

func mapPlanDetail(detail *service.PlanDetail) PlanDetailResponse {
	resp := PlanDetailResponse{
		ID:          detail.Plan.ID.Hex(),
		Title:       detail.Plan.Title,
		Description: detail.Plan.Description,
		Price:       detail.Plan.Price,
		Duration:    detail.Plan.Duration,
		TrainerID:   detail.Plan.TrainerID.Hex(),
		CoverURL:    detail.CoverURL,
		CreatedAt:   detail.Plan.CreatedAt,
	}
	if detail.Trainer != nil {
		resp.TrainerName = detail.Trainer.User.Name
		resp.Trainer = mapTrainerBrief(detail.Trainer)
	}
	return resp
}

package api

import (
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionHandler holds the subscription service dependency.
type SubscriptionHandler struct {
	subService service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// SubscriptionResponse is a subscription joined with its plan. Plan is nil
// when the plan has since been deleted.
type SubscriptionResponse struct {
	ID          string                    `json:"id"`
	Status      domain.SubscriptionStatus `json:"status"`
	PurchasedAt time.Time                 `json:"purchasedAt"`
	ExpiresAt   time.Time                 `json:"expiresAt"`
	Plan        *PlanDetailResponse       `json:"plan,omitempty"`
}

// Subscribe purchases a plan for the authenticated user.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
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

	detail, err := h.subService.Subscribe(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Subscription successful",
		"subscription": mapSubscription(detail),
	})
}

// GetSubscriptions lists the authenticated user's subscription history.
// Expired-but-ACTIVE records are reconciled before the read.
func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	details, err := h.subService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	subs := make([]SubscriptionResponse, 0, len(details))
	for i := range details {
		subs = append(subs, mapSubscription(&details[i]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// GetSubscriptionByID returns one subscription. Owner only.
func (h *SubscriptionHandler) GetSubscriptionByID(c *gin.Context) {
	subID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	detail, err := h.subService.Get(c.Request.Context(), userID, subID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": mapSubscription(detail)})
}

func mapSubscription(detail *service.SubscriptionDetail) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          detail.Subscription.ID.Hex(),
		Status:      detail.Subscription.Status,
		PurchasedAt: detail.Subscription.PurchasedAt,
		ExpiresAt:   detail.Subscription.ExpiresAt,
	}
	if detail.Plan != nil {
		plan := mapPlanDetail(&service.PlanDetail{Plan: detail.Plan, Trainer: detail.Trainer})
		resp.Plan = &plan
	}
	return resp
}

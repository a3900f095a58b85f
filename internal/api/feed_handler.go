package api

import (
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// FeedHandler holds the feed service dependency.
type FeedHandler struct {
	feedService service.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// FeedItemResponse is one plan in the personalized feed.
type FeedItemResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Price        float64       `json:"price"`
	Duration     int           `json:"duration"`
	Trainer      *TrainerBrief `json:"trainer"`
	IsSubscribed bool          `json:"isSubscribed"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// GetFeed returns plans from every trainer the authenticated user follows,
// newest first.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	feed, err := h.feedService.BuildFeed(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]FeedItemResponse, 0, len(feed.Items))
	for i := range feed.Items {
		item := &feed.Items[i]
		items = append(items, FeedItemResponse{
			ID:           item.ID.Hex(),
			Title:        item.Title,
			Description:  item.Description,
			Price:        item.Price,
			Duration:     item.Duration,
			Trainer:      mapTrainerBrief(item.Trainer),
			IsSubscribed: item.IsSubscribed,
			CreatedAt:    item.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":            items,
		"totalPlans":      feed.TotalPlans,
		"subscribedPlans": feed.SubscribedPlans,
	})
}

package api

import (
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsHandler holds the stats service dependency.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// StatsSummaryResponse carries the trainer dashboard headline numbers.
type StatsSummaryResponse struct {
	TotalPlans          int     `json:"totalPlans"`
	TotalSubscribers    int     `json:"totalSubscribers"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	TotalRevenue        float64 `json:"totalRevenue"`
	Followers           int64   `json:"followers"`
	AveragePlanPrice    float64 `json:"averagePlanPrice"`
}

// MonthRevenueResponse is one bucket of the trailing revenue series.
type MonthRevenueResponse struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// TopPlanResponse ranks one plan by subscriber count.
type TopPlanResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subscribers int     `json:"subscribers"`
	Revenue     float64 `json:"revenue"`
}

// GetTrainerStats returns the authenticated trainer's dashboard aggregates.
func (h *StatsHandler) GetTrainerStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	stats, err := h.statsService.TrainerStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	monthly := make([]MonthRevenueResponse, 0, len(stats.MonthlyRevenue))
	for _, m := range stats.MonthlyRevenue {
		monthly = append(monthly, MonthRevenueResponse{Month: m.Month, Revenue: m.Revenue})
	}
	top := make([]TopPlanResponse, 0, len(stats.TopPlans))
	for _, p := range stats.TopPlans {
		top = append(top, TopPlanResponse{
			ID:          p.ID.Hex(),
			Title:       p.Title,
			Subscribers: p.Subscribers,
			Revenue:     p.Revenue,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": StatsSummaryResponse{
			TotalPlans:          stats.TotalPlans,
			TotalSubscribers:    stats.TotalSubscribers,
			ActiveSubscriptions: stats.ActiveSubscriptions,
			TotalRevenue:        stats.TotalRevenue,
			Followers:           stats.Followers,
			AveragePlanPrice:    stats.AveragePlanPrice,
		},
		"monthlyRevenue": monthly,
		"topPlans":       top,
	})
}

package api

import (
	"fitmarket/fitness-marketplace/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteHandler holds the favorite service dependency.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// FavoriteResponse is one entry of the favorites list. Plan is null when the
// plan has since been deleted.
type FavoriteResponse struct {
	Plan        *PlanDetailResponse `json:"plan"`
	FavoritedAt time.Time           `json:"favoritedAt"`
}

// AddFavorite bookmarks a plan for the authenticated user.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
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

	detail, err := h.favoriteService.Add(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Plan added to favorites",
		"favorite": mapFavorite(detail),
	})
}

// RemoveFavorite removes a bookmark.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
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

	if err := h.favoriteService.Remove(c.Request.Context(), userID, planID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan removed from favorites"})
}

// GetFavorites lists the authenticated user's favorites, newest first.
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	details, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	favorites := make([]FavoriteResponse, 0, len(details))
	for i := range details {
		favorites = append(favorites, mapFavorite(&details[i]))
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// CheckFavorite reports whether the authenticated user has bookmarked a plan.
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
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

	favorited, err := h.favoriteService.IsFavorited(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorited": favorited})
}

func mapFavorite(detail *service.FavoriteDetail) FavoriteResponse {
	resp := FavoriteResponse{FavoritedAt: detail.Favorite.CreatedAt}
	if detail.Plan != nil {
		plan := mapPlanDetail(&service.PlanDetail{Plan: detail.Plan, Trainer: detail.Trainer})
		// Favorites never expose full content.
		plan.Description = ""
		resp.Plan = &plan
	}
	return resp
}

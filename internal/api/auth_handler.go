package api

import (
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type SignupRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"omitempty,oneof=USER TRAINER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TrainerProfileResponse is the caller's own trainer profile with counts.
type TrainerProfileResponse struct {
	ID             string `json:"id"`
	Certification  string `json:"certification,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	PlanCount      int64  `json:"planCount"`
	FollowerCount  int64  `json:"followerCount"`
}

type AuthResponse struct {
	Token          string                  `json:"token"`
	User           UserResponse            `json:"user"`
	TrainerProfile *TrainerProfileResponse `json:"trainerProfile,omitempty"`
}

// --- Handler Methods ---

// Signup creates a new user account. Trainers get an empty profile alongside.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, current, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:          token,
		User:           MapUserToResponse(current.User),
		TrainerProfile: mapTrainerProfile(current),
	})
}

// Me returns the authenticated user, with trainer profile counts when present.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	current, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           MapUserToResponse(current.User),
		"trainerProfile": mapTrainerProfile(current),
	})
}

func mapTrainerProfile(current *service.CurrentUser) *TrainerProfileResponse {
	if current == nil || current.Trainer == nil {
		return nil
	}
	return &TrainerProfileResponse{
		ID:             current.Trainer.ID.Hex(),
		Certification:  current.Trainer.Certification,
		Bio:            current.Trainer.Bio,
		Specialization: current.Trainer.Specialization,
		PlanCount:      current.PlanCount,
		FollowerCount:  current.FollowerCount,
	}
}

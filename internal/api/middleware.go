package api

import (
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirrors the claims written by the auth service.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func parseToken(tokenString, jwtSecret string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" || claims.Role == "" {
		return nil, errors.New("invalid token or missing claims")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
			return
		}

		claims, err := parseToken(tokenString, jwtSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user identity when a valid token is present but
// never rejects the request. Public endpoints use it to branch between the
// preview and full projections.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := parseToken(tokenString, jwtSecret); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextUserRoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextUserRoleKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "User role not found in context")
			return
		}

		userRole, ok := roleRaw.(domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid user role type in context")
			return
		}

		for _, allowed := range allowedRoles {
			if userRole == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", userRole))
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// getUserIDFromContext returns the authenticated user's ID, parsed from the
// hex claim set by the auth middleware.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return primitive.ObjectIDFromHex(idStr)
}

// optionalUserID returns the viewer's ID or NilObjectID for anonymous callers.
func optionalUserID(c *gin.Context) primitive.ObjectID {
	id, err := getUserIDFromContext(c)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

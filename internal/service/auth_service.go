package service

import (
	"context"
	"errors"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrUserNotFound         = errors.New("user not found")
)

// CurrentUser is a user together with their trainer profile, when one exists.
type CurrentUser struct {
	User          *domain.User
	Trainer       *domain.Trainer
	PlanCount     int64
	FollowerCount int64
}

// --- Service Interface ---
type AuthService interface {
	// Signup registers a user. When role is TRAINER, an empty trainer profile
	// is created alongside the account.
	Signup(ctx context.Context, name, email, password string, role domain.Role) (token string, user *domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, current *CurrentUser, err error)
	Me(ctx context.Context, userID primitive.ObjectID) (*CurrentUser, error)
	GetJWTSecret() string
}

// --- Service Implementation ---

type authService struct {
	userRepo      repository.UserRepository
	trainerRepo   repository.TrainerRepository
	planRepo      repository.PlanRepository
	followRepo    repository.FollowRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	userRepo repository.UserRepository,
	trainerRepo repository.TrainerRepository,
	planRepo repository.PlanRepository,
	followRepo repository.FollowRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		trainerRepo:   trainerRepo,
		planRepo:      planRepo,
		followRepo:    followRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Signup handles new user registration.
func (s *authService) Signup(ctx context.Context, name, email, password string, role domain.Role) (string, *domain.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, errors.New("name, email, and password cannot be empty")
	}
	if role == "" {
		role = domain.RoleUser
	}

	// Check if the email is already taken.
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return "", nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique index closes the race between the existence check and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, err
	}
	user.ID = userID

	// Trainers get an empty profile at signup; the fields are filled in later.
	if role == domain.RoleTrainer {
		trainer := &domain.Trainer{UserID: userID}
		if _, err := s.trainerRepo.Create(ctx, trainer); err != nil {
			return "", nil, err
		}
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *CurrentUser, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	current := &CurrentUser{User: user}
	if user.IsTrainer() {
		trainer, err := s.trainerRepo.GetByUserID(ctx, user.ID)
		if err == nil {
			current.Trainer = trainer
		} else if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, err
		}
	}

	user.PasswordHash = ""
	return token, current, nil
}

// Me resolves the authenticated user, including trainer profile counts.
func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*CurrentUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	current := &CurrentUser{User: user}
	if user.IsTrainer() {
		trainer, err := s.trainerRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return current, nil
			}
			return nil, err
		}
		current.Trainer = trainer

		plans, err := s.planRepo.GetByTrainerID(ctx, trainer.ID)
		if err != nil {
			return nil, err
		}
		current.PlanCount = int64(len(plans))

		followers, err := s.followRepo.CountByTrainerID(ctx, trainer.ID)
		if err != nil {
			return nil, err
		}
		current.FollowerCount = followers
	}
	return current, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitness-marketplace",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

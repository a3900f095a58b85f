package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser    Role = "USER"
	RoleTrainer Role = "TRAINER"
)

// User represents an account in the marketplace (a plain User or a Trainer).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

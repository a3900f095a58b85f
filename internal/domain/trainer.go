package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is the trainer profile owned 1:1 by a User with RoleTrainer.
// Profile fields start empty at signup and are filled in later.
type Trainer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"` // Owning user, unique
	Certification  string             `bson:"certification,omitempty" json:"certification,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

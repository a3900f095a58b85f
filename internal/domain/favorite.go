package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite bookmarks a plan for a user. (UserID, PlanID) is unique.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

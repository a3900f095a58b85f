package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a trainer-authored fitness program sold as a time-boxed subscription.
// Duration is the program length in days and also the subscription lifetime.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`       // >= 0
	Duration    int                `bson:"duration" json:"duration"` // days, >= 1
	CoverKey    string             `bson:"coverKey,omitempty" json:"-"` // Object storage key for the cover image
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

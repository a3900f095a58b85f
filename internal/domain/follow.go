package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a standing user->trainer relationship feeding the user's feed.
// (UserID, TrainerID) is unique; a trainer cannot follow themselves.
type Follow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress tracks which scheduled days of a plan a user has completed.
// CompletedDaysList holds day numbers as strings, unique, sorted numerically
// ascending; CompletedDays always equals len(CompletedDaysList).
type Progress struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID            primitive.ObjectID `bson:"planId" json:"planId"`
	TotalDays         int                `bson:"totalDays" json:"totalDays"`
	CompletedDays     int                `bson:"completedDays" json:"completedDays"`
	CompletedDaysList []string           `bson:"completedDaysList" json:"completedDaysList"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

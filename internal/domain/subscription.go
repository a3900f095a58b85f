package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionStatus type for the subscription lifecycle
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

// Subscription grants a user full-content access to a plan until ExpiresAt.
// Status only ever moves ACTIVE -> EXPIRED, and records are never deleted.
type Subscription struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	Status      SubscriptionStatus `bson:"status" json:"status"`
	PurchasedAt time.Time          `bson:"purchasedAt" json:"purchasedAt"`
	ExpiresAt   time.Time          `bson:"expiresAt" json:"expiresAt"` // purchasedAt + plan.duration days
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the subscription grants access at the given instant.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && !s.ExpiresAt.Before(now)
}

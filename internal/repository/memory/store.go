// Package memory provides in-memory implementations of the repository
// interfaces. State is scoped to the process lifetime: linear scans over flat
// slices, a single lock, no persistence. It backs the test suite and the
// database.driver=memory configuration.
package memory

import (
	"fitmarket/fitness-marketplace/internal/domain"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock. Repository views returned by
// the accessor methods all share it.
type Store struct {
	mu            sync.RWMutex
	users         []domain.User
	trainers      []domain.Trainer
	plans         []domain.Plan
	subscriptions []domain.Subscription
	follows       []domain.Follow
	favorites     []domain.Favorite
	progress      []domain.Progress
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Trainers() *TrainerRepo           { return &TrainerRepo{s} }
func (s *Store) Plans() *PlanRepo                 { return &PlanRepo{s} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{s} }
func (s *Store) Follows() *FollowRepo             { return &FollowRepo{s} }
func (s *Store) Favorites() *FavoriteRepo         { return &FavoriteRepo{s} }
func (s *Store) Progress() *ProgressRepo          { return &ProgressRepo{s} }

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

package memory

import (
	"context"
	"fitmarket/fitness-marketplace/internal/domain"
	"fitmarket/fitness-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepo implements repository.UserRepository over the shared store.
type UserRepo struct {
	store *Store
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.users {
		if r.store.users[i].Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	user.ID = newID()
	now := nowUTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users = append(r.store.users, *user)
	return user.ID, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if r.store.users[i].Email == email {
			u := r.store.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if r.store.users[i].ID == id {
			u := r.store.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// TrainerRepo implements repository.TrainerRepository over the shared store.
type TrainerRepo struct {
	store *Store
}

func (r *TrainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.trainers {
		if r.store.trainers[i].UserID == trainer.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	trainer.ID = newID()
	now := nowUTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	r.store.trainers = append(r.store.trainers, *trainer)
	return trainer.ID, nil
}

func (r *TrainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.trainers {
		if r.store.trainers[i].ID == id {
			t := r.store.trainers[i]
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *TrainerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.trainers {
		if r.store.trainers[i].UserID == userID {
			t := r.store.trainers[i]
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *TrainerRepo) Update(_ context.Context, trainer *domain.Trainer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.trainers {
		if r.store.trainers[i].ID == trainer.ID {
			r.store.trainers[i].Certification = trainer.Certification
			r.store.trainers[i].Bio = trainer.Bio
			r.store.trainers[i].Specialization = trainer.Specialization
			r.store.trainers[i].UpdatedAt = nowUTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

package repository

import (
	"context"

	"fitpact/fitness-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.UserProfile) error
	UpdateTier(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier) error
}

// GoalRepository defines the interface for interacting with goal data.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// CheckInRepository defines the interface for interacting with check-in data.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error)
	GetByGoalID(ctx context.Context, goalID primitive.ObjectID, limit int) ([]domain.CheckIn, error)
	ExistsForDate(ctx context.Context, goalID primitive.ObjectID, date string) (bool, error)
}

// PlanRepository is the plan store. Plans are immutable once created: the
// only writes after Create flip the superseded and stale markers.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetActiveByGoalID(ctx context.Context, goalID primitive.ObjectID) (*domain.WorkoutPlan, error)
	MarkSuperseded(ctx context.Context, id primitive.ObjectID) error
	MarkStaleByUserID(ctx context.Context, userID primitive.ObjectID) error
	ListStale(ctx context.Context, limit int) ([]domain.WorkoutPlan, error)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalAccessDenied = errors.New("goal does not belong to this user")
	ErrInvalidGoal      = errors.New("invalid goal")
)

// --- Service Interface ---
type GoalService interface {
	CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	GetGoalByID(ctx context.Context, goalID, userID primitive.ObjectID) (*domain.Goal, error)
	GetGoalsForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, goal *domain.Goal) error
	DeleteGoal(ctx context.Context, goalID, userID primitive.ObjectID) error
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.GoalRepository) GoalService {
	return &goalService{goalRepo: goalRepo}
}

// validateGoal enforces the per-type field requirements: time challenges need
// a duration, target challenges need a check-in target.
func validateGoal(goal *domain.Goal) error {
	if goal.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	}
	switch goal.GoalType {
	case domain.GoalHabit:
		// No extra fields.
	case domain.GoalTimeChallenge:
		if goal.ChallengeDurationDays <= 0 {
			return fmt.Errorf("%w: time challenge requires a positive duration in days", ErrInvalidGoal)
		}
	case domain.GoalTargetChallenge:
		if goal.TargetCheckins <= 0 {
			return fmt.Errorf("%w: target challenge requires a positive check-in target", ErrInvalidGoal)
		}
	default:
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidGoal, goal.GoalType)
	}
	return nil
}

// CreateGoal validates and persists a new goal.
func (s *goalService) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if goal.UserID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidGoal)
	}
	if err := validateGoal(goal); err != nil {
		return nil, err
	}

	goalID, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = goalID
	return goal, nil
}

// GetGoalByID fetches a goal and verifies ownership.
func (s *goalService) GetGoalByID(ctx context.Context, goalID, userID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrGoalAccessDenied
	}
	return goal, nil
}

// GetGoalsForUser lists all goals belonging to a user.
func (s *goalService) GetGoalsForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	return s.goalRepo.GetByUserID(ctx, userID)
}

// UpdateGoal validates and saves goal changes. Ownership is enforced by the
// repository's combined id+userId filter.
func (s *goalService) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	if err := validateGoal(goal); err != nil {
		return err
	}
	err := s.goalRepo.Update(ctx, goal)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

// DeleteGoal removes a goal owned by the user.
func (s *goalService) DeleteGoal(ctx context.Context, goalID, userID primitive.ObjectID) error {
	err := s.goalRepo.Delete(ctx, goalID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrGoalNotFound
	}
	return err
}

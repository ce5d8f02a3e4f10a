package service

import (
	"context"
	"testing"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGoalRepo is an in-memory GoalRepository for service tests.
type fakeGoalRepo struct {
	goals map[primitive.ObjectID]*domain.Goal
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[primitive.ObjectID]*domain.Goal)}
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	goal.ID = id
	copied := *goal
	r.goals[id] = &copied
	return id, nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	g, ok := r.goals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGoalRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	var out []domain.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) Update(_ context.Context, goal *domain.Goal) error {
	g, ok := r.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return repository.ErrNotFound
	}
	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

func TestCreateGoalValidation(t *testing.T) {
	svc := NewGoalService(newFakeGoalRepo())
	userID := primitive.NewObjectID()

	tests := []struct {
		name    string
		goal    domain.Goal
		wantErr bool
	}{
		{"habit needs no extras", domain.Goal{Title: "Move daily", GoalType: domain.GoalHabit}, false},
		{"missing title", domain.Goal{GoalType: domain.GoalHabit}, true},
		{"unknown goal type", domain.Goal{Title: "x", GoalType: "marathon"}, true},
		{"time challenge without duration", domain.Goal{Title: "30 days", GoalType: domain.GoalTimeChallenge}, true},
		{"time challenge with duration", domain.Goal{Title: "30 days", GoalType: domain.GoalTimeChallenge, ChallengeDurationDays: 30}, false},
		{"target challenge without target", domain.Goal{Title: "100 club", GoalType: domain.GoalTargetChallenge}, true},
		{"target challenge with target", domain.Goal{Title: "100 club", GoalType: domain.GoalTargetChallenge, TargetCheckins: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := tt.goal
			goal.UserID = userID
			_, err := svc.CreateGoal(context.Background(), &goal)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGoal)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetGoalByIDEnforcesOwnership(t *testing.T) {
	svc := NewGoalService(newFakeGoalRepo())
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	created, err := svc.CreateGoal(context.Background(), &domain.Goal{
		Title: "Move daily", GoalType: domain.GoalHabit, UserID: owner,
	})
	require.NoError(t, err)

	got, err := svc.GetGoalByID(context.Background(), created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Move daily", got.Title)

	_, err = svc.GetGoalByID(context.Background(), created.ID, stranger)
	assert.ErrorIs(t, err, ErrGoalAccessDenied)

	_, err = svc.GetGoalByID(context.Background(), primitive.NewObjectID(), owner)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

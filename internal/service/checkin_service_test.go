package service

import (
	"context"
	"testing"
	"time"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeCheckInRepo is an in-memory CheckInRepository keyed by goal+date.
type fakeCheckInRepo struct {
	checkIns []domain.CheckIn
}

func (r *fakeCheckInRepo) Create(_ context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	for _, c := range r.checkIns {
		if c.GoalID == checkIn.GoalID && c.Date == checkIn.Date {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	checkIn.ID = primitive.NewObjectID()
	// Keep newest date first, matching the mongo sort.
	r.checkIns = append([]domain.CheckIn{*checkIn}, r.checkIns...)
	return checkIn.ID, nil
}

func (r *fakeCheckInRepo) GetByGoalID(_ context.Context, goalID primitive.ObjectID, limit int) ([]domain.CheckIn, error) {
	var out []domain.CheckIn
	for _, c := range r.checkIns {
		if c.GoalID == goalID {
			out = append(out, c)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeCheckInRepo) ExistsForDate(_ context.Context, goalID primitive.ObjectID, date string) (bool, error) {
	for _, c := range r.checkIns {
		if c.GoalID == goalID && c.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func newCheckInFixture(t *testing.T) (CheckInService, *fakeCheckInRepo, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	goalRepo := newFakeGoalRepo()
	goalSvc := NewGoalService(goalRepo)
	userID := primitive.NewObjectID()
	goal, err := goalSvc.CreateGoal(context.Background(), &domain.Goal{
		Title: "Move daily", GoalType: domain.GoalHabit, UserID: userID,
	})
	require.NoError(t, err)

	repo := &fakeCheckInRepo{}
	return NewCheckInService(repo, goalSvc), repo, goal.ID, userID
}

func TestCheckInOncePerDay(t *testing.T) {
	svc, _, goalID, userID := newCheckInFixture(t)

	first, err := svc.CheckIn(context.Background(), goalID, userID, "felt good")
	require.NoError(t, err)
	assert.Equal(t, "felt good", first.Note)
	assert.NotEmpty(t, first.Date)

	_, err = svc.CheckIn(context.Background(), goalID, userID, "again")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckInRejectsForeignGoal(t *testing.T) {
	svc, _, goalID, _ := newCheckInFixture(t)

	_, err := svc.CheckIn(context.Background(), goalID, primitive.NewObjectID(), "")
	assert.ErrorIs(t, err, ErrGoalAccessDenied)
}

func TestStreakFrom(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	goalID := primitive.NewObjectID()

	day := func(offset int) domain.CheckIn {
		return domain.CheckIn{
			GoalID: goalID,
			Date:   now.AddDate(0, 0, offset).Format(checkInDateLayout),
		}
	}

	tests := []struct {
		name     string
		checkIns []domain.CheckIn
		want     int
	}{
		{"no check-ins", nil, 0},
		{"single today", []domain.CheckIn{day(0)}, 1},
		{"three consecutive ending today", []domain.CheckIn{day(0), day(-1), day(-2)}, 3},
		{"streak alive from yesterday", []domain.CheckIn{day(-1), day(-2)}, 2},
		{"broken two days ago", []domain.CheckIn{day(-2), day(-3)}, 0},
		{"gap inside history", []domain.CheckIn{day(0), day(-1), day(-3), day(-4)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakFrom(tt.checkIns, now))
		})
	}
}

func TestCurrentStreakEndToEnd(t *testing.T) {
	svc, repo, goalID, userID := newCheckInFixture(t)

	// Seed yesterday and the day before directly, then check in today via
	// the service.
	base := time.Now().UTC()
	for _, offset := range []int{-2, -1} {
		repo.checkIns = append([]domain.CheckIn{{
			GoalID: goalID,
			UserID: userID,
			Date:   base.AddDate(0, 0, offset).Format(checkInDateLayout),
		}}, repo.checkIns...)
	}
	_, err := svc.CheckIn(context.Background(), goalID, userID, "")
	require.NoError(t, err)

	streak, err := svc.CurrentStreak(context.Background(), goalID, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

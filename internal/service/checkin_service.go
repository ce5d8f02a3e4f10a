package service

import (
	"context"
	"errors"
	"time"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAlreadyCheckedIn = errors.New("already checked in for this goal today")
)

const checkInDateLayout = "2006-01-02"

// --- Service Interface ---
type CheckInService interface {
	CheckIn(ctx context.Context, goalID, userID primitive.ObjectID, note string) (*domain.CheckIn, error)
	GetCheckIns(ctx context.Context, goalID, userID primitive.ObjectID, limit int) ([]domain.CheckIn, error)
	CurrentStreak(ctx context.Context, goalID, userID primitive.ObjectID) (int, error)
}

// checkInService implements the CheckInService interface.
type checkInService struct {
	checkInRepo repository.CheckInRepository
	goalService GoalService
	now         func() time.Time // injectable for tests
}

// NewCheckInService creates a new instance of checkInService.
func NewCheckInService(checkInRepo repository.CheckInRepository, goalService GoalService) CheckInService {
	return &checkInService{
		checkInRepo: checkInRepo,
		goalService: goalService,
		now:         time.Now,
	}
}

// CheckIn records today's check-in for a goal. At most one check-in per goal
// per calendar day (UTC).
func (s *checkInService) CheckIn(ctx context.Context, goalID, userID primitive.ObjectID, note string) (*domain.CheckIn, error) {
	// Verifies both existence and ownership.
	if _, err := s.goalService.GetGoalByID(ctx, goalID, userID); err != nil {
		return nil, err
	}

	date := s.now().UTC().Format(checkInDateLayout)
	exists, err := s.checkInRepo.ExistsForDate(ctx, goalID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyCheckedIn
	}

	checkIn := &domain.CheckIn{
		GoalID: goalID,
		UserID: userID,
		Date:   date,
		Note:   note,
	}
	checkInID, err := s.checkInRepo.Create(ctx, checkIn)
	if err != nil {
		// The unique index wins the race against concurrent check-ins.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	checkIn.ID = checkInID
	return checkIn, nil
}

// GetCheckIns lists check-ins for a goal, newest first.
func (s *checkInService) GetCheckIns(ctx context.Context, goalID, userID primitive.ObjectID, limit int) ([]domain.CheckIn, error) {
	if _, err := s.goalService.GetGoalByID(ctx, goalID, userID); err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByGoalID(ctx, goalID, limit)
}

// CurrentStreak counts consecutive daily check-ins ending today or yesterday.
// A gap before today does not zero the streak until a full day has been
// missed, so checking in late keeps a streak alive.
func (s *checkInService) CurrentStreak(ctx context.Context, goalID, userID primitive.ObjectID) (int, error) {
	if _, err := s.goalService.GetGoalByID(ctx, goalID, userID); err != nil {
		return 0, err
	}
	checkIns, err := s.checkInRepo.GetByGoalID(ctx, goalID, 0)
	if err != nil {
		return 0, err
	}
	return streakFrom(checkIns, s.now().UTC()), nil
}

// streakFrom walks check-ins (sorted newest first) backwards from today.
func streakFrom(checkIns []domain.CheckIn, now time.Time) int {
	if len(checkIns) == 0 {
		return 0
	}

	day := now.Truncate(24 * time.Hour)
	latest, err := time.Parse(checkInDateLayout, checkIns[0].Date)
	if err != nil {
		return 0
	}

	// Streak survives until a whole day is skipped.
	switch {
	case latest.Equal(day):
		// checked in today
	case latest.Equal(day.AddDate(0, 0, -1)):
		day = latest
	default:
		return 0
	}

	streak := 0
	for _, c := range checkIns {
		d, err := time.Parse(checkInDateLayout, c.Date)
		if err != nil {
			break
		}
		if !d.Equal(day) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

package service

import (
	"context"
	"errors"
	"strings"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/planner"
	"fitpact/fitness-backend/internal/repository"
	"fitpact/fitness-backend/internal/storage"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound = errors.New("no active plan for this goal")
)

// Per-tier ceiling on main-workout exercises.
const (
	freeTierMaxExercises    = 5
	premiumTierMaxExercises = 8
)

// --- Service Interface ---
type PlanService interface {
	GeneratePlan(ctx context.Context, goalID, userID primitive.ObjectID, feedback *domain.WorkoutFeedback) (*domain.WorkoutPlan, error)
	GetActivePlan(ctx context.Context, goalID, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	RegenerateStalePlans(ctx context.Context, batchSize int) (int, error)
}

// planService implements the PlanService interface.
type planService struct {
	planRepo    repository.PlanRepository
	userRepo    repository.UserRepository
	goalRepo    repository.GoalRepository
	goalService GoalService
	planner     *planner.Planner
	fileStorage storage.FileStorage // optional; nil disables media links
	log         zerolog.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	goalService GoalService,
	p *planner.Planner,
	fileStorage storage.FileStorage,
	log zerolog.Logger,
) PlanService {
	return &planService{
		planRepo:    planRepo,
		userRepo:    userRepo,
		goalRepo:    goalRepo,
		goalService: goalService,
		planner:     p,
		fileStorage: fileStorage,
		log:         log.With().Str("component", "plan_service").Logger(),
	}
}

// GeneratePlan runs the generation pipeline for a goal and persists the
// result. Any previous active plan is marked superseded, so there is always
// at most one active plan per goal.
func (s *planService) GeneratePlan(ctx context.Context, goalID, userID primitive.ObjectID, feedback *domain.WorkoutFeedback) (*domain.WorkoutPlan, error) {
	goal, err := s.goalService.GetGoalByID(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.generateFor(ctx, goal, user, feedback)
	if err != nil {
		return nil, err
	}

	if previous, err := s.planRepo.GetActiveByGoalID(ctx, goalID); err == nil {
		if err := s.planRepo.MarkSuperseded(ctx, previous.ID); err != nil {
			s.log.Warn().Err(err).Str("planId", previous.ID.Hex()).Msg("failed to supersede previous plan")
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	s.presignMedia(ctx, plan)
	return plan, nil
}

// GetActivePlan returns the current plan for a goal with fresh media links.
func (s *planService) GetActivePlan(ctx context.Context, goalID, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if _, err := s.goalService.GetGoalByID(ctx, goalID, userID); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetActiveByGoalID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	s.presignMedia(ctx, plan)
	return plan, nil
}

// RegenerateStalePlans replaces up to batchSize plans flagged stale by a
// profile change. Returns how many plans were regenerated. Called by the
// nightly sweep; individual failures are logged and skipped so one broken
// goal cannot stall the batch.
func (s *planService) RegenerateStalePlans(ctx context.Context, batchSize int) (int, error) {
	stale, err := s.planRepo.ListStale(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	regenerated := 0
	for _, old := range stale {
		goal, err := s.goalRepo.GetByID(ctx, old.GoalID)
		if err != nil {
			s.log.Warn().Err(err).Str("goalId", old.GoalID.Hex()).Msg("stale plan references missing goal")
			continue
		}
		user, err := s.userRepo.GetByID(ctx, old.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("userId", old.UserID.Hex()).Msg("stale plan references missing user")
			continue
		}

		plan, err := s.generateFor(ctx, goal, user, nil)
		if err != nil {
			s.log.Warn().Err(err).Str("goalId", goal.ID.Hex()).Msg("stale plan regeneration failed")
			continue
		}
		if _, err := s.planRepo.Create(ctx, plan); err != nil {
			s.log.Warn().Err(err).Str("goalId", goal.ID.Hex()).Msg("failed to persist regenerated plan")
			continue
		}
		if err := s.planRepo.MarkSuperseded(ctx, old.ID); err != nil {
			s.log.Warn().Err(err).Str("planId", old.ID.Hex()).Msg("failed to supersede stale plan")
		}
		regenerated++
	}
	return regenerated, nil
}

func (s *planService) generateFor(ctx context.Context, goal *domain.Goal, user *domain.User, feedback *domain.WorkoutFeedback) (*domain.WorkoutPlan, error) {
	plan, report, err := s.planner.GeneratePlan(ctx, planner.GenerateRequest{
		Goal:     *goal,
		Profile:  user.Profile,
		Settings: settingsFromProfile(user.Profile),
		Feedback: feedback,
		Limits:   limitsForTier(user.Tier),
	})
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		// The evaluator repairs everything it flags, so an invalid report
		// is diagnostic only.
		s.log.Warn().Str("goalId", goal.ID.Hex()).Interface("errors", report.Errors).Msg("evaluator flagged generated plan")
	}
	return plan, nil
}

// limitsForTier maps a subscription tier onto pipeline limits.
func limitsForTier(tier domain.SubscriptionTier) planner.Limits {
	if tier == domain.TierPremium {
		return planner.Limits{MaxExercises: premiumTierMaxExercises}
	}
	return planner.Limits{MaxExercises: freeTierMaxExercises}
}

// settingsFromProfile derives selector settings from onboarding answers.
func settingsFromProfile(p domain.UserProfile) planner.SelectorSettings {
	s := planner.SelectorSettings{
		AvailableEquipment: equipmentForLocation(p.PreferredLocation),
	}
	switch p.AvailableTime {
	case "under_15min":
		s.TargetDurationMinutes = 15
		s.ExerciseCount = 3
	case "15-30min":
		s.TargetDurationMinutes = 25
		s.ExerciseCount = 4
	case "60min_plus":
		s.TargetDurationMinutes = 60
		s.ExerciseCount = 6
	default:
		s.TargetDurationMinutes = 40
		s.ExerciseCount = 5
	}
	return s
}

// equipmentForLocation mirrors what each training location realistically offers.
func equipmentForLocation(loc domain.Location) []string {
	switch loc {
	case domain.LocationGym:
		return []string{"body weight", "dumbbell", "barbell", "cable", "machine", "band"}
	case domain.LocationOutdoor:
		return []string{"body weight"}
	default:
		return []string{"body weight", "band", "dumbbell"}
	}
}

// presignMedia swaps stored object keys for short-lived download URLs.
// Entries whose media already looks like a URL are left alone.
func (s *planService) presignMedia(ctx context.Context, plan *domain.WorkoutPlan) {
	if s.fileStorage == nil {
		return
	}
	sign := func(entries []domain.ExerciseEntry) {
		for i := range entries {
			key := entries[i].MediaURL
			if key == "" || strings.HasPrefix(key, "http") {
				continue
			}
			url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, 0)
			if err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("media presign failed")
				continue
			}
			entries[i].MediaURL = url
		}
	}
	sign(plan.Structure.MainWorkout)
	sign(plan.Structure.WarmUp.Exercises)
	sign(plan.Structure.CoolDown.Exercises)
}

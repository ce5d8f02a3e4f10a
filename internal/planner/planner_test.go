package planner

import (
	"context"
	"testing"
	"time"

	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(svc completion.Service, cat catalog.Catalog) *Planner {
	p := New(svc, cat, testLogger())
	cfg := testRunnerConfig()
	p.selector.runner = cfg
	p.warmup.runner = cfg
	p.timing.runner = cfg
	p.progression.runner = cfg
	return p
}

// The headline guarantee: a completion service that only ever produces
// garbage still yields a complete, evaluator-approved plan.
func TestGeneratePlanSurvivesAllFailureModes(t *testing.T) {
	failureModes := map[string]completion.Service{
		"empty text":      &fakeCompletion{responses: []string{""}},
		"non-json prose":  &fakeCompletion{responses: []string{"I am unable to generate workouts."}},
		"truncated json":  &fakeCompletion{responses: []string{`{"exercises":[{"exercise_id":`}},
		"incomplete json": &fakeCompletion{responses: []string{`{"reasoning":"nice plan"}`}},
		"hard error":      &fakeCompletion{err: completion.ErrRateLimited},
	}

	for name, svc := range failureModes {
		t.Run(name, func(t *testing.T) {
			p := newTestPlanner(svc, catalog.NewDefaultStaticCatalog())
			plan, report, err := p.GeneratePlan(context.Background(), GenerateRequest{
				Goal:    testGoal(domain.GoalHabit),
				Profile: testProfile(),
				Settings: SelectorSettings{
					ExerciseCount:      4,
					AvailableEquipment: []string{"body weight"},
				},
			})

			require.NoError(t, err)
			require.NotNil(t, plan)
			assert.Equal(t, domain.PlanTypeFallback, plan.PlanType)
			assert.Len(t, plan.Structure.MainWorkout, 4)
			assert.True(t, uniformSets(plan.Structure.MainWorkout))
			assert.NotEmpty(t, plan.Structure.WarmUp.Exercises)
			assert.NotEmpty(t, plan.Structure.CoolDown.Exercises)
			assert.NotEmpty(t, plan.Structure.Timing.Exercises)
			assert.Equal(t, domain.ProgressionStreak, plan.Structure.Progression.Type)
			assert.Positive(t, plan.Structure.Timing.TotalEstimatedDurationSeconds)
			assert.NotNil(t, report)
		})
	}
}

// End-to-end policy pin: a beginner who never trains, on a weekly fitness
// goal with a 30-60 minute budget, gets exactly 1 set on every main exercise.
func TestGeneratePlanBeginnerSetPolicy(t *testing.T) {
	p := newTestPlanner(&fakeCompletion{err: completion.ErrTimeout}, catalog.NewDefaultStaticCatalog())

	goal := domain.Goal{
		Title: "Get moving", Category: "fitness", Frequency: "weekly",
		TargetDays: 3, GoalType: domain.GoalHabit,
	}
	profile := domain.UserProfile{
		FitnessLevel:     domain.LevelBeginner,
		CurrentFrequency: "never",
		AvailableTime:    "30-60min",
	}

	plan, _, err := p.GeneratePlan(context.Background(), GenerateRequest{
		Goal: goal, Profile: profile,
		Settings: SelectorSettings{ExerciseCount: 5, AvailableEquipment: []string{"body weight"}},
	})

	require.NoError(t, err)
	require.NotEmpty(t, plan.Structure.MainWorkout)
	for _, e := range plan.Structure.MainWorkout {
		assert.Equal(t, 1, e.Sets)
	}
}

func TestGeneratePlanTierLimitClampsExerciseCount(t *testing.T) {
	p := newTestPlanner(&fakeCompletion{err: completion.ErrTimeout}, catalog.NewDefaultStaticCatalog())

	plan, _, err := p.GeneratePlan(context.Background(), GenerateRequest{
		Goal:     testGoal(domain.GoalHabit),
		Profile:  testProfile(),
		Settings: SelectorSettings{ExerciseCount: 5, AvailableEquipment: []string{"body weight"}},
		Limits:   Limits{MaxExercises: 3},
	})

	require.NoError(t, err)
	assert.Len(t, plan.Structure.MainWorkout, 3)
}

func TestGeneratePlanRejectsMissingGoalType(t *testing.T) {
	p := newTestPlanner(&fakeCompletion{}, catalog.NewDefaultStaticCatalog())

	_, _, err := p.GeneratePlan(context.Background(), GenerateRequest{Profile: testProfile()})

	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGeneratePlanProgressionShapeByGoalType(t *testing.T) {
	p := newTestPlanner(&fakeCompletion{err: completion.ErrTimeout}, catalog.NewDefaultStaticCatalog())

	tests := []struct {
		goalType   domain.GoalType
		wantType   domain.ProgressionType
		wantWeekly int
		wantStones int
	}{
		{domain.GoalHabit, domain.ProgressionStreak, 0, 0},
		{domain.GoalTimeChallenge, domain.ProgressionWeekly, 5, 0},
		{domain.GoalTargetChallenge, domain.ProgressionMilestone, 0, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.goalType), func(t *testing.T) {
			plan, _, err := p.GeneratePlan(context.Background(), GenerateRequest{
				Goal:     testGoal(tt.goalType),
				Profile:  testProfile(),
				Settings: SelectorSettings{ExerciseCount: 3, AvailableEquipment: []string{"body weight"}},
			})
			require.NoError(t, err)

			prog := plan.Structure.Progression
			assert.Equal(t, tt.wantType, prog.Type)
			assert.Len(t, prog.WeeklyAdjustments, tt.wantWeekly)
			assert.Len(t, prog.Milestones, tt.wantStones)
		})
	}
}

// A never-responding completion service must not stall plan generation past
// the attempt timeouts plus backoff.
func TestGeneratePlanBoundedOnHangingService(t *testing.T) {
	svc := &hangingCompletion{}
	p := newTestPlanner(svc, catalog.NewDefaultStaticCatalog())
	cfg := testRunnerConfig()
	cfg.AttemptTimeout = 30 * time.Millisecond
	p.selector.runner = cfg
	p.warmup.runner = cfg
	p.timing.runner = cfg
	p.progression.runner = cfg

	start := time.Now()
	plan, _, err := p.GeneratePlan(context.Background(), GenerateRequest{
		Goal:     testGoal(domain.GoalHabit),
		Profile:  testProfile(),
		Settings: SelectorSettings{ExerciseCount: 3, AvailableEquipment: []string{"body weight"}},
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, domain.PlanTypeFallback, plan.PlanType)
	// Stage 1 and stage 2 each cost at most 3 attempts of 30ms plus
	// millisecond backoffs; a hang would blow far past this.
	assert.Less(t, elapsed, 2*time.Second)
}

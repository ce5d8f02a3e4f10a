package planner

import (
	"context"
	"testing"

	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluatorCatalog() *catalog.StaticCatalog {
	return catalog.NewStaticCatalog([]domain.ExerciseCandidate{
		{ID: "ex-1", Name: "push-up", TargetMuscle: "pectorals", Equipment: "body weight", Category: domain.CategoryStrength, MediaKey: "exercises/ex-1.gif", Instructions: []string{"hands under shoulders"}},
		{ID: "ex-2", Name: "squat", TargetMuscle: "quads", Equipment: "body weight", Category: domain.CategoryStrength, MediaKey: "exercises/ex-2.gif"},
		{ID: "st-1", Name: "cat-cow stretch", TargetMuscle: "spine", Equipment: "body weight", Category: domain.CategoryStretching, MediaKey: "exercises/st-1.gif"},
	})
}

func basePlan() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		RequestID: "test-request",
		PlanType:  domain.PlanTypeAI,
		Structure: domain.PlanStructure{
			MainWorkout: []domain.ExerciseEntry{
				{ExerciseID: "ex-1", Name: "push-up", Sets: 2, Reps: 10, Order: 1},
				{ExerciseID: "ex-2", Name: "squat", Sets: 2, Reps: 12, Order: 2},
			},
			WarmUp: domain.PlanSection{
				Exercises: []domain.ExerciseEntry{{ExerciseID: "st-1", Name: "cat-cow stretch", IsTimed: true, DurationSeconds: 60, Sets: 1}},
			},
			CoolDown: domain.PlanSection{
				Exercises: []domain.ExerciseEntry{{ExerciseID: "st-1", Name: "cat-cow stretch", IsTimed: true, DurationSeconds: 60, Sets: 1}},
			},
			Timing: domain.TimingPlan{
				RestBetweenExercisesSeconds: 60,
				RestBetweenSetsSeconds:      30,
				DefaultWorkDurationSeconds:  45,
				Exercises: []domain.ExerciseTiming{
					{ExerciseName: "push-up", WorkDurationSeconds: 45, RestBetweenSetsSeconds: 30, Tempo: "2-1-2"},
					{ExerciseName: "squat", WorkDurationSeconds: 45, RestBetweenSetsSeconds: 30, Tempo: "2-1-2"},
				},
			},
			Progression: domain.Progression{
				Type:             domain.ProgressionStreak,
				StreakMilestones: fallbackStreaks,
			},
		},
		Guidance: domain.Guidance{Description: "desc", Tips: []string{"tip"}},
	}
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(evaluatorCatalog(), testLogger())
}

func TestEvaluatorPassesCleanPlan(t *testing.T) {
	plan := basePlan()
	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestEvaluatorRepairsMissingIDByName(t *testing.T) {
	plan := basePlan()
	plan.Structure.MainWorkout[0].ExerciseID = ""
	plan.Structure.MainWorkout[0].MediaURL = ""
	plan.Structure.MainWorkout[0].Instructions = nil

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	repaired := plan.Structure.MainWorkout[0]
	assert.Equal(t, "ex-1", repaired.ExerciseID)
	// Demonstration metadata is copied from the catalog record.
	assert.Equal(t, "exercises/ex-1.gif", repaired.MediaURL)
	assert.NotEmpty(t, repaired.Instructions)
	assert.NotEmpty(t, report.Warnings)
}

func TestEvaluatorKeepsUnresolvedEntry(t *testing.T) {
	plan := basePlan()
	plan.Structure.MainWorkout = append(plan.Structure.MainWorkout,
		domain.ExerciseEntry{ExerciseID: "ghost", Name: "phantom press", Sets: 2, Reps: 10, Order: 3})

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.False(t, report.Valid, "unresolved exercise flags the report")
	require.Len(t, plan.Structure.MainWorkout, 3, "entry is never dropped")
	assert.True(t, plan.Structure.MainWorkout[2].Unresolved)
	assert.NotEmpty(t, report.Errors[SectionMainWorkout])
}

func TestEvaluatorNormalizesSetCounts(t *testing.T) {
	plan := basePlan()
	plan.Structure.MainWorkout[0].Sets = 3
	plan.Structure.MainWorkout[1].Sets = 2
	plan.Structure.MainWorkout = append(plan.Structure.MainWorkout,
		domain.ExerciseEntry{ExerciseID: "ex-1", Name: "push-up", Sets: 2, Reps: 8, Order: 3})

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid, "set divergence is a warning, not a failure")
	for _, e := range plan.Structure.MainWorkout {
		assert.Equal(t, 2, e.Sets, "majority value wins")
	}
	assert.NotEmpty(t, report.Warnings)
}

func TestEvaluatorFillsTimingDefaults(t *testing.T) {
	plan := basePlan()
	plan.Structure.Timing = domain.TimingPlan{}

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	timing := plan.Structure.Timing
	assert.Equal(t, DefaultRestBetweenExercises, timing.RestBetweenExercisesSeconds)
	assert.Equal(t, DefaultRestBetweenSets, timing.RestBetweenSetsSeconds)
	assert.Equal(t, DefaultWorkDuration, timing.DefaultWorkDurationSeconds)
	require.Len(t, timing.Exercises, 2, "missing per-exercise entries are synthesized")
	assert.Positive(t, timing.TotalEstimatedDurationSeconds)
}

func TestEvaluatorRepairsSections(t *testing.T) {
	plan := basePlan()
	plan.Structure.WarmUp = domain.PlanSection{
		Exercises: []domain.ExerciseEntry{{ExerciseID: "st-1", Name: "cat-cow stretch"}},
	}

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	warm := plan.Structure.WarmUp
	assert.True(t, warm.Exercises[0].IsTimed, "section exercises are forced timed")
	assert.Positive(t, warm.Exercises[0].DurationSeconds)
	assert.Positive(t, warm.DurationSeconds)
	assert.NotEmpty(t, warm.Description)
}

func TestEvaluatorEnforcesProgressionExclusivity(t *testing.T) {
	plan := basePlan()
	plan.Structure.Progression.WeeklyAdjustments = []domain.WeeklyAdjustment{{Week: 1, Intensity: "light"}}

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	assert.NotEmpty(t, plan.Structure.Progression.StreakMilestones)
	assert.Empty(t, plan.Structure.Progression.WeeklyAdjustments, "shape not matching the declared type is cleared")
}

func TestEvaluatorFillsGuidance(t *testing.T) {
	plan := basePlan()
	plan.Guidance = domain.Guidance{}

	report := newTestEvaluator().Evaluate(context.Background(), plan)

	assert.True(t, report.Valid)
	assert.NotEmpty(t, plan.Guidance.Description)
	assert.NotEmpty(t, plan.Guidance.Tips)
}

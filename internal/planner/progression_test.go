package planner

import (
	"context"
	"testing"

	"fitpact/fitness-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgression(svc *fakeCompletion) *ProgressionAgent {
	a := NewProgressionAgent(svc, testLogger())
	a.runner = testRunnerConfig()
	return a
}

func TestChallengeWeeks(t *testing.T) {
	assert.Equal(t, 5, challengeWeeks(30))
	assert.Equal(t, 4, challengeWeeks(28))
	assert.Equal(t, 1, challengeWeeks(1))
	assert.Equal(t, 0, challengeWeeks(0))
}

func TestHabitGoalNeverGetsWeeklyAdjustments(t *testing.T) {
	// Even if the model volunteers a weekly shape, validation rejects it and
	// the fallback produces streaks only.
	svc := &fakeCompletion{responses: []string{`{
		"streak_milestones":[{"days":7,"message":"week one"}],
		"weekly_adjustments":[{"week":1,"intensity":"light"}]}`}}

	in := ProgressionInput{Goal: testGoal(domain.GoalHabit), Profile: testProfile()}
	prog, fromAI := newTestProgression(svc).Generate(context.Background(), in)

	assert.False(t, fromAI)
	assert.Equal(t, domain.ProgressionStreak, prog.Type)
	assert.Empty(t, prog.WeeklyAdjustments)
	assert.Empty(t, prog.Milestones)
	assert.NotEmpty(t, prog.StreakMilestones)
}

func TestTimeChallengeThirtyDaysYieldsFiveWeeks(t *testing.T) {
	in := ProgressionInput{Goal: testGoal(domain.GoalTimeChallenge), Profile: testProfile()}

	// Scripted AI output with the right shape.
	svc := &fakeCompletion{responses: []string{`{
		"weekly_adjustments":[
			{"week":1,"intensity":"light","reps_delta":0,"sets_delta":0,"rest_delta_seconds":0},
			{"week":2,"intensity":"moderate","reps_delta":2,"sets_delta":0,"rest_delta_seconds":-5},
			{"week":3,"intensity":"moderate","reps_delta":4,"sets_delta":0,"rest_delta_seconds":-5},
			{"week":4,"intensity":"moderate_high","reps_delta":6,"sets_delta":1,"rest_delta_seconds":-10},
			{"week":5,"intensity":"high","reps_delta":8,"sets_delta":1,"rest_delta_seconds":-10}
		]}`}}
	prog, fromAI := newTestProgression(svc).Generate(context.Background(), in)

	require.True(t, fromAI)
	assert.Equal(t, domain.ProgressionWeekly, prog.Type)
	assert.Len(t, prog.WeeklyAdjustments, 5)
	assert.Empty(t, prog.StreakMilestones)
	assert.Empty(t, prog.Milestones)
}

func TestTimeChallengeRejectsDecreasingIntensity(t *testing.T) {
	in := ProgressionInput{Goal: testGoal(domain.GoalTimeChallenge), Profile: testProfile()}
	in.Goal.ChallengeDurationDays = 14

	svc := &fakeCompletion{responses: []string{`{
		"weekly_adjustments":[
			{"week":1,"intensity":"high"},
			{"week":2,"intensity":"light"}
		]}`}}
	prog, fromAI := newTestProgression(svc).Generate(context.Background(), in)

	assert.False(t, fromAI)
	// Fallback still honors the week count for the challenge.
	assert.Len(t, prog.WeeklyAdjustments, 2)
}

func TestTimeChallengeFallbackShape(t *testing.T) {
	a := newTestProgression(&fakeCompletion{})
	in := ProgressionInput{Goal: testGoal(domain.GoalTimeChallenge), Profile: testProfile()}

	prog := a.Fallback(in)

	require.Len(t, prog.WeeklyAdjustments, 5)
	prev := -1
	for _, w := range prog.WeeklyAdjustments {
		rank, ok := intensityRank[w.Intensity]
		require.True(t, ok, "unknown intensity %q", w.Intensity)
		assert.GreaterOrEqual(t, rank, prev, "intensity must never decrease")
		prev = rank
	}
	assert.Equal(t, "light", prog.WeeklyAdjustments[0].Intensity)
	assert.Equal(t, "high", prog.WeeklyAdjustments[4].Intensity)
}

func TestAdvancedFallbackEndsInDeload(t *testing.T) {
	a := newTestProgression(&fakeCompletion{})
	profile := testProfile()
	profile.FitnessLevel = domain.LevelAdvanced
	in := ProgressionInput{Goal: testGoal(domain.GoalTimeChallenge), Profile: profile}

	prog := a.Fallback(in)

	last := prog.WeeklyAdjustments[len(prog.WeeklyAdjustments)-1]
	secondLast := prog.WeeklyAdjustments[len(prog.WeeklyAdjustments)-2]
	assert.Equal(t, "deload and recover", last.Focus)
	assert.Less(t, last.RepsDelta, secondLast.RepsDelta)
	assert.Zero(t, last.SetsDelta)
}

func TestTargetChallengeMilestones(t *testing.T) {
	in := ProgressionInput{Goal: testGoal(domain.GoalTargetChallenge), Profile: testProfile()}

	prog, fromAI := newTestProgression(&fakeCompletion{}).Generate(context.Background(), in)

	assert.False(t, fromAI) // empty fake always falls back
	assert.Equal(t, domain.ProgressionMilestone, prog.Type)
	require.Len(t, prog.Milestones, 4)
	assert.Empty(t, prog.WeeklyAdjustments)

	assert.Equal(t, []int{25, 50, 75, 100},
		[]int{prog.Milestones[0].Percent, prog.Milestones[1].Percent, prog.Milestones[2].Percent, prog.Milestones[3].Percent})
	// Target of 20 check-ins: 5, 10, 15, 20.
	assert.Equal(t, 5, prog.Milestones[0].Checkins)
	assert.Equal(t, 20, prog.Milestones[3].Checkins)
}

func TestProgressionFallbackDeterministic(t *testing.T) {
	a := newTestProgression(&fakeCompletion{})
	for _, goalType := range []domain.GoalType{domain.GoalHabit, domain.GoalTimeChallenge, domain.GoalTargetChallenge} {
		in := ProgressionInput{Goal: testGoal(goalType), Profile: testProfile()}
		assert.Equal(t, a.Fallback(in), a.Fallback(in))
	}
}

package planner

import (
	"context"
	"errors"
	"time"

	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/domain"

	"github.com/rs/zerolog"
)

// fakeCompletion scripts completion-service behavior for tests. Responses
// are returned in order; when they run out the last one repeats. A non-nil
// err wins over responses.
type fakeCompletion struct {
	responses []string
	err       error
	delay     time.Duration
	calls     int
}

func (f *fakeCompletion) Complete(ctx context.Context, _ completion.Request) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", completion.ErrTimeout
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeCompletion: no scripted response")
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

// hangingCompletion never responds until the context is cancelled.
type hangingCompletion struct{ calls int }

func (h *hangingCompletion) Complete(ctx context.Context, _ completion.Request) (string, error) {
	h.calls++
	<-ctx.Done()
	return "", completion.ErrTimeout
}

// testRunnerConfig keeps retry loops fast in tests.
func testRunnerConfig() runnerConfig {
	return runnerConfig{
		MaxRetries:     defaultMaxRetries,
		AttemptTimeout: 50 * time.Millisecond,
		Backoff:        func(int) time.Duration { return time.Millisecond },
		Sleep:          sleepCtx,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testPool() []domain.ExerciseCandidate {
	return []domain.ExerciseCandidate{
		{ID: "ex-1", Name: "push-up", TargetMuscle: "pectorals", Equipment: "body weight", Category: domain.CategoryStrength},
		{ID: "ex-2", Name: "squat", TargetMuscle: "quads", Equipment: "body weight", Category: domain.CategoryStrength},
		{ID: "ex-3", Name: "mountain climber", TargetMuscle: "abs", Equipment: "body weight", Category: domain.CategoryCardio},
		{ID: "ex-4", Name: "lunge", TargetMuscle: "glutes", Equipment: "body weight", Category: domain.CategoryStrength},
		{ID: "ex-5", Name: "burpee", TargetMuscle: "full body", Equipment: "body weight", Category: domain.CategoryPlyometric},
	}
}

func testProfile() domain.UserProfile {
	return domain.UserProfile{
		FitnessLevel:      domain.LevelIntermediate,
		PrimaryGoal:       "general_fitness",
		CurrentFrequency:  "weekly",
		PreferredLocation: domain.LocationHome,
		AvailableTime:     "30-60min",
	}
}

func testGoal(goalType domain.GoalType) domain.Goal {
	g := domain.Goal{
		Title:      "Move every day",
		Category:   "fitness",
		Frequency:  "weekly",
		TargetDays: 3,
		GoalType:   goalType,
	}
	switch goalType {
	case domain.GoalTimeChallenge:
		g.ChallengeDurationDays = 30
	case domain.GoalTargetChallenge:
		g.TargetCheckins = 20
	}
	return g
}

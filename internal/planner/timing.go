package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/domain"

	"github.com/rs/zerolog"
)

// TimingInput is the context for the pacing calculation.
type TimingInput struct {
	Profile       domain.UserProfile
	MainExercises []domain.ExerciseEntry
}

// TimingCalculatorAgent produces per-exercise pacing and the total session
// estimate. Its fallback is the same formula the prompt describes, applied
// directly, so AI and fallback output stay in the same ballpark.
type TimingCalculatorAgent struct {
	svc    completion.Service
	runner runnerConfig
	log    zerolog.Logger
}

func NewTimingCalculatorAgent(svc completion.Service, log zerolog.Logger) *TimingCalculatorAgent {
	return &TimingCalculatorAgent{
		svc:    svc,
		runner: defaultRunnerConfig(),
		log:    log.With().Str("agent", "timing_calculator").Logger(),
	}
}

func (a *TimingCalculatorAgent) Name() string { return "timing_calculator" }

// Plan-wide defaults, also used by the evaluator when filling gaps.
const (
	DefaultRestBetweenExercises = 60
	DefaultRestBetweenSets      = 30
	DefaultWorkDuration         = 45
)

// categoryTiming is the base work/rest pair before level scaling.
type categoryTiming struct {
	work int
	rest int
}

var baseTimings = map[string]categoryTiming{
	domain.CategoryStrength:   {work: 45, rest: 60},
	domain.CategoryCardio:     {work: 60, rest: 45},
	domain.CategoryStretching: {work: 30, rest: 15},
	domain.CategoryPlyometric: {work: 30, rest: 75},
}

// levelMultiplier scales work up and rest down as fitness improves.
type levelMultiplier struct {
	work float64
	rest float64
}

var levelMultipliers = map[domain.FitnessLevel]levelMultiplier{
	domain.LevelBeginner:     {work: 0.8, rest: 1.3},
	domain.LevelIntermediate: {work: 1.0, rest: 1.0},
	domain.LevelAdvanced:     {work: 1.2, rest: 0.8},
	domain.LevelAthlete:      {work: 1.3, rest: 0.7},
}

func (a *TimingCalculatorAgent) Generate(ctx context.Context, in TimingInput) (domain.TimingPlan, bool) {
	return runAgent(ctx, a.log, a.runner, a.Name(),
		func(ctx context.Context) (domain.TimingPlan, error) { return a.attempt(ctx, in) },
		func() domain.TimingPlan { return a.Fallback(in) },
	)
}

const timingSystemPrompt = `You compute workout pacing.
For each exercise, give a work duration per set, rest between sets, and a tempo annotation (e.g. "2-1-2" for strength, "steady" for cardio).
Also give one rest-between-exercises value and the total estimated session duration in seconds.
Respond with a single JSON object and nothing else:
{"rest_between_exercises_seconds":60,"rest_between_sets_seconds":30,"total_estimated_duration_seconds":900,"exercises":[{"exercise_name":"...","work_duration_seconds":45,"rest_between_sets_seconds":30,"tempo":"2-1-2"}]}`

func (a *TimingCalculatorAgent) attempt(ctx context.Context, in TimingInput) (domain.TimingPlan, error) {
	raw, err := a.svc.Complete(ctx, completion.Request{
		SystemPrompt: timingSystemPrompt,
		UserPrompt:   a.buildUserPrompt(in),
		Temperature:  0.1,
		JSONOnly:     true,
	})
	if err != nil {
		return domain.TimingPlan{}, err
	}

	payload, ok := extractJSON(raw)
	if !ok {
		return domain.TimingPlan{}, ErrMalformedOutput
	}
	var wire struct {
		RestBetweenExercisesSeconds   int `json:"rest_between_exercises_seconds"`
		RestBetweenSetsSeconds        int `json:"rest_between_sets_seconds"`
		TotalEstimatedDurationSeconds int `json:"total_estimated_duration_seconds"`
		Exercises                     []struct {
			ExerciseName           string `json:"exercise_name"`
			WorkDurationSeconds    int    `json:"work_duration_seconds"`
			RestBetweenSetsSeconds int    `json:"rest_between_sets_seconds"`
			Tempo                  string `json:"tempo"`
		} `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return domain.TimingPlan{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	plan := domain.TimingPlan{
		RestBetweenExercisesSeconds:   wire.RestBetweenExercisesSeconds,
		RestBetweenSetsSeconds:        wire.RestBetweenSetsSeconds,
		DefaultWorkDurationSeconds:    DefaultWorkDuration,
		TotalEstimatedDurationSeconds: wire.TotalEstimatedDurationSeconds,
	}
	for _, e := range wire.Exercises {
		plan.Exercises = append(plan.Exercises, domain.ExerciseTiming{
			ExerciseName:           e.ExerciseName,
			WorkDurationSeconds:    e.WorkDurationSeconds,
			RestBetweenSetsSeconds: e.RestBetweenSetsSeconds,
			Tempo:                  e.Tempo,
		})
	}

	if err := a.validate(in, plan); err != nil {
		return domain.TimingPlan{}, err
	}
	if plan.TotalEstimatedDurationSeconds <= 0 {
		plan.TotalEstimatedDurationSeconds = estimateTotal(in.MainExercises, plan)
	}
	return plan, nil
}

func (a *TimingCalculatorAgent) buildUserPrompt(in TimingInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fitness level: %s.\n", in.Profile.FitnessLevel)
	b.WriteString("Exercises (name | category | sets | reps or seconds):\n")
	for _, e := range in.MainExercises {
		if e.IsTimed {
			fmt.Fprintf(&b, "%s | %s | %d | %ds\n", e.Name, e.Category, e.Sets, e.DurationSeconds)
		} else {
			fmt.Fprintf(&b, "%s | %s | %d | %d reps\n", e.Name, e.Category, e.Sets, e.Reps)
		}
	}
	return b.String()
}

func (a *TimingCalculatorAgent) validate(in TimingInput, plan domain.TimingPlan) error {
	if len(plan.Exercises) != len(in.MainExercises) {
		return fmt.Errorf("%w: expected %d timing entries, got %d",
			ErrValidationFailed, len(in.MainExercises), len(plan.Exercises))
	}
	if plan.RestBetweenExercisesSeconds <= 0 || plan.RestBetweenSetsSeconds <= 0 {
		return fmt.Errorf("%w: non-positive rest values", ErrValidationFailed)
	}
	for _, e := range plan.Exercises {
		if e.ExerciseName == "" || e.WorkDurationSeconds <= 0 || e.RestBetweenSetsSeconds <= 0 {
			return fmt.Errorf("%w: incomplete timing entry for %q", ErrValidationFailed, e.ExerciseName)
		}
	}
	return nil
}

// Fallback computes the pacing directly from the category table and the
// level multipliers.
func (a *TimingCalculatorAgent) Fallback(in TimingInput) domain.TimingPlan {
	mult, ok := levelMultipliers[in.Profile.FitnessLevel]
	if !ok {
		mult = levelMultipliers[domain.LevelIntermediate]
	}

	plan := domain.TimingPlan{
		RestBetweenExercisesSeconds: scale(DefaultRestBetweenExercises, mult.rest),
		RestBetweenSetsSeconds:      scale(DefaultRestBetweenSets, mult.rest),
		DefaultWorkDurationSeconds:  scale(DefaultWorkDuration, mult.work),
	}
	for _, e := range in.MainExercises {
		base, ok := baseTimings[e.Category]
		if !ok {
			base = baseTimings[domain.CategoryStrength]
		}
		plan.Exercises = append(plan.Exercises, domain.ExerciseTiming{
			ExerciseName:           e.Name,
			WorkDurationSeconds:    scale(base.work, mult.work),
			RestBetweenSetsSeconds: scale(base.rest, mult.rest),
			Tempo:                  tempoFor(e.Category),
		})
	}
	plan.TotalEstimatedDurationSeconds = estimateTotal(in.MainExercises, plan)
	return plan
}

func tempoFor(category string) string {
	switch category {
	case domain.CategoryStrength:
		return "2-1-2"
	case domain.CategoryPlyometric:
		return "explosive"
	default:
		return "steady"
	}
}

func scale(base int, mult float64) int {
	v := int(float64(base) * mult)
	if v < 1 {
		v = 1
	}
	return v
}

// estimateTotal applies the session formula:
// total = sum(sets*work + (sets-1)*rest_between_sets) + (n-1)*rest_between_exercises.
func estimateTotal(entries []domain.ExerciseEntry, plan domain.TimingPlan) int {
	byName := make(map[string]domain.ExerciseTiming, len(plan.Exercises))
	for _, t := range plan.Exercises {
		byName[t.ExerciseName] = t
	}

	total := 0
	for _, e := range entries {
		sets := e.Sets
		if sets < 1 {
			sets = 1
		}
		work := plan.DefaultWorkDurationSeconds
		rest := plan.RestBetweenSetsSeconds
		if t, ok := byName[e.Name]; ok {
			work = t.WorkDurationSeconds
			rest = t.RestBetweenSetsSeconds
		}
		total += sets*work + (sets-1)*rest
	}
	if n := len(entries); n > 1 {
		total += (n - 1) * plan.RestBetweenExercisesSeconds
	}
	return total
}

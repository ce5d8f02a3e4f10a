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

// SelectorSettings bound what the selector may produce for one request.
// They come from the caller's tier snapshot, never from global state.
type SelectorSettings struct {
	ExerciseCount         int
	TargetDurationMinutes int
	AvailableEquipment    []string
}

// SelectorInput is the full context for one exercise-selection run.
type SelectorInput struct {
	Goal     domain.Goal
	Profile  domain.UserProfile
	Settings SelectorSettings
	Pool     []domain.ExerciseCandidate // equipment-filtered candidates; ids outside this set are rejected
	Feedback *domain.WorkoutFeedback    // optional, from the previous plan
}

// SelectorOutput is the selector's contribution to the plan.
type SelectorOutput struct {
	Exercises       []domain.ExerciseEntry
	RecommendedSets int
	Reasoning       string
}

// ExerciseSelectorAgent picks the main-workout exercises. It is the only
// stage-1 agent: everything downstream consumes its output.
type ExerciseSelectorAgent struct {
	svc    completion.Service
	runner runnerConfig
	log    zerolog.Logger
}

func NewExerciseSelectorAgent(svc completion.Service, log zerolog.Logger) *ExerciseSelectorAgent {
	return &ExerciseSelectorAgent{
		svc:    svc,
		runner: defaultRunnerConfig(),
		log:    log.With().Str("agent", "exercise_selector").Logger(),
	}
}

func (a *ExerciseSelectorAgent) Name() string { return "exercise_selector" }

// Generate returns the selected exercises. The boolean reports whether the
// completion service produced them (false means fallback). An empty candidate
// pool skips the completion service entirely: nothing it returned could pass
// the pool-membership check anyway.
func (a *ExerciseSelectorAgent) Generate(ctx context.Context, in SelectorInput) (SelectorOutput, bool) {
	if len(in.Pool) == 0 {
		return a.Fallback(in), false
	}
	return runAgent(ctx, a.log, a.runner, a.Name(),
		func(ctx context.Context) (SelectorOutput, error) { return a.attempt(ctx, in) },
		func() SelectorOutput { return a.Fallback(in) },
	)
}

const selectorSystemPrompt = `You are an exercise selection assistant for a fitness accountability app.
Pick exercises only from the candidate list you are given, matching the user's goal, level and time budget.
Respond with a single JSON object and nothing else, using this shape:
{"exercises":[{"exercise_id":"...","name":"...","sets":2,"reps":10,"order":1,"target_muscle":"...","is_timed":false,"focus_cues":"..."}],"recommended_sets":2,"reasoning":"..."}`

func (a *ExerciseSelectorAgent) attempt(ctx context.Context, in SelectorInput) (SelectorOutput, error) {
	raw, err := a.svc.Complete(ctx, completion.Request{
		SystemPrompt: selectorSystemPrompt,
		UserPrompt:   a.buildUserPrompt(in),
		Temperature:  0.4,
		JSONOnly:     true,
	})
	if err != nil {
		return SelectorOutput{}, err
	}
	out, err := a.parse(raw, in)
	if err != nil {
		return SelectorOutput{}, err
	}
	if err := a.validate(in, out); err != nil {
		return SelectorOutput{}, err
	}
	return a.normalizeSets(out), nil
}

func (a *ExerciseSelectorAgent) buildUserPrompt(in SelectorInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s (%s, category %s, %d days/week target).\n",
		in.Goal.Title, in.Goal.GoalType, in.Goal.Category, in.Goal.TargetDays)
	fmt.Fprintf(&b, "User: level=%s, primary goal=%s, trains %s, time budget=%s, biggest challenge=%s.\n",
		in.Profile.FitnessLevel, in.Profile.PrimaryGoal, in.Profile.CurrentFrequency,
		in.Profile.AvailableTime, in.Profile.BiggestChallenge)
	fmt.Fprintf(&b, "Select exactly %d exercises for a %d minute session. Use the same set count for every exercise; aim for %d sets.\n",
		in.Settings.ExerciseCount, in.Settings.TargetDurationMinutes, a.recommendedSets(in.Profile))

	if fb := in.Feedback; fb != nil {
		if len(fb.TooHard) > 0 {
			fmt.Fprintf(&b, "Previously too hard (replace with easier variants): %s.\n", strings.Join(fb.TooHard, ", "))
		}
		if len(fb.TooEasy) > 0 {
			fmt.Fprintf(&b, "Previously too easy (progress these): %s.\n", strings.Join(fb.TooEasy, ", "))
		}
		if len(fb.Unknown) > 0 {
			fmt.Fprintf(&b, "User did not recognize: %s.\n", strings.Join(fb.Unknown, ", "))
		}
		if len(fb.Avoided) > 0 {
			fmt.Fprintf(&b, "Never select: %s.\n", strings.Join(fb.Avoided, ", "))
		}
	}

	b.WriteString("Candidates (id | name | target muscle | equipment | category):\n")
	for _, c := range in.Pool {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s\n", c.ID, c.Name, c.TargetMuscle, c.Equipment, c.Category)
	}
	return b.String()
}

// selectorWire is the JSON shape the completion service is asked for.
type selectorWire struct {
	Exercises []struct {
		ExerciseID   string `json:"exercise_id"`
		Name         string `json:"name"`
		Sets         int    `json:"sets"`
		Reps         int    `json:"reps"`
		Order        int    `json:"order"`
		TargetMuscle string `json:"target_muscle"`
		IsTimed      bool   `json:"is_timed"`
		FocusCues    string `json:"focus_cues"`
	} `json:"exercises"`
	RecommendedSets int    `json:"recommended_sets"`
	Reasoning       string `json:"reasoning"`
}

func (a *ExerciseSelectorAgent) parse(raw string, in SelectorInput) (SelectorOutput, error) {
	payload, ok := extractJSON(raw)
	if !ok {
		return SelectorOutput{}, ErrMalformedOutput
	}
	var wire selectorWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return SelectorOutput{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	byID := make(map[string]domain.ExerciseCandidate, len(in.Pool))
	for _, c := range in.Pool {
		byID[c.ID] = c
	}

	out := SelectorOutput{
		RecommendedSets: wire.RecommendedSets,
		Reasoning:       wire.Reasoning,
	}
	for i, e := range wire.Exercises {
		entry := domain.ExerciseEntry{
			ExerciseID:   e.ExerciseID,
			Name:         e.Name,
			Sets:         e.Sets,
			Reps:         e.Reps,
			Order:        e.Order,
			TargetMuscle: e.TargetMuscle,
			IsTimed:      e.IsTimed,
			FocusCues:    e.FocusCues,
		}
		if entry.Order == 0 {
			entry.Order = i + 1
		}
		// Carry catalog metadata forward so later stages don't re-query.
		if c, ok := byID[e.ExerciseID]; ok {
			entry.Category = c.Category
			if entry.TargetMuscle == "" {
				entry.TargetMuscle = c.TargetMuscle
			}
			if entry.Name == "" {
				entry.Name = c.Name
			}
		}
		out.Exercises = append(out.Exercises, entry)
	}
	return out, nil
}

func (a *ExerciseSelectorAgent) validate(in SelectorInput, out SelectorOutput) error {
	if len(out.Exercises) != in.Settings.ExerciseCount {
		return fmt.Errorf("%w: expected %d exercises, got %d",
			ErrValidationFailed, in.Settings.ExerciseCount, len(out.Exercises))
	}
	poolIDs := make(map[string]bool, len(in.Pool))
	for _, c := range in.Pool {
		poolIDs[c.ID] = true
	}
	for _, e := range out.Exercises {
		if !poolIDs[e.ExerciseID] {
			return fmt.Errorf("%w: exercise id %q is not in the candidate pool", ErrValidationFailed, e.ExerciseID)
		}
		if e.Name == "" {
			return fmt.Errorf("%w: exercise %s has no name", ErrValidationFailed, e.ExerciseID)
		}
		if e.Sets < 0 || e.Sets > 6 {
			return fmt.Errorf("%w: exercise %s has implausible set count %d", ErrValidationFailed, e.ExerciseID, e.Sets)
		}
		if !e.IsTimed && e.Reps <= 0 {
			return fmt.Errorf("%w: exercise %s has no reps", ErrValidationFailed, e.ExerciseID)
		}
	}
	return nil
}

// normalizeSets enforces the one-set-count-per-plan invariant after
// validation. When entries disagree, every entry gets the agent's declared
// recommended_sets, or failing that the most frequent value.
func (a *ExerciseSelectorAgent) normalizeSets(out SelectorOutput) SelectorOutput {
	if uniformSets(out.Exercises) {
		return out
	}
	target := out.RecommendedSets
	if target <= 0 {
		target = mostFrequentSets(out.Exercises)
	}
	a.log.Debug().Int("sets", target).Msg("normalizing divergent set counts")
	for i := range out.Exercises {
		out.Exercises[i].Sets = target
	}
	return out
}

func uniformSets(entries []domain.ExerciseEntry) bool {
	for i := 1; i < len(entries); i++ {
		if entries[i].Sets != entries[0].Sets {
			return false
		}
	}
	return true
}

func mostFrequentSets(entries []domain.ExerciseEntry) int {
	counts := make(map[int]int)
	for _, e := range entries {
		if e.Sets > 0 {
			counts[e.Sets]++
		}
	}
	best, bestCount := 1, 0
	for sets, count := range counts {
		if count > bestCount || (count == bestCount && sets < best) {
			best, bestCount = sets, count
		}
	}
	return best
}

// --- Set-count policy ---

// recommendedSets maps the profile tuple to a 1..3 set count. Athletes always
// get 3. A consistency-focused challenge answer overrides everything else at
// 1: those users need a plan they will actually finish. Otherwise start at 3
// and subtract for each signal that volume should stay low.
func (a *ExerciseSelectorAgent) recommendedSets(p domain.UserProfile) int {
	if p.FitnessLevel == domain.LevelAthlete {
		return 3
	}
	switch p.BiggestChallenge {
	case "getting_started", "staying_consistent":
		return 1
	}

	sets := 3
	if p.FitnessLevel == domain.LevelBeginner {
		sets--
	}
	switch p.CurrentFrequency {
	case "never", "rarely":
		sets--
	}
	switch p.AvailableTime {
	case "under_15min", "15-30min":
		sets--
	}
	if p.PrimaryGoal == "build_muscle" && p.FitnessLevel != domain.LevelBeginner && sets < 2 {
		sets = 2
	}
	if sets < 1 {
		sets = 1
	}
	return sets
}

// fallbackExercises is the fixed bodyweight list used when the completion
// service cannot produce a usable selection.
var fallbackExercises = []domain.ExerciseEntry{
	{ExerciseID: "bw-0001", Name: "push-up", Reps: 10, TargetMuscle: "pectorals", Category: domain.CategoryStrength},
	{ExerciseID: "bw-0002", Name: "squat", Reps: 12, TargetMuscle: "quads", Category: domain.CategoryStrength},
	{ExerciseID: "bw-0003", Name: "sit-up", Reps: 10, TargetMuscle: "abs", Category: domain.CategoryStrength},
	{ExerciseID: "bw-0004", Name: "stretch", DurationSeconds: 30, IsTimed: true, TargetMuscle: "spine", Category: domain.CategoryStretching},
	{ExerciseID: "bw-0005", Name: "heel-touch", Reps: 12, TargetMuscle: "abs", Category: domain.CategoryStrength},
}

// Fallback returns the deterministic bodyweight selection, truncated to the
// requested count, with the policy set count applied uniformly.
func (a *ExerciseSelectorAgent) Fallback(in SelectorInput) SelectorOutput {
	sets := a.recommendedSets(in.Profile)
	count := in.Settings.ExerciseCount
	if count <= 0 || count > len(fallbackExercises) {
		count = len(fallbackExercises)
	}

	exercises := make([]domain.ExerciseEntry, count)
	for i := 0; i < count; i++ {
		entry := fallbackExercises[i]
		entry.Sets = sets
		entry.Order = i + 1
		exercises[i] = entry
	}
	return SelectorOutput{
		Exercises:       exercises,
		RecommendedSets: sets,
		Reasoning:       "fallback bodyweight selection",
	}
}

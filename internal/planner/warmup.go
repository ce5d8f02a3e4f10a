package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/domain"

	"github.com/rs/zerolog"
)

// WarmupInput carries what the warmup/cooldown step needs: where the user
// trains and which muscles the main workout already hits.
type WarmupInput struct {
	Profile       domain.UserProfile
	MainExercises []domain.ExerciseEntry
}

// WarmupOutput is the pair of timed sections bracketing the main workout.
type WarmupOutput struct {
	WarmUp   domain.PlanSection
	CoolDown domain.PlanSection
}

// WarmupCooldownAgent picks one warmup and one cooldown stretch. It is the
// only agent that queries the catalog before talking to the completion
// service: the model only ever chooses between real candidate ids, never
// invents exercise metadata.
type WarmupCooldownAgent struct {
	svc     completion.Service
	catalog catalog.Catalog
	runner  runnerConfig
	log     zerolog.Logger
}

func NewWarmupCooldownAgent(svc completion.Service, cat catalog.Catalog, log zerolog.Logger) *WarmupCooldownAgent {
	return &WarmupCooldownAgent{
		svc:     svc,
		catalog: cat,
		runner:  defaultRunnerConfig(),
		log:     log.With().Str("agent", "warmup_cooldown").Logger(),
	}
}

func (a *WarmupCooldownAgent) Name() string { return "warmup_cooldown" }

const (
	warmupEntrySeconds = 60
	warmupEntrySets    = 2
)

// Generate retrieves stretching candidates for the user's location and asks
// the completion service to pick one warmup and one cooldown from them. When
// the catalog has nothing to offer, the static sections are returned without
// any completion call; that short-circuit is a data-availability condition,
// not a service failure.
func (a *WarmupCooldownAgent) Generate(ctx context.Context, in WarmupInput) (WarmupOutput, bool) {
	candidates := a.fetchCandidates(ctx, in.Profile.PreferredLocation)
	if len(candidates) == 0 {
		a.log.Info().Msg("no stretching candidates available, using static sections")
		return staticSections(), false
	}

	return runAgent(ctx, a.log, a.runner, a.Name(),
		func(ctx context.Context) (WarmupOutput, error) { return a.attempt(ctx, in, candidates) },
		func() WarmupOutput { return a.fallbackFromCandidates(candidates) },
	)
}

// equipmentForLocation maps the training location onto the equipment the
// stretching query may assume. Gym users get the full rack; outdoors is
// bodyweight only; home (and anything unrecognized) adds the common
// living-room kit.
func equipmentForLocation(loc domain.Location) []string {
	switch loc {
	case domain.LocationGym:
		return []string{"body weight", "band", "dumbbell", "barbell", "kettlebell", "cable", "stability ball", "foam roll"}
	case domain.LocationOutdoor:
		return []string{"body weight"}
	default:
		return []string{"body weight", "band", "dumbbell"}
	}
}

func (a *WarmupCooldownAgent) fetchCandidates(ctx context.Context, loc domain.Location) []domain.ExerciseCandidate {
	found, err := a.catalog.Search(ctx, catalog.Filter{
		Category:  domain.CategoryStretching,
		Equipment: equipmentForLocation(loc),
		Limit:     30,
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("stretching catalog query failed")
		return nil
	}

	// The catalog may return the same exercise under several equipment keys.
	seen := make(map[string]bool, len(found))
	var out []domain.ExerciseCandidate
	for _, c := range found {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

const warmupSystemPrompt = `You choose warmup and cooldown stretches for a workout.
Pick exactly one warmup and one cooldown exercise id from the candidate list, preferring stretches that cover the listed target muscles.
Respond with a single JSON object and nothing else: {"warmup_id":"...","cooldown_id":"..."}`

func (a *WarmupCooldownAgent) attempt(ctx context.Context, in WarmupInput, candidates []domain.ExerciseCandidate) (WarmupOutput, error) {
	raw, err := a.svc.Complete(ctx, completion.Request{
		SystemPrompt: warmupSystemPrompt,
		UserPrompt:   a.buildUserPrompt(in, candidates),
		Temperature:  0.2,
		JSONOnly:     true,
	})
	if err != nil {
		return WarmupOutput{}, err
	}

	payload, ok := extractJSON(raw)
	if !ok {
		return WarmupOutput{}, ErrMalformedOutput
	}
	var wire struct {
		WarmupID   string `json:"warmup_id"`
		CooldownID string `json:"cooldown_id"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return WarmupOutput{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	warmup := findCandidate(candidates, wire.WarmupID)
	cooldown := findCandidate(candidates, wire.CooldownID)
	if warmup == nil || cooldown == nil {
		return WarmupOutput{}, fmt.Errorf("%w: chosen ids not in candidate set", ErrValidationFailed)
	}

	return WarmupOutput{
		WarmUp:   a.buildSection(ctx, *warmup, "Warm up before you start"),
		CoolDown: a.buildSection(ctx, *cooldown, "Cool down and recover"),
	}, nil
}

func (a *WarmupCooldownAgent) buildUserPrompt(in WarmupInput, candidates []domain.ExerciseCandidate) string {
	var b strings.Builder
	muscles := targetMuscles(in.MainExercises)
	fmt.Fprintf(&b, "Main workout targets: %s.\n", strings.Join(muscles, ", "))
	fmt.Fprintf(&b, "Training location: %s.\n", in.Profile.PreferredLocation)
	b.WriteString("Candidates (id | name | target muscle):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "%s | %s | %s\n", c.ID, c.Name, c.TargetMuscle)
	}
	return b.String()
}

// targetMuscles returns the deduplicated union of target muscles across the
// already-selected main exercises, in first-seen order.
func targetMuscles(entries []domain.ExerciseEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		m := strings.ToLower(strings.TrimSpace(e.TargetMuscle))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		out = []string{"full body"}
	}
	return out
}

func findCandidate(candidates []domain.ExerciseCandidate, id string) *domain.ExerciseCandidate {
	for i := range candidates {
		if candidates[i].ID == id {
			return &candidates[i]
		}
	}
	return nil
}

// buildSection enriches the chosen candidate with full catalog metadata.
// The completion service only returns an id choice; instructions and media
// always come from the catalog record.
func (a *WarmupCooldownAgent) buildSection(ctx context.Context, chosen domain.ExerciseCandidate, description string) domain.PlanSection {
	if full, err := a.catalog.GetByID(ctx, chosen.ID); err == nil {
		chosen = *full
	} else {
		a.log.Warn().Err(err).Str("exerciseId", chosen.ID).Msg("could not enrich section exercise")
	}

	entry := domain.ExerciseEntry{
		ExerciseID:      chosen.ID,
		Name:            chosen.Name,
		Sets:            warmupEntrySets,
		DurationSeconds: warmupEntrySeconds,
		Order:           1,
		TargetMuscle:    chosen.TargetMuscle,
		Category:        chosen.Category,
		IsTimed:         true,
		MediaURL:        chosen.MediaKey,
		Instructions:    chosen.Instructions,
	}
	return domain.PlanSection{
		Description:     description,
		DurationSeconds: entry.Sets * entry.DurationSeconds,
		Exercises:       []domain.ExerciseEntry{entry},
	}
}

// fallbackFromCandidates deterministically picks from the retrieved pool when
// the completion service fails: first candidate by name for the warmup,
// second for the cooldown.
func (a *WarmupCooldownAgent) fallbackFromCandidates(candidates []domain.ExerciseCandidate) WarmupOutput {
	sorted := make([]domain.ExerciseCandidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	warmup := sorted[0]
	cooldown := sorted[0]
	if len(sorted) > 1 {
		cooldown = sorted[1]
	}
	return WarmupOutput{
		WarmUp:   sectionFromCandidate(warmup, "Warm up before you start"),
		CoolDown: sectionFromCandidate(cooldown, "Cool down and recover"),
	}
}

func sectionFromCandidate(c domain.ExerciseCandidate, description string) domain.PlanSection {
	entry := domain.ExerciseEntry{
		ExerciseID:      c.ID,
		Name:            c.Name,
		Sets:            warmupEntrySets,
		DurationSeconds: warmupEntrySeconds,
		Order:           1,
		TargetMuscle:    c.TargetMuscle,
		Category:        c.Category,
		IsTimed:         true,
		MediaURL:        c.MediaKey,
		Instructions:    c.Instructions,
	}
	return domain.PlanSection{
		Description:     description,
		DurationSeconds: entry.Sets * entry.DurationSeconds,
		Exercises:       []domain.ExerciseEntry{entry},
	}
}

// staticSections is the data-availability fallback: one generic timed stretch
// on each side of the workout, independent of both catalog and completion
// service.
func staticSections() WarmupOutput {
	warmup := domain.ExerciseEntry{
		ExerciseID:      "static-warmup",
		Name:            "gentle full-body stretch",
		Sets:            1,
		DurationSeconds: 120,
		Order:           1,
		TargetMuscle:    "full body",
		Category:        domain.CategoryStretching,
		IsTimed:         true,
	}
	cooldown := domain.ExerciseEntry{
		ExerciseID:      "static-cooldown",
		Name:            "slow cooldown stretch",
		Sets:            1,
		DurationSeconds: 120,
		Order:           1,
		TargetMuscle:    "full body",
		Category:        domain.CategoryStretching,
		IsTimed:         true,
	}
	return WarmupOutput{
		WarmUp: domain.PlanSection{
			Description:     "Warm up before you start",
			DurationSeconds: 120,
			Exercises:       []domain.ExerciseEntry{warmup},
		},
		CoolDown: domain.PlanSection{
			Description:     "Cool down and recover",
			DurationSeconds: 120,
			Exercises:       []domain.ExerciseEntry{cooldown},
		},
	}
}

package planner

import (
	"context"
	"fmt"

	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/domain"

	"github.com/rs/zerolog"
)

// Plan section names used in evaluation reports.
const (
	SectionMainWorkout = "main_workout"
	SectionWarmUp      = "warm_up"
	SectionCoolDown    = "cool_down"
	SectionTiming      = "timing"
	SectionProgression = "progression"
	SectionGuidance    = "guidance"
)

// Report is the evaluator's verdict on a merged plan. The plan is always
// usable after evaluation; Valid=false only means an uncorrectable issue
// remains (typically an exercise id that never resolved) and exists for
// operator visibility, never to block delivery.
type Report struct {
	Valid    bool
	Errors   map[string][]string
	Warnings []string
}

func newReport() *Report {
	return &Report{Valid: true, Errors: make(map[string][]string)}
}

func (r *Report) addError(section, format string, args ...any) {
	r.Valid = false
	r.Errors[section] = append(r.Errors[section], fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Evaluator is the deterministic validation and repair gate that runs once
// after every generation agent has written its section. It enforces the
// cross-cutting invariants no single agent can guarantee alone.
type Evaluator struct {
	catalog catalog.Catalog
	log     zerolog.Logger
}

func NewEvaluator(cat catalog.Catalog, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		catalog: cat,
		log:     log.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate repairs the plan in place and returns the report. It never
// returns an error: every recoverable problem is fixed or recorded.
func (e *Evaluator) Evaluate(ctx context.Context, plan *domain.WorkoutPlan) *Report {
	report := newReport()

	e.checkMainWorkout(ctx, plan, report)
	e.checkSection(ctx, &plan.Structure.WarmUp, SectionWarmUp, "Warm up before you start", report)
	e.checkSection(ctx, &plan.Structure.CoolDown, SectionCoolDown, "Cool down and recover", report)
	e.checkTiming(plan, report)
	e.checkProgression(plan, report)
	e.checkGuidance(plan, report)

	if !report.Valid {
		e.log.Warn().
			Str("requestId", plan.RequestID).
			Interface("errors", report.Errors).
			Msg("plan delivered with unresolved issues")
	}
	return report
}

// --- Main workout ---

func (e *Evaluator) checkMainWorkout(ctx context.Context, plan *domain.WorkoutPlan, report *Report) {
	entries := plan.Structure.MainWorkout
	if len(entries) == 0 {
		report.addError(SectionMainWorkout, "plan has no main workout exercises")
		return
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Name == "" && entry.ExerciseID == "" {
			report.addError(SectionMainWorkout, "exercise %d has neither id nor name", i+1)
			continue
		}
		e.resolveEntry(ctx, entry, SectionMainWorkout, report)
		if entry.Order == 0 {
			entry.Order = i + 1
		}
	}

	e.fixSetConsistency(entries, report)
}

// resolveEntry makes sure the entry points at a real catalog exercise,
// repairing by name when the id is missing or stale. Failure to resolve is
// recorded, never fatal; the entry stays in the plan flagged unresolved.
func (e *Evaluator) resolveEntry(ctx context.Context, entry *domain.ExerciseEntry, section string, report *Report) {
	if entry.ExerciseID != "" {
		if found, err := e.catalog.GetByID(ctx, entry.ExerciseID); err == nil {
			backfill(entry, found)
			return
		}
	}

	if entry.Name != "" {
		if found, err := e.catalog.GetByName(ctx, entry.Name); err == nil {
			if entry.ExerciseID == "" {
				report.addWarning("%s: filled missing exercise id for %q by name lookup", section, entry.Name)
			}
			entry.ExerciseID = found.ID
			backfill(entry, found)
			return
		}
	}

	entry.Unresolved = true
	report.addError(section, "exercise %q (id %q) does not resolve in the catalog", entry.Name, entry.ExerciseID)
}

// backfill copies catalog metadata the generation step may have omitted.
func backfill(entry *domain.ExerciseEntry, c *domain.ExerciseCandidate) {
	entry.Unresolved = false
	if entry.Name == "" {
		entry.Name = c.Name
	}
	if entry.TargetMuscle == "" {
		entry.TargetMuscle = c.TargetMuscle
	}
	if entry.Category == "" {
		entry.Category = c.Category
	}
	if entry.MediaURL == "" {
		entry.MediaURL = c.MediaKey
	}
	if len(entry.Instructions) == 0 {
		entry.Instructions = c.Instructions
	}
}

// fixSetConsistency rewrites divergent set counts to the most common value.
// This is always a warning, never a failure: the agents should have agreed,
// but a repaired plan is still a good plan.
func (e *Evaluator) fixSetConsistency(entries []domain.ExerciseEntry, report *Report) {
	counts := make(map[int]int)
	for _, entry := range entries {
		if entry.Sets > 0 {
			counts[entry.Sets]++
		}
	}

	switch len(counts) {
	case 0:
		for i := range entries {
			entries[i].Sets = 1
		}
		report.addWarning("%s: no exercise declared a set count, defaulted all to 1", SectionMainWorkout)
		return
	case 1:
		for i := range entries {
			if entries[i].Sets == 0 {
				for sets := range counts {
					entries[i].Sets = sets
				}
				report.addWarning("%s: filled missing set count on %q", SectionMainWorkout, entries[i].Name)
			}
		}
		return
	}

	best, bestCount := 0, 0
	for sets, count := range counts {
		if count > bestCount || (count == bestCount && sets < best) {
			best, bestCount = sets, count
		}
	}
	for i := range entries {
		entries[i].Sets = best
	}
	report.addWarning("%s: divergent set counts normalized to %d", SectionMainWorkout, best)
}

// --- Warmup / cooldown sections ---

func (e *Evaluator) checkSection(ctx context.Context, section *domain.PlanSection, name, defaultDescription string, report *Report) {
	for i := range section.Exercises {
		entry := &section.Exercises[i]
		e.resolveEntry(ctx, entry, name, report)

		// Section exercises are always timed.
		if !entry.IsTimed {
			entry.IsTimed = true
			report.addWarning("%s: marked %q as timed", name, entry.Name)
		}
		if entry.DurationSeconds <= 0 {
			entry.DurationSeconds = warmupEntrySeconds
			report.addWarning("%s: defaulted duration for %q", name, entry.Name)
		}
		if entry.Sets <= 0 {
			entry.Sets = 1
		}
	}

	if section.DurationSeconds <= 0 {
		total := 0
		for _, entry := range section.Exercises {
			total += entry.Sets * entry.DurationSeconds
		}
		if total == 0 {
			total = 120
		}
		section.DurationSeconds = total
	}
	if section.Description == "" {
		section.Description = defaultDescription
	}
}

// --- Timing ---

func (e *Evaluator) checkTiming(plan *domain.WorkoutPlan, report *Report) {
	timing := &plan.Structure.Timing

	if timing.RestBetweenExercisesSeconds <= 0 {
		timing.RestBetweenExercisesSeconds = DefaultRestBetweenExercises
		report.addWarning("%s: defaulted rest between exercises", SectionTiming)
	}
	if timing.RestBetweenSetsSeconds <= 0 {
		timing.RestBetweenSetsSeconds = DefaultRestBetweenSets
		report.addWarning("%s: defaulted rest between sets", SectionTiming)
	}
	if timing.DefaultWorkDurationSeconds <= 0 {
		timing.DefaultWorkDurationSeconds = DefaultWorkDuration
	}

	// Every main exercise needs a timing entry; synthesize any the timing
	// step missed.
	have := make(map[string]bool, len(timing.Exercises))
	for _, t := range timing.Exercises {
		have[t.ExerciseName] = true
	}
	for _, entry := range plan.Structure.MainWorkout {
		if have[entry.Name] {
			continue
		}
		timing.Exercises = append(timing.Exercises, domain.ExerciseTiming{
			ExerciseName:           entry.Name,
			WorkDurationSeconds:    timing.DefaultWorkDurationSeconds,
			RestBetweenSetsSeconds: timing.RestBetweenSetsSeconds,
			Tempo:                  tempoFor(entry.Category),
		})
		report.addWarning("%s: synthesized timing for %q", SectionTiming, entry.Name)
	}

	if timing.TotalEstimatedDurationSeconds <= 0 {
		timing.TotalEstimatedDurationSeconds = estimateTotal(plan.Structure.MainWorkout, *timing)
	}
}

// --- Progression ---

// checkProgression enforces shape exclusivity. The populated shapes compete;
// the one matching the declared type wins and the others are cleared.
func (e *Evaluator) checkProgression(plan *domain.WorkoutPlan, report *Report) {
	prog := &plan.Structure.Progression

	populated := 0
	if len(prog.StreakMilestones) > 0 {
		populated++
	}
	if len(prog.WeeklyAdjustments) > 0 {
		populated++
	}
	if len(prog.Milestones) > 0 {
		populated++
	}

	if populated == 0 {
		report.addError(SectionProgression, "progression has no schedule")
		return
	}
	if populated == 1 {
		return
	}

	switch prog.Type {
	case domain.ProgressionStreak:
		prog.WeeklyAdjustments = nil
		prog.Milestones = nil
	case domain.ProgressionWeekly:
		prog.StreakMilestones = nil
		prog.Milestones = nil
	case domain.ProgressionMilestone:
		prog.StreakMilestones = nil
		prog.WeeklyAdjustments = nil
	default:
		report.addError(SectionProgression, "mixed progression shapes with no declared type")
		return
	}
	report.addWarning("%s: cleared extra progression shapes, kept %s", SectionProgression, prog.Type)
}

// --- Guidance ---

func (e *Evaluator) checkGuidance(plan *domain.WorkoutPlan, report *Report) {
	if plan.Guidance.Description == "" {
		plan.Guidance.Description = "A balanced session built around your goal. Work at your own pace and focus on clean form."
		report.addWarning("%s: filled default description", SectionGuidance)
	}
	if len(plan.Guidance.Tips) == 0 {
		plan.Guidance.Tips = []string{
			"Warm up before every session.",
			"Stop any exercise that causes sharp pain.",
			"Consistency beats intensity. Showing up is the win.",
		}
		report.addWarning("%s: filled default tips", SectionGuidance)
	}
}

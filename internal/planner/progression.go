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

// ProgressionInput is the context for the progression schedule.
type ProgressionInput struct {
	Goal    domain.Goal
	Profile domain.UserProfile
}

// ProgressionAgent produces exactly one of the three progression shapes,
// chosen by the goal type. The shapes are never mixed in one plan.
type ProgressionAgent struct {
	svc    completion.Service
	runner runnerConfig
	log    zerolog.Logger
}

func NewProgressionAgent(svc completion.Service, log zerolog.Logger) *ProgressionAgent {
	return &ProgressionAgent{
		svc:    svc,
		runner: defaultRunnerConfig(),
		log:    log.With().Str("agent", "progression").Logger(),
	}
}

func (a *ProgressionAgent) Name() string { return "progression" }

func (a *ProgressionAgent) Generate(ctx context.Context, in ProgressionInput) (domain.Progression, bool) {
	return runAgent(ctx, a.log, a.runner, a.Name(),
		func(ctx context.Context) (domain.Progression, error) { return a.attempt(ctx, in) },
		func() domain.Progression { return a.Fallback(in) },
	)
}

// challengeWeeks is how many weekly adjustments a time challenge needs:
// ceil(duration/7).
func challengeWeeks(durationDays int) int {
	if durationDays <= 0 {
		return 0
	}
	return (durationDays + 6) / 7
}

var intensityRank = map[string]int{
	"light":         0,
	"moderate":      1,
	"moderate_high": 2,
	"high":          3,
}

// intensityForWeek maps a week onto its quartile intensity so schedules ramp
// light -> moderate -> moderate_high -> high.
func intensityForWeek(week, totalWeeks int) string {
	if totalWeeks <= 0 {
		return "moderate"
	}
	switch q := (week - 1) * 4 / totalWeeks; q {
	case 0:
		return "light"
	case 1:
		return "moderate"
	case 2:
		return "moderate_high"
	default:
		return "high"
	}
}

const progressionSystemPrompt = `You design the progression schedule for a fitness accountability goal.
Respond with a single JSON object and nothing else, populating only the field your instructions ask for:
{"streak_milestones":[{"days":7,"message":"..."}],"weekly_adjustments":[{"week":1,"intensity":"light","reps_delta":0,"sets_delta":0,"rest_delta_seconds":0,"focus":"..."}],"milestones":[{"percent":25,"checkins":5,"message":"..."}],"notes":"..."}`

func (a *ProgressionAgent) attempt(ctx context.Context, in ProgressionInput) (domain.Progression, error) {
	raw, err := a.svc.Complete(ctx, completion.Request{
		SystemPrompt: progressionSystemPrompt,
		UserPrompt:   a.buildUserPrompt(in),
		Temperature:  0.5,
		JSONOnly:     true,
	})
	if err != nil {
		return domain.Progression{}, err
	}

	payload, ok := extractJSON(raw)
	if !ok {
		return domain.Progression{}, ErrMalformedOutput
	}
	var wire struct {
		StreakMilestones []struct {
			Days    int    `json:"days"`
			Message string `json:"message"`
		} `json:"streak_milestones"`
		WeeklyAdjustments []struct {
			Week             int    `json:"week"`
			Intensity        string `json:"intensity"`
			RepsDelta        int    `json:"reps_delta"`
			SetsDelta        int    `json:"sets_delta"`
			RestDeltaSeconds int    `json:"rest_delta_seconds"`
			Focus            string `json:"focus"`
		} `json:"weekly_adjustments"`
		Milestones []struct {
			Percent  int    `json:"percent"`
			Checkins int    `json:"checkins"`
			Message  string `json:"message"`
		} `json:"milestones"`
		Notes string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return domain.Progression{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	prog := domain.Progression{Notes: wire.Notes}
	for _, m := range wire.StreakMilestones {
		prog.StreakMilestones = append(prog.StreakMilestones, domain.StreakMilestone{Days: m.Days, Message: m.Message})
	}
	for _, w := range wire.WeeklyAdjustments {
		prog.WeeklyAdjustments = append(prog.WeeklyAdjustments, domain.WeeklyAdjustment{
			Week:             w.Week,
			Intensity:        w.Intensity,
			RepsDelta:        w.RepsDelta,
			SetsDelta:        w.SetsDelta,
			RestDeltaSeconds: w.RestDeltaSeconds,
			Focus:            w.Focus,
		})
	}
	for _, m := range wire.Milestones {
		prog.Milestones = append(prog.Milestones, domain.PercentMilestone{Percent: m.Percent, Checkins: m.Checkins, Message: m.Message})
	}

	if err := a.validate(in, &prog); err != nil {
		return domain.Progression{}, err
	}
	return prog, nil
}

func (a *ProgressionAgent) buildUserPrompt(in ProgressionInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal %q, type %s, fitness level %s, motivation style %s.\n",
		in.Goal.Title, in.Goal.GoalType, in.Profile.FitnessLevel, in.Profile.MotivationStyle)

	switch in.Goal.GoalType {
	case domain.GoalHabit:
		b.WriteString("This is an open-ended habit goal. Produce streak_milestones only (celebrate 3, 7, 14, 30, 60 and 90 day streaks). Leave weekly_adjustments and milestones empty.\n")
	case domain.GoalTimeChallenge:
		weeks := challengeWeeks(in.Goal.ChallengeDurationDays)
		fmt.Fprintf(&b, "This is a %d day challenge. Produce weekly_adjustments only, exactly %d entries, weeks numbered from 1.\n", in.Goal.ChallengeDurationDays, weeks)
		b.WriteString("Intensity must ramp across the challenge: light, then moderate, then moderate_high, then high, never decreasing. Deltas are relative to the plan baseline.\n")
	case domain.GoalTargetChallenge:
		fmt.Fprintf(&b, "This goal targets %d total check-ins. Produce milestones only, at 25, 50, 75 and 100 percent of the target. Leave the other fields empty.\n", in.Goal.TargetCheckins)
	}
	return b.String()
}

func (a *ProgressionAgent) validate(in ProgressionInput, prog *domain.Progression) error {
	switch in.Goal.GoalType {
	case domain.GoalHabit:
		if len(prog.WeeklyAdjustments) > 0 || len(prog.Milestones) > 0 {
			return fmt.Errorf("%w: habit goal got a non-streak shape", ErrValidationFailed)
		}
		if len(prog.StreakMilestones) == 0 {
			return fmt.Errorf("%w: habit goal needs streak milestones", ErrValidationFailed)
		}
		for _, m := range prog.StreakMilestones {
			if m.Days <= 0 {
				return fmt.Errorf("%w: streak milestone with non-positive day count", ErrValidationFailed)
			}
		}
		prog.Type = domain.ProgressionStreak

	case domain.GoalTimeChallenge:
		if len(prog.StreakMilestones) > 0 || len(prog.Milestones) > 0 {
			return fmt.Errorf("%w: time challenge got a non-weekly shape", ErrValidationFailed)
		}
		weeks := challengeWeeks(in.Goal.ChallengeDurationDays)
		if len(prog.WeeklyAdjustments) != weeks {
			return fmt.Errorf("%w: expected %d weekly adjustments, got %d",
				ErrValidationFailed, weeks, len(prog.WeeklyAdjustments))
		}
		prev := -1
		for i, w := range prog.WeeklyAdjustments {
			if w.Week != i+1 {
				return fmt.Errorf("%w: weeks must be numbered 1..%d in order", ErrValidationFailed, weeks)
			}
			rank, ok := intensityRank[w.Intensity]
			if !ok {
				return fmt.Errorf("%w: unknown intensity %q", ErrValidationFailed, w.Intensity)
			}
			if rank < prev {
				return fmt.Errorf("%w: intensity decreases at week %d", ErrValidationFailed, w.Week)
			}
			prev = rank
		}
		prog.Type = domain.ProgressionWeekly

	case domain.GoalTargetChallenge:
		if len(prog.StreakMilestones) > 0 || len(prog.WeeklyAdjustments) > 0 {
			return fmt.Errorf("%w: target challenge got a non-milestone shape", ErrValidationFailed)
		}
		if len(prog.Milestones) != 4 {
			return fmt.Errorf("%w: expected 4 milestones, got %d", ErrValidationFailed, len(prog.Milestones))
		}
		for i, pct := range []int{25, 50, 75, 100} {
			if prog.Milestones[i].Percent != pct {
				return fmt.Errorf("%w: milestone %d must be at %d%%", ErrValidationFailed, i+1, pct)
			}
		}
		prog.Type = domain.ProgressionMilestone

	default:
		return fmt.Errorf("%w: unknown goal type %q", ErrValidationFailed, in.Goal.GoalType)
	}
	return nil
}

// --- Fallback ---

var fallbackStreaks = []domain.StreakMilestone{
	{Days: 3, Message: "Three days in. The hardest part is behind you."},
	{Days: 7, Message: "One full week. This is becoming a habit."},
	{Days: 14, Message: "Two weeks strong. Keep the chain going."},
	{Days: 30, Message: "A whole month. You are a different person now."},
	{Days: 60, Message: "Sixty days. This is who you are."},
	{Days: 90, Message: "Ninety days. Habit locked in."},
}

// Fallback builds a deterministic schedule for the goal type. For time
// challenges the weekly deltas follow a canned linear ramp keyed to fitness
// level; advanced users get a reduced-volume final week while the intensity
// label keeps ramping.
func (a *ProgressionAgent) Fallback(in ProgressionInput) domain.Progression {
	switch in.Goal.GoalType {
	case domain.GoalTimeChallenge:
		return a.fallbackWeekly(in)
	case domain.GoalTargetChallenge:
		return fallbackMilestones(in.Goal.TargetCheckins)
	default:
		return domain.Progression{
			Type:             domain.ProgressionStreak,
			StreakMilestones: fallbackStreaks,
			Notes:            "Celebrate every streak. Missing one day does not erase your progress.",
		}
	}
}

func (a *ProgressionAgent) fallbackWeekly(in ProgressionInput) domain.Progression {
	weeks := challengeWeeks(in.Goal.ChallengeDurationDays)
	if weeks == 0 {
		weeks = 4
	}

	repsStep, setsEvery, restStep := 1, 0, 0
	switch in.Profile.FitnessLevel {
	case domain.LevelIntermediate:
		repsStep, restStep = 2, 5
	case domain.LevelAdvanced, domain.LevelAthlete:
		repsStep, setsEvery, restStep = 2, 2, 5
	}

	adjustments := make([]domain.WeeklyAdjustment, weeks)
	for week := 1; week <= weeks; week++ {
		adj := domain.WeeklyAdjustment{
			Week:             week,
			Intensity:        intensityForWeek(week, weeks),
			RepsDelta:        (week - 1) * repsStep,
			RestDeltaSeconds: -(week - 1) * restStep,
			Focus:            "build on last week",
		}
		if setsEvery > 0 {
			adj.SetsDelta = (week - 1) / setsEvery
		}
		if week == 1 {
			adj.Focus = "settle into the routine"
		}
		adjustments[week-1] = adj
	}

	// Advanced lifters get a deload at the end: volume comes back down even
	// though the intensity label stays at its peak.
	if weeks > 1 && (in.Profile.FitnessLevel == domain.LevelAdvanced || in.Profile.FitnessLevel == domain.LevelAthlete) {
		last := &adjustments[weeks-1]
		last.RepsDelta = adjustments[weeks-2].RepsDelta / 2
		last.SetsDelta = 0
		last.RestDeltaSeconds = 0
		last.Focus = "deload and recover"
	}

	return domain.Progression{
		Type:              domain.ProgressionWeekly,
		WeeklyAdjustments: adjustments,
		Notes:             "Ramp steadily. If a week feels too heavy, repeat the previous week's numbers.",
	}
}

func fallbackMilestones(target int) domain.Progression {
	if target <= 0 {
		target = 20
	}
	messages := []string{
		"A quarter of the way there.",
		"Halfway. Momentum is on your side.",
		"Three quarters done. Finish strong.",
		"Target reached. Take a moment to be proud.",
	}
	milestones := make([]domain.PercentMilestone, 4)
	for i, pct := range []int{25, 50, 75, 100} {
		checkins := (target*pct + 99) / 100
		milestones[i] = domain.PercentMilestone{Percent: pct, Checkins: checkins, Message: messages[i]}
	}
	return domain.Progression{
		Type:       domain.ProgressionMilestone,
		Milestones: milestones,
		Notes:      "Every check-in counts toward the target, no matter how small the session.",
	}
}

// Package planner implements the AI-assisted workout plan generation
// pipeline: four specialized generation agents over an external completion
// service, a deterministic evaluator gate, and guaranteed non-AI fallback
// output. GeneratePlan always returns a usable plan; degraded quality is
// reported, never raised.
package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"fitpact/fitness-backend/internal/catalog"
	"fitpact/fitness-backend/internal/completion"
	"fitpact/fitness-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidRequest is returned for requests the pipeline cannot even start
// on. It is the only error GeneratePlan produces: everything downstream
// resolves to fallback content instead of failing.
var ErrInvalidRequest = errors.New("plan generation request is invalid")

// Limits is the caller's tier snapshot. It travels inside the request so the
// pipeline never reads global subscription state.
type Limits struct {
	MaxExercises int
}

// GenerateRequest is the read-only context shared by all agents for one run.
type GenerateRequest struct {
	Goal     domain.Goal
	Profile  domain.UserProfile
	Settings SelectorSettings
	Feedback *domain.WorkoutFeedback
	Limits   Limits
}

// Planner wires the agents together and owns the two-stage schedule.
type Planner struct {
	selector    *ExerciseSelectorAgent
	warmup      *WarmupCooldownAgent
	timing      *TimingCalculatorAgent
	progression *ProgressionAgent
	evaluator   *Evaluator
	catalog     catalog.Catalog
	log         zerolog.Logger
	poolLimit   int
}

// New builds a planner over the given completion service and catalog.
func New(svc completion.Service, cat catalog.Catalog, log zerolog.Logger) *Planner {
	return &Planner{
		selector:    NewExerciseSelectorAgent(svc, log),
		warmup:      NewWarmupCooldownAgent(svc, cat, log),
		timing:      NewTimingCalculatorAgent(svc, log),
		progression: NewProgressionAgent(svc, log),
		evaluator:   NewEvaluator(cat, log),
		catalog:     cat,
		log:         log.With().Str("component", "planner").Logger(),
		poolLimit:   40,
	}
}

// GeneratePlan runs the full pipeline for one goal.
//
// Stage 1 is the exercise selector alone: every other agent consumes its
// output. Stage 2 runs warmup/cooldown, timing and progression concurrently;
// they write disjoint plan sections, so a WaitGroup is the only
// synchronization needed. The evaluator is a barrier after stage 2.
func (p *Planner) GeneratePlan(ctx context.Context, req GenerateRequest) (*domain.WorkoutPlan, *Report, error) {
	if req.Goal.GoalType == "" {
		return nil, nil, ErrInvalidRequest
	}
	req.Settings = p.clampSettings(req.Settings, req.Limits)

	requestID := uuid.NewString()
	log := p.log.With().Str("requestId", requestID).Logger()
	started := time.Now()

	pool := p.buildPool(ctx, req.Settings)

	// Stage 1: exercise selection.
	selection, selectedByAI := p.selector.Generate(ctx, SelectorInput{
		Goal:     req.Goal,
		Profile:  req.Profile,
		Settings: req.Settings,
		Pool:     pool,
		Feedback: req.Feedback,
	})

	// Stage 2: the remaining agents are mutually independent.
	var (
		wg          sync.WaitGroup
		sections    WarmupOutput
		timingPlan  domain.TimingPlan
		progression domain.Progression
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		sections, _ = p.warmup.Generate(ctx, WarmupInput{
			Profile:       req.Profile,
			MainExercises: selection.Exercises,
		})
	}()
	go func() {
		defer wg.Done()
		timingPlan, _ = p.timing.Generate(ctx, TimingInput{
			Profile:       req.Profile,
			MainExercises: selection.Exercises,
		})
	}()
	go func() {
		defer wg.Done()
		progression, _ = p.progression.Generate(ctx, ProgressionInput{
			Goal:    req.Goal,
			Profile: req.Profile,
		})
	}()
	wg.Wait()

	planType := domain.PlanTypeAI
	if !selectedByAI {
		planType = domain.PlanTypeFallback
	}

	plan := &domain.WorkoutPlan{
		RequestID: requestID,
		GoalID:    req.Goal.ID,
		UserID:    req.Goal.UserID,
		PlanType:  planType,
		Structure: domain.PlanStructure{
			MainWorkout: selection.Exercises,
			WarmUp:      sections.WarmUp,
			CoolDown:    sections.CoolDown,
			Timing:      timingPlan,
			Progression: progression,
		},
		Guidance: domain.Guidance{
			Description: selection.Reasoning,
		},
		CreatedAt: time.Now().UTC(),
	}

	// Evaluator barrier: runs strictly after every stage-2 agent finished.
	report := p.evaluator.Evaluate(ctx, plan)

	log.Info().
		Str("goalType", string(req.Goal.GoalType)).
		Str("planType", string(plan.PlanType)).
		Bool("valid", report.Valid).
		Dur("elapsed", time.Since(started)).
		Msg("plan generated")
	return plan, report, nil
}

func (p *Planner) clampSettings(s SelectorSettings, limits Limits) SelectorSettings {
	if s.ExerciseCount <= 0 {
		s.ExerciseCount = 5
	}
	if limits.MaxExercises > 0 && s.ExerciseCount > limits.MaxExercises {
		s.ExerciseCount = limits.MaxExercises
	}
	if s.TargetDurationMinutes <= 0 {
		s.TargetDurationMinutes = 30
	}
	if len(s.AvailableEquipment) == 0 {
		s.AvailableEquipment = []string{"body weight"}
	}
	return s
}

// buildPool fetches the equipment-filtered candidate pool for the selector.
// A failed or empty search leaves the pool empty, which routes the selector
// straight to its deterministic fallback.
func (p *Planner) buildPool(ctx context.Context, s SelectorSettings) []domain.ExerciseCandidate {
	pool, err := p.catalog.Search(ctx, catalog.Filter{
		Equipment: s.AvailableEquipment,
		Limit:     p.poolLimit,
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("candidate pool query failed")
		return nil
	}
	return pool
}

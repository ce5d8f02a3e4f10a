package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanType marks where a plan's content came from.
type PlanType string

const (
	PlanTypeAI       PlanType = "ai_generated"
	PlanTypeFallback PlanType = "fallback"
)

// WorkoutPlan is the finalized output of the generation pipeline for one goal.
// A plan is written once and never mutated; regeneration creates a new plan
// and marks the old one superseded.
type WorkoutPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID  string             `bson:"requestId" json:"requestId"` // uuid of the generation request
	GoalID     primitive.ObjectID `bson:"goalId" json:"goalId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	PlanType   PlanType           `bson:"planType" json:"planType"`
	Structure  PlanStructure      `bson:"structure" json:"structure"`
	Guidance   Guidance           `bson:"guidance" json:"guidance"`
	Superseded bool               `bson:"superseded" json:"superseded"`
	Stale      bool               `bson:"stale" json:"stale"` // profile changed since generation
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// PlanStructure is filled progressively: the selector writes MainWorkout,
// then warmup/timing/progression each write their own disjoint section.
type PlanStructure struct {
	MainWorkout []ExerciseEntry `bson:"mainWorkout" json:"mainWorkout"`
	WarmUp      PlanSection     `bson:"warmUp" json:"warmUp"`
	CoolDown    PlanSection     `bson:"coolDown" json:"coolDown"`
	Timing      TimingPlan      `bson:"timing" json:"timing"`
	Progression Progression     `bson:"progression" json:"progression"`
}

// ExerciseEntry is one exercise inside a plan.
type ExerciseEntry struct {
	ExerciseID      string   `bson:"exerciseId" json:"exerciseId"`
	Name            string   `bson:"name" json:"name"`
	Sets            int      `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps            int      `bson:"reps,omitempty" json:"reps,omitempty"`
	DurationSeconds int      `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	Order           int      `bson:"order" json:"order"`
	TargetMuscle    string   `bson:"targetMuscle,omitempty" json:"targetMuscle,omitempty"`
	Category        string   `bson:"category,omitempty" json:"category,omitempty"`
	IsTimed         bool     `bson:"isTimed" json:"isTimed"`
	FocusCues       string   `bson:"focusCues,omitempty" json:"focusCues,omitempty"`
	MediaURL        string   `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	Instructions    []string `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// Set when the exercise id could not be resolved against the catalog.
	// Unresolved entries are kept in the plan, never dropped.
	Unresolved bool `bson:"unresolved,omitempty" json:"unresolved,omitempty"`
}

// PlanSection is a warmup or cooldown block. Its exercises are always timed.
type PlanSection struct {
	Description     string          `bson:"description,omitempty" json:"description,omitempty"`
	DurationSeconds int             `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	Exercises       []ExerciseEntry `bson:"exercises" json:"exercises"`
}

// TimingPlan holds per-exercise pacing plus plan-wide rest values.
type TimingPlan struct {
	RestBetweenExercisesSeconds   int              `bson:"restBetweenExercisesSeconds" json:"restBetweenExercisesSeconds"`
	RestBetweenSetsSeconds        int              `bson:"restBetweenSetsSeconds" json:"restBetweenSetsSeconds"`
	DefaultWorkDurationSeconds    int              `bson:"defaultWorkDurationSeconds" json:"defaultWorkDurationSeconds"`
	TotalEstimatedDurationSeconds int              `bson:"totalEstimatedDurationSeconds" json:"totalEstimatedDurationSeconds"`
	Exercises                     []ExerciseTiming `bson:"exercises" json:"exercises"`
}

// ExerciseTiming is the pacing for a single main-workout exercise.
type ExerciseTiming struct {
	ExerciseName           string `bson:"exerciseName" json:"exerciseName"`
	WorkDurationSeconds    int    `bson:"workDurationSeconds" json:"workDurationSeconds"`
	RestBetweenSetsSeconds int    `bson:"restBetweenSetsSeconds" json:"restBetweenSetsSeconds"`
	Tempo                  string `bson:"tempo,omitempty" json:"tempo,omitempty"` // e.g., "2-1-2", "steady"
}

// ProgressionType selects which of the three mutually exclusive shapes a
// progression carries. Exactly one of the three slices below is populated.
type ProgressionType string

const (
	ProgressionStreak    ProgressionType = "streak_milestones"
	ProgressionWeekly    ProgressionType = "weekly_adjustments"
	ProgressionMilestone ProgressionType = "percentage_milestones"
)

// Progression is the schedule attached to a plan. The shape is determined
// solely by the goal type: habit goals get streak milestones, time challenges
// get weekly adjustments, target challenges get percentage milestones.
type Progression struct {
	Type              ProgressionType    `bson:"type" json:"type"`
	StreakMilestones  []StreakMilestone  `bson:"streakMilestones,omitempty" json:"streakMilestones,omitempty"`
	WeeklyAdjustments []WeeklyAdjustment `bson:"weeklyAdjustments,omitempty" json:"weeklyAdjustments,omitempty"`
	Milestones        []PercentMilestone `bson:"milestones,omitempty" json:"milestones,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// StreakMilestone celebrates N consecutive days of check-ins.
type StreakMilestone struct {
	Days    int    `bson:"days" json:"days"`
	Message string `bson:"message" json:"message"`
}

// WeeklyAdjustment shifts intensity for one week of a time challenge.
// Deltas are relative to the plan baseline.
type WeeklyAdjustment struct {
	Week             int    `bson:"week" json:"week"`
	Intensity        string `bson:"intensity" json:"intensity"` // light, moderate, moderate_high, high
	RepsDelta        int    `bson:"repsDelta" json:"repsDelta"`
	SetsDelta        int    `bson:"setsDelta" json:"setsDelta"`
	RestDeltaSeconds int    `bson:"restDeltaSeconds" json:"restDeltaSeconds"`
	Focus            string `bson:"focus,omitempty" json:"focus,omitempty"`
}

// PercentMilestone marks progress toward a target check-in count.
type PercentMilestone struct {
	Percent  int    `bson:"percent" json:"percent"` // 25, 50, 75, 100
	Checkins int    `bson:"checkins" json:"checkins"`
	Message  string `bson:"message" json:"message"`
}

// Guidance is the free-text coaching attached to a plan.
type Guidance struct {
	Description string   `bson:"description" json:"description"`
	Tips        []string `bson:"tips" json:"tips"`
}

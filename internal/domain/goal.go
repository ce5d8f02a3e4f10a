package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalType determines which progression shape a generated plan carries.
type GoalType string

const (
	GoalHabit           GoalType = "habit"
	GoalTimeChallenge   GoalType = "time_challenge"
	GoalTargetChallenge GoalType = "target_challenge"
)

// Goal represents something a user committed to and checks in against.
type Goal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`   // e.g., "fitness", "mindfulness"
	Frequency   string             `bson:"frequency" json:"frequency"` // e.g., "daily", "weekly"
	TargetDays  int                `bson:"targetDays" json:"targetDays"`
	GoalType    GoalType           `bson:"goalType" json:"goalType"`

	// Only meaningful for time_challenge goals.
	ChallengeDurationDays int `bson:"challengeDurationDays,omitempty" json:"challengeDurationDays,omitempty"`
	// Only meaningful for target_challenge goals.
	TargetCheckins int `bson:"targetCheckins,omitempty" json:"targetCheckins,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckIn records that a user performed their goal activity on a given day.
type CheckIn struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoalID    primitive.ObjectID `bson:"goalId" json:"goalId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      string             `bson:"date" json:"date"` // "YYYY-MM-DD", one per goal per day
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// WorkoutFeedback carries what a user reported about their last plan.
// The selector uses it to steer the next generation away from problem exercises.
type WorkoutFeedback struct {
	TooHard []string `bson:"tooHard,omitempty" json:"tooHard,omitempty"`
	TooEasy []string `bson:"tooEasy,omitempty" json:"tooEasy,omitempty"`
	Unknown []string `bson:"unknown,omitempty" json:"unknown,omitempty"` // exercises the user didn't recognize
	Avoided []string `bson:"avoided,omitempty" json:"avoided,omitempty"` // never offer these again
}

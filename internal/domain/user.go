package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SubscriptionTier gates how rich a generated plan may be.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Tier         SubscriptionTier   `bson:"tier" json:"tier"`
	Profile      UserProfile        `bson:"profile" json:"profile"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FitnessLevel describes self-reported training experience.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
	LevelAthlete      FitnessLevel = "athlete"
)

// Location describes where the user prefers to train.
type Location string

const (
	LocationGym     Location = "gym"
	LocationHome    Location = "home"
	LocationOutdoor Location = "outdoor"
)

// UserProfile holds the onboarding answers the plan generator keys off.
type UserProfile struct {
	FitnessLevel      FitnessLevel `bson:"fitnessLevel" json:"fitnessLevel"`
	PrimaryGoal       string       `bson:"primaryGoal,omitempty" json:"primaryGoal,omitempty"`           // e.g., "lose_weight", "build_muscle"
	CurrentFrequency  string       `bson:"currentFrequency,omitempty" json:"currentFrequency,omitempty"` // e.g., "never", "rarely", "weekly", "daily"
	PreferredLocation Location     `bson:"preferredLocation,omitempty" json:"preferredLocation,omitempty"`
	AvailableTime     string       `bson:"availableTime,omitempty" json:"availableTime,omitempty"` // e.g., "under_15min", "15-30min", "30-60min", "60min_plus"
	MotivationStyle   string       `bson:"motivationStyle,omitempty" json:"motivationStyle,omitempty"`
	BiggestChallenge  string       `bson:"biggestChallenge,omitempty" json:"biggestChallenge,omitempty"` // e.g., "getting_started", "staying_consistent"
	BiologicalSex     string       `bson:"biologicalSex,omitempty" json:"biologicalSex,omitempty"`
}

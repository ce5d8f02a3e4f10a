package domain

// Exercise categories as the reference catalog reports them.
const (
	CategoryStrength   = "strength"
	CategoryCardio     = "cardio"
	CategoryStretching = "stretching"
	CategoryPlyometric = "plyometric"
)

// ExerciseCandidate is a single entry from the reference exercise catalog.
// The catalog owns these; this service only ever reads them.
type ExerciseCandidate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BodyPart     string   `json:"bodyPart,omitempty"`
	TargetMuscle string   `json:"targetMuscle"`
	Equipment    string   `json:"equipment"` // e.g., "body weight", "dumbbell", "barbell"
	Difficulty   string   `json:"difficulty,omitempty"`
	Category     string   `json:"category"`
	MediaKey     string   `json:"mediaKey,omitempty"` // demonstration media reference (gif/video)
	Instructions []string `json:"instructions,omitempty"`
}

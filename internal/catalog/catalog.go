package catalog

import (
	"context"
	"errors"

	"fitpact/fitness-backend/internal/domain"
)

// Error constants for the catalog layer.
var (
	ErrNotFound = errors.New("exercise not found in catalog")
)

// Filter narrows a catalog search. Empty fields are ignored.
type Filter struct {
	Category     string
	Equipment    []string // any-of match
	BodyPart     string
	TargetMuscle string
	Difficulty   string
	Limit        int
}

// Catalog is the read-only reference exercise dataset.
type Catalog interface {
	Search(ctx context.Context, filter Filter) ([]domain.ExerciseCandidate, error)
	GetByID(ctx context.Context, id string) (*domain.ExerciseCandidate, error)
	GetByName(ctx context.Context, name string) (*domain.ExerciseCandidate, error)
}

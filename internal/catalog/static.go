package catalog

import (
	"context"
	"strings"

	"fitpact/fitness-backend/internal/domain"
)

// StaticCatalog serves a fixed in-memory exercise set. It backs tests and the
// deterministic fallback path when no remote catalog is configured.
type StaticCatalog struct {
	exercises []domain.ExerciseCandidate
	byID      map[string]int
	byName    map[string]int
}

// NewStaticCatalog builds a catalog over the given exercises.
func NewStaticCatalog(exercises []domain.ExerciseCandidate) *StaticCatalog {
	c := &StaticCatalog{
		exercises: exercises,
		byID:      make(map[string]int, len(exercises)),
		byName:    make(map[string]int, len(exercises)),
	}
	for i, ex := range exercises {
		c.byID[ex.ID] = i
		c.byName[strings.ToLower(ex.Name)] = i
	}
	return c
}

// NewDefaultStaticCatalog returns a catalog seeded with the bodyweight staples
// used by the selector fallback plus a small stretching set for warmup and
// cooldown selection.
func NewDefaultStaticCatalog() *StaticCatalog {
	return NewStaticCatalog(defaultExercises)
}

func (c *StaticCatalog) Search(_ context.Context, filter Filter) ([]domain.ExerciseCandidate, error) {
	var out []domain.ExerciseCandidate
	for _, ex := range c.exercises {
		if filter.Category != "" && ex.Category != filter.Category {
			continue
		}
		if filter.BodyPart != "" && !strings.EqualFold(ex.BodyPart, filter.BodyPart) {
			continue
		}
		if filter.TargetMuscle != "" && !strings.EqualFold(ex.TargetMuscle, filter.TargetMuscle) {
			continue
		}
		if filter.Difficulty != "" && !strings.EqualFold(ex.Difficulty, filter.Difficulty) {
			continue
		}
		if len(filter.Equipment) > 0 && !equipmentMatches(ex.Equipment, filter.Equipment) {
			continue
		}
		out = append(out, ex)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (c *StaticCatalog) GetByID(_ context.Context, id string) (*domain.ExerciseCandidate, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	ex := c.exercises[i]
	return &ex, nil
}

func (c *StaticCatalog) GetByName(_ context.Context, name string) (*domain.ExerciseCandidate, error) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrNotFound
	}
	ex := c.exercises[i]
	return &ex, nil
}

func equipmentMatches(have string, wanted []string) bool {
	for _, w := range wanted {
		if strings.EqualFold(have, w) {
			return true
		}
	}
	return false
}

var defaultExercises = []domain.ExerciseCandidate{
	{ID: "bw-0001", Name: "push-up", BodyPart: "chest", TargetMuscle: "pectorals", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStrength, MediaKey: "exercises/bw-0001.gif"},
	{ID: "bw-0002", Name: "squat", BodyPart: "upper legs", TargetMuscle: "quads", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStrength, MediaKey: "exercises/bw-0002.gif"},
	{ID: "bw-0003", Name: "sit-up", BodyPart: "waist", TargetMuscle: "abs", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStrength, MediaKey: "exercises/bw-0003.gif"},
	{ID: "bw-0004", Name: "stretch", BodyPart: "waist", TargetMuscle: "spine", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStretching, MediaKey: "exercises/bw-0004.gif"},
	{ID: "bw-0005", Name: "heel-touch", BodyPart: "waist", TargetMuscle: "abs", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStrength, MediaKey: "exercises/bw-0005.gif"},
	{ID: "st-0001", Name: "standing hamstring stretch", BodyPart: "upper legs", TargetMuscle: "hamstrings", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStretching, MediaKey: "exercises/st-0001.gif"},
	{ID: "st-0002", Name: "shoulder circles", BodyPart: "shoulders", TargetMuscle: "delts", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStretching, MediaKey: "exercises/st-0002.gif"},
	{ID: "st-0003", Name: "cat-cow stretch", BodyPart: "back", TargetMuscle: "spine", Equipment: "body weight", Difficulty: "beginner", Category: domain.CategoryStretching, MediaKey: "exercises/st-0003.gif"},
	{ID: "st-0004", Name: "band shoulder stretch", BodyPart: "shoulders", TargetMuscle: "delts", Equipment: "band", Difficulty: "beginner", Category: domain.CategoryStretching, MediaKey: "exercises/st-0004.gif"},
}

package catalog

import (
	"context"
	"testing"

	"fitpact/fitness-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalogSearchFilters(t *testing.T) {
	c := NewDefaultStaticCatalog()

	stretching, err := c.Search(context.Background(), Filter{Category: domain.CategoryStretching})
	require.NoError(t, err)
	require.NotEmpty(t, stretching)
	for _, ex := range stretching {
		assert.Equal(t, domain.CategoryStretching, ex.Category)
	}

	// Equipment filtering is case-insensitive and drops the band-only entry.
	bodyweight, err := c.Search(context.Background(), Filter{Equipment: []string{"Body Weight"}})
	require.NoError(t, err)
	for _, ex := range bodyweight {
		assert.Equal(t, "body weight", ex.Equipment)
	}

	limited, err := c.Search(context.Background(), Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStaticCatalogSearchNoMatch(t *testing.T) {
	c := NewDefaultStaticCatalog()

	out, err := c.Search(context.Background(), Filter{Equipment: []string{"kettlebell"}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStaticCatalogLookups(t *testing.T) {
	c := NewDefaultStaticCatalog()

	ex, err := c.GetByID(context.Background(), "bw-0001")
	require.NoError(t, err)
	assert.Equal(t, "push-up", ex.Name)

	byName, err := c.GetByName(context.Background(), "Push-Up")
	require.NoError(t, err)
	assert.Equal(t, "bw-0001", byName.ID)

	_, err = c.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetByName(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/quotation-api/internal/repository"
)

func TestNextNumberIncrementsPerScopeAndYear(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSequenceRepository(db)
	ctx := context.Background()

	first, err := repo.NextNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := repo.NextNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	// A new year restarts the counter
	nextYear, err := repo.NextNumber(ctx, "inquiry", 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, nextYear)

	// Scopes count independently
	otherScope, err := repo.NextNumber(ctx, "invoice", 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, otherScope)

	third, err := repo.NextNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, third)
}

func TestCurrentNumber(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSequenceRepository(db)
	ctx := context.Background()

	current, err := repo.CurrentNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	_, err = repo.NextNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	_, err = repo.NextNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)

	current, err = repo.CurrentNumber(ctx, "inquiry", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

//go:build integration

package repo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/testsupport"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/pkg/utilities"
)

func TestExerciseRepoPostgres(t *testing.T) {
	ctx := context.Background()
	db := testsupport.StartPostgres(ctx, t)

	r := NewExerciseRepo(db, utilities.NewIDGenerator(2))
	require.NoError(t, r.EnsureTable(ctx))
	require.NoError(t, r.EnsureTable(ctx))

	entries := []entity.Exercise{
		{UserID: "u1", Description: "run", Duration: 30, Date: day(2024, 1, 1)},
		{UserID: "u1", Description: "swim", Duration: 20, Date: day(2024, 1, 3)},
		{UserID: "u1", Description: "bike", Duration: 45, Date: day(2024, 1, 2)},
		{UserID: "u2", Description: "yoga", Duration: 60, Date: day(2024, 1, 2)},
	}
	for i := range entries {
		require.NoError(t, r.Create(ctx, &entries[i]))
		require.NotEmpty(t, entries[i].ID)
		require.False(t, entries[i].CreatedAt.IsZero())
	}

	all, err := r.ListByUser(ctx, "u1", entity.LogFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"run", "bike", "swim"}, descriptions(all))
	require.Equal(t, "2024-01-01", all[0].Date.UTC().Format(dayFormat))

	from, to := day(2024, 1, 1), day(2024, 1, 2)
	ranged, err := r.ListByUser(ctx, "u1", entity.LogFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Equal(t, []string{"run", "bike"}, descriptions(ranged))

	limited, err := r.ListByUser(ctx, "u1", entity.LogFilter{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"run"}, descriptions(limited))

	none, err := r.ListByUser(ctx, "nobody", entity.LogFilter{})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	// the widest values the service lets through fit the columns
	edge := entity.Exercise{UserID: "u3", Description: "ultra", Duration: math.MaxInt32, Date: day(1, 1, 1)}
	require.NoError(t, r.Create(ctx, &edge))
	bound := day(1, 1, 1)
	edges, err := r.ListByUser(ctx, "u3", entity.LogFilter{From: &bound, To: &bound})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, math.MaxInt32, edges[0].Duration)
	require.Equal(t, "0001-01-01", edges[0].Date.UTC().Format(dayFormat))

	overflow := entity.Exercise{UserID: "u3", Description: "too long", Duration: math.MaxInt32 + 1, Date: day(2024, 1, 1)}
	require.Error(t, r.Create(ctx, &overflow))
}

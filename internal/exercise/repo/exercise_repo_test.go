package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
)

func TestBuildListQuery(t *testing.T) {
	from, to := day(2024, 1, 1), day(2024, 1, 31)

	q, args := buildListQuery("u1", entity.LogFilter{})
	require.Equal(t, `SELECT id, user_id, description, duration, date, created_at FROM exercises WHERE user_id=$1 ORDER BY date, created_at, id`, q)
	require.Equal(t, []any{"u1"}, args)

	q, args = buildListQuery("u1", entity.LogFilter{From: &from, To: &to, Limit: 3})
	require.Contains(t, q, `date >= CAST($2 AS DATE)`)
	require.Contains(t, q, `date <= CAST($3 AS DATE)`)
	require.Contains(t, q, `LIMIT $4`)
	require.Equal(t, []any{"u1", "2024-01-01", "2024-01-31", 3}, args)

	q, args = buildListQuery("u1", entity.LogFilter{To: &to, Limit: -1})
	require.Contains(t, q, `date <= CAST($2 AS DATE)`)
	require.NotContains(t, q, "LIMIT")
	require.Len(t, args, 2)
}

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("ex-%03d", s.n)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, r *MemoryExerciseRepo, userID string, entries ...entity.Exercise) {
	t.Helper()
	for i := range entries {
		e := entries[i]
		e.UserID = userID
		require.NoError(t, r.Create(context.Background(), &e))
		require.NotEmpty(t, e.ID)
	}
}

func descriptions(logs []entity.Exercise) []string {
	out := make([]string, 0, len(logs))
	for _, e := range logs {
		out = append(out, e.Description)
	}
	return out
}

func TestMemoryExerciseRepoOrdersByDayThenInsertion(t *testing.T) {
	r := NewMemoryExerciseRepo(&seqIDs{})
	seed(t, r, "u1",
		entity.Exercise{Description: "c", Duration: 10, Date: day(2024, 1, 3)},
		entity.Exercise{Description: "a", Duration: 10, Date: day(2024, 1, 1)},
		entity.Exercise{Description: "b1", Duration: 10, Date: day(2024, 1, 2)},
		entity.Exercise{Description: "b2", Duration: 10, Date: day(2024, 1, 2)},
	)

	logs, err := r.ListByUser(context.Background(), "u1", entity.LogFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b1", "b2", "c"}, descriptions(logs))
}

func TestMemoryExerciseRepoFilterInclusive(t *testing.T) {
	r := NewMemoryExerciseRepo(&seqIDs{})
	seed(t, r, "u1",
		entity.Exercise{Description: "dec31", Duration: 1, Date: day(2023, 12, 31)},
		entity.Exercise{Description: "jan1", Duration: 1, Date: day(2024, 1, 1)},
		entity.Exercise{Description: "jan5", Duration: 1, Date: day(2024, 1, 5)},
		entity.Exercise{Description: "jan6", Duration: 1, Date: day(2024, 1, 6)},
	)
	from, to := day(2024, 1, 1), day(2024, 1, 5)

	logs, err := r.ListByUser(context.Background(), "u1", entity.LogFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Equal(t, []string{"jan1", "jan5"}, descriptions(logs))

	logs, err = r.ListByUser(context.Background(), "u1", entity.LogFilter{From: &to})
	require.NoError(t, err)
	require.Equal(t, []string{"jan5", "jan6"}, descriptions(logs))

	logs, err = r.ListByUser(context.Background(), "u1", entity.LogFilter{To: &from})
	require.NoError(t, err)
	require.Equal(t, []string{"dec31", "jan1"}, descriptions(logs))
}

func TestMemoryExerciseRepoLimit(t *testing.T) {
	r := NewMemoryExerciseRepo(&seqIDs{})
	for i := 1; i <= 5; i++ {
		seed(t, r, "u1", entity.Exercise{Description: fmt.Sprintf("e%d", i), Duration: i, Date: day(2024, 2, i)})
	}

	for k := 0; k <= 7; k++ {
		logs, err := r.ListByUser(context.Background(), "u1", entity.LogFilter{Limit: k})
		require.NoError(t, err)
		if k == 0 || k >= 5 {
			require.Len(t, logs, 5)
		} else {
			require.Len(t, logs, k)
		}
	}
}

func TestMemoryExerciseRepoIsolatesUsers(t *testing.T) {
	r := NewMemoryExerciseRepo(&seqIDs{})
	seed(t, r, "u1", entity.Exercise{Description: "mine", Duration: 1, Date: day(2024, 1, 1)})
	seed(t, r, "u2", entity.Exercise{Description: "theirs", Duration: 1, Date: day(2024, 1, 1)})

	logs, err := r.ListByUser(context.Background(), "u1", entity.LogFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"mine"}, descriptions(logs))

	none, err := r.ListByUser(context.Background(), "nobody", entity.LogFilter{})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/entity"
)

// MemoryExerciseRepo keeps each user's entries sorted by day, with ties in
// insertion order.
type MemoryExerciseRepo struct {
	ids IDSource

	mu     sync.RWMutex
	byUser map[string][]entity.Exercise
}

func NewMemoryExerciseRepo(ids IDSource) *MemoryExerciseRepo {
	return &MemoryExerciseRepo{ids: ids, byUser: make(map[string][]entity.Exercise)}
}

func (r *MemoryExerciseRepo) Create(_ context.Context, e *entity.Exercise) error {
	e.ID = r.ids.NewID()
	e.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	logs := r.byUser[e.UserID]
	// first position whose day is strictly after e's keeps ties stable
	i := sort.Search(len(logs), func(i int) bool { return logs[i].Date.After(e.Date) })
	logs = append(logs, entity.Exercise{})
	copy(logs[i+1:], logs[i:])
	logs[i] = *e
	r.byUser[e.UserID] = logs
	return nil
}

func (r *MemoryExerciseRepo) ListByUser(_ context.Context, userID string, f entity.LogFilter) ([]entity.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []entity.Exercise{}
	for _, e := range r.byUser[userID] {
		if !f.Match(e.Date) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

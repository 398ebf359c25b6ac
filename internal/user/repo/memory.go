package repo

import (
	"context"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/entity"
)

// MemoryUserRepo keeps users in process memory in insertion order.
type MemoryUserRepo struct {
	ids IDSource

	mu    sync.RWMutex
	order []string
	byID  map[string]entity.User
}

func NewMemoryUserRepo(ids IDSource) *MemoryUserRepo {
	return &MemoryUserRepo{ids: ids, byID: make(map[string]entity.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, username string) (*entity.User, error) {
	u := entity.User{ID: r.ids.NewID(), Username: username, CreatedAt: time.Now().UTC()}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	r.order = append(r.order, u.ID)
	return &u, nil
}

func (r *MemoryUserRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) Ping(context.Context) error { return nil }

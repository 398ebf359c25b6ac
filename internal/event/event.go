// Package event defines the domain events emitted by the tracker and the
// publishers that ship them.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeUserCreated    = "user.created"
	TypeExerciseLogged = "exercise.logged"
)

// DefaultPublishTimeout bounds one Publish call made on a request path.
const DefaultPublishTimeout = 2 * time.Second

// Envelope wraps a payload with routing metadata. Key groups events of one
// user onto the same partition.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"-"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// UserCreated is emitted after a user is registered.
type UserCreated struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ExerciseLogged is emitted after an exercise entry is appended.
type ExerciseLogged struct {
	ExerciseID  string    `json:"exercise_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"`
	Date        time.Time `json:"date"`
}

// New builds an envelope around payload.
func New(eventType, key string, payload any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: now.UTC(),
		Payload:    raw,
	}, nil
}

// Publisher delivers envelopes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }

package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	topic  string
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher() (*KafkaPublisher, map[string]*fakeWriter) {
	created := make(map[string]*fakeWriter)
	p := NewKafkaPublisher([]string{"localhost:9092"}, "exercise-tracker")
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{topic: topic}
		created[topic] = w
		return w
	}
	return p, created
}

func TestKafkaPublisherRoutesByType(t *testing.T) {
	p, writers := newTestPublisher()
	ctx := context.Background()
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	userEnv, err := New(TypeUserCreated, "u1", UserCreated{UserID: "u1", Username: "alice"}, now)
	require.NoError(t, err)
	exEnv, err := New(TypeExerciseLogged, "u1", ExerciseLogged{ExerciseID: "e1", UserID: "u1", Description: "run", Duration: 30, Date: now}, now)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, userEnv))
	require.NoError(t, p.Publish(ctx, exEnv))
	require.NoError(t, p.Publish(ctx, exEnv))

	require.Len(t, writers, 2)
	require.Len(t, writers["exercise-tracker.user.created"].msgs, 1)
	require.Len(t, writers["exercise-tracker.exercise.logged"].msgs, 2)

	msg := writers["exercise-tracker.exercise.logged"].msgs[0]
	require.Equal(t, []byte("u1"), msg.Key)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, TypeExerciseLogged, decoded.Type)
	_, err = uuid.Parse(decoded.ID)
	require.NoError(t, err)

	var payload ExerciseLogged
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	require.Equal(t, "run", payload.Description)
	require.Equal(t, 30, payload.Duration)
}

func TestKafkaPublisherPropagatesWriteError(t *testing.T) {
	p, _ := newTestPublisher()
	p.newWriter = func(string) messageWriter { return &fakeWriter{err: errors.New("leader not available")} }

	env, err := New(TypeUserCreated, "u1", UserCreated{UserID: "u1"}, time.Now())
	require.NoError(t, err)
	require.Error(t, p.Publish(context.Background(), env))
}

func TestKafkaPublisherClose(t *testing.T) {
	p, writers := newTestPublisher()
	env, err := New(TypeUserCreated, "u1", UserCreated{UserID: "u1"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), env))

	require.NoError(t, p.Close())
	require.True(t, writers["exercise-tracker.user.created"].closed)
}

func TestTopicWithoutPrefix(t *testing.T) {
	p := NewKafkaPublisher(nil, "")
	require.Equal(t, "user.created", p.Topic(TypeUserCreated))
}

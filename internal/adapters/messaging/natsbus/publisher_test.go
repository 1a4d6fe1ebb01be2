package natsbus

import (
	"context"
	"os"
	"testing"
	"time"

	"pet-care-backend/internal/ports/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_ClosedConnection(t *testing.T) {
	p := New(nil, nil)
	err := p.Publish(context.Background(), events.Event{Subject: events.SubjectPostCreated})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, p.Close())
}

func TestPublisher_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}

	p, err := Connect(url, "pet-care-test", nil)
	require.NoError(t, err)
	defer p.Close()

	got := make(chan events.Event, 1)
	sub, err := p.Subscribe("habit.*", func(e events.Event) { got <- e })
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = p.Publish(context.Background(), events.Event{
		Subject: events.SubjectHabitRecorded,
		Payload: map[string]string{"petId": "pet-1"},
	})
	require.NoError(t, err)

	select {
	case e := <-got:
		assert.Equal(t, events.SubjectHabitRecorded, e.Subject)
		assert.False(t, e.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
}

package nats

import (
	"testing"
	"time"

	"bistro-cms-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	header := nats.Header{}
	header.Set(occurredHeader, at.Format(time.RFC3339Nano))

	event, err := Decode(Subject(events.PostPublished), header, []byte(`{"slug":"pho"}`))

	require.NoError(t, err)
	assert.Equal(t, events.PostPublished, event.EventType())
	assert.Equal(t, "pho", event.Payload()["slug"])
	assert.True(t, at.Equal(event.Timestamp()))
}

func TestDecodeWithoutHeader(t *testing.T) {
	before := time.Now()
	event, err := Decode("events.X", nil, []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "X", event.EventType())
	assert.False(t, event.Timestamp().Before(before))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("events.X", nil, []byte(`not json`))
	assert.Error(t, err)
}

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	got []Event
	err error
}

func (s *recordingSink) Send(evt Event) error {
	s.got = append(s.got, evt)
	return s.err
}

func TestTrack_RecordsAndForwards(t *testing.T) {
	sink := &recordingSink{}
	e := NewEmitter(zerolog.Nop(), 0, sink)

	e.Track(EventStepCompleted, "s1", map[string]any{"step": 1})
	e.Track(EventFormSubmitted, "s2", nil)

	events := e.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventStepCompleted, events[0].Name)
	assert.Equal(t, "s1", events[0].SessionID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Len(t, sink.got, 2)

	forS2 := e.EventsFor("s2")
	require.Len(t, forS2, 1)
	assert.Equal(t, EventFormSubmitted, forS2[0].Name)
}

func TestTrack_SinkFailureDoesNotPropagate(t *testing.T) {
	failing := &recordingSink{err: errors.New("sink down")}
	healthy := &recordingSink{}
	e := NewEmitter(zerolog.Nop(), 0, failing, healthy)

	e.Track(EventFormReset, "s1", nil)

	assert.Len(t, e.Events(), 1)
	assert.Len(t, healthy.got, 1)
}

func TestTrack_CapacityDropsOldest(t *testing.T) {
	e := NewEmitter(zerolog.Nop(), 2)

	e.Track("a", "", nil)
	e.Track("b", "", nil)
	e.Track("c", "", nil)

	events := e.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, "c", events[1].Name)
}

type fakePublisher struct {
	channel string
	message interface{}
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.message = message
	return redis.NewIntResult(1, p.err)
}

func TestRedisSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewRedisSink(pub, "wedding:analytics")

	require.NoError(t, sink.Send(Event{Name: EventStepCompleted, SessionID: "s1"}))
	assert.Equal(t, "wedding:analytics", pub.channel)

	var decoded Event
	require.NoError(t, json.Unmarshal(pub.message.([]byte), &decoded))
	assert.Equal(t, EventStepCompleted, decoded.Name)

	pub.err = errors.New("connection refused")
	assert.Error(t, sink.Send(Event{Name: "x"}))
}

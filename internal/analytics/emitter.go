// Package analytics records named product events and forwards them to sinks.
package analytics

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventStepCompleted = "step_completed"
	EventFormSubmitted = "form_submitted"
	EventFormReset     = "form_reset"
)

// defaultCapacity bounds the in-memory log.
const defaultCapacity = 1000

// Event is a single tracked occurrence
type Event struct {
	Name      string         `json:"name"`
	SessionID string         `json:"sessionId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Sink receives every tracked event
type Sink interface {
	Send(evt Event) error
}

// Emitter keeps recent events in memory and fans them out to sinks
type Emitter struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	sinks    []Sink
	log      zerolog.Logger
	now      func() time.Time
}

// NewEmitter creates an emitter. A capacity <= 0 uses the default.
func NewEmitter(log zerolog.Logger, capacity int, sinks ...Sink) *Emitter {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Emitter{
		events:   make([]Event, 0),
		capacity: capacity,
		sinks:    sinks,
		log:      log.With().Str("component", "Analytics").Logger(),
		now:      time.Now,
	}
}

// AddSink registers another destination.
func (e *Emitter) AddSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sinks = append(e.sinks, s)
}

// Track records an event. Sink failures are logged, never returned.
func (e *Emitter) Track(name, sessionID string, payload map[string]any) {
	evt := Event{
		Name:      name,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: e.now(),
	}

	e.mu.Lock()
	e.events = append(e.events, evt)
	if len(e.events) > e.capacity {
		e.events = e.events[len(e.events)-e.capacity:]
	}
	sinks := make([]Sink, len(e.sinks))
	copy(sinks, e.sinks)
	e.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Send(evt); err != nil {
			e.log.Warn().Err(err).Str("event", name).Msg("Failed to forward analytics event")
		}
	}
}

// Events returns a copy of the recorded events, oldest first.
func (e *Emitter) Events() []Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	events := make([]Event, len(e.events))
	copy(events, e.events)
	return events
}

// EventsFor returns the events of one form session.
func (e *Emitter) EventsFor(sessionID string) []Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Event, 0)
	for _, evt := range e.events {
		if evt.SessionID == sessionID {
			result = append(result, evt)
		}
	}
	return result
}

// LogSink writes events to a zerolog logger
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(evt Event) error {
	s.log.Info().
		Str("event", evt.Name).
		Str("session", evt.SessionID).
		Interface("payload", evt.Payload).
		Time("at", evt.Timestamp).
		Msg("Analytics event")
	return nil
}

package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a typed, immutable notification carried by the bus.
type Event[T any] struct {
	Type     Topic
	Payload  T
	Metadata Metadata
}

// Metadata identifies an event and where it came from.
type Metadata struct {
	ID        string
	Timestamp time.Time

	// Source names the publishing side, such as "panel" or "host".
	Source string

	// CausationID is the ID of the event this one answers, if any.
	CausationID string
}

// NewEvent stamps payload with a fresh ID and the current time.
func NewEvent[T any](eventType Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// WithCausation returns a copy of e answering the event with causationID.
func (e Event[T]) WithCausation(causationID string) Event[T] {
	e.Metadata.CausationID = causationID
	return e
}

// EventTopic returns the event's topic without knowing its payload type.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// routable is implemented by every Event[T].
type routable interface {
	EventTopic() Topic
}

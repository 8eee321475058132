package event

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent is returned by Publish for a value without a valid topic.
	ErrInvalidEvent = errors.New("event has no valid topic")

	// ErrInvalidTopic is returned by Subscribe for a malformed pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrSubscriptionNotFound is returned when unsubscribing twice.
	ErrSubscriptionNotFound = errors.New("no such subscription")

	// ErrHandlerPanic matches a DeliveryError caused by a panic.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrNilHandler is returned by Subscribe without a handler.
	ErrNilHandler = errors.New("nil handler")
)

// DeliveryError reports one handler that failed for one event.
type DeliveryError struct {
	Subscription string
	Topic        Topic

	// Err is the handler's error. It is nil when the handler panicked.
	Err error

	// Recovered is the panic value, if any.
	Recovered any
}

func (e *DeliveryError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("delivering %s to %s: panic: %v", e.Topic, e.Subscription, e.Recovered)
	}
	return fmt.Sprintf("delivering %s to %s: %v", e.Topic, e.Subscription, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	if e.Recovered != nil {
		return ErrHandlerPanic
	}
	return e.Err
}

package event

import "sync/atomic"

// Subscription is a registered handler for a topic pattern.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() Topic

	// IsActive returns true until the subscription is cancelled.
	IsActive() bool

	// Cancel stops delivery to this subscription.
	Cancel()
}

type subscription struct {
	id      string
	seq     uint64
	pattern Topic
	handler Handler
	active  atomic.Bool
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Topic() Topic   { return s.pattern }
func (s *subscription) IsActive() bool { return s.active.Load() }
func (s *subscription) Cancel()        { s.active.Store(false) }

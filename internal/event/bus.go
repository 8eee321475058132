package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus routes events to subscribers by topic.
type Bus interface {
	Publish(ctx context.Context, event any) error
	Subscribe(pattern Topic, handler Handler) (Subscription, error)
	SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error)
	Unsubscribe(sub Subscription) error
	Stats() Stats
}

// bus delivers events synchronously in the publisher's goroutine.
// Handlers run without the registry lock held, so a handler may publish.
type bus struct {
	mu   sync.RWMutex
	subs map[string]*subscription
	seq  uint64

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// NewBus creates a new synchronous event bus.
func NewBus() Bus {
	return &bus{subs: make(map[string]*subscription)}
}

// Publish delivers event to every matching subscription in subscription
// order. Handler errors and panics do not stop delivery; they are joined
// into the returned error.
func (b *bus) Publish(ctx context.Context, event any) error {
	r, ok := event.(routable)
	if !ok || !r.EventTopic().IsValid() {
		return ErrInvalidEvent
	}
	topic := r.EventTopic()
	b.published.Add(1)

	var errs []error
	for _, sub := range b.match(topic) {
		if !sub.IsActive() {
			continue
		}
		if err := b.deliver(ctx, sub, topic, event); err != nil {
			b.failed.Add(1)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *bus) deliver(ctx context.Context, sub *subscription, topic Topic, event any) (err error) {
	b.delivered.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = &DeliveryError{Subscription: sub.id, Topic: topic, Recovered: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		return &DeliveryError{Subscription: sub.id, Topic: topic, Err: herr}
	}
	return nil
}

// match returns the active subscriptions whose pattern matches t, ordered
// by subscription time.
func (b *bus) match(t Topic) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if t.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *bus) Subscribe(pattern Topic, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	sub := &subscription{
		id:      uuid.NewString(),
		seq:     b.seq,
		pattern: pattern,
		handler: handler,
	}
	sub.active.Store(true)
	b.subs[sub.id] = sub
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn)
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.ID()]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(b.subs, sub.ID())
	return nil
}

// Stats returns the bus counters.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Failed:      b.failed.Load(),
		Subscribers: active,
	}
}

package event

import "context"

// Handler receives published events. The event is an Event[T] for some
// payload type T.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// AsHandler adapts a function taking one payload type. Events carrying
// another payload type are ignored.
func AsHandler[T any](fn func(ctx context.Context, event Event[T]) error) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// Stats counts bus activity since it was created.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Failed      uint64 // handler errors and panics
	Subscribers int
}

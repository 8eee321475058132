package panel

import (
	"context"

	"github.com/dshills/storysource/internal/event"
)

// EchoEdits republishes every UserEdited notification on bus as a
// RegionEdited notification, so a panel applies its own user's edits.
// This stands in for a host that would otherwise acknowledge the edit.
func EchoEdits(bus event.Bus, source string) (event.Subscription, error) {
	return bus.Subscribe(TopicRegionUserEdited, event.AsHandler(
		func(ctx context.Context, e event.Event[UserEdited]) error {
			msg := RegionEdited{Replacement: e.Payload.NewText, Boundary: e.Payload.Boundary}
			echo := event.NewEvent(TopicRegionEdited, msg, source).WithCausation(e.Metadata.ID)
			return bus.Publish(ctx, echo)
		}))
}

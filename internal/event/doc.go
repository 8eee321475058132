// Package event provides the in-process publish/subscribe transport that
// carries document and region notifications.
//
// Events are typed with generics and routed by dot-separated topics:
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("storysource.region.*", event.AsHandler(
//	    func(ctx context.Context, e event.Event[panel.RegionEdited]) error {
//	        return nil
//	    }))
//	defer bus.Unsubscribe(sub)
//
//	_ = bus.Publish(ctx, event.NewEvent(panel.TopicRegionEdited, msg, "editor"))
//
// Delivery is synchronous: Publish returns after every matching handler has
// run. Handler errors and panics are collected and returned to the
// publisher; they never stop delivery to other subscribers.
package event

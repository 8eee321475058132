package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/event"
	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/partition"
	"github.com/dshills/storysource/internal/region"
)

// ErrDetached is returned by Edit when the panel has no bus to publish on.
var ErrDetached = errors.New("panel is not attached to a bus")

// Panel owns the current State and serializes every transition on it.
type Panel struct {
	mu    sync.Mutex
	state State

	tokenizer highlight.Tokenizer
	navigate  Navigator
	opts      TransitionOptions
	log       commonlog.Logger
	source    string

	bus  event.Bus
	subs []event.Subscription
}

// New creates an idle panel.
func New(opts ...Option) *Panel {
	p := &Panel{
		state:     State{Index: region.NewIndex()},
		tokenizer: highlight.PlainTokenizer{},
		opts:      DefaultTransitionOptions(),
		log:       commonlog.GetLogger("storysource.panel"),
		source:    "panel",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Handle applies msg. A rejected message leaves the state unchanged.
func (p *Panel) Handle(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := Dispatch(p.state, msg, p.opts)
	if err != nil {
		p.log.Warningf("rejected %T: %s", msg, err)
		return err
	}
	p.state = next

	switch m := msg.(type) {
	case DocumentReplaced:
		p.log.Infof("document replaced: %d regions, active %s", next.Index.Len(), m.Active)
	case RegionEdited:
		p.log.Debugf("region edited: active now %s", next.Active)
	}
	return nil
}

// Render tokenizes the current text and partitions it along the regions.
func (p *Panel) Render() ([]partition.Segment, error) {
	st := p.State()

	lines, err := p.tokenizer.Tokenize(st.Text)
	if err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}
	return partition.Partition(lines, st.Index, st.Active), nil
}

// Activate navigates to the region with key. Activating the active region
// does nothing. The navigator is only called when the key has both a group
// and an item part. It reports whether navigation happened.
func (p *Panel) Activate(key region.Key) (bool, error) {
	st := p.State()

	b, ok := st.Index.Lookup(key)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRegion, key)
	}
	if b.Equal(st.Active) {
		return false, nil
	}

	group, item := key.Split()
	if group == "" || item == "" || p.navigate == nil {
		return false, nil
	}
	p.log.Debugf("navigating to %s/%s", group, item)
	p.navigate(group, item)
	return true, nil
}

// BeginEdit marks the active region as being edited.
func (p *Panel) BeginEdit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := BeginEdit(p.state)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

// Edit publishes a UserEdited notification carrying the new text of the
// active region. The state itself changes when the matching RegionEdited
// arrives.
func (p *Panel) Edit(ctx context.Context, newText string) error {
	p.mu.Lock()
	st := p.state
	bus := p.bus
	p.mu.Unlock()

	if st.Phase == PhaseIdle {
		return fmt.Errorf("%w: no active region", ErrNotEditable)
	}
	if bus == nil {
		return ErrDetached
	}

	msg := UserEdited{NewText: newText, Boundary: st.Active}
	return bus.Publish(ctx, event.NewEvent(TopicRegionUserEdited, msg, p.source))
}

// Attach subscribes the panel to document and edit notifications on bus.
// A panel may be attached to one bus at a time.
func (p *Panel) Attach(bus event.Bus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus != nil {
		return fmt.Errorf("panel already attached")
	}

	replaced, err := bus.Subscribe(TopicSourceReplaced, event.AsHandler(
		func(_ context.Context, e event.Event[DocumentReplaced]) error {
			return p.Handle(e.Payload)
		}))
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", TopicSourceReplaced, err)
	}

	edited, err := bus.Subscribe(TopicRegionEdited, event.AsHandler(
		func(_ context.Context, e event.Event[RegionEdited]) error {
			return p.Handle(e.Payload)
		}))
	if err != nil {
		_ = bus.Unsubscribe(replaced)
		return fmt.Errorf("subscribing to %s: %w", TopicRegionEdited, err)
	}

	p.bus = bus
	p.subs = []event.Subscription{replaced, edited}
	return nil
}

// Detach removes the panel's subscriptions.
func (p *Panel) Detach() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus == nil {
		return nil
	}
	var errs []error
	for _, sub := range p.subs {
		if err := p.bus.Unsubscribe(sub); err != nil {
			errs = append(errs, err)
		}
	}
	p.bus = nil
	p.subs = nil
	return errors.Join(errs...)
}

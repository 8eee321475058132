package panel

import (
	"fmt"

	"github.com/dshills/storysource/internal/region"
	"github.com/dshills/storysource/internal/splice"
)

// Phase is the editing phase of a State.
type Phase uint8

const (
	PhaseIdle    Phase = iota // No document or no active region
	PhaseViewing              // Active region set, read-only
	PhaseEditing              // Active region set, user is typing
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseViewing:
		return "viewing"
	case PhaseEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// State is the document, its regions and the active region.
// A State is a value; transitions return a new State.
type State struct {
	Text   string
	Active region.Boundary
	Index  *region.Index
	Phase  Phase
}

// ActiveKey returns the key of the region whose boundary is Active.
func (s State) ActiveKey() (region.Key, bool) {
	if s.Active.IsZero() {
		return "", false
	}
	return s.Index.KeyFor(s.Active)
}

// TransitionOptions controls Dispatch.
type TransitionOptions struct {
	// Validate rejects documents whose regions are malformed or overlap.
	Validate bool

	// ExactEndColumn selects the corrected end column rule for splices.
	ExactEndColumn bool
}

// DefaultTransitionOptions returns the default options.
func DefaultTransitionOptions() TransitionOptions {
	return TransitionOptions{Validate: true}
}

// ApplyReplace returns the state for a newly delivered document.
// The previous state is discarded entirely.
func ApplyReplace(prev State, msg DocumentReplaced, opts TransitionOptions) (State, error) {
	idx := msg.Regions
	if idx == nil {
		idx = region.NewIndex()
	}

	if opts.Validate {
		if err := idx.Validate(msg.Text); err != nil {
			return prev, fmt.Errorf("rejecting document: %w", err)
		}
		if !msg.Active.IsZero() {
			if err := msg.Active.CheckAgainst(region.SplitLines(msg.Text)); err != nil {
				return prev, fmt.Errorf("rejecting document: active %w", err)
			}
		}
	}

	phase := PhaseViewing
	if msg.Active.IsZero() {
		phase = PhaseIdle
	}
	return State{
		Text:   msg.Text,
		Active: msg.Active,
		Index:  idx,
		Phase:  phase,
	}, nil
}

// ApplySplice returns the state after replacing the active region's text.
//
// The edit must target the current active boundary. On success the active
// boundary and the active key's entry in the index both move to the new
// boundary; other regions keep their stored boundaries. On failure prev is
// returned unchanged.
func ApplySplice(prev State, msg RegionEdited, opts TransitionOptions) (State, error) {
	if prev.Phase == PhaseIdle || prev.Active.IsZero() {
		return prev, fmt.Errorf("%w: no active region", ErrStaleBoundary)
	}
	if !msg.Boundary.IsZero() && !msg.Boundary.Equal(prev.Active) {
		return prev, fmt.Errorf("%w: edit for %s but active region is %s", ErrStaleBoundary, msg.Boundary, prev.Active)
	}

	res, err := splice.Splice(prev.Text, prev.Active, msg.Replacement, splice.WithEndColumnMode(opts.ExactEndColumn))
	if err != nil {
		return prev, fmt.Errorf("splicing active region: %w", err)
	}

	idx := prev.Index
	if key, ok := prev.ActiveKey(); ok {
		idx = idx.WithBoundary(key, res.Boundary)
	}

	return State{
		Text:   res.Text,
		Active: res.Boundary,
		Index:  idx,
		Phase:  PhaseViewing,
	}, nil
}

// BeginEdit moves a viewing state into the editing phase.
func BeginEdit(prev State) (State, error) {
	switch prev.Phase {
	case PhaseViewing:
		prev.Phase = PhaseEditing
		return prev, nil
	case PhaseEditing:
		return prev, nil
	default:
		return prev, fmt.Errorf("%w: no active region", ErrNotEditable)
	}
}

// Dispatch applies msg to prev.
func Dispatch(prev State, msg Message, opts TransitionOptions) (State, error) {
	switch m := msg.(type) {
	case DocumentReplaced:
		return ApplyReplace(prev, m, opts)
	case RegionEdited:
		return ApplySplice(prev, m, opts)
	default:
		return prev, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

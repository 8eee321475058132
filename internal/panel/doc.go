// Package panel holds the state of a source panel: the document text, its
// regions and the active region, together with the transitions that move it
// from one version to the next.
//
// Transitions are pure functions over State values:
//
//	st, err := panel.Dispatch(st, panel.DocumentReplaced{...}, opts)
//	st, err = panel.Dispatch(st, panel.RegionEdited{Replacement: "..."}, opts)
//
// A DocumentReplaced message discards the previous state. A RegionEdited
// message splices the replacement into the active region. Rejected messages
// return the previous state with an error, so the panel keeps rendering the
// last good document.
//
// Panel wraps a State for a single owner, connects it to an event bus and
// renders it through a tokenizer and the partition package. Its phases are
// Idle (no active region), Viewing and Editing; every RegionEdited moves the
// panel back to Viewing with the new text and boundary.
package panel

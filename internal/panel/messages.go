package panel

import (
	"github.com/dshills/storysource/internal/event"
	"github.com/dshills/storysource/internal/region"
)

// Panel event topics.
const (
	// TopicSourceReplaced carries a DocumentReplaced message.
	TopicSourceReplaced event.Topic = "storysource.source.replaced"

	// TopicRegionEdited carries a RegionEdited message.
	TopicRegionEdited event.Topic = "storysource.region.edited"

	// TopicRegionUserEdited carries a UserEdited message.
	TopicRegionUserEdited event.Topic = "storysource.region.user-edited"
)

// Message is an inbound notification handled by Dispatch.
// It is implemented by DocumentReplaced and RegionEdited.
type Message interface {
	isMessage()
}

// DocumentReplaced replaces the whole document and its regions.
type DocumentReplaced struct {
	Text    string
	Active  region.Boundary
	Regions *region.Index
}

// RegionEdited replaces the text of the active region.
// Boundary names the region the edit was made against.
type RegionEdited struct {
	Replacement string
	Boundary    region.Boundary
}

// UserEdited is published when the user changes the active region's text.
type UserEdited struct {
	NewText  string
	Boundary region.Boundary
}

func (DocumentReplaced) isMessage() {}
func (RegionEdited) isMessage()     {}

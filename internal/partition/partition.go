package partition

import (
	"fmt"

	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/region"
)

// Kind distinguishes plain spans from region spans.
type Kind uint8

const (
	KindUnassigned Kind = iota // Lines outside every region
	KindRegion                 // Lines belonging to one region
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnassigned:
		return "unassigned"
	case KindRegion:
		return "region"
	default:
		return "unknown"
	}
}

// Segment is a contiguous group of rendered lines.
type Segment struct {
	Kind Kind

	// Key and Boundary are set for region segments only.
	Key      region.Key
	Boundary region.Boundary

	// First and Last are the 0-indexed half-open row range of Lines.
	First, Last int

	Lines []highlight.Line

	// Active is true for the one region matching the active boundary.
	Active bool
}

// ID returns a stable identifier for the segment's row range.
func (s Segment) ID() string {
	return fmt.Sprintf("%d-%d", s.First, s.Last)
}

// IsRegion returns true if the segment belongs to a region.
func (s Segment) IsRegion() bool {
	return s.Kind == KindRegion
}

// Partition splits lines along the regions of idx.
//
// With no regions the result is a single unassigned segment. Otherwise
// regions are emitted in start order, each preceded by the (possibly empty)
// unassigned span since the previous region, followed by a final unassigned
// span for trailing lines. Styling classes are stripped from every line.
//
// Regions are assumed ordered and non-overlapping. Slices are clamped to the
// lines already emitted and to the input length, so a violation truncates
// content rather than panicking.
func Partition(lines []highlight.Line, idx *region.Index, active region.Boundary) []Segment {
	rows := StripClasses(lines)

	keys := idx.OrderedKeys()
	if len(keys) == 0 {
		return []Segment{unassigned(rows, 0, len(rows))}
	}

	segments := make([]Segment, 0, 2*len(keys)+1)
	lastRow := 0
	activeSeen := false
	for _, key := range keys {
		b, _ := idx.Lookup(key)
		first, last := b.Rows()
		first = clamp(first, lastRow, len(rows))
		last = clamp(last, first, len(rows))
		isActive := !activeSeen && region.BoundariesEqual(b, active)
		activeSeen = activeSeen || isActive

		segments = append(segments,
			unassigned(rows, lastRow, first),
			Segment{
				Kind:     KindRegion,
				Key:      key,
				Boundary: b,
				First:    first,
				Last:     last,
				Lines:    rows[first:last],
				Active:   isActive,
			},
		)
		lastRow = last
	}

	return append(segments, unassigned(rows, lastRow, len(rows)))
}

// StripClasses returns copies of lines with their styling classes replaced
// by an empty set.
func StripClasses(lines []highlight.Line) []highlight.Line {
	out := make([]highlight.Line, len(lines))
	for i, l := range lines {
		l.Classes = []string{}
		out[i] = l
	}
	return out
}

// Lines concatenates the lines of every segment in order.
func Lines(segments []Segment) []highlight.Line {
	var out []highlight.Line
	for _, s := range segments {
		out = append(out, s.Lines...)
	}
	return out
}

// ActiveSegment returns the active region segment, if any.
func ActiveSegment(segments []Segment) (Segment, bool) {
	for _, s := range segments {
		if s.Active {
			return s, true
		}
	}
	return Segment{}, false
}

func unassigned(rows []highlight.Line, first, last int) Segment {
	return Segment{
		Kind:  KindUnassigned,
		First: first,
		Last:  last,
		Lines: rows[first:last],
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

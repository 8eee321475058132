package splice

import (
	"fmt"
	"strings"

	"github.com/dshills/storysource/internal/region"
)

// Result is the outcome of a splice.
type Result struct {
	// Text is the full document after the replacement.
	Text string

	// Boundary is the new extent of the edited region.
	Boundary region.Boundary
}

// Splice replaces the text within b and returns the new document and the
// new boundary of the replaced region.
//
// The document is split on "\n"; the lines before b, the part of the start
// line before b.Start.Col, the replacement, the part of the end line from
// b.End.Col and the lines after b are concatenated at the character level.
// Columns past the end of a line are clamped to the line length.
//
// The new boundary starts where b started. Its end line is the start line
// plus the number of line breaks in replacement. Unless WithExactEndColumn
// is given, its end column is the length of the replacement's last line,
// which ignores b.Start.Col for single-line replacements.
//
// Boundaries of other regions are not adjusted.
func Splice(text string, b region.Boundary, replacement string, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !b.IsValid() {
		return Result{}, &region.BoundaryError{
			Boundary: b,
			Reason:   "cannot splice",
			Err:      region.ErrMalformedBoundary,
		}
	}

	lines := region.SplitLines(text)
	if b.End.Line > len(lines) {
		return Result{}, fmt.Errorf("%w: %s in document of %d lines", ErrStaleBoundary, b, len(lines))
	}

	head, _ := region.SplitAtColumn(lines[b.Start.Line-1], b.Start.Col)
	_, tail := region.SplitAtColumn(lines[b.End.Line-1], b.End.Col)
	prefix := lines[:b.Start.Line-1]
	suffix := lines[b.End.Line:]

	var sb strings.Builder
	sb.Grow(len(text) + len(replacement))
	if len(prefix) > 0 {
		sb.WriteString(strings.Join(prefix, "\n"))
		sb.WriteByte('\n')
	}
	sb.WriteString(head)
	sb.WriteString(replacement)
	sb.WriteString(tail)
	if len(suffix) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(suffix, "\n"))
	}

	return Result{
		Text:     sb.String(),
		Boundary: NewBoundary(b, replacement, o.exactEndColumn),
	}, nil
}

// NewBoundary computes the extent of replacement inserted at old.Start.
func NewBoundary(old region.Boundary, replacement string, exact bool) region.Boundary {
	breaks := strings.Count(replacement, "\n")
	lastLine := replacement[strings.LastIndex(replacement, "\n")+1:]

	endCol := region.ColumnCount(lastLine)
	if exact && breaks == 0 {
		endCol += old.Start.Col
	}

	return region.Boundary{
		Start: old.Start,
		End: region.Position{
			Line: old.Start.Line + breaks,
			Col:  endCol,
		},
	}
}

// Extract returns the text within b.
func Extract(text string, b region.Boundary) (string, error) {
	if !b.IsValid() {
		return "", &region.BoundaryError{Boundary: b, Reason: "cannot extract", Err: region.ErrMalformedBoundary}
	}
	lines := region.SplitLines(text)
	if b.End.Line > len(lines) {
		return "", fmt.Errorf("%w: %s in document of %d lines", ErrStaleBoundary, b, len(lines))
	}

	if b.Start.Line == b.End.Line {
		head, _ := region.SplitAtColumn(lines[b.Start.Line-1], b.End.Col)
		_, mid := region.SplitAtColumn(head, b.Start.Col)
		return mid, nil
	}

	_, first := region.SplitAtColumn(lines[b.Start.Line-1], b.Start.Col)
	last, _ := region.SplitAtColumn(lines[b.End.Line-1], b.End.Col)
	parts := make([]string, 0, b.End.Line-b.Start.Line+1)
	parts = append(parts, first)
	parts = append(parts, lines[b.Start.Line:b.End.Line-1]...)
	parts = append(parts, last)
	return strings.Join(parts, "\n"), nil
}

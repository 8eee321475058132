package region

import (
	"fmt"
	"strings"
)

// Boundary is a text range from Start (inclusive) to End.
// End.Line is included; End.Col is exclusive on that line.
type Boundary struct {
	Start Position `yaml:"start" json:"start"`
	End   Position `yaml:"end" json:"end"`
}

// NewBoundary creates a Boundary from line/col pairs.
func NewBoundary(startLine, startCol, endLine, endCol int) Boundary {
	return Boundary{
		Start: Position{Line: startLine, Col: startCol},
		End:   Position{Line: endLine, Col: endCol},
	}
}

// String returns a human-readable representation of the boundary.
func (b Boundary) String() string {
	return fmt.Sprintf("[%s-%s)", b.Start, b.End)
}

// IsZero returns true if b is the zero Boundary, meaning no boundary is set.
func (b Boundary) IsZero() bool {
	return b == Boundary{}
}

// IsValid returns true if both positions are in range and Start <= End.
func (b Boundary) IsValid() bool {
	if b.Start.Line < 1 || b.End.Line < 1 || b.Start.Col < 0 || b.End.Col < 0 {
		return false
	}
	return !b.Start.After(b.End)
}

// Equal reports whether b and other match on all four coordinates.
func (b Boundary) Equal(other Boundary) bool {
	return b.Start.Line == other.Start.Line &&
		b.Start.Col == other.Start.Col &&
		b.End.Line == other.End.Line &&
		b.End.Col == other.End.Col
}

// Rows returns the 0-indexed half-open row range [first, last) covered by b.
func (b Boundary) Rows() (first, last int) {
	return b.Start.Line - 1, b.End.Line
}

// RowsOverlap returns true if the row ranges of b and other intersect.
func (b Boundary) RowsOverlap(other Boundary) bool {
	bf, bl := b.Rows()
	of, ol := other.Rows()
	return bf < ol && of < bl
}

// CheckAgainst verifies that b addresses text that exists in lines.
// lines is the document split on "\n".
func (b Boundary) CheckAgainst(lines []string) error {
	if !b.IsValid() {
		return &BoundaryError{Boundary: b, Reason: "start after end or negative coordinate", Err: ErrMalformedBoundary}
	}
	if b.End.Line > len(lines) {
		return &BoundaryError{
			Boundary: b,
			Reason:   fmt.Sprintf("end line %d beyond document of %d lines", b.End.Line, len(lines)),
			Err:      ErrMalformedBoundary,
		}
	}
	if n := ColumnCount(lines[b.Start.Line-1]); b.Start.Col > n {
		return &BoundaryError{
			Boundary: b,
			Reason:   fmt.Sprintf("start col %d beyond line length %d", b.Start.Col, n),
			Err:      ErrMalformedBoundary,
		}
	}
	if n := ColumnCount(lines[b.End.Line-1]); b.End.Col > n {
		return &BoundaryError{
			Boundary: b,
			Reason:   fmt.Sprintf("end col %d beyond line length %d", b.End.Col, n),
			Err:      ErrMalformedBoundary,
		}
	}
	return nil
}

// BoundariesEqual reports whether a and b are structurally equal.
func BoundariesEqual(a, b Boundary) bool {
	return a.Equal(b)
}

// SplitLines splits a document into lines on "\n".
// The terminators are not retained; a trailing newline yields a final empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

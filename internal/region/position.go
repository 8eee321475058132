package region

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Position is a line and column location in a document.
// Line is 1-indexed. Col is a 0-indexed character offset within the line,
// where a character is a user-perceived grapheme cluster.
type Position struct {
	Line int `yaml:"line" json:"line"`
	Col  int `yaml:"col" json:"col"`
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// ColumnCount returns the number of characters in s.
func ColumnCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// SplitAtColumn splits s before the character at col.
// A col past the end of s returns s and an empty tail.
func SplitAtColumn(s string, col int) (head, tail string) {
	if col <= 0 {
		return "", s
	}
	rest := s
	state := -1
	for n := 0; n < col && rest != ""; n++ {
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	cut := len(s) - len(rest)
	return s[:cut], s[cut:]
}

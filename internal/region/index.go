package region

import (
	"errors"
	"sort"
	"strings"
)

// KeySeparator separates the group and item parts of a Key.
const KeySeparator = "@"

// Key identifies a region, in the form "<group>@<name>".
type Key string

// Split returns the group and item parts of the key.
// A key without a separator yields the whole key as group and an empty item.
func (k Key) Split() (group, item string) {
	group, item, _ = strings.Cut(string(k), KeySeparator)
	return group, item
}

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}

// Entry is a single region in an Index.
type Entry struct {
	Key      Key
	Boundary Boundary
}

// Index maps region keys to boundaries for one document version.
// An Index is immutable; derived orderings are computed once at construction.
type Index struct {
	entries []Entry
	byKey   map[Key]int
	ordered []Key
}

// NewIndex creates an Index from entries, keeping their order as the
// iteration order. A repeated key replaces the earlier boundary in place.
func NewIndex(entries ...Entry) *Index {
	idx := &Index{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[Key]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := idx.byKey[e.Key]; ok {
			idx.entries[i].Boundary = e.Boundary
			continue
		}
		idx.byKey[e.Key] = len(idx.entries)
		idx.entries = append(idx.entries, e)
	}
	idx.ordered = KeysOrderedByStart(idx)
	return idx
}

// NewIndexFromMap creates an Index from a map. Keys are sorted lexically
// first so the iteration order does not depend on map iteration.
func NewIndexFromMap(m map[Key]Boundary) *Index {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Boundary: m[k]})
	}
	return NewIndex(entries...)
}

// Len returns the number of regions.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Lookup returns the boundary for key.
func (idx *Index) Lookup(key Key) (Boundary, bool) {
	if idx == nil {
		return Boundary{}, false
	}
	i, ok := idx.byKey[key]
	if !ok {
		return Boundary{}, false
	}
	return idx.entries[i].Boundary, true
}

// Entries returns a copy of the entries in iteration order.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// OrderedKeys returns the keys sorted by start line.
// The slice is shared; callers must not modify it.
func (idx *Index) OrderedKeys() []Key {
	if idx == nil {
		return nil
	}
	return idx.ordered
}

// KeyFor returns the first key, in start order, whose boundary equals b.
func (idx *Index) KeyFor(b Boundary) (Key, bool) {
	for _, k := range idx.OrderedKeys() {
		if idx.entries[idx.byKey[k]].Boundary.Equal(b) {
			return k, true
		}
	}
	return "", false
}

// WithBoundary returns a new Index where key maps to b.
// If key is not present it is appended.
func (idx *Index) WithBoundary(key Key, b Boundary) *Index {
	entries := idx.Entries()
	return NewIndex(append(entries, Entry{Key: key, Boundary: b})...)
}

// Validate checks every boundary against text and checks that no two
// regions share a row. All problems found are joined into one error.
func (idx *Index) Validate(text string) error {
	if idx.Len() == 0 {
		return nil
	}
	lines := SplitLines(text)

	var errs []error
	for _, e := range idx.entries {
		if e.Key == "" {
			errs = append(errs, &BoundaryError{Boundary: e.Boundary, Reason: "missing key", Err: ErrEmptyKey})
			continue
		}
		if err := e.Boundary.CheckAgainst(lines); err != nil {
			var be *BoundaryError
			if errors.As(err, &be) {
				be.Key = e.Key
			}
			errs = append(errs, err)
		}
	}

	// widest is the region reaching furthest down so far.
	var widest Key
	for i, k := range idx.ordered {
		cur, _ := idx.Lookup(k)
		if i > 0 {
			prev, _ := idx.Lookup(widest)
			if prev.RowsOverlap(cur) {
				errs = append(errs, &OverlapError{First: widest, Second: k})
			}
			if prev.End.Line >= cur.End.Line {
				continue
			}
		}
		widest = k
	}

	return errors.Join(errs...)
}

// KeysOrderedByStart returns the keys of idx sorted ascending by start line.
// Keys with equal start lines keep their iteration order.
func KeysOrderedByStart(idx *Index) []Key {
	if idx.Len() == 0 {
		return []Key{}
	}
	entries := make([]Entry, len(idx.entries))
	copy(entries, idx.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Boundary.Start.Line < entries[j].Boundary.Start.Line
	})

	keys := make([]Key, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

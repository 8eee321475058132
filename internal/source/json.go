package source

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/storysource/internal/region"
)

// LoadRegionsJSON parses a regions object from data, keeping key order.
// Boundaries may use "start"/"end" or the "startLoc"/"endLoc" names of
// story locations maps.
func LoadRegionsJSON(data []byte) (*region.Index, error) {
	return decodeRegionsJSON("", data)
}

func decodeRegionsJSON(path string, data []byte) (*region.Index, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return region.NewIndex(), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: malformed JSON", ErrInvalidRegions)}
	}

	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return region.NewIndex(), nil
	}
	if !root.IsObject() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: expected an object", ErrInvalidRegions)}
	}

	var (
		entries []region.Entry
		seen    = make(map[string]bool)
		err     error
	)
	root.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		switch {
		case key == "":
			err = &ParseError{Path: path, Err: region.ErrEmptyKey}
		case seen[key]:
			err = &ParseError{Path: path, Err: fmt.Errorf("%w: %q", ErrDuplicateRegion, key)}
		default:
			var b region.Boundary
			if b, err = jsonBoundary(path, key, v); err == nil {
				seen[key] = true
				entries = append(entries, region.Entry{Key: region.Key(key), Boundary: b})
			}
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return region.NewIndex(entries...), nil
}

func jsonBoundary(path, key string, v gjson.Result) (region.Boundary, error) {
	start, end := v.Get("start"), v.Get("end")
	if !start.Exists() && !end.Exists() {
		start, end = v.Get("startLoc"), v.Get("endLoc")
	}

	var b region.Boundary
	fields := []struct {
		src gjson.Result
		dst *int
	}{
		{start.Get("line"), &b.Start.Line},
		{start.Get("col"), &b.Start.Col},
		{end.Get("line"), &b.End.Line},
		{end.Get("col"), &b.End.Col},
	}
	for _, f := range fields {
		if f.src.Type != gjson.Number {
			return region.Boundary{}, &ParseError{Path: path, Err: fmt.Errorf("%w: %q: missing or non-numeric position", ErrInvalidRegions, key)}
		}
		*f.dst = int(f.src.Int())
	}

	if !b.IsValid() {
		return region.Boundary{}, &ParseError{
			Path: path,
			Err:  &region.BoundaryError{Key: region.Key(key), Boundary: b, Reason: "in regions file", Err: region.ErrMalformedBoundary},
		}
	}
	return b, nil
}

// MarshalRegionsJSON encodes idx as a regions object in index order.
func MarshalRegionsJSON(idx *region.Index) ([]byte, error) {
	out := []byte("{}")
	for _, e := range idx.Entries() {
		var err error
		out, err = sjson.SetBytes(out, escapePath(string(e.Key)), map[string]any{
			"start": map[string]int{"line": e.Boundary.Start.Line, "col": e.Boundary.Start.Col},
			"end":   map[string]int{"line": e.Boundary.End.Line, "col": e.Boundary.End.Col},
		})
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", e.Key, err)
		}
	}
	return pretty.Pretty(out), nil
}

// escapePath escapes the path syntax characters of sjson in a key.
func escapePath(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

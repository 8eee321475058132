package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/storysource/internal/region"
)

// LoadRegions parses a regions mapping from r. The index keeps the order
// of the keys in the input. Empty input yields an empty index.
func LoadRegions(r io.Reader) (*region.Index, error) {
	return decodeRegions("", r)
}

// LoadRegionsFile parses the regions file at path. Files ending in .json
// are read as JSON and everything else as YAML.
func LoadRegionsFile(path string) (*region.Index, error) {
	if isJSON(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening regions: %w", err)
		}
		return decodeRegionsJSON(path, data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening regions: %w", err)
	}
	defer f.Close()

	return decodeRegions(path, f)
}

// EncodeRegionsFile encodes idx in the format LoadRegionsFile reads for path.
func EncodeRegionsFile(path string, idx *region.Index) ([]byte, error) {
	if isJSON(path) {
		return MarshalRegionsJSON(idx)
	}
	var buf bytes.Buffer
	if err := MarshalRegions(&buf, idx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func decodeRegions(path string, r io.Reader) (*region.Index, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return region.NewIndex(), nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return region.NewIndex(), nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return region.NewIndex(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Line: root.Line, Err: fmt.Errorf("%w: expected a mapping", ErrInvalidRegions)}
	}

	entries := make([]region.Entry, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]

		key := keyNode.Value
		if key == "" {
			return nil, &ParseError{Path: path, Line: keyNode.Line, Err: region.ErrEmptyKey}
		}
		if seen[key] {
			return nil, &ParseError{Path: path, Line: keyNode.Line, Err: fmt.Errorf("%w: %q", ErrDuplicateRegion, key)}
		}
		seen[key] = true

		var b region.Boundary
		if err := valNode.Decode(&b); err != nil {
			return nil, &ParseError{Path: path, Line: valNode.Line, Err: fmt.Errorf("%w: %q: %v", ErrInvalidRegions, key, err)}
		}
		if !b.IsValid() {
			return nil, &ParseError{
				Path: path,
				Line: valNode.Line,
				Err:  &region.BoundaryError{Key: region.Key(key), Boundary: b, Reason: "in regions file", Err: region.ErrMalformedBoundary},
			}
		}
		entries = append(entries, region.Entry{Key: region.Key(key), Boundary: b})
	}
	return region.NewIndex(entries...), nil
}

// MarshalRegions writes idx as a regions mapping in index order.
func MarshalRegions(w io.Writer, idx *region.Index) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range idx.Entries() {
		var val yaml.Node
		if err := val.Encode(e.Boundary); err != nil {
			return fmt.Errorf("encoding %q: %w", e.Key, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(e.Key)},
			&val,
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("writing regions: %w", err)
	}
	return enc.Close()
}

package source

import (
	"fmt"
	"os"

	"github.com/dshills/storysource/internal/panel"
	"github.com/dshills/storysource/internal/region"
)

// Document names the files that make up a story document and the region
// that should be active when it is shown.
type Document struct {
	// TextPath is the story source file.
	TextPath string

	// RegionsPath is the YAML regions file. Empty means no regions.
	RegionsPath string

	// ActiveKey is the key of the active region. Empty means none.
	ActiveKey region.Key
}

// Paths returns the files the document is read from.
func (d Document) Paths() []string {
	paths := []string{d.TextPath}
	if d.RegionsPath != "" {
		paths = append(paths, d.RegionsPath)
	}
	return paths
}

// Load reads the document from disk.
func (d Document) Load() (panel.DocumentReplaced, error) {
	return LoadDocument(d.TextPath, d.RegionsPath, d.ActiveKey)
}

// LoadDocument reads the text at textPath and the regions at regionsPath
// and resolves activeKey to the active boundary.
func LoadDocument(textPath, regionsPath string, activeKey region.Key) (panel.DocumentReplaced, error) {
	data, err := os.ReadFile(textPath)
	if err != nil {
		return panel.DocumentReplaced{}, fmt.Errorf("reading source: %w", err)
	}

	idx := region.NewIndex()
	if regionsPath != "" {
		idx, err = LoadRegionsFile(regionsPath)
		if err != nil {
			return panel.DocumentReplaced{}, err
		}
	}

	msg := panel.DocumentReplaced{Text: string(data), Regions: idx}
	if activeKey != "" {
		b, ok := idx.Lookup(activeKey)
		if !ok {
			return panel.DocumentReplaced{}, fmt.Errorf("%w: active %q", panel.ErrUnknownRegion, activeKey)
		}
		msg.Active = b
	}
	return msg, nil
}

package partition

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/region"
)

// numberedLines returns n lines "line 1".."line n", each carrying classes.
func numberedLines(n int) []highlight.Line {
	lines := make([]highlight.Line, n)
	for i := range lines {
		lines[i] = highlight.Line{
			Number:  i + 1,
			Text:    fmt.Sprintf("line %d", i+1),
			Classes: []string{"token", "k"},
		}
	}
	return lines
}

// shape summarises a segment for comparison.
type shape struct {
	Kind   Kind
	Key    region.Key
	Texts  []string
	Active bool
}

func shapes(segments []Segment) []shape {
	out := make([]shape, len(segments))
	for i, s := range segments {
		out[i] = shape{Kind: s.Kind, Key: s.Key, Texts: highlight.Texts(s.Lines), Active: s.Active}
	}
	return out
}

func TestPartitionEmptyIndex(t *testing.T) {
	lines := numberedLines(4)

	for _, idx := range []*region.Index{nil, region.NewIndex()} {
		segments := Partition(lines, idx, region.Boundary{})
		require.Len(t, segments, 1)
		assert.Equal(t, KindUnassigned, segments[0].Kind)
		assert.Equal(t, highlight.Texts(lines), highlight.Texts(segments[0].Lines))
	}
}

func TestPartitionTwoRegions(t *testing.T) {
	lines := numberedLines(7)
	first := region.NewBoundary(2, 0, 3, 4)
	second := region.NewBoundary(5, 2, 6, 1)
	idx := region.NewIndex(
		region.Entry{Key: "Button@second", Boundary: second},
		region.Entry{Key: "Button@first", Boundary: first},
	)

	got := shapes(Partition(lines, idx, second))
	want := []shape{
		{Kind: KindUnassigned, Texts: []string{"line 1"}},
		{Kind: KindRegion, Key: "Button@first", Texts: []string{"line 2", "line 3"}},
		{Kind: KindUnassigned, Texts: []string{"line 4"}},
		{Kind: KindRegion, Key: "Button@second", Texts: []string{"line 5", "line 6"}, Active: true},
		{Kind: KindUnassigned, Texts: []string{"line 7"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Partition() mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionAdjacentRegionsAtEdges(t *testing.T) {
	lines := numberedLines(4)
	idx := region.NewIndex(
		region.Entry{Key: "a@1", Boundary: region.NewBoundary(1, 0, 2, 0)},
		region.Entry{Key: "b@2", Boundary: region.NewBoundary(3, 0, 4, 3)},
	)

	segments := Partition(lines, idx, region.Boundary{})
	require.Len(t, segments, 5)

	assert.Empty(t, segments[0].Lines, "leading unassigned span")
	assert.Empty(t, segments[2].Lines, "span between adjacent regions")
	assert.Empty(t, segments[4].Lines, "trailing unassigned span")
	assert.Equal(t, "0-2", segments[1].ID())
	assert.Equal(t, "2-4", segments[3].ID())

	_, ok := ActiveSegment(segments)
	assert.False(t, ok, "zero boundary matches no region")
}

func TestPartitionReconstructsInput(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		entries []region.Entry
	}{
		{"no regions", 5, nil},
		{"single line region", 3, []region.Entry{
			{Key: "a@1", Boundary: region.NewBoundary(2, 0, 2, 3)},
		}},
		{"whole document", 3, []region.Entry{
			{Key: "a@1", Boundary: region.NewBoundary(1, 0, 3, 6)},
		}},
		{"many", 12, []region.Entry{
			{Key: "c@3", Boundary: region.NewBoundary(9, 0, 11, 0)},
			{Key: "a@1", Boundary: region.NewBoundary(1, 0, 1, 0)},
			{Key: "b@2", Boundary: region.NewBoundary(4, 0, 6, 0)},
			{Key: "d@4", Boundary: region.NewBoundary(12, 0, 12, 2)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := numberedLines(tt.n)
			idx := region.NewIndex(tt.entries...)
			segments := Partition(lines, idx, region.Boundary{})

			got := Lines(segments)
			assert.Equal(t, highlight.Texts(lines), highlight.Texts(got))
			assert.Len(t, segments, 2*idx.Len()+1)
		})
	}
}

func TestPartitionAtMostOneActive(t *testing.T) {
	lines := numberedLines(6)
	shared := region.NewBoundary(2, 0, 2, 4)
	idx := region.NewIndex(
		region.Entry{Key: "a@1", Boundary: shared},
		region.Entry{Key: "b@2", Boundary: shared},
		region.Entry{Key: "c@3", Boundary: region.NewBoundary(4, 0, 5, 0)},
	)

	segments := Partition(lines, idx, shared)
	active := 0
	for _, s := range segments {
		if s.Active {
			active++
			assert.Equal(t, region.Key("a@1"), s.Key)
		}
	}
	assert.Equal(t, 1, active)
}

func TestPartitionStripsClasses(t *testing.T) {
	lines := numberedLines(5)
	idx := region.NewIndex(region.Entry{Key: "a@1", Boundary: region.NewBoundary(2, 0, 3, 0)})

	for _, s := range Partition(lines, idx, region.Boundary{}) {
		for _, l := range s.Lines {
			assert.NotNil(t, l.Classes)
			assert.Empty(t, l.Classes, "line %d", l.Number)
		}
	}

	for _, l := range lines {
		assert.Equal(t, []string{"token", "k"}, l.Classes, "input must not be modified")
	}
}

func TestPartitionOverlapDoesNotPanic(t *testing.T) {
	lines := numberedLines(6)
	idx := region.NewIndex(
		region.Entry{Key: "a@1", Boundary: region.NewBoundary(2, 0, 4, 0)},
		region.Entry{Key: "b@2", Boundary: region.NewBoundary(3, 0, 5, 0)},
		region.Entry{Key: "c@3", Boundary: region.NewBoundary(5, 0, 9, 0)},
	)

	segments := Partition(lines, idx, region.Boundary{})
	require.Len(t, segments, 7)

	got := highlight.Texts(Lines(segments))
	assert.Equal(t, highlight.Texts(lines), got, "clamped slices never repeat a line")
}

func TestPartitionKeepsTokens(t *testing.T) {
	tok := highlight.NewChromaTokenizer("jsx")
	text := strings.Join([]string{
		"import React from 'react';",
		"storiesOf('Button', module)",
		"  .add('with text', () => <Button>Hello</Button>);",
	}, "\n")
	lines, err := tok.Tokenize(text)
	require.NoError(t, err)

	b := region.NewBoundary(3, 2, 3, 51)
	idx := region.NewIndex(region.Entry{Key: "Button@with text", Boundary: b})
	segments := Partition(lines, idx, b)

	active, ok := ActiveSegment(segments)
	require.True(t, ok)
	want := lines[2].Tokens
	if diff := cmp.Diff(want, active.Lines[0].Tokens, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tokens changed (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unassigned", KindUnassigned.String())
	assert.Equal(t, "region", KindRegion.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/storysource/internal/region"
)

const regionsJSON = `{
  "Button@with text": {"start": {"line": 3, "col": 26}, "end": {"line": 3, "col": 48}},
  "Button@another": {"start": {"line": 1, "col": 0}, "end": {"line": 1, "col": 4}},
  "Button@with emoji": {"start": {"line": 4, "col": 27}, "end": {"line": 4, "col": 45}}
}`

func TestLoadRegionsJSON(t *testing.T) {
	t.Run("keeps file order", func(t *testing.T) {
		idx, err := LoadRegionsJSON([]byte(regionsJSON))
		require.NoError(t, err)

		var keys []region.Key
		for _, e := range idx.Entries() {
			keys = append(keys, e.Key)
		}
		assert.Equal(t, []region.Key{"Button@with text", "Button@another", "Button@with emoji"}, keys)

		b, ok := idx.Lookup("Button@with text")
		require.True(t, ok)
		assert.Equal(t, region.NewBoundary(3, 26, 3, 48), b)
	})

	t.Run("locations map names", func(t *testing.T) {
		in := `{"button--with-text": {"startLoc": {"col": 26, "line": 3}, "endLoc": {"col": 48, "line": 3}}}`
		idx, err := LoadRegionsJSON([]byte(in))
		require.NoError(t, err)
		b, ok := idx.Lookup("button--with-text")
		require.True(t, ok)
		assert.Equal(t, region.NewBoundary(3, 26, 3, 48), b)
	})

	t.Run("empty input", func(t *testing.T) {
		for _, in := range []string{"", " \n", "null", "{}"} {
			idx, err := LoadRegionsJSON([]byte(in))
			require.NoError(t, err, "%q", in)
			assert.Equal(t, 0, idx.Len())
		}
	})

	tests := []struct {
		name string
		in   string
		want error
	}{
		{"malformed", `{"a@b": `, ErrInvalidRegions},
		{"not an object", `["a", "b"]`, ErrInvalidRegions},
		{"missing position", `{"a@b": {"start": {"line": 1}}}`, ErrInvalidRegions},
		{"string position", `{"a@b": {"start": {"line": "1", "col": 0}, "end": {"line": 1, "col": 1}}}`, ErrInvalidRegions},
		{"start after end", `{"a@b": {"start": {"line": 2, "col": 0}, "end": {"line": 1, "col": 0}}}`, region.ErrMalformedBoundary},
		{"duplicate", `{"a@b": {"start": {"line": 1, "col": 0}, "end": {"line": 1, "col": 1}}, "a@b": {"start": {"line": 2, "col": 0}, "end": {"line": 2, "col": 1}}}`, ErrDuplicateRegion},
		{"empty key", `{"": {"start": {"line": 1, "col": 0}, "end": {"line": 1, "col": 1}}}`, region.ErrEmptyKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegionsJSON([]byte(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMarshalRegionsJSON(t *testing.T) {
	idx := region.NewIndex(
		region.Entry{Key: "Button@with text", Boundary: region.NewBoundary(3, 26, 3, 48)},
		region.Entry{Key: "a.b@c*d", Boundary: region.NewBoundary(1, 0, 2, 4)},
	)

	data, err := MarshalRegionsJSON(idx)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"Button@with text", "a.b@c*d"}, keys)

	back, err := LoadRegionsJSON(data)
	require.NoError(t, err)
	assert.Equal(t, idx.Entries(), back.Entries())
}

func TestRegionsFileFormat(t *testing.T) {
	dir := t.TempDir()
	idx := region.NewIndex(
		region.Entry{Key: "Button@with text", Boundary: region.NewBoundary(3, 26, 3, 48)},
	)

	for _, name := range []string{"regions.json", "regions.JSON", "regions.yaml", "regions"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			data, err := EncodeRegionsFile(path, idx)
			require.NoError(t, err)
			assert.Equal(t, isJSON(path), gjson.ValidBytes(data) && data[0] == '{')
			require.NoError(t, os.WriteFile(path, data, 0o644))

			back, err := LoadRegionsFile(path)
			require.NoError(t, err)
			assert.Equal(t, idx.Entries(), back.Entries())
		})
	}
}

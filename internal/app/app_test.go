package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/storysource/internal/region"
	"github.com/dshills/storysource/internal/source"
)

const storyText = "import React from 'react';\n" +
	"storiesOf('Button', module)\n" +
	"  .add('with text', () => <Button>Hello</Button>)\n" +
	"  .add('with emoji', () => <Button>X</Button>);"

const regionsYAML = `"Button@with text":
  start: {line: 3, col: 26}
  end: {line: 3, col: 48}
"Button@with emoji":
  start: {line: 4, col: 27}
  end: {line: 4, col: 45}
`

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		ConfigPath:  filepath.Join(dir, "storysource.toml"),
		SourcePath:  filepath.Join(dir, "Button.stories.js"),
		RegionsPath: filepath.Join(dir, "Button.regions.yaml"),
		Active:      "Button@with text",
		LogLevel:    "none",
	}
	off := false
	opts.Color = &off
	require.NoError(t, os.WriteFile(opts.SourcePath, []byte(storyText), 0o644))
	require.NoError(t, os.WriteFile(opts.RegionsPath, []byte(regionsYAML), 0o644))
	return opts
}

func newApp(t *testing.T, opts Options, out *syncBuffer) *Application {
	t.Helper()
	a, err := New(opts, out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func activeLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, ">") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestNew(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, err := New(Options{}, &syncBuffer{})
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("bad log level", func(t *testing.T) {
		opts := testOptions(t)
		opts.LogLevel = "loud"
		_, err := New(opts, &syncBuffer{})
		var oe *OperationError
		assert.ErrorAs(t, err, &oe)
	})

	t.Run("config file", func(t *testing.T) {
		opts := testOptions(t)
		require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("[splice]\nexactEndColumn = true\n"), 0o644))
		a := newApp(t, opts, &syncBuffer{})
		assert.True(t, a.Config().Splice.ExactEndColumn)
		assert.Equal(t, "none", a.Config().Log.Level)
	})
}

func TestRun(t *testing.T) {
	var out syncBuffer
	a := newApp(t, testOptions(t), &out)

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, []string{
		">     [Button@with text]",
		">   3 |   .add('with text', () => <Button>Hello</Button>)",
	}, activeLines(out.String()))
	assert.Contains(t, out.String(), "      [Button@with emoji]")
}

func TestRunMissingActive(t *testing.T) {
	opts := testOptions(t)
	opts.Active = "Button@nope"
	a := newApp(t, opts, &syncBuffer{})

	err := a.Run(context.Background())
	var oe *OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "load", oe.Op)
}

func TestRunSelect(t *testing.T) {
	opts := testOptions(t)
	opts.Select = "Button@with emoji"

	var out syncBuffer
	a := newApp(t, opts, &out)
	require.NoError(t, a.Run(context.Background()))

	key, ok := a.Panel().State().ActiveKey()
	require.True(t, ok)
	assert.Equal(t, region.Key("Button@with emoji"), key)
	assert.Equal(t, []string{
		">     [Button@with emoji]",
		">   4 |   .add('with emoji', () => <Button>X</Button>);",
	}, activeLines(out.String()))
}

func TestRunReplace(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		opts := testOptions(t)
		replacement := "<Button>Hi</Button>"
		opts.Replace = &replacement

		var out syncBuffer
		a := newApp(t, opts, &out)
		require.NoError(t, a.Run(context.Background()))

		assert.Contains(t, out.String(), "  3 |   .add('with text', () => <Button>Hi</Button>)")
		data, err := os.ReadFile(opts.SourcePath)
		require.NoError(t, err)
		assert.Equal(t, storyText, string(data), "nothing written without Write")
	})

	t.Run("write", func(t *testing.T) {
		opts := testOptions(t)
		require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("[splice]\nexactEndColumn = true\n"), 0o644))
		replacement := "<Button>Hi</Button>"
		opts.Replace = &replacement
		opts.Write = true

		a := newApp(t, opts, &syncBuffer{})
		require.NoError(t, a.Run(context.Background()))

		data, err := os.ReadFile(opts.SourcePath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "() => <Button>Hi</Button>)")

		idx, err := source.LoadRegionsFile(opts.RegionsPath)
		require.NoError(t, err)
		b, _ := idx.Lookup("Button@with text")
		assert.Equal(t, region.NewBoundary(3, 26, 3, 45), b)
		b, _ = idx.Lookup("Button@with emoji")
		assert.Equal(t, region.NewBoundary(4, 27, 4, 45), b)
	})

	t.Run("write rejects malformed boundary", func(t *testing.T) {
		opts := testOptions(t)
		replacement := "<Button>Hi</Button>"
		opts.Replace = &replacement
		opts.Write = true

		a := newApp(t, opts, &syncBuffer{})
		err := a.Run(context.Background())
		assert.ErrorIs(t, err, region.ErrMalformedBoundary)

		data, err := os.ReadFile(opts.RegionsPath)
		require.NoError(t, err)
		assert.Equal(t, regionsYAML, string(data))
		data, err = os.ReadFile(opts.SourcePath)
		require.NoError(t, err)
		assert.Equal(t, storyText, string(data), "nothing is written")
	})

	t.Run("no active region", func(t *testing.T) {
		opts := testOptions(t)
		opts.Active = ""
		replacement := "x"
		opts.Replace = &replacement

		a := newApp(t, opts, &syncBuffer{})
		err := a.Run(context.Background())
		assert.ErrorIs(t, err, ErrNoActiveRegion)
	})
}

func TestRunWatch(t *testing.T) {
	opts := testOptions(t)
	opts.Watch = true
	require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("[watch]\ndebounce = \"20ms\"\n"), 0o644))

	var out syncBuffer
	a := newApp(t, opts, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Hello")
	}, 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(storyText, "Hello", "Howdy", 1)
	require.NoError(t, os.WriteFile(opts.SourcePath, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Howdy")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNavigationHook(t *testing.T) {
	const hook = `
function navigate(group, item)
  return "http://localhost:6006/?path=/story/" .. storysource.story_id(group, item)
end
`
	opts := testOptions(t)
	opts.Script = filepath.Join(filepath.Dir(opts.SourcePath), "nav.lua")
	opts.Select = "Button@with emoji"
	require.NoError(t, os.WriteFile(opts.Script, []byte(hook), 0o644))

	var out syncBuffer
	a := newApp(t, opts, &out)
	require.NoError(t, a.Run(context.Background()))

	assert.True(t, strings.HasPrefix(out.String(), "open http://localhost:6006/?path=/story/button--with-emoji\n"), out.String())

	t.Run("bad script", func(t *testing.T) {
		opts := testOptions(t)
		opts.Script = filepath.Join(filepath.Dir(opts.SourcePath), "bad.lua")
		require.NoError(t, os.WriteFile(opts.Script, []byte("function navigate("), 0o644))

		_, err := New(opts, &syncBuffer{})
		var oe *OperationError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, "load script", oe.Op)
	})
}

func TestRunInteractive(t *testing.T) {
	opts := testOptions(t)
	opts.Interactive = true
	a := newApp(t, opts, &syncBuffer{})

	screen := tcell.NewSimulationScreen("UTF-8")
	a.newScreen = func() (tcell.Screen, error) { return screen, nil }

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return a.viewer.Load() != nil
	}, 5*time.Second, 10*time.Millisecond)

	for _, ev := range []tcell.Event{
		tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
	} {
		require.NoError(t, screen.PostEvent(ev))
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}

	key, ok := a.Panel().State().ActiveKey()
	require.True(t, ok)
	assert.Equal(t, region.Key("Button@with emoji"), key)
	assert.Nil(t, a.viewer.Load())
}

func TestOperationError(t *testing.T) {
	err := &OperationError{Op: "write", Target: "a.js", Err: os.ErrPermission}
	assert.Equal(t, "write a.js: permission denied", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "edit", (&OperationError{Op: "edit"}).Error())
}

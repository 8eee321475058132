package view

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/partition"
	"github.com/dshills/storysource/internal/region"
)

// DefaultTint is the default active region tint.
const DefaultTint = 0.12

const tabWidth = 4

// Source supplies the segments the viewer draws.
type Source interface {
	Render() ([]partition.Segment, error)
}

// SelectFunc is called when a region is selected.
type SelectFunc func(ctx context.Context, key region.Key) error

// stopEvent is posted to end Run when its context is done.
type stopEvent struct{}

// row is one screen line: a region header or a document line.
type row struct {
	header bool
	key    region.Key
	active bool
	number int
	line   highlight.Line
}

// Viewer draws a Source on a tcell screen and handles keys.
type Viewer struct {
	screen   tcell.Screen
	src      Source
	onSelect SelectFunc
	style    *chroma.Style
	tint     float64
	log      commonlog.Logger

	rows    []row
	headers []int // indexes of header rows
	cursor  int   // index into headers
	top     int
	gutter  int
	colors  palette

	mu     sync.Mutex
	status string
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithStyle sets the chroma style.
func WithStyle(style *chroma.Style) Option {
	return func(v *Viewer) {
		if style != nil {
			v.style = style
		}
	}
}

// WithTint sets how far the active region background moves toward the
// foreground colour.
func WithTint(t float64) Option {
	return func(v *Viewer) {
		v.tint = t
	}
}

// WithSelect sets the function called when Enter is pressed on a header.
func WithSelect(fn SelectFunc) Option {
	return func(v *Viewer) {
		v.onSelect = fn
	}
}

// WithLogger sets the logger.
func WithLogger(log commonlog.Logger) Option {
	return func(v *Viewer) {
		v.log = log
	}
}

// New creates a viewer for src on an initialized screen.
func New(screen tcell.Screen, src Source, opts ...Option) *Viewer {
	v := &Viewer{
		screen: screen,
		src:    src,
		style:  styles.Fallback,
		tint:   DefaultTint,
		log:    commonlog.GetLogger("storysource.view"),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.colors = newPalette(v.style, v.tint)
	return v
}

// SetStatus sets the message shown in the status line. It takes effect on
// the next draw.
func (v *Viewer) SetStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = msg
}

// Status returns the status message.
func (v *Viewer) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Invalidate asks a running viewer to reload its segments. It is safe to
// call from any goroutine.
func (v *Viewer) Invalidate() {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
}

// Refresh reloads the segments from the source and draws them. The cursor
// stays on the same region when it still exists, and otherwise moves to
// the active region.
func (v *Viewer) Refresh() error {
	segs, err := v.src.Render()
	if err != nil {
		return err
	}

	prev, hadCursor := v.CursorKey()
	v.rows, v.headers = v.rows[:0], v.headers[:0]
	largest := 0
	for _, seg := range segs {
		if seg.IsRegion() {
			v.headers = append(v.headers, len(v.rows))
			v.rows = append(v.rows, row{header: true, key: seg.Key, active: seg.Active})
		}
		for i, line := range seg.Lines {
			n := line.Number
			if n == 0 {
				n = seg.First + i + 1
			}
			largest = max(largest, n)
			v.rows = append(v.rows, row{key: seg.Key, active: seg.Active, number: n, line: line})
		}
	}
	v.gutter = max(3, len(strconv.Itoa(largest)))

	v.cursor = 0
	if !hadCursor || !v.findHeader(func(r row) bool { return r.key == prev }) {
		if active, ok := partition.ActiveSegment(segs); ok {
			v.findHeader(func(r row) bool { return r.key == active.Key })
		}
	}
	v.scrollTo(v.top)
	v.Draw()
	return nil
}

// findHeader moves the cursor to the first header matching fn.
func (v *Viewer) findHeader(fn func(row) bool) bool {
	for i, h := range v.headers {
		if fn(v.rows[h]) {
			v.cursor = i
			return true
		}
	}
	return false
}

// CursorKey returns the key of the header under the cursor.
func (v *Viewer) CursorKey() (region.Key, bool) {
	if len(v.headers) == 0 {
		return "", false
	}
	return v.rows[v.headers[v.cursor]].key, true
}

// Top returns the index of the first visible row.
func (v *Viewer) Top() int {
	return v.top
}

// Draw paints the visible rows and the status line.
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	v.screen.Fill(' ', v.colors.base)

	body := max(h-1, 0)
	for y := 0; y < body && v.top+y < len(v.rows); y++ {
		v.drawRow(y, w, v.top+y)
	}
	if h > 0 {
		v.drawStatus(h-1, w)
	}
	v.screen.Show()
}

func (v *Viewer) drawRow(y, w, i int) {
	r := v.rows[i]
	bg := v.colors.base
	if r.active {
		bg = v.colors.active
	}
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, bg)
	}

	marker := " "
	if r.active {
		marker = ">"
	}

	if r.header {
		st := bg.Bold(true)
		if v.headers[v.cursor] == i {
			st = st.Reverse(true)
		}
		x := v.put(0, y, w, marker+" "+strings.Repeat(" ", v.gutter)+" ", bg)
		v.put(x, y, w, "["+string(r.key)+"]", st)
		return
	}

	num := strconv.Itoa(r.number)
	x := v.put(0, y, w, marker+" ", bg)
	x = v.put(x, y, w, strings.Repeat(" ", v.gutter-len(num))+num, v.colors.gutter.Background(bgColor(bg)))
	x = v.put(x, y, w, " | ", bg)

	if len(r.line.Tokens) == 0 {
		v.put(x, y, w, r.line.Text, bg)
		return
	}
	for _, tok := range r.line.Tokens {
		x = v.put(x, y, w, tok.Value, v.colors.token(tok.Type, bg))
	}
}

func (v *Viewer) drawStatus(y, w int) {
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, v.colors.status)
	}
	left := v.Status()
	if key, ok := v.CursorKey(); ok && left == "" {
		left = string(key)
	}
	v.put(0, y, w, " "+left, v.colors.status)

	help := "q quit  n/p region  enter select "
	if hw := uniseg.StringWidth(help); hw < w-uniseg.StringWidth(left)-2 {
		v.put(w-hw, y, w, help, v.colors.status)
	}
}

// put draws s from column x, clipped at w, and returns the next column.
func (v *Viewer) put(x, y, w int, s string, st tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() && x < w {
		runes := gr.Runes()
		if runes[0] == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		width := gr.Width()
		if width == 0 {
			continue
		}
		v.screen.SetContent(x, y, runes[0], runes[1:], st)
		x += width
	}
	return x
}

func bgColor(st tcell.Style) tcell.Color {
	_, bg, _ := st.Decompose()
	return bg
}

// HandleEvent processes one event and reports whether the viewer should
// quit.
func (v *Viewer) HandleEvent(ctx context.Context, ev tcell.Event) (bool, error) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ctx, e)
	case *tcell.EventResize:
		v.screen.Sync()
		v.scrollTo(v.top)
		v.Draw()
	case *tcell.EventInterrupt:
		if err := v.Refresh(); err != nil {
			v.SetStatus(err.Error())
			v.Draw()
		}
	}
	return false, nil
}

func (v *Viewer) handleKey(ctx context.Context, ev *tcell.EventKey) (bool, error) {
	page := v.pageHeight()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyUp:
		v.scrollTo(v.top - 1)
	case tcell.KeyDown:
		v.scrollTo(v.top + 1)
	case tcell.KeyPgUp:
		v.scrollTo(v.top - page)
	case tcell.KeyPgDn:
		v.scrollTo(v.top + page)
	case tcell.KeyHome:
		v.scrollTo(0)
	case tcell.KeyEnd:
		v.scrollTo(len(v.rows))
	case tcell.KeyTab:
		v.moveCursor(1)
	case tcell.KeyBacktab:
		v.moveCursor(-1)
	case tcell.KeyEnter:
		return false, v.selectCursor(ctx)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true, nil
		case 'k':
			v.scrollTo(v.top - 1)
		case 'j':
			v.scrollTo(v.top + 1)
		case 'g':
			v.scrollTo(0)
		case 'G':
			v.scrollTo(len(v.rows))
		case 'n':
			v.moveCursor(1)
		case 'p':
			v.moveCursor(-1)
		default:
			return false, nil
		}
	default:
		return false, nil
	}
	v.Draw()
	return false, nil
}

func (v *Viewer) pageHeight() int {
	_, h := v.screen.Size()
	return max(h-1, 1)
}

// scrollTo sets the first visible row, clamped so the last page is full.
func (v *Viewer) scrollTo(top int) {
	top = min(top, len(v.rows)-v.pageHeight())
	v.top = max(top, 0)
}

// moveCursor moves the header cursor by delta, wrapping, and scrolls the
// header into view.
func (v *Viewer) moveCursor(delta int) {
	n := len(v.headers)
	if n == 0 {
		return
	}
	v.cursor = ((v.cursor+delta)%n + n) % n
	h := v.headers[v.cursor]
	if h < v.top || h >= v.top+v.pageHeight() {
		v.scrollTo(h)
	}
	v.SetStatus("")
}

func (v *Viewer) selectCursor(ctx context.Context) error {
	key, ok := v.CursorKey()
	if !ok || v.onSelect == nil {
		return nil
	}
	if err := v.onSelect(ctx, key); err != nil {
		v.log.Errorf("selecting %s: %s", key, err)
		v.SetStatus(err.Error())
		v.Draw()
		return nil
	}
	return v.Refresh()
}

// Run draws the source and handles events until a quit key is pressed or
// ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.Refresh(); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(stopEvent{}))
		case <-stop:
		}
	}()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ie, ok := ev.(*tcell.EventInterrupt); ok {
			if _, done := ie.Data().(stopEvent); done {
				return nil
			}
		}
		quit, err := v.HandleEvent(ctx, ev)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

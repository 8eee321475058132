package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/storysource/internal/highlight"
	"github.com/dshills/storysource/internal/partition"
)

// Markers printed in the first column.
const (
	MarkerActive   = ">"
	MarkerInactive = " "
)

// DefaultStyle is the chroma style used when colour is enabled.
const DefaultStyle = "monokai"

// Renderer writes segments to an io.Writer.
type Renderer struct {
	w        io.Writer
	color    bool
	style    *chroma.Style
	minWidth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor forces colour on or off.
func WithColor(on bool) Option {
	return func(r *Renderer) {
		r.color = on
	}
}

// WithStyle sets the chroma style by name.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.style = Style(name)
		}
	}
}

// WithMinGutterWidth sets the minimum width of the line number gutter.
func WithMinGutterWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.minWidth = n
		}
	}
}

// New creates a renderer writing to w. Colour is on when w is a terminal.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:        w,
		color:    IsTerminal(w),
		style:    Style(DefaultStyle),
		minWidth: 3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes every segment in order.
func (r *Renderer) Render(segments []partition.Segment) error {
	bw := bufio.NewWriter(r.w)
	width := r.gutterWidth(segments)

	for _, seg := range segments {
		marker := MarkerInactive
		if seg.Active {
			marker = MarkerActive
		}

		if seg.IsRegion() {
			if _, err := fmt.Fprintf(bw, "%s %s [%s]\n", marker, strings.Repeat(" ", width), seg.Key); err != nil {
				return err
			}
		}

		for i, line := range seg.Lines {
			num := line.Number
			if num == 0 {
				num = seg.First + i + 1
			}
			if _, err := fmt.Fprintf(bw, "%s %s | %s\n", marker, padLeft(strconv.Itoa(num), width), r.text(line)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// text returns the line content, coloured when enabled and tokens exist.
func (r *Renderer) text(line highlight.Line) string {
	if !r.color || len(line.Tokens) == 0 {
		return line.Text
	}
	var sb strings.Builder
	for _, tok := range line.Tokens {
		sb.WriteString(paint(r.style, tok.Type, tok.Value))
	}
	return sb.String()
}

// gutterWidth returns the display width of the largest line number.
func (r *Renderer) gutterWidth(segments []partition.Segment) int {
	largest := 0
	for _, seg := range segments {
		for i, line := range seg.Lines {
			n := line.Number
			if n == 0 {
				n = seg.First + i + 1
			}
			largest = max(largest, n)
		}
	}
	return max(r.minWidth, uniseg.StringWidth(strconv.Itoa(largest)))
}

// padLeft right-aligns s within width display cells.
func padLeft(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

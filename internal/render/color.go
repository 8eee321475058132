package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/term"
)

const ansiReset = "\x1b[0m"

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Style returns the chroma style called name, or the fallback style.
func Style(name string) *chroma.Style {
	return styles.Get(name)
}

// ansi returns the escape sequence that selects entry, or "" if the entry
// sets nothing.
func ansi(entry chroma.StyleEntry) string {
	var codes []string
	if entry.Bold == chroma.Yes {
		codes = append(codes, "1")
	}
	if entry.Italic == chroma.Yes {
		codes = append(codes, "3")
	}
	if entry.Underline == chroma.Yes {
		codes = append(codes, "4")
	}
	if entry.Colour.IsSet() {
		c := entry.Colour
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", c.Red(), c.Green(), c.Blue()))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// paint wraps s in the escape sequence for t under style.
func paint(style *chroma.Style, t chroma.TokenType, s string) string {
	seq := ansi(style.Get(t))
	if seq == "" || s == "" {
		return s
	}
	return seq + s + ansiReset
}

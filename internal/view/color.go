package view

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// palette holds the tcell styles derived from a chroma style.
type palette struct {
	chroma *chroma.Style
	base   tcell.Style
	active tcell.Style
	gutter tcell.Style
	status tcell.Style
}

func newPalette(style *chroma.Style, tint float64) palette {
	bgEntry := style.Get(chroma.Background)
	fg := toColorful(bgEntry.Colour, colorful.Color{R: 0.9, G: 0.9, B: 0.9})
	bg := toColorful(bgEntry.Background, colorful.Color{})

	base := tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(bg))
	gutter := base
	if e := style.Get(chroma.LineNumbers); e.Colour.IsSet() {
		gutter = gutter.Foreground(toTcell(toColorful(e.Colour, fg)))
	}

	return palette{
		chroma: style,
		base:   base,
		active: base.Background(toTcell(bg.BlendLab(fg, tint).Clamped())),
		gutter: gutter,
		status: base.Reverse(true),
	}
}

// token returns the style for a token of type t over background.
func (p palette) token(t chroma.TokenType, background tcell.Style) tcell.Style {
	e := p.chroma.Get(t)
	st := background
	if e.Colour.IsSet() {
		st = st.Foreground(tcell.NewRGBColor(int32(e.Colour.Red()), int32(e.Colour.Green()), int32(e.Colour.Blue())))
	}
	return st.Bold(e.Bold == chroma.Yes).
		Italic(e.Italic == chroma.Yes).
		Underline(e.Underline == chroma.Yes)
}

func toColorful(c chroma.Colour, fallback colorful.Color) colorful.Color {
	if !c.IsSet() {
		return fallback
	}
	return colorful.Color{
		R: float64(c.Red()) / 255,
		G: float64(c.Green()) / 255,
		B: float64(c.Blue()) / 255,
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

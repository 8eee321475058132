package highlight

import "github.com/alecthomas/chroma/v2"

// Token is a highlighted run of text within one line.
type Token struct {
	// Type is the chroma token type.
	Type chroma.TokenType

	// Value is the token text, without a line terminator.
	Value string
}

// Class returns the short CSS class chroma uses for the token type.
func (t Token) Class() string {
	return chroma.StandardTypes[t.Type]
}

// Line is one renderable line of a tokenized document.
type Line struct {
	// Number is the 1-indexed line number.
	Number int

	// Text is the raw line text, without a terminator.
	Text string

	// Tokens are the highlighted runs making up Text.
	Tokens []Token

	// Classes is the styling metadata attached to the whole line.
	Classes []string
}

// Clone returns a deep copy of the line.
func (l Line) Clone() Line {
	out := l
	if l.Tokens != nil {
		out.Tokens = append([]Token(nil), l.Tokens...)
	}
	if l.Classes != nil {
		out.Classes = append([]string(nil), l.Classes...)
	}
	return out
}

// lineClasses returns the distinct token classes in first-seen order.
func lineClasses(tokens []Token) []string {
	seen := make(map[string]bool, len(tokens))
	classes := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		c := tok.Class()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		classes = append(classes, c)
	}
	return classes
}

// plainLine builds a line holding a single untyped token.
func plainLine(number int, text string) Line {
	var tokens []Token
	if text != "" {
		tokens = []Token{{Type: chroma.Text, Value: text}}
	}
	return Line{Number: number, Text: text, Tokens: tokens, Classes: lineClasses(tokens)}
}

// Texts returns the Text of every line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

package highlight

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/region"
)

// DefaultLanguage is the chroma lexer used when none is configured.
const DefaultLanguage = "jsx"

// Tokenizer turns document text into renderable lines.
// Implementations must return exactly one Line per "\n"-separated line of text.
// A "\r" ending a line belongs to the terminator and is not part of Line.Text.
type Tokenizer interface {
	Tokenize(text string) ([]Line, error)
}

// TokenizerFunc is a function adapter for Tokenizer.
type TokenizerFunc func(text string) ([]Line, error)

// Tokenize implements the Tokenizer interface.
func (f TokenizerFunc) Tokenize(text string) ([]Line, error) {
	return f(text)
}

// PlainTokenizer produces lines without syntax information.
type PlainTokenizer struct{}

// Tokenize implements the Tokenizer interface.
func (PlainTokenizer) Tokenize(text string) ([]Line, error) {
	src := splitLines(text)
	lines := make([]Line, len(src))
	for i, s := range src {
		lines[i] = plainLine(i+1, s)
	}
	return lines, nil
}

// ChromaTokenizer highlights text with a chroma lexer.
// The result for the most recent text is cached.
type ChromaTokenizer struct {
	mu       sync.Mutex
	lexer    chroma.Lexer
	language string
	log      commonlog.Logger

	lastText  string
	lastLines []Line
	cached    bool
}

// NewChromaTokenizer creates a tokenizer for the named language.
// Unknown languages fall back to chroma's plain text lexer.
func NewChromaTokenizer(language string) *ChromaTokenizer {
	log := commonlog.GetLogger("storysource.highlight")
	if language == "" {
		language = DefaultLanguage
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		log.Warningf("no lexer for language %q, using plain text", language)
		lexer = lexers.Fallback
	}

	return &ChromaTokenizer{
		lexer:    chroma.Coalesce(lexer),
		language: lexer.Config().Name,
		log:      log,
	}
}

// Language returns the name of the lexer in use.
func (t *ChromaTokenizer) Language() string {
	return t.language
}

// Tokenize implements the Tokenizer interface.
func (t *ChromaTokenizer) Tokenize(text string) ([]Line, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached && t.lastText == text {
		return cloneLines(t.lastLines), nil
	}

	iterator, err := t.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenizing %s source: %w", t.language, err)
	}

	src := splitLines(text)
	tokenLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	lines := make([]Line, len(src))
	for i, s := range src {
		if i >= len(tokenLines) {
			lines[i] = plainLine(i+1, s)
			continue
		}
		tokens := convertTokens(tokenLines[i])
		lines[i] = Line{
			Number:  i + 1,
			Text:    s,
			Tokens:  tokens,
			Classes: lineClasses(tokens),
		}
	}
	t.log.Debugf("tokenized %d lines as %s", len(lines), t.language)

	t.lastText = text
	t.lastLines = lines
	t.cached = true
	return cloneLines(lines), nil
}

// splitLines splits text like region.SplitLines and strips CRLF terminators,
// which chroma normalizes away before lexing.
func splitLines(text string) []string {
	src := region.SplitLines(text)
	for i, s := range src {
		src[i] = strings.TrimSuffix(s, "\r")
	}
	return src
}

// convertTokens drops line terminators and empty runs.
func convertTokens(toks []chroma.Token) []Token {
	out := make([]Token, 0, len(toks))
	for _, tok := range toks {
		value := strings.TrimSuffix(strings.TrimSuffix(tok.Value, "\n"), "\r")
		if value == "" {
			continue
		}
		out = append(out, Token{Type: tok.Type, Value: value})
	}
	return out
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

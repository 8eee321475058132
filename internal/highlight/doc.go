// Package highlight tokenizes document text into lines for rendering.
//
// Line N of the text is always Line N of the result, including a final empty
// line when the text ends in a newline. ChromaTokenizer highlights with a
// chroma lexer; PlainTokenizer keeps each line as a single untyped token.
package highlight

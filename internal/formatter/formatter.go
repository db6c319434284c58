// Package formatter re-indents GLSL ES 1.0 source text and normalizes
// its newline conventions, without going through the parser: it works
// directly off the FORMAT-purpose token stream, so it can run on text
// an IDE is still mid-edit on, even text that wouldn't parse.
//
// Unlike internal/emitter, it never reflows a token onto a different
// line or reorders anything — only each line's leading whitespace, its
// trailing whitespace (stripped) and the document's newline spelling
// change. Trailing spaces are stripped inside `//` comments too, so
// such a comment's trailing whitespace is lost. Indentation is brace/paren/
// bracket-depth driven, the same nesting signal internal/emitter's
// indent/newline helpers track during printing.
package formatter

import (
	"strings"

	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/lexer"
	"github.com/HugoDaniel/glslx/internal/source"
)

// TrailingNewline selects how Format handles the document's final
// newline.
type TrailingNewline int

const (
	// TrailingNewlinePreserve leaves the input's own trailing newline
	// (present or absent) untouched.
	TrailingNewlinePreserve TrailingNewline = iota
	// TrailingNewlineRemove strips every trailing newline.
	TrailingNewlineRemove
	// TrailingNewlineInsert ensures exactly one trailing newline.
	TrailingNewlineInsert
)

// ParseTrailingNewline maps the CLI/API spelling ("preserve", "remove",
// "insert") onto a TrailingNewline.
func ParseTrailingNewline(s string) (TrailingNewline, bool) {
	switch s {
	case "preserve":
		return TrailingNewlinePreserve, true
	case "remove":
		return TrailingNewlineRemove, true
	case "insert":
		return TrailingNewlineInsert, true
	}
	return TrailingNewlinePreserve, false
}

// Options controls Format's output shape.
type Options struct {
	// Indent is repeated once per nesting level. Defaults to four
	// spaces when empty.
	Indent string
	// Newline is the line terminator written between lines. Defaults
	// to "\n" when empty.
	Newline         string
	TrailingNewline TrailingNewline
}

// Format re-indents text and rewrites its line terminators per opts.
//
// If text does not tokenize cleanly — the tokenizer aborted on an
// unrecognized byte, which can happen to text an editor is mid-edit
// on — Format returns text unchanged: guessing an indentation for text
// that doesn't even lex is more likely to mangle it than help.
func Format(text string, opts Options) string {
	if opts.Indent == "" {
		opts.Indent = "    "
	}
	if opts.Newline == "" {
		opts.Newline = "\n"
	}

	src := source.New("<format>", text)
	log := diagnostic.NewLog()
	tokens := lexer.Tokenize(src, lexer.Format, log)
	if log.HasErrors() {
		return text
	}

	depths := indentDepths(src, tokens)
	lines := strings.Split(text, "\n")

	var b strings.Builder
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")
		content := strings.TrimLeft(trimmed, " \t")
		if content != "" {
			b.WriteString(strings.Repeat(opts.Indent, depths[i]))
			b.WriteString(content)
		}
		if i != len(lines)-1 {
			b.WriteString(opts.Newline)
		}
	}

	out := b.String()
	switch opts.TrailingNewline {
	case TrailingNewlineRemove:
		out = strings.TrimRight(out, "\n\r")
	case TrailingNewlineInsert:
		out = strings.TrimRight(out, "\n\r") + opts.Newline
	}
	return out
}

// indentDepths maps each 0-based line number that holds at least one
// token to the indentation depth its leading whitespace should be
// replaced with. A line opening with a closing bracket dedents by one
// relative to the depth in force before that bracket, matching how a
// brace-nested block's closing line aligns with the line that opened
// it rather than with its own body.
func indentDepths(src *source.Source, tokens []lexer.Token) map[int]int {
	depths := make(map[int]int)
	seen := make(map[int]bool)
	depth := 0

	for _, tok := range tokens {
		if tok.Kind == lexer.EndOfFile {
			continue
		}
		startLine, _ := src.IndexToLineColumn(tok.Range.Start)
		endLine := startLine
		if tok.Range.End > tok.Range.Start {
			endLine, _ = src.IndexToLineColumn(tok.Range.End - 1)
		}
		closesOwnLine := isCloser(tok.Kind)

		for ln := startLine; ln <= endLine; ln++ {
			if seen[ln] {
				continue
			}
			seen[ln] = true
			d := depth
			if ln == startLine && closesOwnLine {
				d--
			}
			if d < 0 {
				d = 0
			}
			depths[ln] = d
		}

		switch tok.Kind {
		case lexer.LeftBrace, lexer.LeftParen, lexer.LeftBracket:
			depth++
		case lexer.RightBrace, lexer.RightParen, lexer.RightBracket:
			depth--
			if depth < 0 {
				depth = 0
			}
		}
	}
	return depths
}

func isCloser(k lexer.Kind) bool {
	return k == lexer.RightBrace || k == lexer.RightParen || k == lexer.RightBracket
}

// Package lexer implements the GLSL ES 1.0 tokenizer.
//
// tokenize(source, purpose) -> [Token] splits source text into an
// alternating stream of non-token and token slices; non-empty,
// non-whitespace non-token slices raise a diagnostic and abort the
// stream for that source. The only backtracking is scanNumber rewinding
// over an exponent marker with no digits after it; the tokenizer is a
// hand-written ASCII-fast-path scanner, not a regex splitter, per the
// design notes' preference for predictable error recovery in a
// systems-language port.
package lexer

import (
	"strings"

	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/source"
)

// Purpose selects how comments are surfaced.
type Purpose uint8

const (
	// Compile attaches comments as leading trivia on the next token.
	Compile Purpose = iota
	// Format emits comments as their own tokens so the formatter can
	// preserve them verbatim.
	Format
)

// Kind enumerates token kinds.
type Kind uint8

const (
	EndOfFile Kind = iota

	Identifier
	IntLiteral
	FloatLiteral
	BoolLiteral

	// Preprocessor-ish pragmas.
	PragmaVersion
	PragmaExtension
	PragmaInclude
	Pragma

	// Comment variants, only emitted in Format purpose.
	CommentLine
	CommentBlock

	// Punctuation / operators.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Semicolon
	Colon
	Question
	Dot

	Assign
	AddAssign
	SubtractAssign
	MultiplyAssign
	DivideAssign

	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	Plus
	Minus
	Multiply
	Divide
	Modulo

	Increment
	Decrement
	Not
	BitNot

	LogicalAnd
	LogicalOr
	LogicalXor
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight

	// Keywords.
	KeywordAttribute
	KeywordConst
	KeywordUniform
	KeywordVarying
	KeywordBreak
	KeywordContinue
	KeywordDo
	KeywordFor
	KeywordWhile
	KeywordIf
	KeywordElse
	KeywordIn
	KeywordOut
	KeywordInout
	KeywordFloat
	KeywordInt
	KeywordVoid
	KeywordBool
	KeywordTrue
	KeywordFalse
	KeywordDiscard
	KeywordReturn
	KeywordStruct
	KeywordPrecision
	KeywordHighp
	KeywordMediump
	KeywordLowp
	KeywordInvariant
	KeywordExport // glslx extension: exported entry points
)

// Token is a single lexical unit with its source range and any leading
// comments (populated only in Compile purpose).
type Token struct {
	Range           source.Range
	Kind            Kind
	LeadingComments []Token
}

// Text returns the token's raw source text.
func (t Token) Text() string { return t.Range.Text() }

// Keywords maps reserved GLSL ES 1.0 keyword spellings to their kind.
var Keywords = map[string]Kind{
	"attribute": KeywordAttribute,
	"const":     KeywordConst,
	"uniform":   KeywordUniform,
	"varying":   KeywordVarying,
	"break":     KeywordBreak,
	"continue":  KeywordContinue,
	"do":        KeywordDo,
	"for":       KeywordFor,
	"while":     KeywordWhile,
	"if":        KeywordIf,
	"else":      KeywordElse,
	"in":        KeywordIn,
	"out":       KeywordOut,
	"inout":     KeywordInout,
	"float":     KeywordFloat,
	"int":       KeywordInt,
	"void":      KeywordVoid,
	"bool":      KeywordBool,
	"true":      KeywordTrue,
	"false":     KeywordFalse,
	"discard":   KeywordDiscard,
	"return":    KeywordReturn,
	"struct":    KeywordStruct,
	"precision": KeywordPrecision,
	"highp":     KeywordHighp,
	"mediump":   KeywordMediump,
	"lowp":      KeywordLowp,
	"invariant": KeywordInvariant,
	"export":    KeywordExport,
}

// ReservedWords is the fixed GLSL ES 1.0 reserved-identifier list: using
// one of these produces a diagnostic but the lexer still yields an
// Identifier token so the parser can recover.
var ReservedWords = map[string]bool{
	"asm": true, "class": true, "default": true, "double": true,
	"enum": true, "extern": true, "goto": true, "long": true,
	"short": true, "switch": true, "template": true, "this": true,
	"typedef": true, "union": true, "unsigned": true, "volatile": true,
	"packed": true, "sampler1D": true, "sampler3D": true,
	"sampler1DShadow": true, "sampler2DShadow": true,
	"sizeof": true, "cast": true, "namespace": true, "using": true,
}

// Lexer scans a single Source into Tokens.
type Lexer struct {
	src     *source.Source
	purpose Purpose
	log     *diagnostic.Log

	text string
	pos  int
}

// New creates a Lexer over src, reporting tokenizer errors into log.
func New(src *source.Source, purpose Purpose, log *diagnostic.Log) *Lexer {
	return &Lexer{src: src, purpose: purpose, log: log, text: src.Contents}
}

// Tokenize scans the entire source and returns its token stream. The
// last token is always EndOfFile with a zero-length range at len(text).
// A tokenizer error aborts the stream for this source (the exception to
// the "stages always continue" policy, per the error-handling design).
func Tokenize(src *source.Source, purpose Purpose, log *diagnostic.Log) []Token {
	l := New(src, purpose, log)
	return l.run()
}

func (l *Lexer) run() []Token {
	var tokens []Token
	var pending []Token

	for {
		comment, ok := l.skipWhitespaceAndComments()
		if comment != nil {
			if l.purpose == Format {
				tokens = append(tokens, *comment)
			} else {
				pending = append(pending, *comment)
			}
		}
		if !ok {
			// Unrecognized byte outside any token: abort the stream.
			break
		}
		if l.pos >= len(l.text) {
			break
		}

		start := l.pos
		kind, ok := l.scanOne()
		if !ok {
			l.errorAt(start, l.pos, "unexpected character %q", l.text[start:min(start+1, len(l.text))])
			break
		}
		tok := Token{Range: source.MakeRange(l.src, start, l.pos), Kind: kind}
		if l.purpose == Compile && len(pending) > 0 {
			tok.LeadingComments = pending
			pending = nil
		}
		l.maybeWarnReserved(tok)
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, Token{Range: source.MakeRange(l.src, len(l.text), len(l.text)), Kind: EndOfFile})
	return tokens
}

func (l *Lexer) maybeWarnReserved(tok Token) {
	if tok.Kind != Identifier {
		return
	}
	name := tok.Text()
	if ReservedWords[name] {
		l.log.AddWarning(tok.Range, "'%s' is a reserved word", name)
	}
}

func (l *Lexer) errorAt(start, end int, format string, args ...interface{}) {
	l.log.AddError(source.MakeRange(l.src, start, end), format, args...)
}

// skipWhitespaceAndComments advances past runs of whitespace and
// comments. It returns the comment token if one was skipped (nil
// otherwise); its second result is always true, since any other byte
// is left for scanOne, which reports it if it starts no token.
func (l *Lexer) skipWhitespaceAndComments() (*Token, bool) {
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f':
			l.pos++
			continue
		case c == '/' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '/':
			start := l.pos
			for l.pos < len(l.text) && !isNewline(l.text[l.pos]) {
				l.pos++
			}
			tok := Token{Range: source.MakeRange(l.src, start, l.pos), Kind: CommentLine}
			return &tok, true
		case c == '/' && l.pos+1 < len(l.text) && l.text[l.pos+1] == '*':
			start := l.pos
			l.pos += 2
			for l.pos+1 < len(l.text) && !(l.text[l.pos] == '*' && l.text[l.pos+1] == '/') {
				l.pos++
			}
			if l.pos+1 < len(l.text) {
				l.pos += 2
			} else {
				l.pos = len(l.text)
			}
			tok := Token{Range: source.MakeRange(l.src, start, l.pos), Kind: CommentBlock}
			return &tok, true
		}
		return nil, true
	}
	return nil, true
}

func isNewline(c byte) bool { return c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func (l *Lexer) scanOne() (Kind, bool) {
	c := l.text[l.pos]

	switch {
	case c == '#':
		return l.scanPragma(), true
	case isIdentStart(c):
		return l.scanIdentOrKeyword(), true
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.text) && isDigit(l.text[l.pos+1])):
		return l.scanNumber(), true
	}

	return l.scanOperator()
}

func (l *Lexer) scanPragma() Kind {
	start := l.pos
	l.pos++ // '#'
	for l.pos < len(l.text) && (l.text[l.pos] == ' ' || l.text[l.pos] == '\t') {
		l.pos++
	}
	wordStart := l.pos
	for l.pos < len(l.text) && isIdentCont(l.text[l.pos]) {
		l.pos++
	}
	word := l.text[wordStart:l.pos]
	for l.pos < len(l.text) && !isNewline(l.text[l.pos]) {
		l.pos++
	}
	_ = start
	switch word {
	case "version":
		return PragmaVersion
	case "extension":
		return PragmaExtension
	case "include":
		return PragmaInclude
	default:
		return Pragma
	}
}

func (l *Lexer) scanIdentOrKeyword() Kind {
	start := l.pos
	for l.pos < len(l.text) && isIdentCont(l.text[l.pos]) {
		l.pos++
	}
	word := l.text[start:l.pos]
	if word == "true" || word == "false" {
		return BoolLiteral
	}
	if kw, ok := Keywords[word]; ok {
		return kw
	}
	return Identifier
}

// scanNumber distinguishes int vs float by decimal/octal/hex int
// grammar; anything with a dot or exponent is a float.
func (l *Lexer) scanNumber() Kind {
	start := l.pos
	isFloat := false

	if l.text[l.pos] == '0' && l.pos+1 < len(l.text) && (l.text[l.pos+1] == 'x' || l.text[l.pos+1] == 'X') {
		l.pos += 2
		for l.pos < len(l.text) && isHexDigit(l.text[l.pos]) {
			l.pos++
		}
		return IntLiteral
	}

	for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.text) && l.text[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.text) && (l.text[l.pos] == 'e' || l.text[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.text) && (l.text[l.pos] == '+' || l.text[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			isFloat = true
			for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	if l.pos < len(l.text) && l.text[l.pos] == 'f' {
		isFloat = true
		l.pos++
	}
	_ = start
	if isFloat {
		return FloatLiteral
	}
	return IntLiteral
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) scanOperator() (Kind, bool) {
	rest := l.text[l.pos:]
	type op struct {
		text string
		kind Kind
	}
	// Longest-match-first, preserving the greedy order of the
	// original alternatives per the design notes.
	ops := []op{
		{"<<=", ShiftLeft}, {">>=", ShiftRight}, // not standard GLSL ES1 but harmless to recognize
		{"++", Increment}, {"--", Decrement},
		{"&&", LogicalAnd}, {"||", LogicalOr}, {"^^", LogicalXor},
		{"<=", LessEqual}, {">=", GreaterEqual}, {"==", Equal}, {"!=", NotEqual},
		{"+=", AddAssign}, {"-=", SubtractAssign}, {"*=", MultiplyAssign}, {"/=", DivideAssign},
		{"<<", ShiftLeft}, {">>", ShiftRight},
		{"(", LeftParen}, {")", RightParen}, {"{", LeftBrace}, {"}", RightBrace},
		{"[", LeftBracket}, {"]", RightBracket},
		{",", Comma}, {";", Semicolon}, {":", Colon}, {"?", Question}, {".", Dot},
		{"=", Assign}, {"<", Less}, {">", Greater},
		{"+", Plus}, {"-", Minus}, {"*", Multiply}, {"/", Divide}, {"%", Modulo},
		{"!", Not}, {"~", BitNot},
		{"&", BitAnd}, {"|", BitOr}, {"^", BitXor},
	}
	for _, o := range ops {
		if strings.HasPrefix(rest, o.text) {
			l.pos += len(o.text)
			return o.kind, true
		}
	}
	return EndOfFile, false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Package parser builds the GLSL ES 1.0 syntax tree from a token
// stream.
//
// Expressions are parsed with a Pratt-style precedence climb: each
// binary operator token carries a fixed precedence band, and parseExpr
// loops consuming operators whose precedence is at or above the
// caller's minimum, recursing with precedence+1 for left-associative
// operators and precedence for right-associative ones (currently only
// assignment). Statements and declarations are parsed by ordinary
// recursive descent, mirroring the shape of the grammar rather than
// any operator table.
package parser

import (
	"strconv"
	"strings"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/builtinapi"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/lexer"
	"github.com/HugoDaniel/glslx/internal/source"
)

// precedence bands, low to high, numbered consecutively.
type precedence int

const (
	precLowest precedence = iota
	precComma
	precAssign
	precConditional
	precLogicalOr
	precLogicalXor
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precCompare
	precShift
	precAdd
	precMultiply
	precUnaryPrefix
	precUnaryPostfix
	precMember
)

// binaryInfo describes an infix operator token: its node kind,
// precedence band and associativity.
type binaryInfo struct {
	kind       ast.NodeKind
	prec       precedence
	rightAssoc bool
}

var binaryOps = map[lexer.Kind]binaryInfo{
	lexer.LogicalOr:  {ast.KindLogicalOr, precLogicalOr, false},
	lexer.LogicalXor: {ast.KindLogicalXor, precLogicalXor, false},
	lexer.LogicalAnd: {ast.KindLogicalAnd, precLogicalAnd, false},
	lexer.BitOr:      {ast.KindBitwiseOr, precBitwiseOr, false},
	lexer.BitXor:     {ast.KindBitwiseXor, precBitwiseXor, false},
	lexer.BitAnd:     {ast.KindBitwiseAnd, precBitwiseAnd, false},

	lexer.Equal:        {ast.KindEqual, precCompare, false},
	lexer.NotEqual:     {ast.KindNotEqual, precCompare, false},
	lexer.Less:         {ast.KindLessThan, precCompare, false},
	lexer.LessEqual:    {ast.KindLessThanOrEqual, precCompare, false},
	lexer.Greater:      {ast.KindGreaterThan, precCompare, false},
	lexer.GreaterEqual: {ast.KindGreaterThanOrEqual, precCompare, false},

	lexer.ShiftLeft:  {ast.KindShiftLeft, precShift, false},
	lexer.ShiftRight: {ast.KindShiftRight, precShift, false},

	lexer.Plus:  {ast.KindAdd, precAdd, false},
	lexer.Minus: {ast.KindSubtract, precAdd, false},

	lexer.Multiply: {ast.KindMultiply, precMultiply, false},
	lexer.Divide:   {ast.KindDivide, precMultiply, false},
	lexer.Modulo:   {ast.KindModulo, precMultiply, false},
}

var assignOps = map[lexer.Kind]ast.NodeKind{
	lexer.Assign:         ast.KindAssign,
	lexer.AddAssign:      ast.KindAssignAdd,
	lexer.SubtractAssign: ast.KindAssignSubtract,
	lexer.MultiplyAssign: ast.KindAssignMultiply,
	lexer.DivideAssign:   ast.KindAssignDivide,
}

// builtinTypeNames is the set of GLSL ES 1.0 built-in type spellings
// that are ordinary identifiers to the lexer (not keywords) and must
// be recognized contextually by the parser.
var builtinTypeNames = map[string]bool{
	"vec2": true, "vec3": true, "vec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"sampler2D": true, "samplerCube": true,
}

// Parser turns a GLSL ES 1.0 token stream into a Node tree, declaring
// symbols and scopes as it goes.
type Parser struct {
	tokens []lexer.Token
	pos    int

	cd    *ast.CompilerData
	log   *diagnostic.Log
	scope *ast.Scope
}

// New creates a Parser over tokens, using cd for id allocation and log
// for diagnostics.
func New(tokens []lexer.Token, cd *ast.CompilerData, log *diagnostic.Log) *Parser {
	return &Parser{tokens: tokens, cd: cd, log: log, scope: ast.NewScope(ast.GlobalScope, nil)}
}

// Parse parses a full translation unit and returns its root Block
// node (one statement child per top-level declaration).
func Parse(src *source.Source, cd *ast.CompilerData, log *diagnostic.Log) *ast.Node {
	tokens := lexer.Tokenize(src, lexer.Compile, log)
	p := New(tokens, cd, log)
	return p.parseTranslationUnit()
}

// ParseProgram is like Parse but first seeds the global scope with
// GLSL ES 1.0's predeclared special variables (gl_Position,
// gl_FragCoord, ...), so a real compile unit resolves references to
// them like any other global instead of reporting them undeclared.
// Parse itself is left seedless for tests/tools that want a bare
// grammar-only tree.
func ParseProgram(src *source.Source, cd *ast.CompilerData, log *diagnostic.Log) *ast.Node {
	tokens := lexer.Tokenize(src, lexer.Compile, log)
	p := New(tokens, cd, log)
	seedPredeclared(p.scope, cd)
	return p.parseTranslationUnit()
}

func seedPredeclared(scope *ast.Scope, cd *ast.CompilerData) {
	for name, pv := range builtinapi.PredeclaredVariables(cd.NewSymbolId) {
		flags := ast.Flags(0)
		if !pv.Writable() {
			flags |= ast.FlagIn
		}
		scope.Define(&ast.Symbol{
			Id: cd.NewSymbolId(), Name: name, Kind: ast.VariableSymbol,
			VariableKind: ast.GlobalVariable, Flags: flags,
			ResolvedTypeMemo: pv.Type(),
		})
	}
}

// GlobalScope exposes the parser's top-level scope (used by tests and
// by callers that want to seed built-in symbols before parsing).
func (p *Parser) GlobalScope() *ast.Scope { return p.scope }

// ----------------------------------------------------------------------------
// Token helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) peekKind(kind lexer.Kind) bool { return p.current().Kind == kind }

func (p *Parser) eat(kind lexer.Kind) (lexer.Token, bool) {
	if p.current().Kind == kind {
		return p.advance(), true
	}
	return p.current(), false
}

func (p *Parser) expect(kind lexer.Kind, what string) lexer.Token {
	tok, ok := p.eat(kind)
	if !ok {
		p.log.AddError(p.current().Range, "expected %s", what)
	}
	return tok
}

func (p *Parser) isAtEnd() bool { return p.current().Kind == lexer.EndOfFile }

// synchronize skips tokens until a likely statement boundary, for
// error recovery after a malformed declaration or statement.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.current().Kind == lexer.Semicolon {
			p.advance()
			return
		}
		if p.current().Kind == lexer.RightBrace {
			return
		}
		p.advance()
	}
}

func (p *Parser) newNode(kind ast.NodeKind, start source.Range) *ast.Node {
	return ast.NewNode(p.cd, kind, start)
}

func (p *Parser) rangeSince(start lexer.Token) source.Range {
	end := p.tokens[p.pos-1]
	return source.Union(start.Range, end.Range)
}

// ----------------------------------------------------------------------------
// Translation unit / declarations
// ----------------------------------------------------------------------------

func (p *Parser) parseTranslationUnit() *ast.Node {
	root := p.newNode(ast.KindBlock, p.current().Range)
	for !p.isAtEnd() {
		if decl := p.parseGlobalDecl(); decl != nil {
			root.AppendChild(decl)
		}
	}
	root.Range = source.Union(root.Range, p.current().Range)
	return root
}

func (p *Parser) parseGlobalDecl() *ast.Node {
	switch p.current().Kind {
	case lexer.PragmaVersion:
		return p.parseVersion()
	case lexer.PragmaExtension:
		return p.parseExtension()
	case lexer.PragmaInclude:
		return p.parseInclude()
	case lexer.Pragma:
		p.advance() // unrecognized pragma: skip, no node produced
		return nil
	case lexer.KeywordStruct:
		return p.parseStructDecl()
	case lexer.KeywordPrecision:
		return p.parsePrecisionDecl()
	case lexer.Semicolon:
		p.advance()
		return nil
	}
	return p.parseVariableOrFunctionDecl()
}

func (p *Parser) parseVersion() *ast.Node {
	tok := p.advance()
	text := strings.TrimSpace(strings.TrimPrefix(tok.Text(), "#version"))
	n := p.newNode(ast.KindVersion, tok.Range)
	fields := strings.Fields(text)
	if len(fields) > 0 {
		if v, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
			n.Literal = v
		}
	}
	if len(fields) > 1 {
		n.Text = fields[1]
	}
	return n
}

func (p *Parser) parseExtension() *ast.Node {
	tok := p.advance()
	text := strings.TrimSpace(strings.TrimPrefix(tok.Text(), "#extension"))
	n := p.newNode(ast.KindExtension, tok.Range)
	name, behavior := text, ""
	if idx := strings.Index(text, ":"); idx >= 0 {
		name = strings.TrimSpace(text[:idx])
		behavior = strings.TrimSpace(text[idx+1:])
	}
	n.Text = name
	switch behavior {
	case "disable":
		n.Literal = int64(ast.Disable)
	case "enable":
		n.Literal = int64(ast.EnableBehavior)
	case "require":
		n.Literal = int64(ast.Require)
	case "warn":
		n.Literal = int64(ast.WarnBehavior)
	default:
		n.Literal = int64(ast.Default)
	}
	p.cd.ExtensionBehavior[name] = ast.ExtensionBehavior(n.Literal)
	return n
}

func (p *Parser) parseInclude() *ast.Node {
	tok := p.advance()
	text := strings.TrimSpace(strings.TrimPrefix(tok.Text(), "#include"))
	n := p.newNode(ast.KindInclude, tok.Range)
	n.Text = strings.Trim(text, `"`)
	return n
}

func (p *Parser) parsePrecisionDecl() *ast.Node {
	start := p.advance() // 'precision'
	qualTok := p.advance()
	n := p.newNode(ast.KindPrecision, start.Range)
	n.Text = qualTok.Text()
	n.AppendChild(p.parseTypeRef())
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseStructDecl() *ast.Node {
	start := p.advance() // 'struct'
	nameTok, _ := p.eat(lexer.Identifier)
	name := nameTok.Text()

	sym := &ast.Symbol{Id: p.cd.NewSymbolId(), Range: nameTok.Range, Name: name, Kind: ast.StructSymbol}
	p.scope.Define(sym)

	n := p.newNode(ast.KindStructDecl, start.Range)
	n.Symbol = sym

	p.expect(lexer.LeftBrace, "'{'")
	fieldScope := ast.NewScope(ast.StructScope, p.scope)
	prevScope := p.scope
	p.scope = fieldScope
	for !p.peekKind(lexer.RightBrace) && !p.isAtEnd() {
		field := p.parseVariablesDecl(ast.StructFieldVariable)
		n.AppendChild(field)
		for c := field.FirstChild; c != nil; c = c.Next {
			if c.Symbol != nil {
				sym.Fields = append(sym.Fields, c.Symbol)
			}
		}
	}
	p.scope = prevScope
	p.expect(lexer.RightBrace, "'}'")

	// `struct Foo { ... } instances;` declares trailing variables of
	// the new struct type sharing this one declaration.
	if !p.peekKind(lexer.Semicolon) {
		typeNode := p.newNode(ast.KindType, nameTok.Range)
		typeNode.Text = name
		typeNode.Symbol = sym
		n.AppendChild(p.parseDeclaratorList(typeNode, ast.GlobalVariable, ast.Flags(0)))
	}
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

// qualifierFlags maps leading storage/precision-qualifier keywords
// onto Flags bits; qualifiers may appear in any order and repeat.
var qualifierFlags = map[lexer.Kind]ast.Flags{
	lexer.KeywordAttribute: ast.FlagAttribute,
	lexer.KeywordConst:     ast.FlagConst,
	lexer.KeywordUniform:   ast.FlagUniform,
	lexer.KeywordVarying:   ast.FlagVarying,
	lexer.KeywordIn:        ast.FlagIn,
	lexer.KeywordOut:       ast.FlagOut,
	lexer.KeywordInout:     ast.FlagInout,
	lexer.KeywordHighp:     ast.FlagHighp,
	lexer.KeywordMediump:   ast.FlagMediump,
	lexer.KeywordLowp:      ast.FlagLowp,
}

func (p *Parser) parseQualifiers() ast.Flags {
	var flags ast.Flags
	for {
		if bit, ok := qualifierFlags[p.current().Kind]; ok {
			flags |= bit
			p.advance()
			continue
		}
		if p.current().Kind == lexer.KeywordExport {
			flags |= ast.FlagExported
			p.advance()
			continue
		}
		if p.current().Kind == lexer.KeywordInvariant {
			p.advance() // recorded but has no dedicated flag bit
			continue
		}
		break
	}
	return flags
}

// isTypeStart reports whether the current token can begin a type
// reference: a built-in keyword, a built-in vector/matrix/sampler
// identifier, or a previously declared struct name.
func (p *Parser) isTypeStart() bool {
	switch p.current().Kind {
	case lexer.KeywordVoid, lexer.KeywordBool, lexer.KeywordInt, lexer.KeywordFloat:
		return true
	case lexer.Identifier:
		name := p.current().Text()
		if builtinTypeNames[name] {
			return true
		}
		if sym := p.scope.Find(name); sym != nil && sym.Kind == ast.StructSymbol {
			return true
		}
	}
	return false
}

func (p *Parser) parseTypeRef() *ast.Node {
	tok := p.advance()
	n := p.newNode(ast.KindType, tok.Range)
	n.Text = tok.Text()
	if tok.Kind == lexer.Identifier {
		n.Symbol = p.scope.Find(n.Text)
	}
	return n
}

// parseVariableOrFunctionDecl parses a global or local declaration
// starting with qualifiers, a type, and a name: either a function
// definition/prototype (name followed by '(') or one or more variable
// declarators.
func (p *Parser) parseVariableOrFunctionDecl() *ast.Node {
	start := p.current()
	flags := p.parseQualifiers()
	if !p.isTypeStart() {
		p.log.AddError(p.current().Range, "expected a type")
		p.synchronize()
		return nil
	}
	typeNode := p.parseTypeRef()

	nameTok, ok := p.eat(lexer.Identifier)
	if !ok {
		p.log.AddError(p.current().Range, "expected a name")
		p.synchronize()
		return nil
	}

	if p.peekKind(lexer.LeftParen) {
		return p.parseFunctionDecl(start, flags, typeNode, nameTok)
	}

	n := p.parseDeclaratorListFrom(typeNode, nameTok, ast.GlobalVariable, flags)
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseFunctionDecl(start lexer.Token, flags ast.Flags, returnType *ast.Node, nameTok lexer.Token) *ast.Node {
	sym := &ast.Symbol{
		Id: p.cd.NewSymbolId(), Range: nameTok.Range, Name: nameTok.Text(),
		Kind: ast.FunctionSymbol, Flags: flags, ReturnTypeNode: returnType,
	}

	p.expect(lexer.LeftParen, "'('")
	fnScope := ast.NewScope(ast.FunctionScope, p.scope)
	prevScope := p.scope
	p.scope = fnScope

	if !p.peekKind(lexer.RightParen) {
		if p.current().Kind == lexer.KeywordVoid && p.peek(1).Kind == lexer.RightParen {
			p.advance() // `(void)` argument list means no arguments
		} else {
			for {
				argFlags := p.parseQualifiers()
				argType := p.parseTypeRef()
				var argName lexer.Token
				if p.peekKind(lexer.Identifier) {
					argName = p.advance()
				}
				arraySize := p.tryParseArraySuffix()
				argSym := &ast.Symbol{
					Id: p.cd.NewSymbolId(), Range: argType.Range, Name: argName.Text(),
					Kind: ast.VariableSymbol, VariableKind: ast.ArgumentVariable,
					Flags: argFlags, TypeNode: argType, ArrayCountNode: arraySize,
				}
				if argName.Kind == lexer.Identifier {
					fnScope.Define(argSym)
				}
				sym.Arguments = append(sym.Arguments, argSym)
				if _, ok := p.eat(lexer.Comma); !ok {
					break
				}
			}
		}
	}
	p.expect(lexer.RightParen, "')'")
	p.scope = prevScope

	n := p.newNode(ast.KindFunctionDecl, start.Range)
	n.Symbol = sym
	p.scope.Define(sym)

	if p.peekKind(lexer.LeftBrace) {
		p.scope = fnScope
		body := p.parseBlock()
		p.scope = prevScope
		sym.Body = body
		n.AppendChild(body)
	} else {
		p.expect(lexer.Semicolon, "';'")
	}

	// Define() chains same-named function symbols via PreviousOverload;
	// walk that chain (skipping sym itself) to pair this definition with
	// an earlier forward declaration of identical signature.
	if sym.Body != nil {
		for o := sym.PreviousOverload; o != nil; o = o.PreviousOverload {
			if o.Body == nil && sameSignature(o, sym) {
				ast.LinkSiblings(o, sym)
				break
			}
		}
	}

	n.Range = p.rangeSince(start)
	return n
}

func sameSignature(a, b *ast.Symbol) bool {
	if len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if a.Arguments[i].TypeNode.Text != b.Arguments[i].TypeNode.Text {
			return false
		}
	}
	return true
}

// parseDeclaratorListFrom builds a Variables node given an already
// consumed type node and first declarator name.
func (p *Parser) parseDeclaratorListFrom(typeNode *ast.Node, firstName lexer.Token, kind ast.VariableKind, flags ast.Flags) *ast.Node {
	n := p.newNode(ast.KindVariables, typeNode.Range)
	n.AppendChild(p.parseOneDeclarator(typeNode, firstName, kind, flags))
	for {
		if _, ok := p.eat(lexer.Comma); !ok {
			break
		}
		nameTok, _ := p.eat(lexer.Identifier)
		n.AppendChild(p.parseOneDeclarator(typeNode, nameTok, kind, flags))
	}
	return n
}

// parseDeclaratorList is like parseDeclaratorListFrom but reads the
// first declarator's name itself (used after `struct Foo { ... }`).
func (p *Parser) parseDeclaratorList(typeNode *ast.Node, kind ast.VariableKind, flags ast.Flags) *ast.Node {
	nameTok, _ := p.eat(lexer.Identifier)
	return p.parseDeclaratorListFrom(typeNode, nameTok, kind, flags)
}

func (p *Parser) parseOneDeclarator(typeNode *ast.Node, nameTok lexer.Token, kind ast.VariableKind, flags ast.Flags) *ast.Node {
	arraySize := p.tryParseArraySuffix()

	sym := &ast.Symbol{
		Id: p.cd.NewSymbolId(), Range: nameTok.Range, Name: nameTok.Text(),
		Kind: ast.VariableSymbol, VariableKind: kind, Flags: flags,
		TypeNode: typeNode, ArrayCountNode: arraySize,
	}
	p.scope.Define(sym)

	decl := p.newNode(ast.KindVariables, nameTok.Range)
	decl.Symbol = sym
	sym.DeclaringNode = decl

	if _, ok := p.eat(lexer.Assign); ok {
		decl.AppendChild(p.parseAssignExpr())
	}
	return decl
}

// tryParseArraySuffix consumes an optional `[N]` or `[]` array-size
// suffix and returns the size expression node, or nil.
func (p *Parser) tryParseArraySuffix() *ast.Node {
	if _, ok := p.eat(lexer.LeftBracket); !ok {
		return nil
	}
	var size *ast.Node
	if !p.peekKind(lexer.RightBracket) {
		size = p.parseAssignExpr()
	}
	p.expect(lexer.RightBracket, "']'")
	return size
}

// parseVariablesDecl parses `qualifiers type name[,name...];` used for
// struct fields, where no function form is possible.
func (p *Parser) parseVariablesDecl(kind ast.VariableKind) *ast.Node {
	flags := p.parseQualifiers()
	typeNode := p.parseTypeRef()
	n := p.parseDeclaratorList(typeNode, kind, flags)
	p.expect(lexer.Semicolon, "';'")
	return n
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) parseBlock() *ast.Node {
	start := p.expect(lexer.LeftBrace, "'{'")
	blockScope := ast.NewScope(ast.LocalScope, p.scope)
	prevScope := p.scope
	p.scope = blockScope

	n := p.newNode(ast.KindBlock, start.Range)
	for !p.peekKind(lexer.RightBrace) && !p.isAtEnd() {
		if stmt := p.parseStatement(); stmt != nil {
			n.AppendChild(stmt)
		}
	}
	p.scope = prevScope
	p.expect(lexer.RightBrace, "'}'")
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.current().Kind {
	case lexer.LeftBrace:
		return p.parseBlock()
	case lexer.KeywordIf:
		return p.parseIf()
	case lexer.KeywordFor:
		return p.parseFor()
	case lexer.KeywordWhile:
		return p.parseWhile()
	case lexer.KeywordDo:
		return p.parseDoWhile()
	case lexer.KeywordReturn:
		return p.parseReturn()
	case lexer.KeywordBreak:
		tok := p.advance()
		p.expect(lexer.Semicolon, "';'")
		return p.newNode(ast.KindBreak, p.rangeSince(tok))
	case lexer.KeywordContinue:
		tok := p.advance()
		p.expect(lexer.Semicolon, "';'")
		return p.newNode(ast.KindContinue, p.rangeSince(tok))
	case lexer.KeywordDiscard:
		tok := p.advance()
		p.expect(lexer.Semicolon, "';'")
		return p.newNode(ast.KindDiscard, p.rangeSince(tok))
	case lexer.KeywordStruct:
		return p.parseStructDecl()
	case lexer.KeywordPrecision:
		return p.parsePrecisionDecl()
	case lexer.Semicolon:
		p.advance()
		return nil
	}

	if p.startsLocalDecl() {
		start := p.current()
		flags := p.parseQualifiers()
		typeNode := p.parseTypeRef()
		n := p.parseDeclaratorList(typeNode, ast.LocalVariable, flags)
		p.expect(lexer.Semicolon, "';'")
		n.Range = p.rangeSince(start)
		return n
	}

	start := p.current()
	n := p.newNode(ast.KindExpressionStmt, start.Range)
	n.AppendChild(p.parseExpr())
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

// startsLocalDecl looks past any qualifiers to see whether a type
// reference follows, distinguishing `vec3 x = ...;` from an expression
// statement that merely begins with an identifier.
func (p *Parser) startsLocalDecl() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.parseQualifiers()
	return p.isTypeStart()
}

func (p *Parser) parseIf() *ast.Node {
	start := p.advance()
	n := p.newNode(ast.KindIf, start.Range)
	p.expect(lexer.LeftParen, "'('")
	n.AppendChild(p.parseExpr())
	p.expect(lexer.RightParen, "')'")
	n.AppendChild(p.parseStatement())
	if _, ok := p.eat(lexer.KeywordElse); ok {
		n.AppendChild(p.parseStatement())
	}
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	start := p.advance()
	n := p.newNode(ast.KindWhile, start.Range)
	p.expect(lexer.LeftParen, "'('")
	n.AppendChild(p.parseExpr())
	p.expect(lexer.RightParen, "')'")
	n.AppendChild(p.parseStatement())
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseDoWhile() *ast.Node {
	start := p.advance()
	n := p.newNode(ast.KindDoWhile, start.Range)
	n.AppendChild(p.parseStatement())
	p.expect(lexer.KeywordWhile, "'while'")
	p.expect(lexer.LeftParen, "'('")
	n.AppendChild(p.parseExpr())
	p.expect(lexer.RightParen, "')'")
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseFor() *ast.Node {
	start := p.advance()
	n := p.newNode(ast.KindFor, start.Range)

	forScope := ast.NewScope(ast.LocalScope, p.scope)
	prevScope := p.scope
	p.scope = forScope

	p.expect(lexer.LeftParen, "'('")

	// init clause: declaration, expression, or empty.
	init := p.newNode(ast.KindBlock, p.current().Range)
	if p.peekKind(lexer.Semicolon) {
		p.advance()
	} else if p.startsLocalDecl() {
		typeNode := p.parseTypeRef()
		decl := p.parseDeclaratorList(typeNode, ast.LocalVariable, ast.Flags(0))
		init.AppendChild(decl)
		p.expect(lexer.Semicolon, "';'")
	} else {
		es := p.newNode(ast.KindExpressionStmt, p.current().Range)
		es.AppendChild(p.parseExpr())
		init.AppendChild(es)
		p.expect(lexer.Semicolon, "';'")
	}
	n.AppendChild(init)

	// Condition and update occupy fixed child slots 1 and 2 even when
	// absent, each wrapped in a Block holding 0 or 1 expression child
	// (the same convention as init), so callers can always address
	// them as n.ChildAt(1)/n.ChildAt(2) and test ChildCount() for
	// presence regardless of which clauses were omitted.
	cond := p.newNode(ast.KindBlock, p.current().Range)
	if !p.peekKind(lexer.Semicolon) {
		cond.AppendChild(p.parseExpr())
	}
	n.AppendChild(cond)
	p.expect(lexer.Semicolon, "';'")

	update := p.newNode(ast.KindBlock, p.current().Range)
	if !p.peekKind(lexer.RightParen) {
		update.AppendChild(p.parseExpr())
	}
	n.AppendChild(update)
	p.expect(lexer.RightParen, "')'")

	n.AppendChild(p.parseStatement())

	p.scope = prevScope
	n.Range = p.rangeSince(start)
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	start := p.advance()
	n := p.newNode(ast.KindReturn, start.Range)
	if !p.peekKind(lexer.Semicolon) {
		n.AppendChild(p.parseExpr())
	}
	p.expect(lexer.Semicolon, "';'")
	n.Range = p.rangeSince(start)
	return n
}

// ----------------------------------------------------------------------------
// Expressions (Pratt / precedence climbing)
// ----------------------------------------------------------------------------

// parseExpr parses a full (comma) expression, the entry point used at
// statement level.
func (p *Parser) parseExpr() *ast.Node { return p.parseBinary(precComma) }

// parseAssignExpr parses everything above comma, the entry point used
// wherever a comma would be ambiguous with an argument-list separator
// (initializers, call arguments, array sizes).
func (p *Parser) parseAssignExpr() *ast.Node { return p.parseBinary(precAssign) }

// parseBinary implements the precedence climb: it parses a unary
// operand, then repeatedly folds in infix/assignment/comma/hook
// operators whose precedence is >= min.
func (p *Parser) parseBinary(min precedence) *ast.Node {
	left := p.parseUnary()

	for {
		tok := p.current()

		if tok.Kind == lexer.Comma && precComma >= min {
			p.advance()
			right := p.parseBinary(precComma + 1)
			seq := p.newNode(ast.KindSequence, left.Range)
			seq.AppendChild(left)
			seq.AppendChild(right)
			seq.Range = source.Union(left.Range, right.Range)
			left = seq
			continue
		}

		if kind, ok := assignOps[tok.Kind]; ok && precAssign >= min {
			p.advance()
			// Right-associative: recurse at the same precedence.
			right := p.parseBinary(precAssign)
			n := p.newNode(kind, left.Range)
			n.InternalRange = tok.Range
			n.AppendChild(left)
			n.AppendChild(right)
			n.Range = source.Union(left.Range, right.Range)
			left = n
			continue
		}

		if tok.Kind == lexer.Question && precConditional >= min {
			p.advance()
			yes := p.parseBinary(precAssign)
			p.expect(lexer.Colon, "':'")
			no := p.parseBinary(precConditional)
			n := p.newNode(ast.KindHook, left.Range)
			n.AppendChild(left)
			n.AppendChild(yes)
			n.AppendChild(no)
			n.Range = source.Union(left.Range, no.Range)
			left = n
			continue
		}

		info, ok := binaryOps[tok.Kind]
		if !ok || info.prec < min {
			break
		}
		p.advance()
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseBinary(nextMin)
		n := p.newNode(info.kind, left.Range)
		n.InternalRange = tok.Range
		n.AppendChild(left)
		n.AppendChild(right)
		n.Range = source.Union(left.Range, right.Range)
		left = n
	}

	return left
}

var unaryPrefixKinds = map[lexer.Kind]ast.NodeKind{
	lexer.Minus:  ast.KindNegative,
	lexer.Plus:   ast.KindPositive,
	lexer.Not:    ast.KindLogicalNot,
	lexer.BitNot: ast.KindBitwiseNot,
}

func (p *Parser) parseUnary() *ast.Node {
	tok := p.current()

	if kind, ok := unaryPrefixKinds[tok.Kind]; ok {
		p.advance()
		operand := p.parseUnary()
		n := p.newNode(kind, tok.Range)
		n.AppendChild(operand)
		n.Range = source.Union(tok.Range, operand.Range)
		return n
	}
	if tok.Kind == lexer.Increment || tok.Kind == lexer.Decrement {
		p.advance()
		kind := ast.KindPrefixIncrement
		if tok.Kind == lexer.Decrement {
			kind = ast.KindPrefixDecrement
		}
		operand := p.parseUnary()
		n := p.newNode(kind, tok.Range)
		n.AppendChild(operand)
		n.Range = source.Union(tok.Range, operand.Range)
		return n
	}
	if tok.Kind == lexer.LeftParen && p.looksLikeCastOrConstructor() {
		// GLSL ES 1.0 has no C-style casts; `(type)(...)` never arises
		// from the grammar, so this branch intentionally falls through
		// to ordinary postfix/primary parsing below.
	}

	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) looksLikeCastOrConstructor() bool { return false }

func (p *Parser) parsePostfix(expr *ast.Node) *ast.Node {
	for {
		switch p.current().Kind {
		case lexer.Dot:
			dotTok := p.advance()
			member := p.advance()
			n := p.newNode(ast.KindDot, expr.Range)
			n.Text = member.Text()
			n.AppendChild(expr)
			n.Range = source.Union(expr.Range, member.Range)
			n.InternalRange = dotTok.Range
			expr = n
		case lexer.LeftBracket:
			p.advance()
			index := p.parseExpr()
			end := p.expect(lexer.RightBracket, "']'")
			n := p.newNode(ast.KindIndex, expr.Range)
			n.AppendChild(expr)
			n.AppendChild(index)
			n.Range = source.Union(expr.Range, end.Range)
			expr = n
		case lexer.LeftParen:
			if expr.Kind != ast.KindName && expr.Kind != ast.KindType {
				return expr
			}
			p.advance()
			n := p.newNode(ast.KindCall, expr.Range)
			n.AppendChild(expr)
			if !p.peekKind(lexer.RightParen) {
				if p.current().Kind == lexer.KeywordVoid && p.peek(1).Kind == lexer.RightParen {
					p.advance()
				} else {
					for {
						n.AppendChild(p.parseAssignExpr())
						if _, ok := p.eat(lexer.Comma); !ok {
							break
						}
					}
				}
			}
			end := p.expect(lexer.RightParen, "')'")
			n.Range = source.Union(expr.Range, end.Range)
			expr = n
		case lexer.Increment, lexer.Decrement:
			tok := p.advance()
			kind := ast.KindPostfixIncrement
			if tok.Kind == lexer.Decrement {
				kind = ast.KindPostfixDecrement
			}
			n := p.newNode(kind, expr.Range)
			n.AppendChild(expr)
			n.Range = source.Union(expr.Range, tok.Range)
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.current()

	switch tok.Kind {
	case lexer.IntLiteral:
		p.advance()
		n := p.newNode(ast.KindInt, tok.Range)
		n.Literal = parseIntLiteral(tok.Text())
		return n
	case lexer.FloatLiteral:
		p.advance()
		n := p.newNode(ast.KindFloat, tok.Range)
		n.LiteralFloat = parseFloatLiteral(tok.Text())
		return n
	case lexer.BoolLiteral:
		p.advance()
		n := p.newNode(ast.KindBool, tok.Range)
		if tok.Text() == "true" {
			n.Literal = 1
		}
		return n
	case lexer.LeftParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RightParen, "')'")
		return inner
	case lexer.KeywordVoid, lexer.KeywordBool, lexer.KeywordInt, lexer.KeywordFloat:
		p.advance()
		n := p.newNode(ast.KindType, tok.Range)
		n.Text = tok.Text()
		return n
	case lexer.Identifier:
		p.advance()
		name := tok.Text()
		if builtinTypeNames[name] {
			n := p.newNode(ast.KindType, tok.Range)
			n.Text = name
			return n
		}
		if sym := p.scope.Find(name); sym != nil && sym.Kind == ast.StructSymbol {
			n := p.newNode(ast.KindType, tok.Range)
			n.Text = name
			n.Symbol = sym
			return n
		}
		n := p.newNode(ast.KindName, tok.Range)
		n.Text = name
		if sym := p.scope.Find(name); sym != nil {
			n.Symbol = sym
		}
		return n
	}

	p.log.AddError(tok.Range, "expected an expression")
	n := p.newNode(ast.KindParseError, tok.Range)
	if !p.isAtEnd() {
		p.advance()
	}
	return n
}

func parseIntLiteral(text string) int64 {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, _ := strconv.ParseInt(text[2:], 16, 64)
		return v
	}
	if len(text) > 1 && text[0] == '0' {
		v, _ := strconv.ParseInt(text, 8, 64)
		return v
	}
	v, _ := strconv.ParseInt(text, 10, 64)
	return v
}

func parseFloatLiteral(text string) float64 {
	text = strings.TrimSuffix(text, "f")
	text = strings.TrimSuffix(text, "F")
	v, _ := strconv.ParseFloat(text, 64)
	return v
}

// Package emitter turns a (possibly rewritten, possibly renamed) GLSL
// ES 1.0 tree back into source text.
//
// Following the teacher printer's split, it operates in two modes:
// Pretty (indented, newlines, spaces around operators) and Minify (no
// indentation, minimal whitespace — a space is inserted only where
// omitting it would glue two tokens into one, e.g. between a binary
// `-` and a following unary `-`). Renaming, if any, has already
// happened by the time Emit runs: it mutates ast.Symbol.Name in
// place, so the emitter only ever needs to print Symbol.Name/Node.Text
// as they stand.
package emitter

import (
	"strconv"
	"strings"

	"github.com/HugoDaniel/glslx/internal/ast"
)

// Options controls the emitted text's shape.
type Options struct {
	// Minify removes optional whitespace and blank lines between
	// declarations.
	Minify bool
	// IndentString is repeated once per nesting level in Pretty mode.
	// Defaults to four spaces when empty.
	IndentString string
	// SourceMap, when set, makes EmitWithSourceMap record a mapping
	// from each emitted identifier and declarator back to its original
	// source position. Emit ignores this field.
	SourceMap bool
	// SourceName is the "sources" entry recorded in the generated map.
	SourceName string
	// IncludeSourceContent copies the original source text into the
	// map's sourcesContent field.
	IncludeSourceContent bool
}

// Emit renders root (a translation unit's top-level Block) as source
// text.
func Emit(root *ast.Node, opts Options) string {
	code, _ := emit(root, opts)
	return code
}

// EmitWithSourceMap renders root like Emit, additionally returning a
// Source Map v3 document that maps each identifier/declarator it wrote
// back to the byte offset it was declared or referenced at in root's
// original source. It only records position mappings, not a names
// table: renaming happens before Emit ever runs, by mutating
// ast.Symbol.Name in place, so the pre-renamed spelling is already
// gone by the time the emitter sees a symbol.
func EmitWithSourceMap(root *ast.Node, opts Options) (string, *SourceMap) {
	opts.SourceMap = true
	return emit(root, opts)
}

func emit(root *ast.Node, opts Options) (string, *SourceMap) {
	if opts.IndentString == "" {
		opts.IndentString = "    "
	}
	e := &emitter{opts: opts}
	if opts.SourceMap {
		e.sm = newSourceMapGenerator(root.Range.Src)
		if opts.SourceName != "" {
			e.sm.setSourceName(opts.SourceName)
		}
		e.sm.includeSourceContent(opts.IncludeSourceContent)
	}
	e.emitTranslationUnit(root)
	var sm *SourceMap
	if e.sm != nil {
		sm = e.sm.generate()
	}
	return e.buf.String(), sm
}

type emitter struct {
	opts     Options
	buf      strings.Builder
	indent   int
	lastByte byte

	sm      *sourceMapGenerator
	genLine int
	genCol  int
}

// ----------------------------------------------------------------------------
// Low-level output
// ----------------------------------------------------------------------------

func (e *emitter) write(s string) {
	if s == "" {
		return
	}
	e.buf.WriteString(s)
	e.lastByte = s[len(s)-1]
	e.trackGenPos(s)
}

// writeToken prints s, inserting a single space first if omitting it
// would let s run into whatever was printed last (e.g. `- -x` must not
// collapse into `--x`, which GLSL would read as a predecrement).
func (e *emitter) writeToken(s string) {
	if s == "" {
		return
	}
	if glues(e.lastByte, s[0]) {
		e.buf.WriteByte(' ')
		e.genCol++
	}
	e.write(s)
}

// emitMappedToken is writeToken plus a source-map entry recording that
// the token about to be written corresponds to srcStart in the
// original source. A no-op position record when Options.SourceMap is
// unset.
func (e *emitter) emitMappedToken(s string, srcStart int) {
	if s == "" {
		return
	}
	if glues(e.lastByte, s[0]) {
		e.buf.WriteByte(' ')
		e.genCol++
	}
	e.mapPosition(srcStart)
	e.write(s)
}

func (e *emitter) mapPosition(srcStart int) {
	if e.sm == nil {
		return
	}
	e.sm.addMapping(e.genLine, e.genCol, srcStart)
}

// trackGenPos keeps genLine/genCol current as text is appended, so a
// later mapPosition call records the right generated-output position.
func (e *emitter) trackGenPos(s string) {
	if e.sm == nil {
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			e.genLine++
			e.genCol = 0
		} else {
			e.genCol++
		}
	}
}

func glues(prev, next byte) bool {
	isWord := func(c byte) bool {
		return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	}
	if isWord(prev) && isWord(next) {
		return true
	}
	signs := func(c byte) bool { return c == '+' || c == '-' }
	if signs(prev) && signs(next) {
		return true
	}
	return false
}

func (e *emitter) space() {
	if !e.opts.Minify {
		e.buf.WriteByte(' ')
		e.lastByte = ' '
		e.genCol++
	}
}

func (e *emitter) newline() {
	if e.opts.Minify {
		return
	}
	e.buf.WriteByte('\n')
	e.lastByte = '\n'
	e.genLine++
	e.genCol = 0
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString(e.opts.IndentString)
		e.genCol += len(e.opts.IndentString)
	}
}

func (e *emitter) blankLine() {
	if !e.opts.Minify {
		e.buf.WriteByte('\n')
		e.genLine++
		e.genCol = 0
	}
}

// ----------------------------------------------------------------------------
// Translation unit
// ----------------------------------------------------------------------------

func isDirectiveNode(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindVersion, ast.KindExtension, ast.KindPrecision, ast.KindInclude:
		return true
	}
	return false
}

func hasFunctionBody(n *ast.Node) bool {
	return n.Kind == ast.KindFunctionDecl && n.Symbol != nil && n.Symbol.Body != nil
}

// requiresLineBreak reports whether n is a line-oriented preprocessor
// directive that has no token terminator of its own (unlike a
// semicolon-terminated statement) — it must always be followed by a
// real newline, even in minified output, or the next token would be
// read as part of the same directive line.
func requiresLineBreak(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindVersion, ast.KindExtension, ast.KindInclude:
		return true
	}
	return false
}

func (e *emitter) emitTranslationUnit(root *ast.Node) {
	var prev *ast.Node
	for c := root.FirstChild; c != nil; c = c.Next {
		if isImported(c) {
			continue
		}
		if prev != nil {
			e.newline()
			if hasFunctionBody(prev) || hasFunctionBody(c) || isDirectiveNode(prev) != isDirectiveNode(c) {
				e.blankLine()
			}
		}
		e.emitTopLevelDecl(c)
		if requiresLineBreak(c) && e.opts.Minify {
			e.buf.WriteByte('\n')
			e.lastByte = '\n'
			e.genLine++
			e.genCol = 0
		}
		prev = c
	}
	if prev != nil && !e.opts.Minify {
		e.buf.WriteByte('\n')
	}
}

func isImported(n *ast.Node) bool {
	return n.Symbol != nil && n.Symbol.Flags.Has(ast.FlagImported)
}

func (e *emitter) emitTopLevelDecl(n *ast.Node) {
	switch n.Kind {
	case ast.KindVersion:
		e.write("#version ")
		e.write(strconv.FormatInt(n.Literal, 10))
		if n.Text != "" {
			e.write(" ")
			e.write(n.Text)
		}
	case ast.KindExtension:
		e.write("#extension ")
		e.write(n.Text)
		e.write(" : ")
		e.write(extensionBehaviorText(ast.ExtensionBehavior(n.Literal)))
	case ast.KindInclude:
		e.write("#include \"")
		e.write(n.Text)
		e.write("\"")
	case ast.KindPrecision:
		e.write("precision ")
		e.write(n.Text)
		e.write(" ")
		e.emitTypeRef(n.FirstChild)
		e.write(";")
	case ast.KindStructDecl:
		e.emitStructDecl(n)
	case ast.KindVariables:
		e.emitVariablesDecl(n)
		e.write(";")
	case ast.KindFunctionDecl:
		e.emitFunctionDecl(n)
	}
}

func extensionBehaviorText(b ast.ExtensionBehavior) string {
	switch b {
	case ast.Disable:
		return "disable"
	case ast.EnableBehavior:
		return "enable"
	case ast.Require:
		return "require"
	case ast.WarnBehavior:
		return "warn"
	}
	return "require"
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func (e *emitter) emitQualifiers(flags ast.Flags) {
	order := []struct {
		flag ast.Flags
		text string
	}{
		{ast.FlagConst, "const"},
		{ast.FlagAttribute, "attribute"},
		{ast.FlagUniform, "uniform"},
		{ast.FlagVarying, "varying"},
		{ast.FlagIn, "in"},
		{ast.FlagOut, "out"},
		{ast.FlagInout, "inout"},
		{ast.FlagHighp, "highp"},
		{ast.FlagMediump, "mediump"},
		{ast.FlagLowp, "lowp"},
	}
	for _, o := range order {
		if flags.Has(o.flag) {
			e.writeToken(o.text)
			e.space()
		}
	}
}

// emitTypeRef prints a KindType node. Built-in type keywords (vec3,
// float, ...) are never renamed and are read straight off Text; a
// struct type reference carries a Symbol, whose Name reflects any
// renaming (Text still holds the struct's original spelling).
func (e *emitter) emitTypeRef(typeNode *ast.Node) {
	if typeNode == nil {
		return
	}
	if typeNode.Symbol != nil {
		e.writeToken(typeNode.Symbol.Name)
		return
	}
	e.writeToken(typeNode.Text)
}

func (e *emitter) emitVariablesDecl(n *ast.Node) {
	first := n.FirstChild
	if first == nil || first.Symbol == nil {
		return
	}
	e.emitQualifiers(first.Symbol.Flags)
	e.emitTypeRef(first.Symbol.TypeNode)
	e.space()
	for decl := n.FirstChild; decl != nil; decl = decl.Next {
		if decl != n.FirstChild {
			e.write(",")
			e.space()
		}
		e.emitDeclarator(decl)
	}
}

func (e *emitter) emitDeclarator(decl *ast.Node) {
	sym := decl.Symbol
	e.emitMappedToken(sym.Name, sym.Range.Start)
	if sym.ArrayCountNode != nil {
		e.write("[")
		e.emitExpr(sym.ArrayCountNode, precAssign)
		e.write("]")
	}
	if init := decl.FirstChild; init != nil {
		e.space()
		e.write("=")
		e.space()
		e.emitExpr(init, precAssign)
	}
}

// isTrailingInstanceDecl reports whether c is the `struct Foo {...}
// instances;` declarator list appended after the field list, as
// opposed to a field itself — both are KindVariables nodes, so the
// only distinguishing signal is each declarator's VariableKind.
func isTrailingInstanceDecl(c *ast.Node) bool {
	first := c.FirstChild
	return first != nil && first.Symbol != nil && first.Symbol.VariableKind != ast.StructFieldVariable
}

func (e *emitter) emitStructDecl(n *ast.Node) {
	e.write("struct ")
	e.mapPosition(n.Symbol.Range.Start)
	e.write(n.Symbol.Name)
	e.space()
	e.write("{")
	e.indent++
	var trailing *ast.Node
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Kind != ast.KindVariables {
			continue
		}
		if isTrailingInstanceDecl(c) {
			trailing = c
			continue
		}
		e.newline()
		e.emitVariablesDecl(c)
		e.write(";")
	}
	e.indent--
	e.newline()
	e.write("}")
	if last := trailing; last != nil {
		e.space()
		for decl := last.FirstChild; decl != nil; decl = decl.Next {
			if decl != last.FirstChild {
				e.write(",")
				e.space()
			}
			e.emitDeclarator(decl)
		}
	}
	e.write(";")
}

func (e *emitter) emitFunctionDecl(n *ast.Node) {
	sym := n.Symbol
	e.emitTypeRef(sym.ReturnTypeNode)
	e.write(" ")
	e.mapPosition(sym.Range.Start)
	e.write(sym.Name)
	e.write("(")
	for i, arg := range sym.Arguments {
		if i > 0 {
			e.write(",")
			e.space()
		}
		e.emitQualifiers(arg.Flags)
		e.emitTypeRef(arg.TypeNode)
		if arg.Name != "" {
			e.write(" ")
			e.write(arg.Name)
		}
		if arg.ArrayCountNode != nil {
			e.write("[")
			e.emitExpr(arg.ArrayCountNode, precAssign)
			e.write("]")
		}
	}
	e.write(")")
	if sym.Body == nil {
		e.write(";")
		return
	}
	e.space()
	e.emitBlock(sym.Body)
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (e *emitter) emitBlock(n *ast.Node) {
	e.write("{")
	e.indent++
	for c := n.FirstChild; c != nil; c = c.Next {
		e.newline()
		e.emitStatement(c)
	}
	e.indent--
	e.newline()
	e.write("}")
}

func (e *emitter) emitStatement(n *ast.Node) {
	switch n.Kind {
	case ast.KindBlock:
		e.emitBlock(n)
	case ast.KindExpressionStmt:
		e.emitExpr(n.FirstChild, 0)
		e.write(";")
	case ast.KindVariables:
		e.emitVariablesDecl(n)
		e.write(";")
	case ast.KindStructDecl:
		e.emitStructDecl(n)
	case ast.KindPrecision:
		e.emitTopLevelDecl(n)
	case ast.KindIf:
		e.write("if")
		e.space()
		e.write("(")
		e.emitExpr(n.FirstChild, 0)
		e.write(")")
		e.space()
		e.emitStatement(n.Right())
		if elseBranch := n.Third(); elseBranch != nil {
			if !e.opts.Minify {
				e.newline()
			}
			// "else" and the branch it introduces can each start with
			// a word character (an "else if" chain, or a bare
			// statement beginning with an identifier) — a real space
			// is required on both sides, not just the cosmetic one
			// space() would skip in minified output.
			e.writeToken("else")
			e.write(" ")
			e.emitStatement(elseBranch)
		}
	case ast.KindWhile:
		e.write("while")
		e.space()
		e.write("(")
		e.emitExpr(n.FirstChild, 0)
		e.write(")")
		e.space()
		e.emitStatement(n.Right())
	case ast.KindDoWhile:
		e.write("do")
		e.write(" ")
		e.emitStatement(n.FirstChild)
		if !e.opts.Minify {
			e.newline()
		} else {
			e.write(" ")
		}
		e.writeToken("while")
		e.space()
		e.write("(")
		e.emitExpr(n.Right(), 0)
		e.write(");")
	case ast.KindFor:
		e.emitFor(n)
	case ast.KindReturn:
		e.write("return")
		if n.FirstChild != nil {
			e.write(" ")
			e.emitExpr(n.FirstChild, 0)
		}
		e.write(";")
	case ast.KindBreak:
		e.write("break;")
	case ast.KindContinue:
		e.write("continue;")
	case ast.KindDiscard:
		e.write("discard;")
	}
}

func (e *emitter) emitFor(n *ast.Node) {
	init, cond, update, body := n.ChildAt(0), n.ChildAt(1), n.ChildAt(2), n.ChildAt(3)
	e.write("for")
	e.space()
	e.write("(")
	if initStmt := init.FirstChild; initStmt != nil {
		switch initStmt.Kind {
		case ast.KindVariables:
			e.emitVariablesDecl(initStmt)
		case ast.KindExpressionStmt:
			e.emitExpr(initStmt.FirstChild, 0)
		}
	}
	e.write(";")
	if cond.ChildCount() > 0 {
		e.space()
		e.emitExpr(cond.FirstChild, 0)
	}
	e.write(";")
	if update.ChildCount() > 0 {
		e.space()
		e.emitExpr(update.FirstChild, 0)
	}
	e.write(")")
	e.space()
	e.emitStatement(body)
}

// ----------------------------------------------------------------------------
// Expressions — precedence-driven parenthesization
// ----------------------------------------------------------------------------

// Precedence bands mirror the parser's own climb exactly (parser.go's
// precComma..precMember) — equality and relational operators bind at
// the same level there (both fold into one `precCompare` climb step),
// so they must parenthesize identically here or a round-tripped
// `(a<b)==c` would silently regroup.
const (
	precComma = iota + 1
	precAssign
	precHook
	precLogicalOr
	precLogicalXor
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precCompare
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precMember
	precPrimary
)

func precedenceOf(n *ast.Node) int {
	switch n.Kind {
	case ast.KindSequence:
		return precComma
	case ast.KindHook:
		return precHook
	case ast.KindLogicalOr:
		return precLogicalOr
	case ast.KindLogicalXor:
		return precLogicalXor
	case ast.KindLogicalAnd:
		return precLogicalAnd
	case ast.KindBitwiseOr:
		return precBitwiseOr
	case ast.KindBitwiseXor:
		return precBitwiseXor
	case ast.KindBitwiseAnd:
		return precBitwiseAnd
	case ast.KindEqual, ast.KindNotEqual,
		ast.KindLessThan, ast.KindLessThanOrEqual, ast.KindGreaterThan, ast.KindGreaterThanOrEqual:
		return precCompare
	case ast.KindShiftLeft, ast.KindShiftRight:
		return precShift
	case ast.KindAdd, ast.KindSubtract:
		return precAdditive
	case ast.KindMultiply, ast.KindDivide, ast.KindModulo:
		return precMultiplicative
	case ast.KindCall, ast.KindDot, ast.KindIndex:
		return precMember
	}
	if n.Kind.IsBinaryAssign() {
		return precAssign
	}
	if n.Kind.IsUnaryPrefix() || n.Kind.IsUnaryAssign() {
		return precUnary
	}
	return precPrimary
}

// emitExpr prints n, wrapping it in parentheses when its own
// precedence is lower than minPrec — the precedence the surrounding
// context requires an unparenthesized operand to meet.
func (e *emitter) emitExpr(n *ast.Node, minPrec int) {
	if n == nil {
		return
	}
	if precedenceOf(n) < minPrec {
		e.write("(")
		e.emitExprNode(n)
		e.write(")")
		return
	}
	e.emitExprNode(n)
}

func (e *emitter) emitExprNode(n *ast.Node) {
	switch {
	case n.Kind == ast.KindInt:
		e.writeToken(strconv.FormatInt(n.Literal, 10))
	case n.Kind == ast.KindFloat:
		e.writeToken(floatText(n.LiteralFloat, e.opts.Minify))
	case n.Kind == ast.KindBool:
		if n.Literal != 0 {
			e.writeToken("true")
		} else {
			e.writeToken("false")
		}
	case n.Kind == ast.KindName:
		name := n.Text
		if n.Symbol != nil {
			name = n.Symbol.Name
		}
		e.emitMappedToken(name, n.Range.Start)
	case n.Kind == ast.KindType:
		if n.Symbol != nil {
			e.writeToken(n.Symbol.Name)
		} else {
			e.writeToken(n.Text)
		}
	case n.Kind == ast.KindCall:
		e.emitCall(n)
	case n.Kind == ast.KindDot:
		own := precedenceOf(n)
		e.emitExpr(n.FirstChild, own)
		e.write(".")
		e.write(n.Text)
	case n.Kind == ast.KindIndex:
		own := precedenceOf(n)
		e.emitExpr(n.FirstChild, own)
		e.write("[")
		e.emitExpr(n.Right(), 0)
		e.write("]")
	case n.Kind == ast.KindHook:
		e.emitExpr(n.FirstChild, precHook+1)
		e.space()
		e.write("?")
		e.space()
		e.emitExpr(n.Right(), precAssign)
		e.space()
		e.write(":")
		e.space()
		e.emitExpr(n.Third(), precHook)
	case n.Kind == ast.KindSequence:
		// Left-associative, like the parser's comma climb: the left
		// child may itself be a sequence (built by previous folds);
		// the right child is parsed at precComma+1 and so can never
		// be one.
		e.emitExpr(n.FirstChild, precComma)
		e.write(",")
		e.space()
		e.emitExpr(n.Right(), precComma+1)
	case n.Kind.IsUnaryPrefix():
		e.writeToken(unaryPrefixText(n.Kind))
		e.emitExpr(n.FirstChild, precUnary)
	case n.Kind == ast.KindPrefixIncrement:
		e.writeToken("++")
		e.emitExpr(n.FirstChild, precUnary)
	case n.Kind == ast.KindPrefixDecrement:
		e.writeToken("--")
		e.emitExpr(n.FirstChild, precUnary)
	case n.Kind == ast.KindPostfixIncrement:
		e.emitExpr(n.FirstChild, precPostfix)
		e.write("++")
	case n.Kind == ast.KindPostfixDecrement:
		e.emitExpr(n.FirstChild, precPostfix)
		e.write("--")
	case n.Kind.IsBinaryAssign():
		e.emitExpr(n.FirstChild, precAssign+1)
		e.space()
		e.write(assignOpText(n.Kind))
		e.space()
		e.emitExpr(n.Right(), precAssign)
	case n.Kind.IsBinary():
		own := precedenceOf(n)
		e.emitExpr(n.FirstChild, own)
		e.space()
		e.writeToken(binaryOpText(n.Kind))
		e.space()
		e.emitExpr(n.Right(), own+1)
	}
}

func (e *emitter) emitCall(n *ast.Node) {
	callee := n.FirstChild
	e.emitExpr(callee, precMember)
	e.write("(")
	for a := callee.Next; a != nil; a = a.Next {
		if a != callee.Next {
			e.write(",")
			e.space()
		}
		e.emitExpr(a, precAssign)
	}
	e.write(")")
}

func unaryPrefixText(k ast.NodeKind) string {
	switch k {
	case ast.KindNegative:
		return "-"
	case ast.KindPositive:
		return "+"
	case ast.KindLogicalNot:
		return "!"
	case ast.KindBitwiseNot:
		return "~"
	}
	return ""
}

func assignOpText(k ast.NodeKind) string {
	switch k {
	case ast.KindAssign:
		return "="
	case ast.KindAssignAdd:
		return "+="
	case ast.KindAssignSubtract:
		return "-="
	case ast.KindAssignMultiply:
		return "*="
	case ast.KindAssignDivide:
		return "/="
	}
	return "="
}

func binaryOpText(k ast.NodeKind) string {
	switch k {
	case ast.KindAdd:
		return "+"
	case ast.KindSubtract:
		return "-"
	case ast.KindMultiply:
		return "*"
	case ast.KindDivide:
		return "/"
	case ast.KindModulo:
		return "%"
	case ast.KindEqual:
		return "=="
	case ast.KindNotEqual:
		return "!="
	case ast.KindLessThan:
		return "<"
	case ast.KindLessThanOrEqual:
		return "<="
	case ast.KindGreaterThan:
		return ">"
	case ast.KindGreaterThanOrEqual:
		return ">="
	case ast.KindLogicalAnd:
		return "&&"
	case ast.KindLogicalOr:
		return "||"
	case ast.KindLogicalXor:
		return "^^"
	case ast.KindBitwiseAnd:
		return "&"
	case ast.KindBitwiseOr:
		return "|"
	case ast.KindBitwiseXor:
		return "^"
	case ast.KindShiftLeft:
		return "<<"
	case ast.KindShiftRight:
		return ">>"
	}
	return ""
}

// floatText picks the shorter of the decimal and exponential spelling
// of v, stripping a redundant leading zero in minified mode and
// guaranteeing a decimal point is present whenever no exponent is
// emitted (`1.0`, never bare `1`, which GLSL ES would read as an int).
func floatText(v float64, minify bool) string {
	dec := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(dec, ".") {
		dec += ".0"
	}

	exp := strconv.FormatFloat(v, 'e', -1, 64)
	if idx := strings.IndexByte(exp, 'e'); idx >= 0 {
		mantissa, exponent := exp[:idx], exp[idx+1:]
		sign := ""
		if len(exponent) > 0 && (exponent[0] == '+' || exponent[0] == '-') {
			if exponent[0] == '-' {
				sign = "-"
			}
			exponent = exponent[1:]
		}
		exponent = strings.TrimLeft(exponent, "0")
		if exponent == "" {
			exponent = "0"
		}
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		exp = mantissa + "e" + sign + exponent
	}

	if minify {
		dec = stripLeadingZero(dec)
		exp = stripLeadingZero(exp)
	}

	if len(exp) < len(dec) {
		return exp
	}
	return dec
}

func stripLeadingZero(s string) string {
	if strings.HasPrefix(s, "0.") {
		return s[1:]
	}
	if strings.HasPrefix(s, "-0.") {
		return "-" + s[2:]
	}
	return s
}

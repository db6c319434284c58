// Package resolver performs name resolution, static type checking and
// control-flow analysis over a parsed GLSL ES 1.0 tree.
//
// It walks the tree once, assigning Node.ResolvedType and
// Symbol.ResolvedTypeMemo as it goes, reporting diagnostics for every
// rule violation while continuing past them (the Type.ERROR bottom
// type absorbs the failure so later checks do not cascade). The same
// walk tracks control flow so blocks know whether every path through
// them ends in return/break/continue/discard.
package resolver

import (
	"strings"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/builtinapi"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/types"
)

// Resolver walks a parsed tree and type-checks it in place.
type Resolver struct {
	cd  *ast.CompilerData
	log *diagnostic.Log

	currentFunction *ast.Symbol
	loopDepth       int

	// flowStack holds one entry (true) per function body being resolved;
	// nothing reads it. Per-block liveness is computed locally in
	// resolveBlock.
	flowStack []bool
}

// New creates a Resolver reporting into log.
func New(cd *ast.CompilerData, log *diagnostic.Log) *Resolver {
	return &Resolver{cd: cd, log: log}
}

// Resolve type-checks root (the translation unit's Block of top-level
// declarations) in place.
func Resolve(root *ast.Node, cd *ast.CompilerData, log *diagnostic.Log) {
	r := New(cd, log)
	r.resolveGlobalBlock(root)
}

func (r *Resolver) resolveGlobalBlock(root *ast.Node) {
	for c := root.FirstChild; c != nil; c = c.Next {
		r.resolveGlobalDecl(c)
	}
}

func (r *Resolver) resolveGlobalDecl(n *ast.Node) {
	switch n.Kind {
	case ast.KindVersion, ast.KindExtension, ast.KindInclude:
		// no type information to compute
	case ast.KindPrecision:
		r.resolveTypeNode(n.FirstChild)
	case ast.KindStructDecl:
		r.resolveStructDecl(n)
	case ast.KindVariables:
		r.resolveVariablesDecl(n)
	case ast.KindFunctionDecl:
		r.resolveFunctionDecl(n)
	}
}

// ----------------------------------------------------------------------------
// Type node resolution
// ----------------------------------------------------------------------------

var builtinScalarTypes = map[string]types.Type{
	"void":  types.Void,
	"bool":  types.Bool,
	"int":   types.Int,
	"float": types.Float,
}

func vec(n int, elem types.Type) types.Type { return types.Vec(n, elem.(*types.Scalar)) }

var builtinNamedTypes = map[string]types.Type{
	"vec2": vec(2, types.Float), "vec3": vec(3, types.Float), "vec4": vec(4, types.Float),
	"bvec2": vec(2, types.Bool), "bvec3": vec(3, types.Bool), "bvec4": vec(4, types.Bool),
	"ivec2": vec(2, types.Int), "ivec3": vec(3, types.Int), "ivec4": vec(4, types.Int),
	"mat2": types.Mat(2), "mat3": types.Mat(3), "mat4": types.Mat(4),
	"sampler2D":   &types.Sampler{Kind: types.Sampler2D},
	"samplerCube": &types.Sampler{Kind: types.SamplerCube},
}

// resolveTypeNode computes the types.Type denoted by a KindType node,
// memoizing it on the node itself.
func (r *Resolver) resolveTypeNode(n *ast.Node) types.Type {
	if n == nil {
		return types.Error
	}
	if n.ResolvedType != nil {
		return n.ResolvedType
	}
	var t types.Type
	if builtin, ok := builtinScalarTypes[n.Text]; ok {
		t = builtin
	} else if builtin, ok := builtinNamedTypes[n.Text]; ok {
		t = builtin
	} else if n.Symbol != nil && n.Symbol.Kind == ast.StructSymbol {
		t = r.structType(n.Symbol)
	} else {
		r.log.AddError(n.Range, "undeclared type '%s'", n.Text)
		t = types.Error
	}
	n.ResolvedType = t
	return t
}

// structType lazily builds and memoizes the types.Struct for a struct
// symbol, guarding against infinite recursion on self-referential
// (and therefore invalid) struct fields.
func (r *Resolver) structType(sym *ast.Symbol) types.Type {
	if sym.ResolvedTypeMemo != nil {
		return sym.ResolvedTypeMemo
	}
	st := &types.Struct{Name: sym.Name}
	sym.ResolvedTypeMemo = st // break recursive cycles before recursing
	for _, field := range sym.Fields {
		ft := r.resolveTypeNode(field.TypeNode)
		if field.ArrayCountNode != nil {
			ft = r.arrayTypeOf(ft, field.ArrayCountNode)
		}
		field.ResolvedTypeMemo = ft
		st.Fields = append(st.Fields, types.StructField{Name: field.Name, Type: ft})
	}
	return st
}

func (r *Resolver) arrayTypeOf(base types.Type, countNode *ast.Node) types.Type {
	length := 0
	if countNode != nil {
		ct := r.resolveExpr(countNode)
		if types.IsError(ct) {
			return types.Error
		}
		if countNode.Kind == ast.KindInt {
			length = int(countNode.Literal)
		} else {
			r.log.AddError(countNode.Range, "array size must be a constant integer")
		}
	}
	return types.ArrayOf(base, length)
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func (r *Resolver) resolveStructDecl(n *ast.Node) {
	r.structType(n.Symbol)
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Kind == ast.KindVariables {
			r.resolveVariablesDecl(c)
		}
	}
}

func (r *Resolver) resolveVariablesDecl(n *ast.Node) {
	for decl := n.FirstChild; decl != nil; decl = decl.Next {
		sym := decl.Symbol
		if sym == nil {
			continue
		}
		baseType := r.resolveTypeNode(sym.TypeNode)
		varType := baseType
		if sym.ArrayCountNode != nil {
			varType = r.arrayTypeOf(baseType, sym.ArrayCountNode)
		}
		sym.ResolvedTypeMemo = varType
		decl.ResolvedType = varType

		if init := decl.FirstChild; init != nil {
			initType := r.resolveExpr(init)
			if !types.CanConvertTo(initType, varType) {
				r.log.AddError(init.Range, "cannot initialize '%s' of type %s with a value of type %s",
					sym.Name, varType, initType)
			}
			if sym.Flags.Has(ast.FlagConst) {
				sym.ConstantValue = init
			}
		} else if sym.Flags.Has(ast.FlagConst) {
			r.log.AddError(decl.Range, "const '%s' requires an initializer", sym.Name)
		}

		if varType.ContainsSampler() && (sym.VariableKind == ast.LocalVariable) {
			r.log.AddError(decl.Range, "samplers cannot be declared as local variables")
		}
	}
}

func (r *Resolver) resolveFunctionDecl(n *ast.Node) {
	sym := n.Symbol
	r.resolveTypeNode(sym.ReturnTypeNode)
	for _, arg := range sym.Arguments {
		t := r.resolveTypeNode(arg.TypeNode)
		if arg.ArrayCountNode != nil {
			t = r.arrayTypeOf(t, arg.ArrayCountNode)
		}
		arg.ResolvedTypeMemo = t
	}
	if sym.Body == nil {
		return
	}

	prevFunc := r.currentFunction
	r.currentFunction = sym
	r.flowStack = append(r.flowStack, true)
	r.resolveBlock(sym.Body)
	r.flowStack = r.flowStack[:len(r.flowStack)-1]
	r.currentFunction = prevFunc

	returnType := r.resolveTypeNode(sym.ReturnTypeNode)
	if !returnType.Equals(types.Void) && !sym.Body.HasControlFlowAtEnd {
		r.log.AddError(sym.Range, "function '%s' does not return a value on all control paths", sym.Name)
	}
}

// ----------------------------------------------------------------------------
// Statements / control flow
//
// live tracks whether the statement currently executing can still be
// reached; it goes false once a return/break/continue/discard is seen,
// so that HasControlFlowAtEnd can be set per block without a second
// tree walk.
// ----------------------------------------------------------------------------

func (r *Resolver) resolveBlock(n *ast.Node) {
	live := true
	for c := n.FirstChild; c != nil; c = c.Next {
		r.resolveStatement(c)
		if terminatesFlow(c) {
			live = false
		}
	}
	n.HasControlFlowAtEnd = !live
}

func terminatesFlow(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindReturn, ast.KindBreak, ast.KindContinue, ast.KindDiscard:
		return true
	case ast.KindBlock:
		return n.HasControlFlowAtEnd
	case ast.KindIf:
		elseBranch := n.Third()
		return elseBranch != nil && terminatesFlow(n.Right()) && terminatesFlow(elseBranch)
	}
	return false
}

func (r *Resolver) resolveStatement(n *ast.Node) {
	switch n.Kind {
	case ast.KindBlock:
		r.resolveBlock(n)
	case ast.KindExpressionStmt:
		r.resolveExpr(n.FirstChild)
	case ast.KindVariables:
		r.resolveVariablesDecl(n)
	case ast.KindStructDecl:
		r.resolveStructDecl(n)
	case ast.KindPrecision:
		r.resolveTypeNode(n.FirstChild)
	case ast.KindIf:
		r.checkBoolCondition(n.FirstChild)
		r.resolveStatement(n.Right())
		if elseBranch := n.Third(); elseBranch != nil {
			r.resolveStatement(elseBranch)
		}
	case ast.KindWhile:
		r.checkBoolCondition(n.FirstChild)
		r.loopDepth++
		r.resolveStatement(n.Right())
		r.loopDepth--
	case ast.KindDoWhile:
		r.loopDepth++
		r.resolveStatement(n.FirstChild)
		r.loopDepth--
		r.checkBoolCondition(n.Right())
	case ast.KindFor:
		init, cond, update, body := n.ChildAt(0), n.ChildAt(1), n.ChildAt(2), n.ChildAt(3)
		r.resolveBlock(init)
		if cond.ChildCount() > 0 {
			r.checkBoolCondition(cond.FirstChild)
		}
		if update.ChildCount() > 0 {
			r.resolveExpr(update.FirstChild)
		}
		r.loopDepth++
		r.resolveStatement(body)
		r.loopDepth--
	case ast.KindReturn:
		r.resolveReturn(n)
	case ast.KindBreak, ast.KindContinue:
		if r.loopDepth == 0 {
			r.log.AddError(n.Range, "'%s' used outside of a loop", breakContinueText(n.Kind))
		}
	case ast.KindDiscard:
		// legal only in fragment-stage shaders, which the resolver does
		// not itself distinguish; left to the caller/profile check.
	}
}

func breakContinueText(k ast.NodeKind) string {
	if k == ast.KindBreak {
		return "break"
	}
	return "continue"
}

func (r *Resolver) checkBoolCondition(n *ast.Node) {
	t := r.resolveExpr(n)
	if !types.IsError(t) && !t.Equals(types.Bool) {
		r.log.AddError(n.Range, "condition must be of type bool, got %s", t)
	}
}

func (r *Resolver) resolveReturn(n *ast.Node) {
	var returnType types.Type = types.Void
	if r.currentFunction != nil {
		returnType = r.resolveTypeNode(r.currentFunction.ReturnTypeNode)
	}
	if n.ChildCount() == 0 {
		if !returnType.Equals(types.Void) {
			r.log.AddError(n.Range, "non-void function must return a value")
		}
		return
	}
	valueType := r.resolveExpr(n.FirstChild)
	if !types.CanConvertTo(valueType, returnType) {
		r.log.AddError(n.Range, "cannot return %s from a function returning %s", valueType, returnType)
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (r *Resolver) resolveExpr(n *ast.Node) types.Type {
	if n == nil {
		return types.Error
	}
	if n.ResolvedType != nil {
		return n.ResolvedType
	}
	t := r.resolveExprUncached(n)
	n.ResolvedType = t
	return t
}

func (r *Resolver) resolveExprUncached(n *ast.Node) types.Type {
	switch {
	case n.Kind == ast.KindInt:
		return types.Int
	case n.Kind == ast.KindFloat:
		return types.Float
	case n.Kind == ast.KindBool:
		return types.Bool
	case n.Kind == ast.KindName:
		return r.resolveName(n)
	case n.Kind == ast.KindType:
		return r.resolveTypeNode(n)
	case n.Kind == ast.KindCall:
		return r.resolveCall(n)
	case n.Kind == ast.KindDot:
		return r.resolveDot(n)
	case n.Kind == ast.KindIndex:
		return r.resolveIndex(n)
	case n.Kind == ast.KindHook:
		return r.resolveHook(n)
	case n.Kind == ast.KindSequence:
		r.resolveExpr(n.FirstChild)
		return r.resolveExpr(n.Right())
	case n.Kind.IsUnaryPrefix():
		return r.resolveUnary(n)
	case n.Kind.IsUnaryAssign():
		return r.resolveIncDec(n)
	case n.Kind.IsBinaryAssign():
		return r.resolveAssign(n)
	case n.Kind.IsBinary():
		return r.resolveBinary(n)
	case n.Kind == ast.KindParseError:
		return types.Error
	}
	return types.Error
}

func (r *Resolver) resolveName(n *ast.Node) types.Type {
	if n.Symbol == nil {
		r.log.AddError(n.Range, "undeclared identifier '%s'", n.Text)
		return types.Error
	}
	sym := n.Symbol
	sym.UseCount++
	if sym.Kind == ast.FunctionSymbol {
		// A bare function name outside of a call has no value type; the
		// call-site resolves the overload instead.
		return types.Error
	}
	if sym.ResolvedTypeMemo == nil {
		base := r.resolveTypeNode(sym.TypeNode)
		if sym.ArrayCountNode != nil {
			base = r.arrayTypeOf(base, sym.ArrayCountNode)
		}
		sym.ResolvedTypeMemo = base
	}
	return sym.ResolvedTypeMemo
}

var swizzleSets = []string{"xyzw", "rgba", "stpq"}

func (r *Resolver) resolveDot(n *ast.Node) types.Type {
	targetType := r.resolveExpr(n.FirstChild)
	if types.IsError(targetType) {
		return types.Error
	}
	if st, ok := targetType.(*types.Struct); ok {
		if field := st.GetField(n.Text); field != nil {
			return field.Type
		}
		r.log.AddError(n.Range, "type %s has no field '%s'", targetType, n.Text)
		return types.Error
	}
	if v, ok := targetType.(*types.Vector); ok {
		return r.resolveSwizzle(n, v)
	}
	r.log.AddError(n.Range, "type %s has no member '%s'", targetType, n.Text)
	return types.Error
}

func (r *Resolver) resolveSwizzle(n *ast.Node, v *types.Vector) types.Type {
	name := n.Text
	if len(name) < 1 || len(name) > 4 {
		r.log.AddError(n.Range, "invalid swizzle '%s'", name)
		return types.Error
	}
	var set string
	for _, s := range swizzleSets {
		if strings.ContainsAny(name, s) {
			set = s
			break
		}
	}
	if set == "" {
		r.log.AddError(n.Range, "invalid swizzle '%s'", name)
		return types.Error
	}
	for _, c := range name {
		idx := strings.IndexRune(set, c)
		if idx < 0 {
			r.log.AddError(n.Range, "swizzle '%s' mixes component sets", name)
			return types.Error
		}
		if idx >= v.Width {
			r.log.AddError(n.Range, "swizzle '%s' is out of range for %s", name, v)
			return types.Error
		}
	}
	if len(name) == 1 {
		return v.Element
	}
	return types.Vec(len(name), v.Element)
}

func (r *Resolver) resolveIndex(n *ast.Node) types.Type {
	targetType := r.resolveExpr(n.FirstChild)
	indexType := r.resolveExpr(n.Right())
	if !types.IsError(indexType) && !indexType.Equals(types.Int) {
		r.log.AddError(n.Right().Range, "array index must be of type int, got %s", indexType)
	}
	if types.IsError(targetType) {
		return types.Error
	}
	result := targetType.IndexType()
	if result == nil {
		r.log.AddError(n.Range, "type %s cannot be indexed", targetType)
		return types.Error
	}
	if n.Right().Kind == ast.KindInt && targetType.IndexCount() > 0 {
		idx := int(n.Right().Literal)
		if idx < 0 || idx >= targetType.IndexCount() {
			r.log.AddError(n.Right().Range, "index %d out of range for %s", idx, targetType)
		}
	}
	return result
}

func (r *Resolver) resolveHook(n *ast.Node) types.Type {
	condType := r.resolveExpr(n.FirstChild)
	if !types.IsError(condType) && !condType.Equals(types.Bool) {
		r.log.AddError(n.FirstChild.Range, "condition of '?:' must be of type bool, got %s", condType)
	}
	yes := r.resolveExpr(n.Right())
	no := r.resolveExpr(n.Third())
	if common := types.CommonType(yes, no); common != nil {
		return common
	}
	if types.IsError(yes) || types.IsError(no) {
		return types.Error
	}
	r.log.AddError(n.Range, "'?:' branches have incompatible types %s and %s", yes, no)
	return types.Error
}

func (r *Resolver) resolveUnary(n *ast.Node) types.Type {
	operand := r.resolveExpr(n.FirstChild)
	if types.IsError(operand) {
		return types.Error
	}
	switch n.Kind {
	case ast.KindLogicalNot:
		if !operand.Equals(types.Bool) {
			r.log.AddError(n.Range, "'!' requires a bool operand, got %s", operand)
			return types.Error
		}
		return types.Bool
	case ast.KindBitwiseNot:
		if !types.IsInteger(operand) {
			r.log.AddError(n.Range, "'~' requires an integer operand, got %s", operand)
			return types.Error
		}
		return operand
	default: // Negative, Positive
		if !types.IsNumeric(operand) {
			r.log.AddError(n.Range, "unary '%s' requires a numeric operand, got %s", unaryOpText(n.Kind), operand)
			return types.Error
		}
		return operand
	}
}

func unaryOpText(k ast.NodeKind) string {
	switch k {
	case ast.KindNegative:
		return "-"
	case ast.KindPositive:
		return "+"
	}
	return "?"
}

func (r *Resolver) resolveIncDec(n *ast.Node) types.Type {
	operand := n.FirstChild
	t := r.resolveExpr(operand)
	r.checkAssignable(operand)
	if !types.IsError(t) && !types.IsNumeric(t) {
		r.log.AddError(n.Range, "'++'/'--' requires a numeric operand, got %s", t)
		return types.Error
	}
	return t
}

func (r *Resolver) resolveAssign(n *ast.Node) types.Type {
	left, right := n.FirstChild, n.Right()
	r.checkAssignable(left)
	leftType := r.resolveExpr(left)
	rightType := r.resolveExpr(right)
	if types.IsError(leftType) || types.IsError(rightType) {
		return types.Error
	}
	if n.Kind == ast.KindAssign {
		if !types.CanConvertTo(rightType, leftType) {
			r.log.AddError(n.Range, "cannot assign %s to %s", rightType, leftType)
			return types.Error
		}
		return leftType
	}
	op := compoundAssignOp(n.Kind)
	result := types.ArithmeticResultType(op, leftType, rightType)
	if result == nil {
		r.log.AddError(n.Range, "incompatible operand types %s and %s", leftType, rightType)
		return types.Error
	}
	if !result.Equals(leftType) {
		r.log.AddError(n.Range, "cannot assign result of type %s to %s", result, leftType)
		return types.Error
	}
	return leftType
}

func compoundAssignOp(k ast.NodeKind) types.NodeOp {
	switch k {
	case ast.KindAssignAdd:
		return types.OpAdd
	case ast.KindAssignSubtract:
		return types.OpSubtract
	case ast.KindAssignMultiply:
		return types.OpMultiply
	case ast.KindAssignDivide:
		return types.OpDivide
	}
	return types.OpAdd
}

// checkAssignable reports an error if n does not denote an assignable
// storage location: a plain variable not flagged const, a field/
// swizzle/index thereof.
func (r *Resolver) checkAssignable(n *ast.Node) {
	switch n.Kind {
	case ast.KindName:
		if n.Symbol != nil && n.Symbol.Flags.Has(ast.FlagConst) {
			r.log.AddError(n.Range, "cannot assign to const '%s'", n.Symbol.Name)
		}
		if n.Symbol != nil && n.Symbol.VariableKind == ast.GlobalVariable && (n.Symbol.Flags.Has(ast.FlagIn) || n.Symbol.Flags.Has(ast.FlagAttribute)) {
			r.log.AddError(n.Range, "cannot assign to read-only input '%s'", n.Symbol.Name)
		}
		// `varying` is writable from the vertex stage and read-only from
		// the fragment stage, but a single shader's tree carries no stage
		// tag to tell those apart here, so it is left unchecked rather
		// than risk rejecting a legitimate vertex-stage write.
	case ast.KindDot, ast.KindIndex:
		r.checkAssignable(n.FirstChild)
	default:
		r.log.AddError(n.Range, "expression is not assignable")
	}
}

var binaryOpName = map[ast.NodeKind]string{
	ast.KindAdd: "+", ast.KindSubtract: "-", ast.KindMultiply: "*", ast.KindDivide: "/", ast.KindModulo: "%",
	ast.KindEqual: "==", ast.KindNotEqual: "!=", ast.KindLessThan: "<", ast.KindLessThanOrEqual: "<=",
	ast.KindGreaterThan: ">", ast.KindGreaterThanOrEqual: ">=",
	ast.KindLogicalAnd: "&&", ast.KindLogicalOr: "||", ast.KindLogicalXor: "^^",
	ast.KindBitwiseAnd: "&", ast.KindBitwiseOr: "|", ast.KindBitwiseXor: "^",
	ast.KindShiftLeft: "<<", ast.KindShiftRight: ">>",
}

func (r *Resolver) resolveBinary(n *ast.Node) types.Type {
	left := r.resolveExpr(n.FirstChild)
	right := r.resolveExpr(n.Right())
	if types.IsError(left) || types.IsError(right) {
		return types.Error
	}

	switch n.Kind {
	case ast.KindAdd, ast.KindSubtract, ast.KindMultiply, ast.KindDivide:
		op := binaryArithOp(n.Kind)
		result := types.ArithmeticResultType(op, left, right)
		if result == nil {
			r.log.AddError(n.Range, "operator '%s' cannot be applied to %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		return result
	case ast.KindModulo, ast.KindBitwiseAnd, ast.KindBitwiseOr, ast.KindBitwiseXor, ast.KindShiftLeft, ast.KindShiftRight:
		if !types.IsInteger(left) || !types.IsInteger(right) {
			r.log.AddError(n.Range, "operator '%s' requires integer operands, got %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		return left
	case ast.KindLessThan, ast.KindLessThanOrEqual, ast.KindGreaterThan, ast.KindGreaterThanOrEqual:
		if !left.Equals(types.Int) && !left.Equals(types.Float) {
			r.log.AddError(n.Range, "comparison '%s' requires scalar numeric operands, got %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		if !left.Equals(right) {
			r.log.AddError(n.Range, "comparison '%s' requires matching operand types, got %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		return types.Bool
	case ast.KindEqual, ast.KindNotEqual:
		if !left.Equals(right) {
			r.log.AddError(n.Range, "'%s' requires matching operand types, got %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		return types.Bool
	case ast.KindLogicalAnd, ast.KindLogicalOr, ast.KindLogicalXor:
		if !left.Equals(types.Bool) || !right.Equals(types.Bool) {
			r.log.AddError(n.Range, "'%s' requires bool operands, got %s and %s", binaryOpName[n.Kind], left, right)
			return types.Error
		}
		return types.Bool
	}
	return types.Error
}

func binaryArithOp(k ast.NodeKind) types.NodeOp {
	switch k {
	case ast.KindAdd:
		return types.OpAdd
	case ast.KindSubtract:
		return types.OpSubtract
	case ast.KindMultiply:
		return types.OpMultiply
	case ast.KindDivide:
		return types.OpDivide
	}
	return types.OpAdd
}

// ----------------------------------------------------------------------------
// Calls: constructors, user functions, and the builtin table
// ----------------------------------------------------------------------------

func (r *Resolver) resolveCall(n *ast.Node) types.Type {
	callee := n.FirstChild
	var argTypes []types.Type
	for a := callee.Next; a != nil; a = a.Next {
		argTypes = append(argTypes, r.resolveExpr(a))
	}

	if callee.Kind == ast.KindType {
		return r.resolveConstructorCall(n, callee, argTypes)
	}

	if callee.Kind != ast.KindName {
		r.log.AddError(callee.Range, "expression is not callable")
		return types.Error
	}

	if callee.Symbol != nil && callee.Symbol.Kind == ast.FunctionSymbol {
		return r.resolveOverloadCall(n, callee, argTypes)
	}

	if b, ok := builtinapi.Table[callee.Text]; ok {
		return r.resolveBuiltinCall(n, b, argTypes)
	}

	r.log.AddError(callee.Range, "undeclared function '%s'", callee.Text)
	return types.Error
}

func (r *Resolver) resolveConstructorCall(n, callee *ast.Node, argTypes []types.Type) types.Type {
	target := r.resolveTypeNode(callee)
	if types.IsError(target) {
		return types.Error
	}
	for _, a := range argTypes {
		if types.IsError(a) {
			return types.Error
		}
	}
	if !isConstructible(target) {
		r.log.AddError(n.Range, "type %s is not constructible", target)
		return types.Error
	}
	totalComponents := 0
	for _, a := range argTypes {
		if types.IsComponentBased(a) {
			totalComponents += a.ComponentCount()
		} else {
			totalComponents++
		}
	}
	need := target.ComponentCount()
	if need == 0 {
		need = 1
	}
	if len(argTypes) == 1 && types.IsComponentBased(argTypes[0]) {
		// single-argument "conversion" constructor: always legal,
		// truncates or splats per the GLSL ES 1.0 constructor rules.
		return target
	}
	if totalComponents < need {
		r.log.AddError(n.Range, "too few components supplied to %s constructor (need %d, got %d)", target, need, totalComponents)
		return types.Error
	}
	return target
}

func isConstructible(t types.Type) bool {
	switch t.(type) {
	case *types.Scalar, *types.Vector, *types.Matrix, *types.Struct:
		return true
	}
	return false
}

// resolveOverloadCall narrows a user function's overload set per §4.3:
// first by argument count, then by exact argument type match. callee
// arrives bound (by the parser) to whichever overload Scope.Find last
// saw declared, which need not be the one this call site actually
// matches; on a match, callee.Symbol is rebound to the chosen overload
// so downstream reachability analysis (internal/rewriter) marks that
// specific overload, not just the head of the chain, as called.
func (r *Resolver) resolveOverloadCall(n, callee *ast.Node, argTypes []types.Type) types.Type {
	sym := callee.Symbol
	overloads := ast.Overloads(sym)
	var countMatches []*ast.Symbol
	for _, o := range overloads {
		if len(o.Arguments) == len(argTypes) {
			countMatches = append(countMatches, o)
		}
	}
	if len(countMatches) == 0 {
		r.log.AddError(n.Range, "no overload of '%s' takes %d argument(s)", sym.Name, len(argTypes))
		return types.Error
	}
	for _, o := range countMatches {
		if overloadArgsMatch(r, o, argTypes) {
			callee.Symbol = o
			o.UseCount++
			return r.resolveTypeNode(o.ReturnTypeNode)
		}
	}
	r.log.AddError(n.Range, "no overload of '%s' matches the given argument types", sym.Name)
	return types.Error
}

func overloadArgsMatch(r *Resolver, o *ast.Symbol, argTypes []types.Type) bool {
	for i, arg := range o.Arguments {
		want := r.resolveTypeNode(arg.TypeNode)
		if !argTypes[i].Equals(want) {
			return false
		}
	}
	return true
}

func (r *Resolver) resolveBuiltinCall(n *ast.Node, b *builtinapi.Builtin, argTypes []types.Type) types.Type {
	for _, o := range b.Overloads {
		if len(o.Parameters) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range o.Parameters {
			if !argTypes[i].Equals(p) {
				match = false
				break
			}
		}
		if match {
			if b.RequiredExtension != "" {
				if beh, ok := r.cd.ExtensionBehavior[b.RequiredExtension]; !ok || beh == ast.Disable {
					r.cd.ExtensionBehavior[b.RequiredExtension] = ast.EnableBehavior
				}
			}
			return o.Return
		}
	}
	r.log.AddError(n.Range, "no overload of built-in '%s' matches the given argument types", b.Name)
	return types.Error
}

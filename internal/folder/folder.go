// Package folder implements constant folding: a pure function from a
// resolved expression node to an optional replacement node.
//
// Fold never mutates its input and is idempotent — folding an
// already-folded literal, or an already-folded constructor built
// purely of literals, simply returns nil, "no further simplification."
// Callers (the rewriter) decide whether and how to splice the result
// back into the tree.
//
// Aggregate constants (vectors, matrices, structs) are represented as
// a detached KindCall node whose callee is the same KindType/KindName
// the original constructor used and whose children are themselves
// folded literals or aggregate constants — the same shape a
// constructor call already has in the tree, so downstream consumers
// (swizzle/index extraction, emission) need no separate constant
// representation.
package folder

import (
	"math"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/types"
)

// Fold attempts to evaluate n at compile time. It returns a new,
// detached node with the same resolved type as n, or nil if n is not a
// compile-time constant (or folding it would not simplify anything
// further).
func Fold(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch {
	case n.Kind.IsLiteral():
		return nil // already maximally folded
	case n.Kind == ast.KindName:
		return foldConstName(cd, n)
	case n.Kind == ast.KindSequence:
		return foldSequence(cd, n)
	case n.Kind.IsUnaryPrefix():
		return foldUnary(cd, n)
	case n.Kind == ast.KindHook:
		return foldHook(cd, n)
	case n.Kind == ast.KindDot:
		return foldDot(cd, n)
	case n.Kind == ast.KindIndex:
		return foldIndex(cd, n)
	case n.Kind.IsBinary():
		return foldBinary(cd, n)
	case n.Kind == ast.KindCall:
		if isFoldedConstructor(n) {
			return nil // already maximally folded
		}
		return foldConstructorCall(cd, n)
	}
	return nil
}

// isFoldedConstructor reports whether n is already in the canonical
// form foldConstructorCall produces: a constructor call whose argument
// count exactly matches its resolved type's component/field count (so
// a single-argument splat/conversion like `vec3(1.0)` is NOT
// considered folded — it still needs expanding to three components)
// and whose every argument is itself a literal or a folded
// constructor. Re-folding an already-canonical node is a no-op.
func isFoldedConstructor(n *ast.Node) bool {
	callee := n.FirstChild
	if callee == nil || callee.Kind != ast.KindType {
		return false
	}
	argCount := 0
	for a := callee.Next; a != nil; a = a.Next {
		argCount++
		if !a.Kind.IsLiteral() && !isFoldedConstructor(a) {
			return false
		}
	}
	if argCount == 0 {
		return false
	}
	switch t := n.ResolvedType.(type) {
	case *types.Scalar:
		// Scalars never remain a constructor call in canonical folded
		// form — foldScalarConstructor always reduces them to a bare
		// literal, so this is never "already folded".
		return false
	case *types.Vector:
		return argCount == t.Width
	case *types.Matrix:
		return argCount == t.Size*t.Size
	case *types.Struct:
		return argCount == len(t.Fields)
	}
	return false
}

func foldConstName(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	sym := n.Symbol
	if sym == nil || !sym.Flags.Has(ast.FlagConst) || sym.ConstantValue == nil {
		return nil
	}
	return cloneConstant(cd, foldedOperand(cd, sym.ConstantValue))
}

// cloneConstant returns a fully detached copy of a folded constant
// (literal or constructor), safe to splice in at a different tree
// position than the one it was folded from.
func cloneConstant(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind.IsLiteral() {
		return cloneLiteral(cd, n)
	}
	clone := ast.NewNode(cd, n.Kind, n.Range)
	clone.Text = n.Text
	clone.ResolvedType = n.ResolvedType
	for c := n.FirstChild; c != nil; c = c.Next {
		clone.AppendChild(cloneConstant(cd, c))
	}
	return clone
}

func cloneLiteral(cd *ast.CompilerData, lit *ast.Node) *ast.Node {
	clone := ast.NewNode(cd, lit.Kind, lit.Range)
	clone.Literal = lit.Literal
	clone.LiteralFloat = lit.LiteralFloat
	clone.ResolvedType = lit.ResolvedType
	return clone
}

func literalValue(n *ast.Node) (float64, bool, bool) {
	switch n.Kind {
	case ast.KindInt:
		return float64(n.Literal), n.Literal != 0, true
	case ast.KindFloat:
		return n.LiteralFloat, n.LiteralFloat != 0, true
	case ast.KindBool:
		return 0, n.Literal != 0, true
	}
	return 0, false, false
}

func makeFloat(cd *ast.CompilerData, n *ast.Node, v float64) *ast.Node {
	lit := ast.NewNode(cd, ast.KindFloat, n.Range)
	lit.LiteralFloat = v
	lit.ResolvedType = types.Float
	return lit
}

func makeInt(cd *ast.CompilerData, n *ast.Node, v int64) *ast.Node {
	lit := ast.NewNode(cd, ast.KindInt, n.Range)
	lit.Literal = v
	lit.ResolvedType = types.Int
	return lit
}

func makeBool(cd *ast.CompilerData, n *ast.Node, v bool) *ast.Node {
	lit := ast.NewNode(cd, ast.KindBool, n.Range)
	if v {
		lit.Literal = 1
	}
	lit.ResolvedType = types.Bool
	return lit
}

// foldedOperand returns n itself if it is already a literal or a fully
// folded constructor, or the result of folding it otherwise.
func foldedOperand(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind.IsLiteral() {
		return n
	}
	if n.Kind == ast.KindCall && isFoldedConstructor(n) {
		return n
	}
	return Fold(cd, n)
}

func foldSequence(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	var last *ast.Node
	for c := n.FirstChild; c != nil; c = c.Next {
		folded := foldedOperand(cd, c)
		if folded == nil {
			return nil
		}
		last = folded
	}
	return cloneConstant(cd, last)
}

func foldUnary(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	operand := foldedOperand(cd, n.FirstChild)
	if operand == nil {
		return nil
	}
	if operand.Kind == ast.KindCall {
		return foldUnaryOverConstructor(cd, n, operand)
	}
	fv, bv, ok := literalValue(operand)
	if !ok {
		return nil
	}
	switch n.Kind {
	case ast.KindNegative:
		if operand.Kind == ast.KindInt {
			return makeInt(cd, n, -operand.Literal)
		}
		return makeFloat(cd, n, -fv)
	case ast.KindPositive:
		return cloneLiteral(cd, operand)
	case ast.KindLogicalNot:
		return makeBool(cd, n, !bv)
	case ast.KindBitwiseNot:
		return makeInt(cd, n, ^operand.Literal)
	}
	return nil
}

// foldUnaryOverConstructor applies a unary operator component-wise to a
// folded vector/matrix constructor.
func foldUnaryOverConstructor(cd *ast.CompilerData, n, operand *ast.Node) *ast.Node {
	components := constructorComponents(operand)
	if components == nil {
		return nil
	}
	out := make([]*ast.Node, len(components))
	for i, c := range components {
		folded := foldUnaryLiteral(cd, n, c)
		if folded == nil {
			return nil
		}
		out[i] = folded
	}
	return rebuildConstructor(cd, n, operand, out)
}

func foldUnaryLiteral(cd *ast.CompilerData, n, operand *ast.Node) *ast.Node {
	fv, bv, ok := literalValue(operand)
	if !ok {
		return nil
	}
	switch n.Kind {
	case ast.KindNegative:
		if operand.Kind == ast.KindInt {
			return makeInt(cd, n, -operand.Literal)
		}
		return makeFloat(cd, n, -fv)
	case ast.KindPositive:
		return cloneLiteral(cd, operand)
	case ast.KindLogicalNot:
		return makeBool(cd, n, !bv)
	case ast.KindBitwiseNot:
		return makeInt(cd, n, ^operand.Literal)
	}
	return nil
}

func foldHook(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	cond := foldedOperand(cd, n.FirstChild)
	if cond == nil || cond.Kind != ast.KindBool {
		return nil
	}
	if cond.Literal != 0 {
		return cloneBranch(cd, n.Right())
	}
	return cloneBranch(cd, n.Third())
}

func cloneBranch(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	folded := foldedOperand(cd, n)
	return cloneConstant(cd, folded)
}

// constructorComponents returns the flat scalar-literal components of
// a folded vector/matrix constructor in storage order (column-major
// for matrices), or nil if n is not such a constructor.
func constructorComponents(n *ast.Node) []*ast.Node {
	if n == nil || n.Kind != ast.KindCall {
		return nil
	}
	switch n.ResolvedType.(type) {
	case *types.Vector, *types.Matrix:
	default:
		return nil
	}
	var out []*ast.Node
	for c := n.FirstChild.Next; c != nil; c = c.Next {
		if !c.Kind.IsLiteral() {
			return nil
		}
		out = append(out, c)
	}
	return out
}

// rebuildConstructor assembles a new constructor node of the same type
// as template, with the given literal components as arguments.
func rebuildConstructor(cd *ast.CompilerData, n, template *ast.Node, components []*ast.Node) *ast.Node {
	call := ast.NewNode(cd, ast.KindCall, n.Range)
	call.ResolvedType = template.ResolvedType
	callee := ast.NewNode(cd, ast.KindType, template.FirstChild.Range)
	callee.Text = template.FirstChild.Text
	call.AppendChild(callee)
	for _, c := range components {
		call.AppendChild(cloneLiteral(cd, c))
	}
	return call
}

func foldBinary(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	left := foldedOperand(cd, n.FirstChild)
	right := foldedOperand(cd, n.Right())
	if left == nil || right == nil {
		return nil
	}

	if n.Kind == ast.KindMultiply {
		if result := foldMatrixMultiply(cd, n, left, right); result != nil {
			return result
		}
	}
	if left.Kind == ast.KindCall || right.Kind == ast.KindCall {
		return foldBinaryOverConstructors(cd, n, left, right)
	}

	lf, lb, lok := literalValue(left)
	rf, rb, rok := literalValue(right)
	if !lok || !rok {
		return nil
	}
	return foldBinaryScalars(cd, n, left, right, lf, rf, lb, rb)
}

func foldBinaryScalars(cd *ast.CompilerData, n, left, right *ast.Node, lf, rf float64, lb, rb bool) *ast.Node {
	bothInt := left.Kind == ast.KindInt && right.Kind == ast.KindInt

	switch n.Kind {
	case ast.KindAdd:
		if bothInt {
			return makeInt(cd, n, left.Literal+right.Literal)
		}
		return makeFloat(cd, n, lf+rf)
	case ast.KindSubtract:
		if bothInt {
			return makeInt(cd, n, left.Literal-right.Literal)
		}
		return makeFloat(cd, n, lf-rf)
	case ast.KindMultiply:
		if bothInt {
			return makeInt(cd, n, left.Literal*right.Literal)
		}
		return makeFloat(cd, n, lf*rf)
	case ast.KindDivide:
		// div-by-zero folds to 0 by policy (§4.4), not a compile error.
		if bothInt {
			if right.Literal == 0 {
				return makeInt(cd, n, 0)
			}
			return makeInt(cd, n, left.Literal/right.Literal)
		}
		if rf == 0 {
			return makeFloat(cd, n, 0)
		}
		return makeFloat(cd, n, lf/rf)
	case ast.KindModulo:
		if right.Literal == 0 {
			return makeInt(cd, n, 0)
		}
		return makeInt(cd, n, left.Literal%right.Literal)
	case ast.KindEqual:
		return makeBool(cd, n, literalsEqual(left, right))
	case ast.KindNotEqual:
		return makeBool(cd, n, !literalsEqual(left, right))
	case ast.KindLessThan:
		return makeBool(cd, n, compareValue(left, lf) < compareValue(right, rf))
	case ast.KindLessThanOrEqual:
		return makeBool(cd, n, compareValue(left, lf) <= compareValue(right, rf))
	case ast.KindGreaterThan:
		return makeBool(cd, n, compareValue(left, lf) > compareValue(right, rf))
	case ast.KindGreaterThanOrEqual:
		return makeBool(cd, n, compareValue(left, lf) >= compareValue(right, rf))
	case ast.KindLogicalAnd:
		return makeBool(cd, n, lb && rb)
	case ast.KindLogicalOr:
		return makeBool(cd, n, lb || rb)
	case ast.KindLogicalXor:
		return makeBool(cd, n, lb != rb)
	case ast.KindBitwiseAnd:
		return makeInt(cd, n, left.Literal&right.Literal)
	case ast.KindBitwiseOr:
		return makeInt(cd, n, left.Literal|right.Literal)
	case ast.KindBitwiseXor:
		return makeInt(cd, n, left.Literal^right.Literal)
	case ast.KindShiftLeft:
		return makeInt(cd, n, left.Literal<<uint(right.Literal))
	case ast.KindShiftRight:
		return makeInt(cd, n, left.Literal>>uint(right.Literal))
	}
	return nil
}

// foldBinaryOverConstructors applies a component-wise binary operator
// where at least one operand is a folded vector/matrix constructor;
// a scalar operand on either side is broadcast across components.
func foldBinaryOverConstructors(cd *ast.CompilerData, n, left, right *ast.Node) *ast.Node {
	lc := constructorComponents(left)
	rc := constructorComponents(right)
	template := left
	var width int
	switch {
	case lc != nil && rc != nil:
		if len(lc) != len(rc) {
			return nil
		}
		width = len(lc)
	case lc != nil && rc == nil && right.Kind.IsLiteral():
		width = len(lc)
		rc = broadcast(right, width)
	case rc != nil && lc == nil && left.Kind.IsLiteral():
		width = len(rc)
		lc = broadcast(left, width)
		template = right
	default:
		return nil
	}
	out := make([]*ast.Node, width)
	for i := 0; i < width; i++ {
		folded := foldBinaryScalarPair(cd, n, lc[i], rc[i])
		if folded == nil {
			return nil
		}
		out[i] = folded
	}
	return rebuildConstructor(cd, n, template, out)
}

func broadcast(n *ast.Node, width int) []*ast.Node {
	out := make([]*ast.Node, width)
	for i := range out {
		out[i] = n
	}
	return out
}

func foldBinaryScalarPair(cd *ast.CompilerData, n, left, right *ast.Node) *ast.Node {
	lf, lb, lok := literalValue(left)
	rf, rb, rok := literalValue(right)
	if !lok || !rok {
		return nil
	}
	return foldBinaryScalars(cd, n, left, right, lf, rf, lb, rb)
}

// foldMatrixMultiply handles matN*matN, matN*vecN and vecN*matN, all
// of which fall outside the generic component-wise path above because
// the result width/shape differs from the operands.
func foldMatrixMultiply(cd *ast.CompilerData, n, left, right *ast.Node) *ast.Node {
	lm, lIsMat := left.ResolvedType.(*types.Matrix)
	rm, rIsMat := right.ResolvedType.(*types.Matrix)
	_, lIsVec := left.ResolvedType.(*types.Vector)
	_, rIsVec := right.ResolvedType.(*types.Vector)
	if !((lIsMat && rIsMat) || (lIsMat && rIsVec) || (lIsVec && rIsMat)) {
		return nil
	}
	lcomp := constructorComponents(left)
	rcomp := constructorComponents(right)
	if lcomp == nil || rcomp == nil {
		return nil
	}

	switch {
	case lIsMat && rIsMat && lm.Size == rm.Size:
		size := lm.Size
		out := make([]*ast.Node, size*size)
		for col := 0; col < size; col++ {
			for row := 0; row < size; row++ {
				sum := 0.0
				for k := 0; k < size; k++ {
					a, _, _ := literalValue(lcomp[k*size+row])
					b, _, _ := literalValue(rcomp[col*size+k])
					sum += a * b
				}
				out[col*size+row] = makeFloat(cd, n, sum)
			}
		}
		return rebuildConstructor(cd, n, left, out)
	case lIsMat && rIsVec && lm.Size == len(rcomp):
		size := lm.Size
		out := make([]*ast.Node, size)
		for row := 0; row < size; row++ {
			sum := 0.0
			for k := 0; k < size; k++ {
				a, _, _ := literalValue(lcomp[k*size+row])
				b, _, _ := literalValue(rcomp[k])
				sum += a * b
			}
			out[row] = makeFloat(cd, n, sum)
		}
		return rebuildConstructor(cd, n, right, out)
	case lIsVec && rIsMat && rm.Size == len(lcomp):
		size := rm.Size
		out := make([]*ast.Node, size)
		for col := 0; col < size; col++ {
			sum := 0.0
			for k := 0; k < size; k++ {
				a, _, _ := literalValue(lcomp[k])
				b, _, _ := literalValue(rcomp[col*size+k])
				sum += a * b
			}
			out[col] = makeFloat(cd, n, sum)
		}
		return rebuildConstructor(cd, n, left, out)
	}
	return nil
}

func compareValue(n *ast.Node, f float64) float64 {
	if n.Kind == ast.KindInt {
		return float64(n.Literal)
	}
	return f
}

func literalsEqual(a, b *ast.Node) bool {
	if a.Kind == ast.KindInt && b.Kind == ast.KindInt {
		return a.Literal == b.Literal
	}
	if a.Kind == ast.KindBool && b.Kind == ast.KindBool {
		return a.Literal == b.Literal
	}
	af, bf := compareValue(a, a.LiteralFloat), compareValue(b, b.LiteralFloat)
	return af == bf
}

// foldDot evaluates member access (swizzle or struct field) on a
// folded vector/struct constructor.
func foldDot(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	target := foldedOperand(cd, n.FirstChild)
	if target == nil || target.Kind != ast.KindCall {
		return nil
	}
	switch target.ResolvedType.(type) {
	case *types.Vector:
		return foldSwizzle(cd, n, target)
	case *types.Struct:
		return foldFieldAccess(cd, n, target)
	}
	return nil
}

func foldSwizzle(cd *ast.CompilerData, n, target *ast.Node) *ast.Node {
	components := constructorComponents(target)
	if components == nil {
		return nil
	}
	set := swizzleSetFor(n.Text)
	if set == "" {
		return nil
	}
	var picked []*ast.Node
	for _, c := range n.Text {
		idx := indexOf(set, c)
		if idx < 0 || idx >= len(components) {
			return nil
		}
		picked = append(picked, components[idx])
	}
	if len(picked) == 1 {
		return cloneLiteral(cd, picked[0])
	}
	callee := ast.NewNode(cd, ast.KindType, target.FirstChild.Range)
	callee.Text = target.FirstChild.Text
	call := ast.NewNode(cd, ast.KindCall, n.Range)
	call.ResolvedType = n.ResolvedType
	call.AppendChild(callee)
	for _, c := range picked {
		call.AppendChild(cloneLiteral(cd, c))
	}
	return call
}

var swizzleSets = []string{"xyzw", "rgba", "stpq"}

func swizzleSetFor(name string) string {
	for _, s := range swizzleSets {
		for _, c := range name {
			if indexOf(s, c) >= 0 {
				return s
			}
		}
	}
	return ""
}

func indexOf(set string, c rune) int {
	for i, s := range set {
		if s == c {
			return i
		}
	}
	return -1
}

func foldFieldAccess(cd *ast.CompilerData, n, target *ast.Node) *ast.Node {
	st, ok := target.ResolvedType.(*types.Struct)
	if !ok {
		return nil
	}
	idx := -1
	for i := range st.Fields {
		if st.Fields[i].Name == n.Text {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	field := target.FirstChild.Next
	for i := 0; i < idx && field != nil; i++ {
		field = field.Next
	}
	if field == nil {
		return nil
	}
	return cloneConstant(cd, field)
}

// foldIndex evaluates a[i] where a folds to a vector or matrix
// constructor and i folds to an int.
func foldIndex(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	target := foldedOperand(cd, n.FirstChild)
	idxNode := foldedOperand(cd, n.Right())
	if target == nil || idxNode == nil || idxNode.Kind != ast.KindInt || target.Kind != ast.KindCall {
		return nil
	}
	idx := int(idxNode.Literal)
	switch t := target.ResolvedType.(type) {
	case *types.Vector:
		components := constructorComponents(target)
		if idx < 0 || idx >= len(components) {
			return nil
		}
		return cloneLiteral(cd, components[idx])
	case *types.Matrix:
		components := constructorComponents(target)
		if idx < 0 || idx >= t.Size || len(components) != t.Size*t.Size {
			return nil
		}
		col := components[idx*t.Size : (idx+1)*t.Size]
		callee := ast.NewNode(cd, ast.KindType, target.FirstChild.Range)
		callee.Text = "vec" + itoa(t.Size)
		call := ast.NewNode(cd, ast.KindCall, n.Range)
		call.ResolvedType = t.IndexType()
		call.AppendChild(callee)
		for _, c := range col {
			call.AppendChild(cloneLiteral(cd, c))
		}
		return call
	}
	return nil
}

func itoa(n int) string {
	return string(rune('0' + n))
}

// foldConstructorCall folds constructor calls (`T(args...)`) to a
// canonical literal (scalars) or constructor node (vectors, matrices,
// structs) built entirely of literals. Mirrors the resolver's
// constructor rules: scalar conversion, splat/truncate for
// single-argument vector conversions, component flattening for
// multi-argument vector/matrix constructors (diagonal fill for a
// single-scalar matrix constructor, overlap-with-identity for
// matrix-from-matrix), and one-for-one field assembly for structs.
func foldConstructorCall(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	callee := n.FirstChild
	if callee == nil || callee.Kind != ast.KindType {
		return nil
	}
	var args []*ast.Node
	for a := callee.Next; a != nil; a = a.Next {
		folded := foldedOperand(cd, a)
		if folded == nil {
			return nil
		}
		args = append(args, folded)
	}
	if len(args) == 0 {
		return nil
	}

	switch t := n.ResolvedType.(type) {
	case *types.Scalar:
		return foldScalarConstructor(cd, n, t, args)
	case *types.Vector:
		return foldVectorConstructor(cd, n, callee, t, args)
	case *types.Matrix:
		return foldMatrixConstructor(cd, n, callee, t, args)
	case *types.Struct:
		return foldStructConstructor(cd, n, callee, t, args)
	}
	return nil
}

func foldScalarConstructor(cd *ast.CompilerData, n *ast.Node, t *types.Scalar, args []*ast.Node) *ast.Node {
	if len(args) != 1 {
		return nil
	}
	arg := args[0]
	if !arg.Kind.IsLiteral() {
		return nil // a matrix/vector -> scalar "constructor" never occurs in valid GLSL
	}
	fv, bv, ok := literalValue(arg)
	if !ok {
		return nil
	}
	switch t.Kind {
	case types.KindFloat:
		return makeFloat(cd, n, fv)
	case types.KindInt:
		if arg.Kind == ast.KindFloat {
			return makeInt(cd, n, int64(math.Trunc(fv)))
		}
		return makeInt(cd, n, int64(boolToInt(bv, arg)))
	case types.KindBool:
		return makeBool(cd, n, bv)
	}
	return nil
}

func boolToInt(bv bool, arg *ast.Node) int64 {
	if arg.Kind == ast.KindBool {
		if bv {
			return 1
		}
		return 0
	}
	return arg.Literal
}

// flattenComponents expands args into their flat scalar components,
// casting each to componentType, in constructor-argument order.
func flattenComponents(cd *ast.CompilerData, n *ast.Node, componentType types.Type, args []*ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, a := range args {
		if a.Kind.IsLiteral() {
			out = append(out, castLiteral(cd, n, componentType, a))
			continue
		}
		if comps := constructorComponents(a); comps != nil {
			for _, c := range comps {
				out = append(out, castLiteral(cd, n, componentType, c))
			}
			continue
		}
		return nil
	}
	return out
}

func castLiteral(cd *ast.CompilerData, n *ast.Node, target types.Type, lit *ast.Node) *ast.Node {
	sc, ok := target.(*types.Scalar)
	if !ok {
		return lit
	}
	fv, bv, _ := literalValue(lit)
	switch sc.Kind {
	case types.KindFloat:
		return makeFloat(cd, n, fv)
	case types.KindInt:
		if lit.Kind == ast.KindBool {
			if bv {
				return makeInt(cd, n, 1)
			}
			return makeInt(cd, n, 0)
		}
		if lit.Kind == ast.KindFloat {
			return makeInt(cd, n, int64(math.Trunc(fv)))
		}
		return makeInt(cd, n, lit.Literal)
	case types.KindBool:
		return makeBool(cd, n, bv)
	}
	return lit
}

func foldVectorConstructor(cd *ast.CompilerData, n, callee *ast.Node, t *types.Vector, args []*ast.Node) *ast.Node {
	componentType := t.Element
	var out []*ast.Node
	if len(args) == 1 {
		single := args[0]
		if single.Kind.IsLiteral() {
			// splat
			out = make([]*ast.Node, t.Width)
			for i := range out {
				out[i] = castLiteral(cd, n, componentType, single)
			}
		} else if comps := constructorComponents(single); comps != nil {
			if len(comps) < t.Width {
				return nil
			}
			out = make([]*ast.Node, t.Width)
			for i := 0; i < t.Width; i++ {
				out[i] = castLiteral(cd, n, componentType, comps[i])
			}
		} else {
			return nil
		}
	} else {
		flat := flattenComponents(cd, n, componentType, args)
		if flat == nil || len(flat) < t.Width {
			return nil
		}
		out = flat[:t.Width]
	}
	call := ast.NewNode(cd, ast.KindCall, n.Range)
	call.ResolvedType = t
	newCallee := ast.NewNode(cd, ast.KindType, callee.Range)
	newCallee.Text = callee.Text
	call.AppendChild(newCallee)
	for _, c := range out {
		call.AppendChild(c)
	}
	return call
}

func foldMatrixConstructor(cd *ast.CompilerData, n, callee *ast.Node, t *types.Matrix, args []*ast.Node) *ast.Node {
	size := t.Size
	out := make([]*ast.Node, size*size)

	switch {
	case len(args) == 1 && args[0].Kind.IsLiteral():
		// single-scalar diagonal fill.
		diag := args[0]
		for col := 0; col < size; col++ {
			for row := 0; row < size; row++ {
				if col == row {
					out[col*size+row] = castLiteral(cd, n, types.Float, diag)
				} else {
					out[col*size+row] = makeFloat(cd, n, 0)
				}
			}
		}
	case len(args) == 1 && isMatrixConstant(args[0]):
		src := args[0]
		srcSize := src.ResolvedType.(*types.Matrix).Size
		srcComps := constructorComponents(src)
		for col := 0; col < size; col++ {
			for row := 0; row < size; row++ {
				if col < srcSize && row < srcSize {
					out[col*size+row] = castLiteral(cd, n, types.Float, srcComps[col*srcSize+row])
				} else if col == row {
					out[col*size+row] = makeFloat(cd, n, 1)
				} else {
					out[col*size+row] = makeFloat(cd, n, 0)
				}
			}
		}
	default:
		flat := flattenComponents(cd, n, types.Float, args)
		if flat == nil || len(flat) < size*size {
			return nil
		}
		copy(out, flat[:size*size])
	}

	call := ast.NewNode(cd, ast.KindCall, n.Range)
	call.ResolvedType = t
	newCallee := ast.NewNode(cd, ast.KindType, callee.Range)
	newCallee.Text = callee.Text
	call.AppendChild(newCallee)
	for _, c := range out {
		call.AppendChild(c)
	}
	return call
}

func isMatrixConstant(n *ast.Node) bool {
	_, ok := n.ResolvedType.(*types.Matrix)
	return ok && n.Kind == ast.KindCall
}

func foldStructConstructor(cd *ast.CompilerData, n, callee *ast.Node, t *types.Struct, args []*ast.Node) *ast.Node {
	if len(args) != len(t.Fields) {
		return nil
	}
	call := ast.NewNode(cd, ast.KindCall, n.Range)
	call.ResolvedType = t
	newCallee := ast.NewNode(cd, callee.Kind, callee.Range)
	newCallee.Text = callee.Text
	newCallee.Symbol = callee.Symbol
	call.AppendChild(newCallee)
	for _, a := range args {
		call.AppendChild(cloneConstant(cd, a))
	}
	return call
}

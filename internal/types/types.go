// Package types implements the GLSL ES 1.0 type system: a closed set of
// scalar, vector, matrix and sampler built-ins plus user structs and
// derived array types.
package types

import "fmt"

// Type is implemented by every built-in and user type.
type Type interface {
	String() string
	Equals(other Type) bool

	// ComponentType is the scalar type underlying a vector or matrix
	// (itself, for scalars); nil for non-component-based types.
	ComponentType() Type
	// ComponentCount is the number of scalar components (1 for
	// scalars, N for vecN, N*N for matN).
	ComponentCount() int
	// IndexType is the type produced by `a[i]` (component type for
	// vectors, the column vector type for matrices, element type for
	// arrays).
	IndexType() Type
	// IndexCount is the valid index range [0, IndexCount).
	IndexCount() int

	ContainsArray() bool
	ContainsSampler() bool

	isType()
}

// ----------------------------------------------------------------------------
// Scalar
// ----------------------------------------------------------------------------

// ScalarKind enumerates GLSL ES 1.0's scalar kinds.
type ScalarKind uint8

const (
	KindVoid ScalarKind = iota
	KindBool
	KindInt
	KindFloat
)

// Scalar is a built-in scalar type: void, bool, int or float.
type Scalar struct{ Kind ScalarKind }

var (
	Void  Type = &Scalar{KindVoid}
	Bool  Type = &Scalar{KindBool}
	Int   Type = &Scalar{KindInt}
	Float Type = &Scalar{KindFloat}
	Error Type = &errorType{}
)

func (s *Scalar) isType() {}
func (s *Scalar) String() string {
	switch s.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}
	return "?"
}
func (s *Scalar) Equals(other Type) bool {
	o, ok := other.(*Scalar)
	return ok && o.Kind == s.Kind
}
func (s *Scalar) ComponentType() Type   { return s }
func (s *Scalar) ComponentCount() int   { return 1 }
func (s *Scalar) IndexType() Type       { return nil }
func (s *Scalar) IndexCount() int       { return 0 }
func (s *Scalar) ContainsArray() bool   { return false }
func (s *Scalar) ContainsSampler() bool { return false }

// errorType is the distinguished bottom type that silently propagates
// through expressions and suppresses cascading diagnostics.
type errorType struct{}

func (*errorType) isType()               {}
func (*errorType) String() string        { return "<error>" }
func (*errorType) Equals(o Type) bool    { _, ok := o.(*errorType); return ok }
func (*errorType) ComponentType() Type   { return nil }
func (*errorType) ComponentCount() int   { return 0 }
func (*errorType) IndexType() Type       { return nil }
func (*errorType) IndexCount() int       { return 0 }
func (*errorType) ContainsArray() bool   { return false }
func (*errorType) ContainsSampler() bool { return false }

// IsError reports whether t is the distinguished error type.
func IsError(t Type) bool { _, ok := t.(*errorType); return ok }

// ----------------------------------------------------------------------------
// Vector
// ----------------------------------------------------------------------------

// Vector is vecN/ivecN/bvecN, N in [2,4].
type Vector struct {
	Width   int
	Element *Scalar
}

var (
	Vec2, Vec3, Vec4 = &Vector{2, Bool.(*Scalar)}, &Vector{3, Bool.(*Scalar)}, &Vector{4, Bool.(*Scalar)}
)

func init() {
	Vec2.Element, Vec3.Element, Vec4.Element = Float.(*Scalar), Float.(*Scalar), Float.(*Scalar)
}

// Vec returns a new vector type of the given width/element; vector
// types are compared with Equals, not by identity.
func Vec(width int, elem *Scalar) *Vector { return &Vector{Width: width, Element: elem} }

func (v *Vector) isType() {}
func (v *Vector) String() string {
	prefix := ""
	switch v.Element.Kind {
	case KindBool:
		prefix = "b"
	case KindInt:
		prefix = "i"
	}
	return fmt.Sprintf("%svec%d", prefix, v.Width)
}
func (v *Vector) Equals(other Type) bool {
	o, ok := other.(*Vector)
	return ok && o.Width == v.Width && o.Element.Equals(v.Element)
}
func (v *Vector) ComponentType() Type   { return v.Element }
func (v *Vector) ComponentCount() int   { return v.Width }
func (v *Vector) IndexType() Type       { return v.Element }
func (v *Vector) IndexCount() int       { return v.Width }
func (v *Vector) ContainsArray() bool   { return false }
func (v *Vector) ContainsSampler() bool { return false }

// ----------------------------------------------------------------------------
// Matrix (square only: mat2, mat3, mat4)
// ----------------------------------------------------------------------------

// Matrix is matN, N in [2,4], stored column-major.
type Matrix struct{ Size int }

func Mat(size int) *Matrix { return &Matrix{Size: size} }

func (m *Matrix) isType()        {}
func (m *Matrix) String() string { return fmt.Sprintf("mat%d", m.Size) }
func (m *Matrix) Equals(other Type) bool {
	o, ok := other.(*Matrix)
	return ok && o.Size == m.Size
}
func (m *Matrix) ComponentType() Type   { return Float }
func (m *Matrix) ComponentCount() int   { return m.Size * m.Size }
func (m *Matrix) IndexType() Type       { return Vec(m.Size, Float.(*Scalar)) }
func (m *Matrix) IndexCount() int       { return m.Size }
func (m *Matrix) ContainsArray() bool   { return false }
func (m *Matrix) ContainsSampler() bool { return false }

// ----------------------------------------------------------------------------
// Sampler
// ----------------------------------------------------------------------------

// SamplerKind distinguishes sampler2D from samplerCube.
type SamplerKind uint8

const (
	Sampler2D SamplerKind = iota
	SamplerCube
)

// Sampler is an opaque texture-sampling handle; it has no components.
type Sampler struct{ Kind SamplerKind }

func (s *Sampler) isType() {}
func (s *Sampler) String() string {
	if s.Kind == SamplerCube {
		return "samplerCube"
	}
	return "sampler2D"
}
func (s *Sampler) Equals(other Type) bool {
	o, ok := other.(*Sampler)
	return ok && o.Kind == s.Kind
}
func (s *Sampler) ComponentType() Type   { return nil }
func (s *Sampler) ComponentCount() int   { return 0 }
func (s *Sampler) IndexType() Type       { return nil }
func (s *Sampler) IndexCount() int       { return 0 }
func (s *Sampler) ContainsArray() bool   { return false }
func (s *Sampler) ContainsSampler() bool { return true }

// ----------------------------------------------------------------------------
// Struct
// ----------------------------------------------------------------------------

// StructField is a named, typed member of a Struct.
type StructField struct {
	Name string
	Type Type
}

// Struct wraps a user-defined struct symbol once per symbol (memoized
// by the resolver via its declaring Symbol).
type Struct struct {
	Name   string
	Fields []StructField

	containsArray, containsSampler *bool
}

func (s *Struct) isType()        {}
func (s *Struct) String() string { return s.Name }
func (s *Struct) Equals(other Type) bool {
	o, ok := other.(*Struct)
	return ok && o == s // struct identity is nominal: same symbol, same type
}
func (s *Struct) ComponentType() Type { return nil }
func (s *Struct) ComponentCount() int { return 0 }
func (s *Struct) IndexType() Type     { return nil }
func (s *Struct) IndexCount() int     { return 0 }
func (s *Struct) GetField(name string) *StructField {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}
func (s *Struct) ContainsArray() bool {
	if s.containsArray != nil {
		return *s.containsArray
	}
	result := false
	for _, f := range s.Fields {
		if f.Type.ContainsArray() {
			result = true
			break
		}
	}
	s.containsArray = &result
	return result
}
func (s *Struct) ContainsSampler() bool {
	if s.containsSampler != nil {
		return *s.containsSampler
	}
	result := false
	for _, f := range s.Fields {
		if f.Type.ContainsSampler() {
			result = true
			break
		}
	}
	s.containsSampler = &result
	return result
}

// ----------------------------------------------------------------------------
// Array
// ----------------------------------------------------------------------------

// arrayKey is used to memoize array types per (base type, length).
type arrayKey struct {
	base   Type
	length int
}

var arrayMemo = make(map[arrayKey]*Array)

// Array is a fixed-length (or, with length 0, unknown/unsized) array of
// a base type.
type Array struct {
	Base   Type
	Length int // 0 means unknown/unsized
}

// ArrayOf returns the memoized array type of base with the given length.
func ArrayOf(base Type, length int) *Array {
	key := arrayKey{base: base, length: length}
	if a, ok := arrayMemo[key]; ok {
		return a
	}
	a := &Array{Base: base, Length: length}
	arrayMemo[key] = a
	return a
}

func (a *Array) isType() {}
func (a *Array) String() string {
	if a.Length > 0 {
		return fmt.Sprintf("%s[%d]", a.Base.String(), a.Length)
	}
	return a.Base.String() + "[]"
}
func (a *Array) Equals(other Type) bool {
	o, ok := other.(*Array)
	return ok && o.Length == a.Length && o.Base.Equals(a.Base)
}
func (a *Array) ComponentType() Type   { return nil }
func (a *Array) ComponentCount() int   { return 0 }
func (a *Array) IndexType() Type       { return a.Base }
func (a *Array) IndexCount() int       { return a.Length }
func (a *Array) ContainsArray() bool   { return true }
func (a *Array) ContainsSampler() bool { return a.Base.ContainsSampler() }

// ----------------------------------------------------------------------------
// Function (not a storable value type, used only for call-site checks)
// ----------------------------------------------------------------------------

// Function describes a callable signature for overload resolution.
type Function struct {
	Parameters []Type
	Return     Type
}

func (f *Function) isType() {}
func (f *Function) String() string {
	s := "("
	for i, p := range f.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ") -> "
	if f.Return == nil {
		return s + "void"
	}
	return s + f.Return.String()
}
func (f *Function) Equals(other Type) bool { return f == other }
func (f *Function) ComponentType() Type    { return nil }
func (f *Function) ComponentCount() int    { return 0 }
func (f *Function) IndexType() Type        { return nil }
func (f *Function) IndexCount() int        { return 0 }
func (f *Function) ContainsArray() bool    { return false }
func (f *Function) ContainsSampler() bool  { return false }

// ----------------------------------------------------------------------------
// Predicates and arithmetic resolution
// ----------------------------------------------------------------------------

// IsNumeric reports whether t is int, float, or a vector/matrix thereof.
func IsNumeric(t Type) bool {
	switch v := t.(type) {
	case *Scalar:
		return v.Kind == KindInt || v.Kind == KindFloat
	case *Vector:
		return v.Element.Kind == KindInt || v.Element.Kind == KindFloat
	case *Matrix:
		return true
	}
	return false
}

// IsInteger reports whether t is int or ivecN.
func IsInteger(t Type) bool {
	switch v := t.(type) {
	case *Scalar:
		return v.Kind == KindInt
	case *Vector:
		return v.Element.Kind == KindInt
	}
	return false
}

// IsComponentBased reports whether t is a scalar, vector or matrix
// (anything with a ComponentType/ComponentCount).
func IsComponentBased(t Type) bool {
	switch t.(type) {
	case *Scalar, *Vector, *Matrix:
		return true
	}
	return false
}

// CanConvertTo reports whether a value of type from may be used where
// to is expected. GLSL ES 1.0 has no implicit int->float promotion:
// conversion succeeds only for identical types (constructors, not
// assignment, perform numeric conversion).
func CanConvertTo(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if IsError(from) || IsError(to) {
		return true
	}
	return from.Equals(to)
}

// CommonType returns the shared type of two operands of a binary
// operator requiring identical component kinds, or nil.
func CommonType(a, b Type) Type {
	if a == nil || b == nil {
		return nil
	}
	if a.Equals(b) {
		return a
	}
	return nil
}

// ArithmeticResultType implements the +,-,*,/ rules of §4.3: (T,T) for
// the same component-based T, or (vectorOrMatrix, scalar) of matching
// component kind; `*` additionally permits matrix/vector combinations.
func ArithmeticResultType(op NodeOp, a, b Type) Type {
	if a == nil || b == nil {
		return nil
	}
	if IsError(a) || IsError(b) {
		return Error
	}

	if op == OpMultiply {
		if r := multiplyResultType(a, b); r != nil {
			return r
		}
	}

	if a.Equals(b) && IsComponentBased(a) {
		return a
	}

	// vectorOrMatrix OP scalar and scalar OP vectorOrMatrix, for every
	// operator (multiplyResultType above only covers matrix/vector and
	// matrix/matrix products, so vector * scalar also lands here).
	if av, ok := a.(*Vector); ok {
		if sc, ok := b.(*Scalar); ok && av.Element.Equals(sc) {
			return av
		}
	}
	if bv, ok := b.(*Vector); ok {
		if sc, ok := a.(*Scalar); ok && bv.Element.Equals(sc) {
			return bv
		}
	}
	if am, ok := a.(*Matrix); ok {
		if sc, ok := b.(*Scalar); ok && sc.Kind == KindFloat {
			return am
		}
	}
	if bm, ok := b.(*Matrix); ok {
		if sc, ok := a.(*Scalar); ok && sc.Kind == KindFloat {
			return bm
		}
	}

	return nil
}

func multiplyResultType(a, b Type) Type {
	am, aIsMat := a.(*Matrix)
	bm, bIsMat := b.(*Matrix)
	av, aIsVec := a.(*Vector)
	bv, bIsVec := b.(*Vector)

	switch {
	case aIsMat && bIsVec && am.Size == bv.Width && bv.Element.Kind == KindFloat:
		// matN * vecN -> vecN
		return bv
	case aIsVec && bIsMat && bm.Size == av.Width && av.Element.Kind == KindFloat:
		// vecN * matN -> vecN
		return av
	case aIsMat && bIsMat && am.Size == bm.Size:
		return am
	}
	return nil
}

// NodeOp identifies the arithmetic operator kind for
// ArithmeticResultType, independent of the AST package to avoid an
// import cycle (ast imports types, not the reverse).
type NodeOp uint8

const (
	OpAdd NodeOp = iota
	OpSubtract
	OpMultiply
	OpDivide
)

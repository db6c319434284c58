package types

import "testing"

func TestScalarIdentity(t *testing.T) {
	if !Int.Equals(Int) {
		t.Fatal("Int should equal itself")
	}
	if Int.Equals(Float) {
		t.Fatal("Int should not equal Float")
	}
}

func TestVectorString(t *testing.T) {
	cases := []struct {
		v    *Vector
		want string
	}{
		{Vec(3, Float.(*Scalar)), "vec3"},
		{Vec(4, Int.(*Scalar)), "ivec4"},
		{Vec(2, Bool.(*Scalar)), "bvec2"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestVectorComponents(t *testing.T) {
	v := Vec(3, Float.(*Scalar))
	if v.ComponentCount() != 3 {
		t.Errorf("ComponentCount() = %d, want 3", v.ComponentCount())
	}
	if !v.ComponentType().Equals(Float) {
		t.Errorf("ComponentType() = %v, want float", v.ComponentType())
	}
	if !v.IndexType().Equals(Float) {
		t.Errorf("IndexType() = %v, want float", v.IndexType())
	}
	if v.IndexCount() != 3 {
		t.Errorf("IndexCount() = %d, want 3", v.IndexCount())
	}
}

func TestMatrixIndexType(t *testing.T) {
	m := Mat(3)
	idx := m.IndexType()
	v, ok := idx.(*Vector)
	if !ok || v.Width != 3 || v.Element.Kind != KindFloat {
		t.Fatalf("mat3 IndexType() = %v, want vec3", idx)
	}
	if m.ComponentCount() != 9 {
		t.Errorf("mat3 ComponentCount() = %d, want 9", m.ComponentCount())
	}
}

func TestArrayMemoization(t *testing.T) {
	a1 := ArrayOf(Float, 4)
	a2 := ArrayOf(Float, 4)
	if a1 != a2 {
		t.Error("ArrayOf should memoize identical (base, length) pairs")
	}
	a3 := ArrayOf(Float, 5)
	if a1 == a3 {
		t.Error("ArrayOf should not share instances across different lengths")
	}
	if !a1.ContainsArray() {
		t.Error("Array.ContainsArray() should be true")
	}
}

func TestStructContainsSampler(t *testing.T) {
	s := &Struct{
		Name: "Material",
		Fields: []StructField{
			{Name: "diffuse", Type: &Sampler{Kind: Sampler2D}},
			{Name: "shininess", Type: Float},
		},
	}
	if !s.ContainsSampler() {
		t.Error("struct with a sampler field should report ContainsSampler() true")
	}
	if s.ContainsArray() {
		t.Error("struct without array fields should report ContainsArray() false")
	}
	if s.GetField("shininess") == nil {
		t.Error("GetField should find an existing field")
	}
	if s.GetField("missing") != nil {
		t.Error("GetField should return nil for a missing field")
	}
}

func TestArithmeticResultTypeVectorScalar(t *testing.T) {
	v3 := Vec(3, Float.(*Scalar))
	if r := ArithmeticResultType(OpMultiply, v3, Float); !r.Equals(v3) {
		t.Errorf("vec3 * float = %v, want vec3", r)
	}
	if r := ArithmeticResultType(OpAdd, Float, v3); !r.Equals(v3) {
		t.Errorf("float + vec3 = %v, want vec3", r)
	}
}

func TestArithmeticResultTypeMatrixVector(t *testing.T) {
	m3 := Mat(3)
	v3 := Vec(3, Float.(*Scalar))
	if r := ArithmeticResultType(OpMultiply, m3, v3); !r.Equals(v3) {
		t.Errorf("mat3 * vec3 = %v, want vec3", r)
	}
	if r := ArithmeticResultType(OpMultiply, v3, m3); !r.Equals(v3) {
		t.Errorf("vec3 * mat3 = %v, want vec3", r)
	}
}

func TestArithmeticResultTypeMatrixMatrix(t *testing.T) {
	m4 := Mat(4)
	if r := ArithmeticResultType(OpMultiply, m4, m4); !r.Equals(m4) {
		t.Errorf("mat4 * mat4 = %v, want mat4", r)
	}
	if r := ArithmeticResultType(OpMultiply, Mat(3), Mat(4)); r != nil {
		t.Errorf("mat3 * mat4 should be incompatible, got %v", r)
	}
}

func TestArithmeticResultTypeMismatch(t *testing.T) {
	if r := ArithmeticResultType(OpAdd, Int, Float); r != nil {
		t.Errorf("int + float should be incompatible in GLSL ES 1.0, got %v", r)
	}
}

func TestArithmeticResultTypeErrorPropagates(t *testing.T) {
	if r := ArithmeticResultType(OpAdd, Error, Float); !IsError(r) {
		t.Errorf("arithmetic with the error type should yield the error type, got %v", r)
	}
}

func TestCanConvertTo(t *testing.T) {
	if !CanConvertTo(Int, Int) {
		t.Error("a type should convert to itself")
	}
	if CanConvertTo(Int, Float) {
		t.Error("GLSL ES 1.0 has no implicit int->float conversion")
	}
	if !CanConvertTo(Error, Float) {
		t.Error("the error type should convert to anything, to suppress cascades")
	}
}

func TestIsIntegerAndIsNumeric(t *testing.T) {
	if !IsInteger(Int) || IsInteger(Float) {
		t.Error("IsInteger should be true only for int/ivecN")
	}
	if !IsNumeric(Mat(2)) {
		t.Error("matrices should be numeric")
	}
	if IsNumeric(&Sampler{Kind: Sampler2D}) {
		t.Error("samplers should not be numeric")
	}
}

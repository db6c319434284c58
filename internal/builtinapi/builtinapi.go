// Package builtinapi defines the GLSL ES 1.0 standard library: the
// built-in function table consulted by the resolver for call-site
// overload resolution, and the predeclared special variables
// (gl_Position, gl_FragCoord, ...). Both are plain Go data; there is no
// textual "<api>" source behind them.
package builtinapi

import "github.com/HugoDaniel/glslx/internal/types"

// Overload is one parameter/return signature of a Builtin.
type Overload struct {
	Parameters []types.Type
	Return     types.Type
}

// Builtin is a built-in function name together with every overload it
// supports and the #extension (if any) required to call it.
type Builtin struct {
	Name              string
	Overloads         []Overload
	RequiredExtension string
}

// Table maps a built-in function's spelling to its definition.
var Table = make(map[string]*Builtin)

func register(b *Builtin) { Table[b.Name] = b }

func genType(n int) []types.Type {
	return []types.Type{types.Float, vecType(n)}
}

func vecType(n int) types.Type {
	if n == 1 {
		return types.Float
	}
	return types.Vec(n, types.Float.(*types.Scalar))
}

// registerGenType registers name for float, vec2, vec3 and vec4
// parameters/return (GLSL ES 1.0's "genType" overload family), one
// overload per width, each taking arity parameters of that width.
func registerGenType(name string, arity int) {
	var overloads []Overload
	for _, n := range []int{1, 2, 3, 4} {
		params := make([]types.Type, arity)
		for i := range params {
			params[i] = vecType(n)
		}
		overloads = append(overloads, Overload{Parameters: params, Return: vecType(n)})
	}
	register(&Builtin{Name: name, Overloads: overloads})
}

// registerGenTypeToFloat registers name for genType arguments that
// always reduce to a single float (e.g. length, dot-derived scalars).
func registerGenTypeToFloat(name string, arity int) {
	var overloads []Overload
	for _, n := range []int{1, 2, 3, 4} {
		params := make([]types.Type, arity)
		for i := range params {
			params[i] = vecType(n)
		}
		overloads = append(overloads, Overload{Parameters: params, Return: types.Float})
	}
	register(&Builtin{Name: name, Overloads: overloads})
}

func registerGenTypeToBvec(name string, arity int) {
	var overloads []Overload
	for _, n := range []int{2, 3, 4} {
		params := make([]types.Type, arity)
		for i := range params {
			params[i] = vecType(n)
		}
		overloads = append(overloads, Overload{Parameters: params, Return: types.Vec(n, types.Bool.(*types.Scalar))})
	}
	register(&Builtin{Name: name, Overloads: overloads})
}

func init() {
	registerAngleAndTrig()
	registerExponential()
	registerCommon()
	registerGeometric()
	registerMatrix()
	registerVectorRelational()
	registerTexture()
	registerFragmentProcessing()
}

// ----------------------------------------------------------------------------
// 8.1 Angle and Trigonometry Functions
// ----------------------------------------------------------------------------

func registerAngleAndTrig() {
	for _, name := range []string{"radians", "degrees", "sin", "cos", "tan", "asin", "acos"} {
		registerGenType(name, 1)
	}
	registerGenType("atan", 1) // atan(y_over_x)
	for _, n := range []int{1, 2, 3, 4} { // atan(y, x)
		v := vecType(n)
		Table["atan"].Overloads = append(Table["atan"].Overloads, Overload{Parameters: []types.Type{v, v}, Return: v})
	}
}

// ----------------------------------------------------------------------------
// 8.2 Exponential Functions
// ----------------------------------------------------------------------------

func registerExponential() {
	registerGenType("pow", 2)
	registerGenType("exp", 1)
	registerGenType("log", 1)
	registerGenType("exp2", 1)
	registerGenType("log2", 1)
	registerGenType("sqrt", 1)
	registerGenType("inversesqrt", 1)
}

// ----------------------------------------------------------------------------
// 8.3 Common Functions
// ----------------------------------------------------------------------------

func registerCommon() {
	for _, name := range []string{"abs", "sign", "floor", "ceil", "fract"} {
		registerGenType(name, 1)
	}
	registerGenType("mod", 2)
	registerGenType("min", 2)
	registerGenType("max", 2)
	registerGenType("clamp", 3)
	registerGenType("mix", 3)
	registerGenType("step", 2)
	registerGenType("smoothstep", 3)

	// Scalar-second-argument overloads (`min(vec3, float)` etc.) used
	// pervasively in shader code; registered alongside the vector forms.
	for _, n := range []int{2, 3, 4} {
		v := vecType(n)
		Table["mod"].Overloads = append(Table["mod"].Overloads, Overload{Parameters: []types.Type{v, types.Float}, Return: v})
		Table["min"].Overloads = append(Table["min"].Overloads, Overload{Parameters: []types.Type{v, types.Float}, Return: v})
		Table["max"].Overloads = append(Table["max"].Overloads, Overload{Parameters: []types.Type{v, types.Float}, Return: v})
		Table["clamp"].Overloads = append(Table["clamp"].Overloads, Overload{Parameters: []types.Type{v, types.Float, types.Float}, Return: v})
		Table["mix"].Overloads = append(Table["mix"].Overloads, Overload{Parameters: []types.Type{v, v, types.Float}, Return: v})
		Table["step"].Overloads = append(Table["step"].Overloads, Overload{Parameters: []types.Type{types.Float, v}, Return: v})
		Table["smoothstep"].Overloads = append(Table["smoothstep"].Overloads, Overload{Parameters: []types.Type{types.Float, types.Float, v}, Return: v})
	}
}

// ----------------------------------------------------------------------------
// 8.4 Geometric Functions
// ----------------------------------------------------------------------------

func registerGeometric() {
	registerGenTypeToFloat("length", 1)
	registerGenTypeToFloat("distance", 2)
	registerGenTypeToFloat("dot", 2)
	register(&Builtin{Name: "cross", Overloads: []Overload{{Parameters: []types.Type{vecType(3), vecType(3)}, Return: vecType(3)}}})
	registerGenType("normalize", 1)
	registerGenType("faceforward", 3)
	registerGenType("reflect", 2)
	registerGenType("refract", 2) // approximate: real signature takes a float eta too
	for _, n := range []int{1, 2, 3, 4} {
		v := vecType(n)
		Table["refract"].Overloads = append(Table["refract"].Overloads, Overload{Parameters: []types.Type{v, v, types.Float}, Return: v})
	}
}

// ----------------------------------------------------------------------------
// 8.5 Matrix Functions
// ----------------------------------------------------------------------------

func registerMatrix() {
	var overloads []Overload
	for _, n := range []int{2, 3, 4} {
		m := types.Mat(n)
		overloads = append(overloads, Overload{Parameters: []types.Type{m, m}, Return: m})
	}
	register(&Builtin{Name: "matrixCompMult", Overloads: overloads})
}

// ----------------------------------------------------------------------------
// 8.6 Vector Relational Functions
// ----------------------------------------------------------------------------

func registerVectorRelational() {
	for _, name := range []string{"lessThan", "lessThanEqual", "greaterThan", "greaterThanEqual", "equal", "notEqual"} {
		registerGenTypeToBvec(name, 2)
	}
	for _, n := range []int{2, 3, 4} {
		bv := types.Vec(n, types.Bool.(*types.Scalar))
		ival := types.Vec(n, types.Int.(*types.Scalar))
		for _, name := range []string{"lessThan", "lessThanEqual", "greaterThan", "greaterThanEqual", "equal", "notEqual"} {
			Table[name].Overloads = append(Table[name].Overloads, Overload{Parameters: []types.Type{ival, ival}, Return: bv})
		}
	}
	register(&Builtin{Name: "any", Overloads: bvecToBool()})
	register(&Builtin{Name: "all", Overloads: bvecToBool()})
	var notOverloads []Overload
	for _, n := range []int{2, 3, 4} {
		bv := types.Vec(n, types.Bool.(*types.Scalar))
		notOverloads = append(notOverloads, Overload{Parameters: []types.Type{bv}, Return: bv})
	}
	register(&Builtin{Name: "not", Overloads: notOverloads})
}

func bvecToBool() []Overload {
	var overloads []Overload
	for _, n := range []int{2, 3, 4} {
		overloads = append(overloads, Overload{Parameters: []types.Type{types.Vec(n, types.Bool.(*types.Scalar))}, Return: types.Bool})
	}
	return overloads
}

// ----------------------------------------------------------------------------
// 8.7 Texture Lookup Functions (gated by #extension where noted)
// ----------------------------------------------------------------------------

func registerTexture() {
	sampler2D := &types.Sampler{Kind: types.Sampler2D}
	samplerCube := &types.Sampler{Kind: types.SamplerCube}
	vec2, vec3, vec4 := vecType(2), vecType(3), vecType(4)

	register(&Builtin{Name: "texture2D", Overloads: []Overload{
		{Parameters: []types.Type{sampler2D, vec2}, Return: vec4},
		{Parameters: []types.Type{sampler2D, vec2, types.Float}, Return: vec4},
	}})
	register(&Builtin{Name: "texture2DProj", Overloads: []Overload{
		{Parameters: []types.Type{sampler2D, vec3}, Return: vec4},
		{Parameters: []types.Type{sampler2D, vec4}, Return: vec4},
	}})
	register(&Builtin{Name: "textureCube", Overloads: []Overload{
		{Parameters: []types.Type{samplerCube, vec3}, Return: vec4},
		{Parameters: []types.Type{samplerCube, vec3, types.Float}, Return: vec4},
	}})

	// GL_OES_standard_derivatives: dFdx/dFdy/fwidth.
	for _, name := range []string{"dFdx", "dFdy", "fwidth"} {
		b := &Builtin{Name: name, RequiredExtension: "GL_OES_standard_derivatives"}
		for _, n := range []int{1, 2, 3, 4} {
			b.Overloads = append(b.Overloads, Overload{Parameters: []types.Type{vecType(n)}, Return: vecType(n)})
		}
		register(b)
	}

	// GL_EXT_shader_texture_lod: explicit-LOD texture lookups.
	register(&Builtin{Name: "texture2DLodEXT", RequiredExtension: "GL_EXT_shader_texture_lod", Overloads: []Overload{
		{Parameters: []types.Type{sampler2D, vec2, types.Float}, Return: vec4},
	}})
	register(&Builtin{Name: "textureCubeLodEXT", RequiredExtension: "GL_EXT_shader_texture_lod", Overloads: []Overload{
		{Parameters: []types.Type{samplerCube, vec3, types.Float}, Return: vec4},
	}})
}

// registerFragmentProcessing covers GL_EXT_frag_depth's gl_FragDepthEXT,
// handled here as a call-free alias would be wrong: gl_FragDepthEXT is a
// predeclared variable, not a function, so it is seeded via
// PredeclaredVariables instead. This function intentionally registers
// nothing; it exists so the init() call list documents every clause of
// the GLSL ES 1.0 builtin surface, including the ones with no callable
// form.
func registerFragmentProcessing() {}

// PredeclaredVariables returns type/writability descriptors, keyed by
// name, for the special variables GLSL ES 1.0 predeclares (gl_Position,
// gl_PointSize, gl_FragCoord, gl_FrontFacing, gl_FragColor,
// gl_FragData, gl_PointCoord) plus GL_EXT_frag_depth's gl_FragDepthEXT.
// Callers build Symbols from these and seed them into the global scope
// before parsing user source; newSymbolId is not used.
func PredeclaredVariables(newSymbolId func() uint32) map[string]*predeclared {
	vec4T := vecType(4)
	out := map[string]*predeclared{
		"gl_Position":     {typ: vec4T, writable: true},
		"gl_PointSize":    {typ: types.Float, writable: true},
		"gl_FragCoord":    {typ: vec4T, writable: false},
		"gl_FrontFacing":  {typ: types.Bool, writable: false},
		"gl_FragColor":    {typ: vec4T, writable: true},
		"gl_FragData":     {typ: types.ArrayOf(vec4T, 4), writable: true},
		"gl_PointCoord":   {typ: vecType(2), writable: false},
		"gl_FragDepthEXT": {typ: types.Float, writable: true},
	}
	return out
}

// predeclared describes one predeclared special variable's type and
// whether user code may assign to it.
type predeclared struct {
	typ      types.Type
	writable bool
}

// Type exposes the variable's type to callers building its Symbol.
func (p *predeclared) Type() types.Type { return p.typ }

// Writable exposes whether the variable is an output the resolver
// should permit assignment to.
func (p *predeclared) Writable() bool { return p.writable }

package builtinapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/types"
)

func TestGenTypeOverloadsCoverAllWidths(t *testing.T) {
	sinFn, ok := Table["sin"]
	require.True(t, ok)
	require.Len(t, sinFn.Overloads, 4)
	assert.True(t, sinFn.Overloads[0].Return.Equals(types.Float))
	assert.True(t, sinFn.Overloads[2].Return.Equals(types.Vec(3, types.Float.(*types.Scalar))))
}

func TestTexture2DOverloads(t *testing.T) {
	fn, ok := Table["texture2D"]
	require.True(t, ok)
	require.Len(t, fn.Overloads, 2)
	assert.True(t, fn.Overloads[0].Return.Equals(types.Vec(4, types.Float.(*types.Scalar))))
}

func TestDerivativesRequireExtension(t *testing.T) {
	fn, ok := Table["dFdx"]
	require.True(t, ok)
	assert.Equal(t, "GL_OES_standard_derivatives", fn.RequiredExtension)
}

func TestCrossProductIsVec3Only(t *testing.T) {
	fn, ok := Table["cross"]
	require.True(t, ok)
	require.Len(t, fn.Overloads, 1)
	assert.Equal(t, 3, fn.Overloads[0].Return.ComponentCount())
}

func TestVectorRelationalReturnsBvec(t *testing.T) {
	fn, ok := Table["lessThan"]
	require.True(t, ok)
	for _, o := range fn.Overloads {
		_, isBvec := o.Return.(*types.Vector)
		assert.True(t, isBvec)
	}
}

func TestPredeclaredVariables(t *testing.T) {
	vars := PredeclaredVariables(func() uint32 { return 0 })
	pos, ok := vars["gl_Position"]
	require.True(t, ok)
	assert.True(t, pos.Type().Equals(types.Vec(4, types.Float.(*types.Scalar))))
	assert.True(t, pos.Writable())

	coord, ok := vars["gl_FragCoord"]
	require.True(t, ok)
	assert.False(t, coord.Writable())
}

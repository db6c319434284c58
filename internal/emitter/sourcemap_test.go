package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HugoDaniel/glslx/internal/source"
)

func TestEncodeVLQ(t *testing.T) {
	assert.Equal(t, "A", encodeVLQ(0))
	assert.Equal(t, "C", encodeVLQ(1))
	assert.Equal(t, "D", encodeVLQ(-1))
	assert.Equal(t, "gqjG", encodeVLQ(100000))
}

func TestSourceMapGeneratorEncodesSegmentsPerLine(t *testing.T) {
	src := source.New("<test>", "a\nbc")
	g := newSourceMapGenerator(src)
	g.addMapping(0, 0, 0) // 'a'
	g.addMapping(1, 0, 2) // 'b'
	g.addMapping(1, 1, 3) // 'c'
	sm := g.generate()

	assert.Equal(t, 3, sm.Version)
	assert.Contains(t, sm.Mappings, ";")
	assert.Equal(t, []string{}, sm.Names)
}

func TestSourceMapGeneratorNilSourceDefaultsToOrigin(t *testing.T) {
	g := newSourceMapGenerator(nil)
	g.addMapping(0, 0, 5)
	sm := g.generate()
	assert.NotEmpty(t, sm.Mappings)
}

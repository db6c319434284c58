package emitter

import (
	"strings"

	"github.com/HugoDaniel/glslx/internal/source"
)

// SourceMap is a Source Map v3 document (https://sourcemaps.info/spec.html)
// mapping positions in Emit's output back to byte offsets in the shader
// source it compiled.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

type sourceMapping struct {
	genLine, genCol int
	srcLine, srcCol int
}

// sourceMapGenerator accumulates position mappings as the emitter writes
// tokens, then VLQ-encodes them into a SourceMap. It carries no names
// table: renaming mutates ast.Symbol.Name in place before Emit ever runs,
// so by the time a token is written its pre-renamed spelling is already
// gone and there is nothing to name-map. It also carries no decoder and
// no second-source support: Emit always maps exactly one generated file
// back to exactly one shader source.
type sourceMapGenerator struct {
	src           *source.Source
	sourceName    string
	includeSource bool
	mappings      []sourceMapping
}

func newSourceMapGenerator(src *source.Source) *sourceMapGenerator {
	return &sourceMapGenerator{src: src}
}

func (g *sourceMapGenerator) setSourceName(name string) {
	g.sourceName = name
}

func (g *sourceMapGenerator) includeSourceContent(include bool) {
	g.includeSource = include
}

// addMapping records that the output position (genLine, genCol) — both
// 0-based — corresponds to srcOffset, a byte offset into the original
// source. Mappings must be added in non-decreasing genLine order, which
// emitter's single left-to-right pass over the tree guarantees.
func (g *sourceMapGenerator) addMapping(genLine, genCol, srcOffset int) {
	var srcLine, srcCol int
	if g.src != nil {
		srcLine, srcCol = g.src.IndexToLineColumnUTF16(srcOffset)
	}
	g.mappings = append(g.mappings, sourceMapping{genLine: genLine, genCol: genCol, srcLine: srcLine, srcCol: srcCol})
}

func (g *sourceMapGenerator) generate() *SourceMap {
	sm := &SourceMap{Version: 3, Names: []string{}, Mappings: g.encodeMappings()}
	if g.sourceName != "" {
		sm.Sources = []string{g.sourceName}
	} else {
		sm.Sources = []string{}
	}
	if g.includeSource && g.src != nil {
		sm.SourcesContent = []string{g.src.Contents}
	}
	return sm
}

// encodeMappings VLQ delta-encodes g.mappings per the "mappings" field of
// the Source Map v3 spec: one ';' per generated line with no segments,
// one ',' between segments sharing a line, then genCol/srcIndex/srcLine/
// srcCol as base64 VLQ deltas from the previous segment (srcIndex is
// always 0 here, so its delta is always 0 too).
func (g *sourceMapGenerator) encodeMappings() string {
	if len(g.mappings) == 0 {
		return ""
	}
	var b strings.Builder
	prevGenCol, prevSrcLine, prevSrcCol := 0, 0, 0
	line := 0
	firstOnLine := true
	for _, m := range g.mappings {
		for line < m.genLine {
			b.WriteByte(';')
			line++
			prevGenCol = 0
			firstOnLine = true
		}
		if !firstOnLine {
			b.WriteByte(',')
		}
		firstOnLine = false

		b.WriteString(encodeVLQ(m.genCol - prevGenCol))
		prevGenCol = m.genCol
		b.WriteString(encodeVLQ(0)) // source index delta; always one source
		b.WriteString(encodeVLQ(m.srcLine - prevSrcLine))
		prevSrcLine = m.srcLine
		b.WriteString(encodeVLQ(m.srcCol - prevSrcCol))
		prevSrcCol = m.srcCol
	}
	return b.String()
}

const vlqBase64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ encodes value as a Source Map v3 base64 VLQ: the sign moves
// into bit 0 (value<<1 for non-negative, (-value)<<1|1 for negative),
// then the magnitude is emitted 5 bits at a time, low bits first, with
// the continuation bit (0x20) set on every digit but the last.
func encodeVLQ(value int) string {
	var vlq uint32
	if value < 0 {
		vlq = uint32(-value)<<1 | 1
	} else {
		vlq = uint32(value) << 1
	}
	var b strings.Builder
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		b.WriteByte(vlqBase64Alphabet[digit])
		if vlq == 0 {
			break
		}
	}
	return b.String()
}

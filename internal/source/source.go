// Package source provides the text buffers and byte-range primitives
// that every other compiler stage addresses diagnostics and tree nodes
// against.
package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Source is a named, immutable text buffer with a lazily built table of
// line-start byte offsets.
type Source struct {
	Name     string
	Contents string

	lineStarts []int // byte offset of the first byte of each line
}

// New creates a Source. The line table is built lazily on first use.
func New(name, contents string) *Source {
	return &Source{Name: name, Contents: contents}
}

func (s *Source) ensureLineStarts() {
	if s.lineStarts != nil {
		return
	}
	starts := []int{0}
	for i := 0; i < len(s.Contents); i++ {
		if s.Contents[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	s.lineStarts = starts
}

// IndexToLineColumn converts a byte offset into a 0-based (line, column)
// pair. Column is a rune count from the start of the line, expanding
// tabs to the next multiple of 8 for display purposes.
func (s *Source) IndexToLineColumn(index int) (line, column int) {
	s.ensureLineStarts()
	line = len(s.lineStarts) - 1
	for i, start := range s.lineStarts {
		if start > index {
			line = i - 1
			break
		}
	}
	if line < 0 {
		line = 0
	}
	lineStart := s.lineStarts[line]
	if index > len(s.Contents) {
		index = len(s.Contents)
	}
	if index < lineStart {
		index = lineStart
	}
	column = 0
	for i := lineStart; i < index; {
		r, size := utf8.DecodeRuneInString(s.Contents[i:])
		if r == '\t' {
			column += 8 - (column % 8)
		} else {
			column++
		}
		i += size
	}
	return line, column
}

// IndexToLineColumnUTF16 is IndexToLineColumn with the column counted in
// UTF-16 code units instead of runes, and no tab expansion — the unit a
// Source Map v3 consumer walks when it addresses a generated string.
func (s *Source) IndexToLineColumnUTF16(index int) (line, column int) {
	s.ensureLineStarts()
	line = len(s.lineStarts) - 1
	for i, start := range s.lineStarts {
		if start > index {
			line = i - 1
			break
		}
	}
	if line < 0 {
		line = 0
	}
	lineStart := s.lineStarts[line]
	if index > len(s.Contents) {
		index = len(s.Contents)
	}
	if index < lineStart {
		index = lineStart
	}
	for i := lineStart; i < index; {
		r, size := utf8.DecodeRuneInString(s.Contents[i:])
		if r >= 0x10000 {
			column += 2
		} else {
			column++
		}
		i += size
	}
	return line, column
}

// LineColumnToIndex is the inverse of IndexToLineColumn: given a 0-based
// (line, column) pair it returns the byte offset, clamping to the
// nearest valid position when the line or column runs past the end of
// the source (an IDE cursor can briefly point past stale text while an
// edit is in flight).
func (s *Source) LineColumnToIndex(line, column int) int {
	s.ensureLineStarts()
	if line < 0 {
		line = 0
	}
	if line >= len(s.lineStarts) {
		return len(s.Contents)
	}
	lineStart := s.lineStarts[line]
	lineEnd := len(s.Contents)
	if line+1 < len(s.lineStarts) {
		lineEnd = s.lineStarts[line+1]
	}
	if column <= 0 {
		return lineStart
	}
	col := 0
	i := lineStart
	for i < lineEnd {
		r, size := utf8.DecodeRuneInString(s.Contents[i:])
		if r == '\n' {
			break
		}
		if col >= column {
			return i
		}
		if r == '\t' {
			col += 8 - (col % 8)
		} else {
			col++
		}
		i += size
	}
	return i
}

// ContentsOfLine returns the raw text of the given 0-based line number,
// without its trailing newline.
func (s *Source) ContentsOfLine(line int) string {
	s.ensureLineStarts()
	if line < 0 || line >= len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line]
	end := len(s.Contents)
	if line+1 < len(s.lineStarts) {
		end = s.lineStarts[line+1] - 1
		if end < start {
			end = start
		}
	}
	text := s.Contents[start:end]
	return strings.TrimRight(text, "\r")
}

// Range is a contiguous, half-open byte range `[Start, End)` into a
// Source. Ranges are value semantics and never own the Source.
type Range struct {
	Src   *Source
	Start int
	End   int
}

// MakeRange builds a Range, clamping End to at least Start.
func MakeRange(src *Source, start, end int) Range {
	if end < start {
		end = start
	}
	return Range{Src: src, Start: start, End: end}
}

// Contains reports whether the byte index falls within the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Overlaps reports whether two ranges over the same source share bytes.
func (r Range) Overlaps(other Range) bool {
	if r.Src != other.Src {
		return false
	}
	return r.Start < other.End && other.Start < r.End
}

// Text returns the slice of source text the range covers.
func (r Range) Text() string {
	if r.Src == nil {
		return ""
	}
	start, end := r.Start, r.End
	if end > len(r.Src.Contents) {
		end = len(r.Src.Contents)
	}
	if start > end {
		start = end
	}
	return r.Src.Contents[start:end]
}

// Locate renders a `name:line:col` location string (1-based line/column,
// matching editor conventions).
func (r Range) Locate() string {
	if r.Src == nil {
		return "<unknown>"
	}
	line, col := r.Src.IndexToLineColumn(r.Start)
	return fmt.Sprintf("%s:%d:%d", r.Src.Name, line+1, col+1)
}

// Union returns the smallest range covering both inputs.
func Union(a, b Range) Range {
	if a.Src == nil {
		return b
	}
	if b.Src == nil {
		return a
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Range{Src: a.Src, Start: start, End: end}
}

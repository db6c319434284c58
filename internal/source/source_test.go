package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexToLineColumn(t *testing.T) {
	src := New("<test>", "abc\ndef\nghi")
	line, col := src.IndexToLineColumn(0)
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)

	line, col = src.IndexToLineColumn(4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)

	line, col = src.IndexToLineColumn(9)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}

func TestLineColumnToIndexRoundTrip(t *testing.T) {
	src := New("<test>", "abc\ndef\nghi")
	for _, idx := range []int{0, 2, 4, 6, 9} {
		line, col := src.IndexToLineColumn(idx)
		assert.Equal(t, idx, src.LineColumnToIndex(line, col))
	}
}

func TestIndexToLineColumnUTF16(t *testing.T) {
	// U+1F600 (GRINNING FACE) is 4 bytes in UTF-8 and a surrogate pair (2
	// code units) in UTF-16, unlike IndexToLineColumn's rune count.
	src := New("<test>", "x = \U0001F600;\ny")
	line, col := src.IndexToLineColumn(8) // the ';', after the emoji
	assert.Equal(t, 0, line)
	assert.Equal(t, 5, col) // "x = " (4 runes) + 1 rune for the emoji

	line, col = src.IndexToLineColumnUTF16(8)
	assert.Equal(t, 0, line)
	assert.Equal(t, 6, col) // "x = " (4 code units) + 2 UTF-16 code units for the emoji

	line, col = src.IndexToLineColumnUTF16(10) // 'y' on the second line
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)
}

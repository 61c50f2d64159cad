package fonts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)
	require.NotNil(t, fs)
}

func TestTextWidth(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	assert.Zero(t, fs.TextWidth(Regular, 10, ""))
	assert.Zero(t, fs.TextWidth(Regular, 0, "hello"))

	short := fs.TextWidth(Regular, 10, "hi")
	long := fs.TextWidth(Regular, 10, "hello there, world")
	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)

	// Larger sizes measure wider
	assert.Greater(t, fs.TextWidth(Regular, 14, "hello"), fs.TextWidth(Regular, 10, "hello"))

	// Courier is fixed-pitch: every rune contributes the same width
	i := fs.TextWidth(Mono, 10, "i")
	m := fs.TextWidth(Mono, 10, "m")
	assert.InDelta(t, i, m, 0.001)
}

func TestWrapEmpty(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	assert.Equal(t, []string{""}, fs.Wrap(Regular, 10, 100, 1, ""))
	assert.Equal(t, []string{""}, fs.Wrap(Regular, 10, 100, 1, "   "))
}

func TestWrapSingleLine(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	lines := fs.Wrap(Regular, 10, 400, 3, "fits on one line")
	assert.Equal(t, []string{"fits on one line"}, lines)
}

func TestWrapKeepsAllWordsWhenUnbounded(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	input := "the quick brown fox jumps over the lazy dog again and again"
	lines := fs.Wrap(Regular, 10, 90, 0, input)
	require.Greater(t, len(lines), 1)

	assert.Equal(t, strings.Fields(input), strings.Fields(strings.Join(lines, " ")))
	for _, line := range lines {
		assert.LessOrEqual(t, fs.TextWidth(Regular, 10, line), 90.0, "line %q overflows", line)
	}
}

func TestWrapLineBudgetTruncates(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	input := "a fairly long sentence that cannot possibly fit inside two narrow lines of text"
	lines := fs.Wrap(Regular, 10, 80, 2, input)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "..."), "last line %q must carry the truncation marker", lines[1])
	assert.LessOrEqual(t, fs.TextWidth(Regular, 10, lines[1]), 80.0)
}

func TestWrapHardBreaksOverlongWords(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	lines := fs.Wrap(Regular, 10, 60, 0, "supercalifragilisticexpialidocious")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, fs.TextWidth(Regular, 10, line), 60.0)
	}
}

func TestWrapColumnNarrowerThanGlyph(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	// 2pt is below any glyph width at 10pt; the single rune per line
	// overflows instead of looping
	lines := fs.Wrap(Regular, 10, 2, 2, "word")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "..."))

	// Zero and negative widths fall out of width resolution for starved
	// columns and must not be honored by splitting
	assert.Equal(t, []string{"alpha", "beta"}, fs.Wrap(Regular, 10, 0, 0, "alpha beta"))
	assert.Equal(t, []string{"alpha"}, fs.Wrap(Regular, 10, -12, 0, "alpha"))
}

func TestWrapSingleGlyphWiderThanColumn(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	assert.Equal(t, []string{"W", "W", "W"}, fs.Wrap(Regular, 12, 5, 0, "WWW"))
}

func TestEllipsize(t *testing.T) {
	fs, err := NewSet()
	require.NoError(t, err)

	out := fs.Ellipsize(Regular, 10, 50, "an overly verbose cell value")
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, fs.TextWidth(Regular, 10, out), 50.0)
}

func TestFaceResolve(t *testing.T) {
	fam, sty := Regular.Resolve()
	assert.Equal(t, "Helvetica", fam)
	assert.Empty(t, sty)

	fam, sty = Bold.Resolve()
	assert.Equal(t, "Helvetica", fam)
	assert.Equal(t, "B", sty)

	fam, _ = Mono.Resolve()
	assert.Equal(t, "Courier", fam)
}

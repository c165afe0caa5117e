package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var adviceStyle = TextStyle{Size: 9, Italic: true}

func TestWrapRespectsWidth(t *testing.T) {
	measurer := FixedWidthMeasurer{}
	text := "Consider setting a weekly dining budget and tracking it with alerts from your bank so that small purchases do not add up unnoticed."
	lines := Wrap(text, 60, adviceStyle, measurer)

	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, measurer.Width(line, adviceStyle), 60.0, line)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(lines, " "))
}

func TestWrapIsIdempotent(t *testing.T) {
	texts := []string{
		"Short advice.",
		"Use the  cashback card\tfor groceries,\n\nand the travel card only for flights and hotels booked well in advance.",
		strings.Repeat("subscriptions ", 40),
		"",
		"Supercalifragilisticexpialidocious-merchant-name-that-never-fits and more words after it",
	}
	for _, width := range []float64{20, 45, 160} {
		for _, text := range texts {
			lines := Wrap(text, width, adviceStyle, nil)
			assert.Equal(t, lines, Wrap(strings.Join(lines, "\n"), width, adviceStyle, nil))
		}
	}
}

func TestWrapLongWordStandsAlone(t *testing.T) {
	lines := Wrap("tiny Supercalifragilisticexpialidocious tiny", 15, adviceStyle, nil)
	assert.Equal(t, []string{"tiny", "Supercalifragilisticexpialidocious", "tiny"}, lines)
}

func TestWrapHardBreaks(t *testing.T) {
	lines := Wrap("first paragraph\n\n  \nsecond paragraph", 500, adviceStyle, nil)
	assert.Equal(t, []string{"first paragraph", "second paragraph"}, lines)
}

func TestWrapEmpty(t *testing.T) {
	assert.Empty(t, Wrap("", 100, adviceStyle, nil))
	assert.Empty(t, Wrap(" \n\t ", 100, adviceStyle, nil))
}

func TestFixedWidthMeasurer(t *testing.T) {
	measurer := FixedWidthMeasurer{CharWidth: 0.5}
	plain := measurer.Width("abcd", TextStyle{Size: 10})
	assert.InDelta(t, 4*10*PointToMM*0.5, plain, 1e-9)
	assert.Greater(t, measurer.Width("abcd", TextStyle{Size: 10, Bold: true}), plain)
}

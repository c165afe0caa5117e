package layout

import (
	"strings"
	"unicode/utf8"
)

/*
TextMeasurer estimates the rendered width of a single line of text in page
units. Layout happens before any drawing surface exists, so callers either
pass a measurer backed by real font metrics or accept the fixed-width
estimate.
*/
type TextMeasurer interface {
	Width(text string, style TextStyle) float64
}

/*
FixedWidthMeasurer assumes every character is CharWidth em wide (0.5 when
unset), bold text 10% wider.
*/
type FixedWidthMeasurer struct {
	CharWidth float64
}

func (m FixedWidthMeasurer) Width(text string, style TextStyle) float64 {
	ratio := m.CharWidth
	if ratio <= 0 {
		ratio = 0.5
	}
	if style.Bold {
		ratio *= 1.1
	}
	return float64(utf8.RuneCountInString(text)) * style.Size * PointToMM * ratio
}

/*
Wrap breaks text into lines no wider than width using greedy word packing.

  - Newlines separate paragraphs; blank paragraphs produce no lines.
  - Runs of whitespace collapse to one space.
  - A word wider than width is kept whole on its own line.

Wrapping the joined output again at the same width returns the same lines.
*/
func Wrap(text string, width float64, style TextStyle, measurer TextMeasurer) (lines []string) {
	if measurer == nil {
		measurer = FixedWidthMeasurer{}
	}

	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if measurer.Width(candidate, style) <= width {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

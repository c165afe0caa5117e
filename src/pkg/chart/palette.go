package chart

import (
	"fmt"
	"image/color"
	"strconv"
)

// Colors assigned to categories in breakdown order; the list repeats after eight categories.
var Palette = []string{
	"#007AFF",
	"#5856D6",
	"#AF52DE",
	"#FF2D55",
	"#FF9500",
	"#34C759",
	"#5AC8FA",
	"#FF3B30",
}

var (
	emptyRingColor = color.RGBA{R: 229, G: 229, B: 234, A: 255}
	legendText     = color.RGBA{R: 29, G: 29, B: 31, A: 255}
	background     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ColorHex returns the palette entry for the category at index.
func ColorHex(index int) string {
	return Palette[index%len(Palette)]
}

func ColorAt(index int) color.RGBA {
	parsed, _ := parseHex(ColorHex(index))
	return parsed
}

func parseHex(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(value >> 16), G: uint8(value >> 8), B: uint8(value), A: 255}, nil
}

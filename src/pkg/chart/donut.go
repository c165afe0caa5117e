package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"statement-analyzer/src/pkg/money"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/util"
)

const (
	EmptyChartText = "No spending data"

	legendSwatch  = 12
	legendRow     = 20
	legendPadding = 20
	glyphWidth    = 7 // basicfont.Face7x13 advance
)

/*
Options sets the output size in pixels. The ring is drawn Supersample times
larger and scaled down with a Lanczos filter for smooth edges; the legend is
drawn at the final size so its text stays sharp.
*/
type Options struct {
	Width       int `json:"width,omitempty"`
	Height      int `json:"height,omitempty"`
	Supersample int `json:"supersample,omitempty"`
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 400, Supersample: 2}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Width <= 0 {
		o.Width = defaults.Width
	}
	if o.Height <= 0 {
		o.Height = defaults.Height
	}
	o.Supersample = util.Clamp(o.Supersample, 1, 4)
	return o
}

type slice struct {
	end   float64 // cumulative fraction of the full turn where the slice ends
	color color.RGBA
}

/*
Render draws the breakdown as a donut chart with a legend and returns PNG
bytes. Slices start at twelve o'clock and run clockwise in breakdown order.
Categories with a non-positive amount get a legend entry but no slice. An
empty or all-zero breakdown renders a grey ring labelled "No spending data".
*/
func Render(breakdown []statement.CategorySpending, options Options) (pngBytes []byte, e *xerr.Error) {
	options = options.withDefaults()
	total := sum(breakdown)

	slices := make([]slice, 0, len(breakdown))
	if total.IsPositive() {
		running := 0.0
		for index, item := range breakdown {
			if !item.Amount.IsPositive() {
				continue
			}
			running += Share(item.Amount, total) / 100
			slices = append(slices, slice{end: running, color: ColorAt(index)})
		}
		slices[len(slices)-1].end = 1
	}

	scale := options.Supersample
	large := image.NewRGBA(image.Rect(0, 0, options.Width*scale, options.Height*scale))
	draw.Draw(large, large.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	diameter := math.Min(float64(options.Height), float64(options.Width)/2) * float64(scale)
	drawRing(large, diameter/2, diameter/2, diameter*0.45, diameter*0.27, slices)

	small := imaging.Resize(large, options.Width, options.Height, imaging.Lanczos)

	ringCentre := int(diameter / 2 / float64(scale))
	if len(slices) == 0 {
		drawText(small, EmptyChartText, ringCentre-len(EmptyChartText)*glyphWidth/2, ringCentre+4)
	}
	drawLegend(small, breakdown, total, int(diameter/float64(scale))+legendPadding, options)

	var buffer bytes.Buffer
	encodeErr := imaging.Encode(&buffer, small, imaging.PNG)
	if encodeErr != nil {
		return nil, xerr.NewError(encodeErr, "encode chart PNG", fmt.Sprintf("%dx%d", options.Width, options.Height))
	}

	tl.Log(
		tl.Verbose, palette.Cyan, "Rendered chart with %s slices (%sx%s, %s bytes)",
		len(slices), options.Width, options.Height, buffer.Len(),
	)
	return buffer.Bytes(), nil
}

func drawRing(target *image.RGBA, cx, cy, outer, inner float64, slices []slice) {
	minX := int(math.Floor(cx - outer))
	maxX := int(math.Ceil(cx + outer))
	minY := int(math.Floor(cy - outer))
	maxY := int(math.Ceil(cy + outer))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			radius := math.Hypot(dx, dy)
			if radius < inner || radius > outer {
				continue
			}
			target.SetRGBA(x, y, sliceColorAt(dx, dy, slices))
		}
	}
}

// sliceColorAt maps a point (relative to the centre) to its slice, measuring clockwise from twelve o'clock.
func sliceColorAt(dx, dy float64, slices []slice) color.RGBA {
	if len(slices) == 0 {
		return emptyRingColor
	}
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	turn := angle / (2 * math.Pi)
	for _, candidate := range slices {
		if turn < candidate.end {
			return candidate.color
		}
	}
	return slices[len(slices)-1].color
}

func drawLegend(target draw.Image, breakdown []statement.CategorySpending, total decimal.Decimal, left int, options Options) {
	maxChars := (options.Width - left - legendSwatch - 6) / glyphWidth
	if maxChars <= 0 {
		return
	}
	rows := (options.Height - legendPadding) / legendRow
	top := legendPadding

	for index, item := range breakdown {
		if index >= rows-1 && len(breakdown) > rows {
			drawText(target, fmt.Sprintf("+%d more", len(breakdown)-index), left, top+index*legendRow+11)
			return
		}
		y := top + index*legendRow
		swatch := image.Rect(left, y, left+legendSwatch, y+legendSwatch)
		draw.Draw(target, swatch, &image.Uniform{ColorAt(index)}, image.Point{}, draw.Src)

		label := fmt.Sprintf("%s  %s  %s", item.Category, money.Format(item.Amount), money.FormatPercent(Share(item.Amount, total), 1))
		if runes := []rune(label); len(runes) > maxChars {
			label = string(runes[:maxChars])
		}
		drawText(target, label, left+legendSwatch+6, y+11)
	}
}

func drawText(target draw.Image, text string, x, baseline int) {
	drawer := &font.Drawer{
		Dst:  target,
		Src:  image.NewUniform(legendText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	drawer.DrawString(text)
}

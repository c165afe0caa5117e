package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-analyzer/src/pkg/statement"
)

func breakdown(amounts ...string) (items []statement.CategorySpending) {
	names := []string{"Dining", "Shopping", "Travel", "Bills", "Fuel", "Groceries", "Health", "Fun", "Gifts", "Other"}
	for index, amount := range amounts {
		items = append(items, statement.CategorySpending{Category: names[index], Amount: decimal.RequireFromString(amount)})
	}
	return items
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestPaletteCycles(t *testing.T) {
	assert.Equal(t, "#007AFF", ColorHex(0))
	assert.Equal(t, "#FF3B30", ColorHex(7))
	assert.Equal(t, "#007AFF", ColorHex(8))
	assert.Equal(t, color.RGBA{R: 0x58, G: 0x56, B: 0xD6, A: 255}, ColorAt(9))
}

func TestTooltipLabel(t *testing.T) {
	items := breakdown("1234", "8766")
	assert.Equal(t, []string{
		"Dining: INR 1,234.00 (12.3%)",
		"Shopping: INR 8,766.00 (87.7%)",
	}, Tooltips(items))
	assert.Equal(t, 0.0, Share(decimal.NewFromInt(5), decimal.Zero))
}

func TestRenderProducesPNGOfRequestedSize(t *testing.T) {
	data, e := Render(breakdown("500", "300", "200"), Options{Width: 400, Height: 200, Supersample: 2})
	require.Nil(t, e)
	img := decode(t, data)
	assert.Equal(t, image.Rect(0, 0, 400, 200), img.Bounds())
}

func TestRenderSliceColors(t *testing.T) {
	data, e := Render(breakdown("1", "1"), Options{Width: 400, Height: 200, Supersample: 1})
	require.Nil(t, e)
	img := decode(t, data)

	// Ring centre is (100,100), radii 45..90; sample the middle of the ring on each side.
	right := color.RGBAModel.Convert(img.At(168, 100)).(color.RGBA)
	left := color.RGBAModel.Convert(img.At(32, 100)).(color.RGBA)
	assert.Equal(t, ColorAt(0), right)
	assert.Equal(t, ColorAt(1), left)
}

func TestRenderEmptyBreakdown(t *testing.T) {
	for _, items := range [][]statement.CategorySpending{nil, breakdown("0", "0")} {
		data, e := Render(items, Options{Width: 400, Height: 200, Supersample: 1})
		require.Nil(t, e)
		img := decode(t, data)
		ring := color.RGBAModel.Convert(img.At(100, 168)).(color.RGBA)
		assert.Equal(t, emptyRingColor, ring)
	}
}

func TestCanvasKeepsOneChartPerID(t *testing.T) {
	canvas := NewCanvas(Options{Width: 200, Height: 100, Supersample: 1}, 4)
	assert.Nil(t, canvas.Get("a"))

	first, e := canvas.Replace("a", breakdown("10"))
	require.Nil(t, e)
	second, e := canvas.Replace("a", breakdown("10", "20"))
	require.Nil(t, e)
	other, e := canvas.Replace("b", breakdown("5"))
	require.Nil(t, e)

	assert.NotSame(t, first, second)
	assert.Same(t, second, canvas.Get("a"))
	assert.Same(t, other, canvas.Get("b"))
	assert.Len(t, canvas.Get("a").Breakdown, 2)
	assert.Len(t, canvas.Get("a").Tooltips, 2)
	assert.Equal(t, 2, canvas.Len())

	canvas.Remove("a")
	assert.Nil(t, canvas.Get("a"))
	assert.Same(t, other, canvas.Get("b"))
}

func TestCanvasDropsOldestWhenFull(t *testing.T) {
	canvas := NewCanvas(Options{Width: 120, Height: 60, Supersample: 1}, 2)
	for _, id := range []string{"a", "b", "a", "c"} {
		_, e := canvas.Replace(id, breakdown("1"))
		require.Nil(t, e)
	}
	// "a" was refreshed after "b", so "b" is the oldest
	assert.Nil(t, canvas.Get("b"))
	assert.NotNil(t, canvas.Get("a"))
	assert.NotNil(t, canvas.Get("c"))
	assert.Equal(t, 2, canvas.Len())
}

func TestCanvasConcurrentReplace(t *testing.T) {
	canvas := NewCanvas(Options{Width: 120, Height: 60, Supersample: 1}, 0)
	var group sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		group.Add(1)
		go func() {
			defer group.Done()
			_, e := canvas.Replace(fmt.Sprintf("worker-%d", worker), breakdown("1", "2", "3"))
			assert.Nil(t, e)
		}()
	}
	group.Wait()
	assert.Equal(t, 8, canvas.Len())
}

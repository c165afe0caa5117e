package render

import "statement-analyzer/src/pkg/report/layout"

type OpKind int

const (
	OpSetFillColor OpKind = iota
	OpFillRect
	OpSetTextColor
	OpSetFont
	OpDrawText
	OpEmbedImage
)

func (k OpKind) String() string {
	switch k {
	case OpSetFillColor:
		return "set-fill-color"
	case OpFillRect:
		return "fill-rect"
	case OpSetTextColor:
		return "set-text-color"
	case OpSetFont:
		return "set-font"
	case OpDrawText:
		return "draw-text"
	case OpEmbedImage:
		return "embed-image"
	default:
		return "unknown"
	}
}

type RGB struct {
	R, G, B int
}

type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

/*
Op is one drawing primitive. Block is the index of the layout block that
produced it, so callers can tell which blocks made it onto the surface.
*/
type Op struct {
	Kind    OpKind
	Block   int
	Section layout.Section

	X, Y, Width, Height float64

	Color RGB
	Font  Font
	Text  string
	Align layout.Align

	Image     []byte
	ImageType string
}

type Page struct {
	Ops []Op
}

// DrawSurface is the output of one Draw call: a list of pages of primitives in paint order.
type DrawSurface struct {
	Width  float64
	Height float64
	Pages  []Page
}

// RenderedBlocks returns the distinct block indexes drawn for a section, in order.
func (s *DrawSurface) RenderedBlocks(section layout.Section) (blocks []int) {
	seen := map[int]bool{}
	for _, page := range s.Pages {
		for _, op := range page.Ops {
			if op.Section == section && !seen[op.Block] {
				seen[op.Block] = true
				blocks = append(blocks, op.Block)
			}
		}
	}
	return blocks
}

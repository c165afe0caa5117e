package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"statement-analyzer/src/pkg/report/layout"
)

const DefaultFontFamily = "Helvetica"

type Metadata struct {
	Title     string    `json:"title,omitempty"`
	Author    string    `json:"author,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Creator   string    `json:"creator,omitempty"`
	CreatedAt time.Time `json:"-"`
}

/*
Renderer turns a layout plan into a PDF. It holds no per-document state, so
one Renderer can serve concurrent callers.
*/
type Renderer struct {
	Colors     Colors
	FontFamily string
	Metadata   Metadata
}

func NewRenderer() *Renderer {
	return &Renderer{Colors: DefaultColors(), FontFamily: DefaultFontFamily}
}

/*
Draw translates every block of the plan into drawing primitives.

Bands and striped rows paint their rectangle before any text. An image whose
bytes cannot be decoded is left out of the surface and reported as an
ImageEmbed warning; every other block is still drawn.
*/
func (r *Renderer) Draw(plan layout.Plan) (surface *DrawSurface, warnings []layout.Warning) {
	surface = &DrawSurface{Width: plan.Page.Width, Height: plan.Page.Height}
	for len(surface.Pages) < plan.Pages {
		surface.Pages = append(surface.Pages, Page{})
	}

	for index, block := range plan.Blocks {
		position := block.Placement()
		for len(surface.Pages) <= position.Page {
			surface.Pages = append(surface.Pages, Page{})
		}
		brush := &pen{renderer: r, page: &surface.Pages[position.Page], block: index, section: position.Section}

		switch typed := block.(type) {
		case layout.FilledBand:
			brush.rect(typed.Position, typed.Color)
			brush.cells(typed.Cells)
		case layout.TableRow:
			if typed.Striped {
				brush.rect(typed.Position, layout.ColorStripe)
			}
			brush.cells(typed.Cells)
		case layout.SectionHeader:
			brush.cell(layout.Cell{X: typed.X, Y: typed.Y, Width: typed.Width, Height: typed.Height, Text: typed.Text, Style: typed.Style})
		case layout.KeyValueRow:
			brush.cells(typed.Cells)
		case layout.WrappedText:
			brush.cells(typed.LineCells())
		case layout.Image:
			imageType, err := detectImageType(typed.Data)
			if err != nil {
				warning := layout.Warning{
					Kind:    layout.WarningImageEmbed,
					Page:    position.Page,
					Section: position.Section.String(),
					Block:   index,
					Message: err.Error(),
				}
				warnings = append(warnings, warning)
				tl.Log(tl.Warning, palette.Yellow, "Skipping image in %s section: %s", warning.Section, warning.Message)
				continue
			}
			brush.image(typed, imageType)
		default:
			tl.Log(tl.Warning, palette.YellowDim, "Unknown block type %s at index %s", fmt.Sprintf("%T", block), index)
		}
	}
	return surface, warnings
}

/*
detectImageType checks that data decodes as an image the PDF encoder accepts
and returns its type name.
*/
func detectImageType(data []byte) (imageType string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("image data is not decodable: %w", err)
	}
	switch format {
	case "png":
		return "PNG", nil
	case "jpeg":
		return "JPG", nil
	case "gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("image format %q cannot be embedded", format)
	}
}

type pen struct {
	renderer *Renderer
	page     *Page
	block    int
	section  layout.Section
}

func (p *pen) emit(op Op) {
	op.Block = p.block
	op.Section = p.section
	p.page.Ops = append(p.page.Ops, op)
}

func (p *pen) rect(position layout.Position, role layout.ColorRole) {
	p.emit(Op{Kind: OpSetFillColor, Color: p.renderer.Colors.For(role)})
	p.emit(Op{Kind: OpFillRect, X: position.X, Y: position.Y, Width: position.Width, Height: position.Height})
}

func (p *pen) cells(cells []layout.Cell) {
	for _, cell := range cells {
		p.cell(cell)
	}
}

func (p *pen) cell(cell layout.Cell) {
	if cell.Text == "" {
		return
	}
	p.emit(Op{Kind: OpSetTextColor, Color: p.renderer.Colors.For(cell.Style.Color)})
	p.emit(Op{Kind: OpSetFont, Font: p.renderer.font(cell.Style)})
	p.emit(Op{
		Kind:   OpDrawText,
		X:      cell.X,
		Y:      cell.Y,
		Width:  cell.Width,
		Height: cell.Height,
		Text:   cell.Text,
		Align:  cell.Style.Align,
	})
}

func (p *pen) image(block layout.Image, imageType string) {
	p.emit(Op{
		Kind:      OpEmbedImage,
		X:         block.X,
		Y:         block.Y,
		Width:     block.Width,
		Height:    block.Height,
		Image:     block.Data,
		ImageType: imageType,
	})
}

func (r *Renderer) font(style layout.TextStyle) Font {
	family := r.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	return Font{Family: family, Style: fontStyle(style), Size: style.Size}
}

func fontStyle(style layout.TextStyle) (value string) {
	if style.Bold {
		value += "B"
	}
	if style.Italic {
		value += "I"
	}
	return value
}

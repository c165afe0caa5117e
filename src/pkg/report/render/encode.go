package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/report/layout"
)

/*
newDocument creates an empty PDF with the surface's page size, millimetre
units and no automatic page breaks: pagination is already decided.
*/
func newDocument(width, height float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	return pdf
}

/*
EncodePDF replays the surface onto a PDF document, one document page per
surface page, and returns the serialized bytes.

Text is converted to cp1252 for the core fonts. When the PDF library rejects
an image the image is dropped with an ImageEmbed warning and encoding goes
on; any other library error fails the whole document.
*/
func (r *Renderer) EncodePDF(surface *DrawSurface) (pdfBytes []byte, warnings []layout.Warning, e *xerr.Error) {
	pdf := newDocument(surface.Width, surface.Height)
	r.applyMetadata(pdf)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for pageIndex, page := range surface.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch op.Kind {
			case OpSetFillColor:
				pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
			case OpFillRect:
				pdf.Rect(op.X, op.Y, op.Width, op.Height, "F")
			case OpSetTextColor:
				pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
			case OpSetFont:
				pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
			case OpDrawText:
				pdf.SetXY(op.X, op.Y)
				pdf.CellFormat(op.Width, op.Height, translate(op.Text), "", 0, alignString(op.Align), false, 0, "")
			case OpEmbedImage:
				name := fmt.Sprintf("block-%d", op.Block)
				options := fpdf.ImageOptions{ImageType: op.ImageType}
				pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(op.Image))
				if !pdf.Ok() {
					warning := layout.Warning{
						Kind:    layout.WarningImageEmbed,
						Page:    pageIndex,
						Section: op.Section.String(),
						Block:   op.Block,
						Message: pdf.Error().Error(),
					}
					warnings = append(warnings, warning)
					tl.Log(tl.Warning, palette.Yellow, "PDF library rejected image in %s section: %s", warning.Section, warning.Message)
					pdf.ClearError()
					continue
				}
				pdf.ImageOptions(name, op.X, op.Y, op.Width, op.Height, false, options, 0, "")
			}
		}
		if !pdf.Ok() {
			return nil, warnings, xerr.NewError(pdf.Error(), "draw PDF page", pageIndex+1)
		}
	}

	var buffer bytes.Buffer
	outputErr := pdf.Output(&buffer)
	if outputErr != nil {
		return nil, warnings, xerr.NewError(outputErr, "serialize PDF", len(surface.Pages))
	}

	tl.Log(tl.Verbose, palette.Cyan, "Encoded PDF with %s pages (%s bytes)", len(surface.Pages), buffer.Len())
	return buffer.Bytes(), warnings, nil
}

func (r *Renderer) applyMetadata(pdf *fpdf.Fpdf) {
	meta := r.Metadata
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	if !meta.CreatedAt.IsZero() {
		pdf.SetCreationDate(meta.CreatedAt)
		pdf.SetModificationDate(meta.CreatedAt)
	}
}

func alignString(align layout.Align) string {
	switch align {
	case layout.AlignCenter:
		return "CM"
	case layout.AlignRight:
		return "RM"
	default:
		return "LM"
	}
}

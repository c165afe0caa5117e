package render

import (
	"sync"

	"github.com/go-pdf/fpdf"

	"statement-analyzer/src/pkg/report/layout"
)

/*
PDFMeasurer measures text with the core font metrics of the PDF library, so
wrapped lines match what the encoder will draw.
*/
type PDFMeasurer struct {
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string
}

func NewPDFMeasurer(family string) *PDFMeasurer {
	if family == "" {
		family = DefaultFontFamily
	}
	pdf := newDocument(210, 297)
	return &PDFMeasurer{pdf: pdf, family: family, translate: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *PDFMeasurer) Width(text string, style layout.TextStyle) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(m.family, fontStyle(style), style.Size)
	return m.pdf.GetStringWidth(m.translate(text))
}

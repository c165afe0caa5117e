package render

import (
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/chart"
	"statement-analyzer/src/pkg/report/layout"
	"statement-analyzer/src/pkg/statement"
)

type Output struct {
	PDF      []byte
	Pages    int
	Warnings []layout.Warning
}

/*
Render draws the plan and serializes it to PDF. Warnings from layout, drawing
and encoding are all returned together; only encoder failures are errors.
*/
func (r *Renderer) Render(plan layout.Plan) (output Output, e *xerr.Error) {
	surface, drawWarnings := r.Draw(plan)
	pdfBytes, encodeWarnings, e := r.EncodePDF(surface)
	if e != nil {
		return Output{}, e
	}

	warnings := append([]layout.Warning{}, plan.Warnings...)
	warnings = append(warnings, drawWarnings...)
	warnings = append(warnings, encodeWarnings...)
	return Output{PDF: pdfBytes, Pages: len(surface.Pages), Warnings: warnings}, nil
}

// RenderChartOnly rasterizes the breakdown chart on its own, without a report around it.
func (r *Renderer) RenderChartOnly(breakdown []statement.CategorySpending, options chart.Options) (pngBytes []byte, e *xerr.Error) {
	return chart.Render(breakdown, options)
}

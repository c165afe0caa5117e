package report

import (
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/chart"
	"statement-analyzer/src/pkg/report/layout"
	"statement-analyzer/src/pkg/report/render"
	"statement-analyzer/src/pkg/statement"
)

/*
Report is everything produced for one analysis result. Either artifact may
be empty when only the other one was requested.
*/
type Report struct {
	PDF       []byte           `json:"-"`
	PDFName   string           `json:"pdf_name,omitempty"`
	Chart     []byte           `json:"-"`
	ChartName string           `json:"chart_name,omitempty"`
	Pages     int              `json:"pages,omitempty"`
	Warnings  []layout.Warning `json:"warnings,omitempty"`
	Notes     []string         `json:"notes,omitempty"`
}

/*
Generator wires chart, layout and rendering together. Every call builds its
own plan and document, so a Generator can be shared between goroutines.
*/
type Generator struct {
	cfg      Config
	renderer *render.Renderer
}

func NewGenerator(cfg Config) *Generator {
	renderer := render.NewRenderer()
	renderer.FontFamily = cfg.FontFamily
	return &Generator{cfg: cfg, renderer: renderer}
}

// NewDefaultGenerator uses the package config loaded from the config file.
func NewDefaultGenerator() *Generator {
	return NewGenerator(Cfg)
}

func (g *Generator) chartOptions() chart.Options {
	return chart.Options{Width: g.cfg.ChartWidthPx, Height: g.cfg.ChartHeightPx, Supersample: g.cfg.ChartSupersample}
}

/*
GeneratePDF renders the full report. A chart that fails to render leaves the
chart section without an image and adds an ImageEmbed warning.
Inconsistent reduction figures are logged and returned as notes; the
backend's values are printed as they are.
*/
func (g *Generator) GeneratePDF(result statement.AnalysisResult, now time.Time) (report Report, e *xerr.Error) {
	startTime := time.Now()
	report.Notes = statement.CheckInvariants(result)
	for _, note := range report.Notes {
		tl.Log(tl.Notice1, palette.YellowDim, "Analysis result is inconsistent: %s", note)
	}

	chartPNG, chartErr := chart.Render(result.CategoryBreakdown, g.chartOptions())
	if chartErr != nil {
		tl.Log(tl.Warning, palette.Yellow, "Chart could not be rendered, report will have %s", "no chart image")
		report.Warnings = append(report.Warnings, layout.Warning{
			Kind:    layout.WarningImageEmbed,
			Section: layout.SectionChart.String(),
			Block:   -1,
			Message: "chart could not be rendered",
		})
	}

	plan := layout.PlanReport(result, g.cfg.Page(), layout.Options{
		ChartPNG:    chartPNG,
		ChartHeight: g.cfg.ChartHeight,
		Title:       g.cfg.Title,
		Footer:      g.cfg.Footer,
		GeneratedAt: now,
		Measurer:    render.NewPDFMeasurer(g.cfg.FontFamily),
	})

	renderer := *g.renderer
	renderer.Metadata = render.Metadata{
		Title:     g.cfg.Title,
		Author:    g.cfg.Author,
		Subject:   "Credit card statement analysis",
		Creator:   g.cfg.Author,
		CreatedAt: now,
	}
	output, e := renderer.Render(plan)
	if e != nil {
		return Report{}, e
	}

	report.PDF = output.PDF
	report.PDFName = PDFFilename(now)
	report.Pages = output.Pages
	report.Warnings = append(report.Warnings, output.Warnings...)

	tl.Log(
		tl.Info1, palette.Green, "Generated %s: %s pages, %s warnings in %s",
		report.PDFName, report.Pages, len(report.Warnings), time.Since(startTime),
	)
	return report, nil
}

// GenerateChart renders the standalone chart PNG.
func (g *Generator) GenerateChart(breakdown []statement.CategorySpending, now time.Time) (report Report, e *xerr.Error) {
	pngBytes, e := g.renderer.RenderChartOnly(breakdown, g.chartOptions())
	if e != nil {
		return Report{}, e
	}
	report.Chart = pngBytes
	report.ChartName = ChartFilename(now)
	tl.Log(tl.Info1, palette.Green, "Generated %s (%s bytes)", report.ChartName, len(pngBytes))
	return report, nil
}

// Generate produces both the PDF report and the standalone chart.
func (g *Generator) Generate(result statement.AnalysisResult, now time.Time) (report Report, e *xerr.Error) {
	report, e = g.GeneratePDF(result, now)
	if e != nil {
		return Report{}, e
	}
	chartReport, e := g.GenerateChart(result.CategoryBreakdown, now)
	if e != nil {
		return Report{}, e
	}
	report.Chart = chartReport.Chart
	report.ChartName = chartReport.ChartName
	return report, nil
}

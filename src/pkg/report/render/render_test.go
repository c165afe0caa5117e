package render

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-analyzer/src/pkg/chart"
	"statement-analyzer/src/pkg/report/layout"
	"statement-analyzer/src/pkg/statement"
)

func sampleResult(categories int) statement.AnalysisResult {
	result := statement.AnalysisResult{
		StatementSummary: statement.Summary{
			TotalDebits:    decimal.RequireFromString("45230.50"),
			TotalCredits:   decimal.RequireFromString("12000"),
			ClosingBalance: decimal.RequireFromString("33230.50"),
		},
		ReductionTarget:       statement.NewReductionTarget(decimal.RequireFromString("1000"), 20),
		TotalProjectedSavings: decimal.RequireFromString("500"),
		Recommendations: []statement.Recommendation{{
			Category:            "Dining",
			CurrentSpending:     decimal.NewFromInt(2000),
			ReductionPercentage: 25,
			AmountToSave:        decimal.NewFromInt(500),
			NewSpending:         decimal.NewFromInt(1500),
			Advice:              "Cook at home on weekdays. Café visits only on Fridays.",
		}},
	}
	for index := 0; index < categories; index++ {
		result.CategoryBreakdown = append(result.CategoryBreakdown, statement.CategorySpending{
			Category:   fmt.Sprintf("Category %d", index),
			Amount:     decimal.NewFromInt(int64(100 * (index + 1))),
			Percentage: 10,
		})
	}
	return result
}

func chartPNG(t *testing.T, result statement.AnalysisResult) []byte {
	t.Helper()
	data, e := chart.Render(result.CategoryBreakdown, chart.Options{Width: 300, Height: 150, Supersample: 1})
	require.Nil(t, e)
	return data
}

func countSection(plan layout.Plan, section layout.Section) (count int) {
	for _, block := range plan.Blocks {
		if block.Placement().Section == section {
			count++
		}
	}
	return count
}

func TestDrawSkipsCorruptImage(t *testing.T) {
	plan := layout.PlanReport(sampleResult(4), layout.A4(), layout.Options{ChartPNG: []byte("definitely not an image")})
	surface, warnings := NewRenderer().Draw(plan)

	require.Len(t, warnings, 1)
	assert.Equal(t, layout.WarningImageEmbed, warnings[0].Kind)
	assert.Equal(t, "chart", warnings[0].Section)
	assert.Len(t, surface.RenderedBlocks(layout.SectionChart), countSection(plan, layout.SectionChart)-1)
	assert.Len(t, surface.RenderedBlocks(layout.SectionSummary), countSection(plan, layout.SectionSummary))
}

func TestRenderWithCorruptImageStillProducesPDF(t *testing.T) {
	plan := layout.PlanReport(sampleResult(4), layout.A4(), layout.Options{ChartPNG: []byte{0x89, 'P', 'N', 'G'}})
	output, e := NewRenderer().Render(plan)
	require.Nil(t, e)
	assert.True(t, bytes.HasPrefix(output.PDF, []byte("%PDF-")))
	require.Len(t, output.Warnings, 1)
	assert.Equal(t, layout.WarningImageEmbed, output.Warnings[0].Kind)
}

func TestRenderEmbedsChart(t *testing.T) {
	result := sampleResult(5)
	plan := layout.PlanReport(result, layout.A4(), layout.Options{ChartPNG: chartPNG(t, result)})
	renderer := NewRenderer()

	surface, warnings := renderer.Draw(plan)
	assert.Empty(t, warnings)
	assert.Len(t, surface.RenderedBlocks(layout.SectionChart), countSection(plan, layout.SectionChart))

	embedded := 0
	for _, page := range surface.Pages {
		for _, op := range page.Ops {
			if op.Kind == OpEmbedImage {
				embedded++
				assert.Equal(t, "PNG", op.ImageType)
			}
		}
	}
	assert.Equal(t, 1, embedded)

	output, e := renderer.Render(plan)
	require.Nil(t, e)
	assert.Empty(t, output.Warnings)
	assert.Equal(t, plan.Pages, output.Pages)
	assert.True(t, bytes.HasPrefix(output.PDF, []byte("%PDF-")))
}

func TestSurfacePagesFollowPlan(t *testing.T) {
	plan := layout.PlanReport(sampleResult(70), layout.A4(), layout.Options{})
	require.Greater(t, plan.Pages, 2)

	surface, _ := NewRenderer().Draw(plan)
	assert.Len(t, surface.Pages, plan.Pages)
	for index, page := range surface.Pages {
		assert.NotEmpty(t, page.Ops, "page %d", index)
	}
}

func TestBandsAndStripesPaintBeforeText(t *testing.T) {
	plan := layout.PlanReport(sampleResult(3), layout.A4(), layout.Options{})
	renderer := NewRenderer()
	surface, _ := renderer.Draw(plan)

	opsByBlock := map[int][]Op{}
	for _, page := range surface.Pages {
		for _, op := range page.Ops {
			opsByBlock[op.Block] = append(opsByBlock[op.Block], op)
		}
	}

	for index, block := range plan.Blocks {
		ops := opsByBlock[index]
		switch typed := block.(type) {
		case layout.FilledBand:
			require.GreaterOrEqual(t, len(ops), 2)
			assert.Equal(t, OpSetFillColor, ops[0].Kind)
			assert.Equal(t, renderer.Colors.For(typed.Color), ops[0].Color)
			assert.Equal(t, OpFillRect, ops[1].Kind)
		case layout.TableRow:
			if typed.Striped {
				assert.Equal(t, OpSetFillColor, ops[0].Kind)
				assert.Equal(t, RGB{245, 245, 247}, ops[0].Color)
				assert.Equal(t, OpFillRect, ops[1].Kind)
			} else {
				assert.Equal(t, OpSetTextColor, ops[0].Kind)
			}
		}
	}
}

func TestTextOpsCarryStyle(t *testing.T) {
	plan := layout.PlanReport(sampleResult(1), layout.A4(), layout.Options{})
	surface, _ := NewRenderer().Draw(plan)

	var advice []Op
	for _, page := range surface.Pages {
		for index, op := range page.Ops {
			if op.Kind == OpDrawText && op.Section == layout.SectionRecommendations && op.Text == "Cook at home on weekdays. Café visits only on Fridays." {
				advice = append(advice, page.Ops[index-1])
			}
		}
	}
	require.Len(t, advice, 1)
	assert.Equal(t, Font{Family: "Helvetica", Style: "I", Size: 9}, advice[0].Font)
}

func TestEncoderDropsRejectedImage(t *testing.T) {
	surface := &DrawSurface{Width: 210, Height: 297, Pages: []Page{{Ops: []Op{
		{Kind: OpSetFont, Font: Font{Family: "Helvetica", Size: 10}},
		{Kind: OpEmbedImage, Block: 3, Section: layout.SectionChart, X: 20, Y: 20, Width: 100, Height: 50, Image: []byte("garbage"), ImageType: "PNG"},
		{Kind: OpDrawText, X: 20, Y: 80, Width: 100, Height: 6, Text: "after the image"},
	}}}}

	pdfBytes, warnings, e := NewRenderer().EncodePDF(surface)
	require.Nil(t, e)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].Block)
}

func TestMetadataDoesNotBreakEncoding(t *testing.T) {
	renderer := NewRenderer()
	renderer.Metadata = Metadata{Title: "Credit Card Analysis Report", Author: "statement-analyzer", CreatedAt: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)}
	output, e := renderer.Render(layout.PlanReport(sampleResult(2), layout.A4(), layout.Options{}))
	require.Nil(t, e)
	assert.True(t, bytes.HasPrefix(output.PDF, []byte("%PDF-")))
	assert.Contains(t, string(output.PDF), "/Title")
}

func TestPDFMeasurer(t *testing.T) {
	measurer := NewPDFMeasurer("")
	plain := measurer.Width("Dining and restaurants", layout.TextStyle{Size: 10})
	bold := measurer.Width("Dining and restaurants", layout.TextStyle{Size: 10, Bold: true})
	assert.Greater(t, plain, 20.0)
	assert.Greater(t, bold, plain)
	assert.InDelta(t, 2*plain, measurer.Width("Dining and restaurants", layout.TextStyle{Size: 20}), 1e-6)
}

func TestRenderChartOnly(t *testing.T) {
	data, e := NewRenderer().RenderChartOnly(sampleResult(3).CategoryBreakdown, chart.Options{Width: 200, Height: 100})
	require.Nil(t, e)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

package report

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement-analyzer/src/pkg/statement"
)

var day = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

func sampleResult() statement.AnalysisResult {
	return statement.AnalysisResult{
		StatementSummary: statement.Summary{
			TotalDebits:    decimal.RequireFromString("45230.50"),
			TotalCredits:   decimal.RequireFromString("12000"),
			ClosingBalance: decimal.RequireFromString("33230.50"),
		},
		CategoryBreakdown: []statement.CategorySpending{
			{Category: "Dining", Amount: decimal.RequireFromString("12500.25"), Percentage: 55.9},
			{Category: "Shopping", Amount: decimal.RequireFromString("9800"), Percentage: 44.1},
		},
		ReductionTarget: statement.NewReductionTarget(decimal.RequireFromString("22300.25"), 20),
		Recommendations: []statement.Recommendation{{
			Category:            "Dining",
			CurrentSpending:     decimal.RequireFromString("12500.25"),
			ReductionPercentage: 25,
			AmountToSave:        decimal.RequireFromString("3125.06"),
			NewSpending:         decimal.RequireFromString("9375.19"),
			Advice:              "Cook at home twice a week.",
		}},
		TotalProjectedSavings: decimal.RequireFromString("3125.06"),
	}
}

func smallConfig() Config {
	cfg := DefaultValueConfig()
	cfg.ChartWidthPx = 300
	cfg.ChartHeightPx = 150
	cfg.ChartSupersample = 1
	return cfg
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "credit-card-analysis-2025-03-14.pdf", PDFFilename(day))
	assert.Equal(t, "spending-chart-2025-03-14.png", ChartFilename(day))
}

func TestGenerate(t *testing.T) {
	report, e := NewGenerator(smallConfig()).Generate(sampleResult(), day)
	require.Nil(t, e)

	assert.True(t, bytes.HasPrefix(report.PDF, []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(report.Chart, []byte("\x89PNG")))
	assert.Equal(t, "credit-card-analysis-2025-03-14.pdf", report.PDFName)
	assert.Equal(t, "spending-chart-2025-03-14.png", report.ChartName)
	assert.Equal(t, 2, report.Pages)
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.Notes)
}

func TestGenerateReportsInconsistentFigures(t *testing.T) {
	result := sampleResult()
	result.ReductionTarget.AmountToSave = decimal.NewFromInt(1)

	report, e := NewGenerator(smallConfig()).GeneratePDF(result, day)
	require.Nil(t, e)
	assert.NotEmpty(t, report.PDF)
	require.Len(t, report.Notes, 1)
	assert.Contains(t, report.Notes[0], "savings")
}

func TestGenerateEmptyBreakdown(t *testing.T) {
	result := sampleResult()
	result.CategoryBreakdown = nil

	report, e := NewGenerator(smallConfig()).Generate(result, day)
	require.Nil(t, e)
	assert.NotEmpty(t, report.PDF)
	assert.NotEmpty(t, report.Chart)
}

func TestGeneratorIsReentrant(t *testing.T) {
	generator := NewGenerator(smallConfig())
	var group sync.WaitGroup
	sizes := make([]int, 6)
	for worker := range sizes {
		group.Add(1)
		go func() {
			defer group.Done()
			report, e := generator.GeneratePDF(sampleResult(), day)
			assert.Nil(t, e)
			sizes[worker] = report.Pages
		}()
	}
	group.Wait()
	for _, pages := range sizes {
		assert.Equal(t, sizes[0], pages)
		assert.Positive(t, pages)
	}
}

func TestInitializeConfigKeepsDefaultsWhenAbsent(t *testing.T) {
	Cfg = DefaultValueConfig()
	InitializeConfig(nil)
	assert.Equal(t, DefaultValueConfig(), Cfg)
	assert.Equal(t, 20.0, Cfg.Page().Margin)
}

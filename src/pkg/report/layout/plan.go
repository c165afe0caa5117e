package layout

import (
	"fmt"
	"math"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"statement-analyzer/src/pkg/money"
	"statement-analyzer/src/pkg/statement"
)

const (
	DefaultTitle        = "Credit Card Analysis Report"
	DefaultFooter       = "Generated by Credit Card AI Analyzer"
	DefaultChartHeight  = 80.0
	GeneratedDateFormat = "02/01/2006"
)

// Vertical rhythm, in millimetres.
const (
	titleBandHeight  = 40.0
	headerHeight     = 10.0
	summaryRowHeight = 7.0
	tableRowHeight   = 12.0
	sectionGap       = 8.0
	indent           = 5.0
	maxAmountColumn  = 60.0

	reductionBandHeight = 35.0
	reductionRowHeight  = 8.0

	recommendationBandHeight = 8.0
	recommendationRowHeight  = 6.0
	recommendationGap        = 6.0
	adviceLineHeight         = 5.0

	savingsBandHeight = 26.0
	footerHeight      = 6.0
)

// Font sizes, in points.
const (
	titleSize      = 24.0
	captionSize    = 10.0
	headerSize     = 16.0
	bandHeaderSize = 14.0
	bodySize       = 11.0
	tableSize      = 10.0
	adviceSize     = 9.0
	savingsSize    = 18.0
	footerSize     = 8.0
)

type Options struct {
	// ChartPNG is embedded under the chart header. Nil omits the image block.
	ChartPNG    []byte
	ChartHeight float64
	Title       string
	Footer      string
	GeneratedAt time.Time
	Measurer    TextMeasurer
}

/*
Plan is the complete, positioned content of a report. Blocks are in draw
order and their coordinates are final.
*/
type Plan struct {
	Page     PageSpec
	Pages    int
	Blocks   []Block
	Warnings []Warning
}

type engine struct {
	page     PageSpec
	options  Options
	blocks   []Block
	warnings []Warning

	pageIndex int
	y         float64
	fresh     bool
}

/*
PlanReport turns an analysis result into positioned blocks.

Sections always appear in this order: title band, statement summary, chart,
category table, reduction target band, recommendations, total savings band,
footer. The six section headers are emitted even when their content is
empty. Blocks are never split across pages: when a block does not fit below
the cursor it moves to the next page, and a block that cannot fit on an
empty page is placed at the top anyway with a LayoutOverflow warning.
*/
func PlanReport(result statement.AnalysisResult, page PageSpec, options Options) Plan {
	if options.ChartHeight <= 0 {
		options.ChartHeight = DefaultChartHeight
	}
	if options.Title == "" {
		options.Title = DefaultTitle
	}
	if options.Footer == "" {
		options.Footer = DefaultFooter
	}
	if options.GeneratedAt.IsZero() {
		options.GeneratedAt = time.Now()
	}
	if options.Measurer == nil {
		options.Measurer = FixedWidthMeasurer{}
	}

	en := &engine{page: page, options: options, y: page.Margin, fresh: true}

	en.titleBand()
	en.summary(result.StatementSummary)
	en.chart()
	en.categoryTable(result.CategoryBreakdown)
	en.reductionTarget(result.ReductionTarget)
	en.recommendations(result.Recommendations)
	en.totalSavings(result)
	en.footer()

	tl.Log(
		tl.Verbose, palette.Cyan, "Planned report layout: %s blocks on %s pages with %s warnings",
		len(en.blocks), en.pageIndex+1, len(en.warnings),
	)

	return Plan{Page: page, Pages: en.pageIndex + 1, Blocks: en.blocks, Warnings: en.warnings}
}

func (en *engine) limit() float64 {
	return en.page.Height - en.page.Margin
}

func (en *engine) newPage() {
	en.pageIndex++
	en.y = en.page.Margin
	en.fresh = true
}

/*
reserve makes sure height fits below the cursor, starting a new page when it
does not. On an already empty page the content is placed regardless and an
overflow warning is recorded.
*/
func (en *engine) reserve(height float64, section Section) {
	if en.y+height <= en.limit() {
		return
	}
	if !en.fresh {
		en.newPage()
	}
	if en.y+height > en.limit() {
		warning := Warning{
			Kind:    WarningLayoutOverflow,
			Page:    en.pageIndex,
			Section: section.String(),
			Block:   len(en.blocks),
			Message: fmt.Sprintf("%.1fmm of content does not fit in %.1fmm of printable height", height, en.page.PrintableHeight()),
		}
		en.warnings = append(en.warnings, warning)
		tl.Log(tl.Warning, palette.Yellow, "Layout overflow in %s section on page %s: %s", warning.Section, warning.Page+1, warning.Message)
	}
}

func (en *engine) place(block Block) {
	en.blocks = append(en.blocks, block)
	en.fresh = false
}

func (en *engine) at(x, y, width, height float64, section Section) Position {
	return Position{Page: en.pageIndex, X: x, Y: y, Width: width, Height: height, Section: section}
}

/*
header places a section header and keeps it on the same page as the first
block of its content (keepWith, which may be zero). When the pair cannot
share any page the header is placed on its own and the content block's
reserve decides whether it overflows.
*/
func (en *engine) header(text string, section Section, keepWith float64) {
	height := headerHeight + keepWith
	if height > en.page.PrintableHeight() {
		height = headerHeight
	}
	en.reserve(height, section)
	en.place(SectionHeader{
		Position: en.at(en.page.Margin, en.y, en.page.PrintableWidth(), headerHeight, section),
		Text:     text,
		Style:    TextStyle{Size: headerSize, Bold: true, Color: ColorText},
	})
	en.y += headerHeight
}

func (en *engine) titleBand() {
	margin := en.page.Margin
	width := en.page.PrintableWidth()
	en.place(FilledBand{
		Position: en.at(0, 0, en.page.Width, titleBandHeight, SectionTitle),
		Role:     BandTitle,
		Color:    ColorAccent,
		Cells: []Cell{
			{X: margin, Y: 12, Width: width, Height: 12, Text: en.options.Title, Style: TextStyle{Size: titleSize, Bold: true, Color: ColorInverse}},
			{X: margin, Y: 27, Width: width, Height: 6, Text: "Generated: " + en.options.GeneratedAt.Format(GeneratedDateFormat), Style: TextStyle{Size: captionSize, Color: ColorInverse}},
		},
	})
	en.y = math.Max(en.y, titleBandHeight+10)
}

func (en *engine) summary(summary statement.Summary) {
	en.header("Statement Summary", SectionSummary, summaryRowHeight)
	rows := []string{
		"Total Debits: " + money.Format(summary.TotalDebits),
		"Total Credits: " + money.Format(summary.TotalCredits),
		"Closing Balance: " + money.Format(summary.ClosingBalance),
	}
	for _, text := range rows {
		en.reserve(summaryRowHeight, SectionSummary)
		en.place(en.singleCellRow(text, SectionSummary, summaryRowHeight, TextStyle{Size: bodySize, Color: ColorText}))
		en.y += summaryRowHeight
	}
	en.y += sectionGap
}

func (en *engine) singleCellRow(text string, section Section, height float64, style TextStyle) KeyValueRow {
	x := en.page.Margin + indent
	width := en.page.PrintableWidth() - indent
	return KeyValueRow{
		Position: en.at(en.page.Margin, en.y, en.page.PrintableWidth(), height, section),
		Cells:    []Cell{{X: x, Y: en.y, Width: width, Height: height, Text: text, Style: style}},
	}
}

func (en *engine) chart() {
	hasImage := len(en.options.ChartPNG) > 0
	keepWith := 0.0
	if hasImage {
		keepWith = en.options.ChartHeight
	}
	en.header("Category Breakdown Chart", SectionChart, keepWith)
	if hasImage {
		en.reserve(en.options.ChartHeight, SectionChart)
		en.place(Image{
			Position: en.at(en.page.Margin, en.y, en.page.PrintableWidth(), en.options.ChartHeight, SectionChart),
			Data:     en.options.ChartPNG,
		})
		en.y += en.options.ChartHeight
	}
	en.y += sectionGap
}

func (en *engine) categoryTable(breakdown []statement.CategorySpending) {
	keepWith := 0.0
	if len(breakdown) > 0 {
		keepWith = tableRowHeight
	}
	en.header("Category Details", SectionCategoryTable, keepWith)

	margin := en.page.Margin
	amountWidth := math.Min(maxAmountColumn, en.page.PrintableWidth()/2)
	amountX := en.page.Width - margin - amountWidth
	nameWidth := amountX - margin - indent

	for index, item := range breakdown {
		en.reserve(tableRowHeight, SectionCategoryTable)
		en.place(TableRow{
			Position: en.at(margin, en.y, en.page.PrintableWidth(), tableRowHeight, SectionCategoryTable),
			Index:    index,
			Striped:  index%2 == 0,
			Cells: []Cell{
				{X: margin + indent, Y: en.y, Width: nameWidth, Height: tableRowHeight, Text: item.Category, Style: TextStyle{Size: tableSize, Bold: true, Color: ColorText}},
				{
					X: amountX, Y: en.y, Width: amountWidth - indent, Height: tableRowHeight,
					Text:  fmt.Sprintf("%s (%s)", money.Format(item.Amount), money.FormatPercent(item.Percentage, 1)),
					Style: TextStyle{Size: tableSize, Color: ColorText, Align: AlignRight},
				},
			},
		})
		en.y += tableRowHeight
	}
	en.y += sectionGap
}

func (en *engine) reductionTarget(target statement.ReductionTarget) {
	en.reserve(reductionBandHeight, SectionReductionTarget)

	margin := en.page.Margin
	top := en.y
	half := en.page.PrintableWidth()/2 - indent
	secondColumn := en.page.Width / 2
	style := TextStyle{Size: captionSize, Color: ColorInverse}

	en.place(FilledBand{
		Position: en.at(margin, top, en.page.PrintableWidth(), reductionBandHeight, SectionReductionTarget),
		Role:     BandReductionTarget,
		Color:    ColorAccent,
	})
	en.place(SectionHeader{
		Position: en.at(margin+indent, top+3, en.page.PrintableWidth()-2*indent, headerHeight, SectionReductionTarget),
		Text:     "Reduction Target",
		Style:    TextStyle{Size: bandHeaderSize, Bold: true, Color: ColorInverse},
	})

	rows := [][2]string{
		{"Current: " + money.Format(target.CurrentSpending), "Target: " + money.FormatReductionPercent(target.ReductionPercentage)},
		{"New Target: " + money.Format(target.TargetSpending), "Save: " + money.Format(target.AmountToSave)},
	}
	for index, pair := range rows {
		rowY := top + 14 + float64(index)*(reductionRowHeight+1)
		en.place(KeyValueRow{
			Position: en.at(margin+indent, rowY, en.page.PrintableWidth()-2*indent, reductionRowHeight, SectionReductionTarget),
			Cells: []Cell{
				{X: margin + indent, Y: rowY, Width: half, Height: reductionRowHeight, Text: pair[0], Style: style},
				{X: secondColumn, Y: rowY, Width: half, Height: reductionRowHeight, Text: pair[1], Style: style},
			},
		})
	}
	en.y = top + reductionBandHeight + sectionGap
}

func (en *engine) recommendations(recommendations []statement.Recommendation) {
	groupHeight := recommendationBandHeight + 2 + 3*recommendationRowHeight
	keepWith := 0.0
	if len(recommendations) > 0 {
		keepWith = groupHeight
	}
	en.header("AI Recommendations", SectionRecommendations, keepWith)

	margin := en.page.Margin
	innerWidth := en.page.PrintableWidth() - 2*indent
	rowStyle := TextStyle{Size: captionSize, Color: ColorText}
	adviceStyle := TextStyle{Size: adviceSize, Italic: true, Color: ColorText}

	for _, recommendation := range recommendations {
		en.reserve(groupHeight, SectionRecommendations)
		en.place(FilledBand{
			Position: en.at(margin, en.y, en.page.PrintableWidth(), recommendationBandHeight, SectionRecommendations),
			Role:     BandRecommendation,
			Color:    ColorSecondaryAccent,
			Cells: []Cell{{
				X: margin + indent, Y: en.y, Width: innerWidth, Height: recommendationBandHeight,
				Text:  fmt.Sprintf("%s (-%s)", recommendation.Category, money.FormatReductionPercent(recommendation.ReductionPercentage)),
				Style: TextStyle{Size: bodySize, Bold: true, Color: ColorInverse},
			}},
		})
		en.y += recommendationBandHeight + 2

		for _, text := range []string{
			"Current: " + money.Format(recommendation.CurrentSpending),
			"Save: " + money.Format(recommendation.AmountToSave),
			"New Target: " + money.Format(recommendation.NewSpending),
		} {
			en.place(en.singleCellRow(text, SectionRecommendations, recommendationRowHeight, rowStyle))
			en.y += recommendationRowHeight
		}

		lines := Wrap(recommendation.Advice, innerWidth, adviceStyle, en.options.Measurer)
		if len(lines) > 0 {
			height := float64(len(lines)) * adviceLineHeight
			en.reserve(height, SectionRecommendations)
			en.place(WrappedText{
				Position:   en.at(margin+indent, en.y, innerWidth, height, SectionRecommendations),
				Lines:      lines,
				LineHeight: adviceLineHeight,
				Style:      adviceStyle,
			})
			en.y += height
		}
		en.y += recommendationGap
	}
	en.y += sectionGap
}

func (en *engine) totalSavings(result statement.AnalysisResult) {
	en.reserve(savingsBandHeight, SectionTotalSavings)

	margin := en.page.Margin
	top := en.y
	innerWidth := en.page.PrintableWidth() - 2*indent

	en.place(FilledBand{
		Position: en.at(margin, top, en.page.PrintableWidth(), savingsBandHeight, SectionTotalSavings),
		Role:     BandTotalSavings,
		Color:    ColorSuccess,
	})
	en.place(SectionHeader{
		Position: en.at(margin+indent, top+2, innerWidth, headerHeight, SectionTotalSavings),
		Text:     "Total Projected Savings",
		Style:    TextStyle{Size: bandHeaderSize, Bold: true, Color: ColorInverse},
	})
	amountY := top + 13
	en.place(KeyValueRow{
		Position: en.at(margin+indent, amountY, innerWidth, headerHeight, SectionTotalSavings),
		Cells: []Cell{{
			X: margin + indent, Y: amountY, Width: innerWidth, Height: headerHeight,
			Text:  money.Format(result.TotalProjectedSavings),
			Style: TextStyle{Size: savingsSize, Bold: true, Color: ColorInverse},
		}},
	})
	en.y = top + savingsBandHeight + sectionGap
}

/*
footer sits at the bottom of the printable area of the last page, or of a new
page when the content above reaches into it.
*/
func (en *engine) footer() {
	en.reserve(footerHeight, SectionFooter)
	y := math.Max(en.y, en.limit()-footerHeight)
	en.place(WrappedText{
		Position:   en.at(en.page.Margin, y, en.page.PrintableWidth(), footerHeight, SectionFooter),
		Lines:      []string{en.options.Footer},
		LineHeight: footerHeight,
		Style:      TextStyle{Size: footerSize, Color: ColorMuted, Align: AlignCenter},
	})
	en.y = y + footerHeight
}

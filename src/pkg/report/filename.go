package report

import "time"

const dateStamp = "2006-01-02"

// PDFFilename names a downloaded report: credit-card-analysis-2025-03-14.pdf
func PDFFilename(t time.Time) string {
	return "credit-card-analysis-" + t.Format(dateStamp) + ".pdf"
}

// ChartFilename names a downloaded chart: spending-chart-2025-03-14.png
func ChartFilename(t time.Time) string {
	return "spending-chart-" + t.Format(dateStamp) + ".png"
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/config"
	"statement-analyzer/src/pkg/delivery"
	"statement-analyzer/src/pkg/report"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/util"
)

/*
reportOptions controls which result is rendered and where output is written.
*/
type reportOptions struct {
	InputPath  string    `json:"input_path"`
	OutDir     string    `json:"out_dir"`
	Date       time.Time `json:"date"`
	ChartOnly  bool      `json:"chart_only"`
	ConfigPath string    `json:"config_path"`
}

/*
main turns a saved analysis result into the PDF report and the chart PNG.
The input may be the bare result or the backend's envelope around it.

Example:

	go run ./src/cmd/report -input ./out/2025-03-14/statement/analysis.json -out ./reports
*/
func main() {
	options := parseFlags()

	tl.Log(tl.Notice, palette.BlueBold, "Generating report for '%s' into '%s'", options.InputPath, options.OutDir)

	result, e := loadResult(options.InputPath)
	e.QuitIf(xerr.ErrorTypeError)

	generator := report.NewDefaultGenerator()
	var pdfReport, chartReport report.Report

	// layout and rendering are reentrant, so both artifacts render at once
	var group errgroup.Group
	if !options.ChartOnly {
		group.Go(func() error {
			generated, e := generator.GeneratePDF(result, options.Date)
			if e != nil {
				return fmt.Errorf("PDF report: %v", e)
			}
			pdfReport = generated
			return nil
		})
	}
	group.Go(func() error {
		generated, e := generator.GenerateChart(result.CategoryBreakdown, options.Date)
		if e != nil {
			return fmt.Errorf("chart: %v", e)
		}
		chartReport = generated
		return nil
	})
	xerr.QuitIfError(group.Wait(), "generate report")

	if !options.ChartOnly {
		for _, warning := range pdfReport.Warnings {
			tl.Log(tl.Warning, palette.Yellow, "Report warning (%s) on page %s in %s: %s", warning.Kind, warning.Page, warning.Section, warning.Message)
		}
		pdfPath, e := delivery.SaveFile(options.OutDir, pdfReport.PDFName, pdfReport.PDF)
		e.QuitIf(xerr.ErrorTypeError)
		tl.Log(tl.Info1, palette.Green, "Saved %s page report to '%s'", pdfReport.Pages, pdfPath)
	}

	chartPath, e := delivery.SaveFile(options.OutDir, chartReport.ChartName, chartReport.Chart)
	e.QuitIf(xerr.ErrorTypeError)
	tl.Log(tl.Info1, palette.Green, "Saved chart to '%s'", chartPath)
}

/*
parseFlags parses CLI flags and returns validated reportOptions.

Defaults:
- date: today, used for the file names and the "Generated" line
- out: delivery.output_dir from config
*/
func parseFlags() reportOptions {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	inputFlag := flag.String("input", "", "Analysis result JSON file")
	outDirFlag := flag.String("out", "", "Directory for the PDF and PNG (default: delivery.output_dir)")
	dateFlag := flag.String("date", "", "Report date as YYYY-MM-DD (default: today)")
	chartOnlyFlag := flag.Bool("chart-only", false, "Only export the spending chart PNG")

	flag.Parse()
	util.RequiredFileFlag(inputFlag, "input")
	util.EnsureFlags()
	config.InitializeConfig(*configPath)

	options := reportOptions{
		InputPath:  *inputFlag,
		OutDir:     *outDirFlag,
		Date:       time.Now(),
		ChartOnly:  *chartOnlyFlag,
		ConfigPath: *configPath,
	}
	if options.OutDir == "" {
		options.OutDir = delivery.Cfg.OutputDir
	}
	if *dateFlag != "" {
		date, parseErr := time.ParseInLocation("2006-01-02", *dateFlag, time.Local)
		xerr.QuitIfError(parseErr, fmt.Sprintf("parse -date '%s'", *dateFlag))
		options.Date = date
	}

	tl.LogJSON(tl.Verbose, palette.CyanDim, "report options", options)
	return options
}

// loadResult accepts both a bare AnalysisResult and a success envelope around one.
func loadResult(path string) (result statement.AnalysisResult, e *xerr.Error) {
	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		return result, xerr.NewError(readErr, "read analysis result", path)
	}

	var envelope statement.Envelope[statement.AnalysisResult]
	decodeErr := json.Unmarshal(raw, &envelope)
	if decodeErr == nil && envelope.Status != "" {
		if !envelope.Succeeded() {
			return result, xerr.NewError(fmt.Errorf("envelope status is %q", envelope.Status), envelope.Message, path)
		}
		return envelope.Data, nil
	}

	decodeErr = json.Unmarshal(raw, &result)
	if decodeErr != nil {
		return result, xerr.NewError(decodeErr, "decode analysis result", path)
	}
	return result, nil
}

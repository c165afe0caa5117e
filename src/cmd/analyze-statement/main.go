package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/backend"
	"statement-analyzer/src/pkg/config"
	"statement-analyzer/src/pkg/delivery"
	"statement-analyzer/src/pkg/report"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/upload"
	"statement-analyzer/src/pkg/util"
)

/*
main uploads statement images to the analysis backend and stores, per image,
the analysis JSON, the PDF report and the chart PNG.

-image can be a single image or a directory with .png/.jpg/.jpeg/.webp files.

Example:

	go run ./src/cmd/analyze-statement -image ./statements -reduction 15
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags.
	imagePath := flag.String("image", "", "Path to a statement image OR a directory with images.")
	outputDirPath := flag.String("out", "", "Directory where results are stored. Default is delivery.output_dir from config.")
	reduction := flag.Float64("reduction", statement.DefaultReductionPercentage, "Spending reduction percentage, 0 < p <= 100.")
	extractOnly := flag.Bool("extract-only", false, "Only extract statement details, skip the analysis and reports.")
	parallel := flag.Int("parallel", 2, "How many images are sent to the backend at once.")

	// Parse and initialize config.
	flag.Parse()
	util.RequiredFileFlag(imagePath, "image")
	util.EnsureFlags()
	config.InitializeConfig(*configPath)

	reductionErr := statement.ValidateReductionPercentage(*reduction)
	reductionErr.QuitIf(xerr.ErrorTypeError)

	if *outputDirPath == "" {
		*outputDirPath = delivery.Cfg.OutputDir
	}
	runDirPath := filepath.Join(*outputDirPath, time.Now().Format("2006-01-02"))

	tl.Log(
		tl.Notice, palette.BlueBold, "%s entrypoint. Config path: '%s'",
		"Running statement analysis", *configPath,
	)
	tl.Log(tl.Info1, palette.Cyan, "%s '%s'", "Using output directory", runDirPath)

	imagesToProcess, e := resolveImagesToProcess(*imagePath)
	e.QuitIf(xerr.ErrorTypeError)
	if len(imagesToProcess) == 0 {
		tl.Log(tl.Warning, palette.PurpleBold, "No statement images found at: '%s'", *imagePath)
		os.Exit(0)
	}
	tl.Log(tl.Notice1, palette.GreenBold, "Found '%s' images to process", len(imagesToProcess))

	client := backend.NewClient(backend.Cfg)
	generator := report.NewDefaultGenerator()

	var processedCount, skippedCount atomic.Int64
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(util.Clamp(*parallel, 1, 8))
	for _, imgPath := range imagesToProcess {
		group.Go(func() error {
			imageDirPath := filepath.Join(runDirPath, strings.TrimSuffix(filepath.Base(imgPath), filepath.Ext(imgPath)))
			e := processOneImage(ctx, client, generator, imgPath, imageDirPath, *reduction, *extractOnly)
			if e != nil {
				skippedCount.Add(1)
				tl.Log(tl.Error, palette.RedBold, "Failed processing '%s': '%s'", imgPath, e)
				return nil
			}
			processedCount.Add(1)
			tl.Log(tl.Notice1, palette.GreenBold, "%s. Results stored in '%s'", "Analysis completed", imageDirPath)
			return nil
		})
	}
	xerr.QuitIfError(group.Wait(), "process statement images")

	tl.Log(
		tl.Notice, palette.GreenBold, "Done. Processed: '%s', skipped: '%s'",
		processedCount.Load(), skippedCount.Load(),
	)
	if processedCount.Load() == 0 {
		os.Exit(1)
	}
}

func processOneImage(
	ctx context.Context, client *backend.Client, generator *report.Generator,
	imgPath string, imageDirPath string, reduction float64, extractOnly bool,
) (e *xerr.Error) {
	data, readErr := os.ReadFile(imgPath)
	if readErr != nil {
		return xerr.NewError(readErr, "read statement image", imgPath)
	}
	img, e := upload.Validate(filepath.Base(imgPath), data)
	if e != nil {
		return e
	}

	if extractOnly {
		reply, e := client.Extract(ctx, img)
		if e != nil {
			return e
		}
		if !reply.OK {
			return xerr.NewError(fmt.Errorf("backend status %d", reply.StatusCode), reply.Message, imgPath)
		}
		e = delivery.EnsureOutputDirectory(imageDirPath)
		if e != nil {
			return e
		}
		return delivery.SaveJSONToFile(filepath.Join(imageDirPath, "statement-details.json"), reply.Data)
	}

	reply, e := client.Analyze(ctx, img, reduction)
	if e != nil {
		return e
	}
	if !reply.OK {
		return xerr.NewError(fmt.Errorf("backend status %d", reply.StatusCode), reply.Message, imgPath)
	}

	e = delivery.EnsureOutputDirectory(imageDirPath)
	if e != nil {
		return e
	}
	e = delivery.SaveJSONToFile(filepath.Join(imageDirPath, "analysis.json"), reply.Data)
	if e != nil {
		return e
	}

	generated, e := generator.Generate(reply.Data, time.Now())
	if e != nil {
		return e
	}
	_, e = delivery.SaveFile(imageDirPath, generated.PDFName, generated.PDF)
	if e != nil {
		return e
	}
	_, e = delivery.SaveFile(imageDirPath, generated.ChartName, generated.Chart)
	return e
}

func resolveImagesToProcess(inputPath string) (images []string, e *xerr.Error) {
	trimmed := strings.TrimSpace(inputPath)
	info, statErr := os.Stat(trimmed)
	if statErr != nil {
		return nil, xerr.NewError(statErr, "stat -image input path", trimmed)
	}

	if !info.IsDir() {
		if !upload.IsAllowedExtension(trimmed) {
			return nil, xerr.NewError(fmt.Errorf("unsupported image extension: %s", filepath.Ext(trimmed)), upload.InvalidFileTypeMessage, trimmed)
		}
		return []string{trimmed}, nil
	}

	entries, readErr := os.ReadDir(trimmed)
	if readErr != nil {
		return nil, xerr.NewError(readErr, "read directory", trimmed)
	}
	for _, entry := range entries {
		if entry.IsDir() || !upload.IsAllowedExtension(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(trimmed, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}

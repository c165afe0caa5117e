package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/backend"
	"statement-analyzer/src/pkg/chart"
	"statement-analyzer/src/pkg/config"
	echomw "statement-analyzer/src/pkg/echo-middleware"
	"statement-analyzer/src/pkg/report"
	"statement-analyzer/src/pkg/server"
)

const shutdownTimeout = 10 * time.Second

/*
main starts the HTTP server in front of the analysis backend.

Example:

	go run ./src/cmd/server -config ./cfg/config.json
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Parse and initialize config.
	flag.Parse()
	config.InitializeConfig(*configPath)

	if echomw.Cfg.RequireBearerToken && len(config.CheckIfEnvVarsPresent(echomw.EnvBearerToken)) > 0 {
		tl.Log(tl.Error, palette.RedBold, "%s is required when require_bearer_token is set", echomw.EnvBearerToken)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(backend.Cfg)
	health, e := client.Health(ctx)
	if e != nil {
		tl.Log(tl.Warning, palette.YellowBold, "%s. Starting anyway", client.NetworkHint())
	} else {
		tl.Log(tl.Info1, palette.Green, "Backend is %s: %s (version %s)", health.Status, health.Message, health.Version)
	}

	canvas := chart.NewCanvas(chart.Options{
		Width:       report.Cfg.ChartWidthPx,
		Height:      report.Cfg.ChartHeightPx,
		Supersample: report.Cfg.ChartSupersample,
	}, echomw.Cfg.ChartCacheSize)
	srv := server.New(echomw.Cfg, client, report.NewDefaultGenerator(), canvas)

	go func() {
		<-ctx.Done()
		tl.Log(tl.Notice, palette.BlueBold, "%s", "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			tl.Log(tl.Warning, palette.Red, "%v", shutdownErr)
		}
	}()

	e = srv.Start()
	e.QuitIf(xerr.ErrorTypeError)
}

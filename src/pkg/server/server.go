// Package server exposes statement analysis and report downloads over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/backend"
	"statement-analyzer/src/pkg/chart"
	echomw "statement-analyzer/src/pkg/echo-middleware"
	"statement-analyzer/src/pkg/report"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/upload"
)

const Version = "1.0.0"

// Analyzer is the remote analysis backend. *backend.Client implements it.
type Analyzer interface {
	Health(ctx context.Context) (backend.Health, *xerr.Error)
	Extract(ctx context.Context, img upload.Image) (backend.Reply[statement.StatementDetails], *xerr.Error)
	Analyze(ctx context.Context, img upload.Image, reductionPercentage float64) (backend.Reply[statement.AnalysisResult], *xerr.Error)
	NetworkHint() string
}

type Server struct {
	echo      *echo.Echo
	cfg       echomw.Config
	analyzer  Analyzer
	generator *report.Generator
	canvas    *chart.Canvas
	now       func() time.Time
}

/*
New builds the echo instance with all middlewares and routes. The bearer token
is only enforced on /api routes and only when cfg.RequireBearerToken is set.
*/
func New(cfg echomw.Config, analyzer Analyzer, generator *report.Generator, canvas *chart.Canvas) *Server {
	s := &Server{
		echo:      echo.New(),
		cfg:       cfg,
		analyzer:  analyzer,
		generator: generator,
		canvas:    canvas,
		now:       time.Now,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	s.echo.Use(middleware.Recover())
	s.echo.Use(echomw.RouteAccessLoggerMiddleware)
	s.echo.Use(echomw.NewRateLimiter(cfg.MiddlewareRateLimit, cfg.MiddlewareBurst).Middleware)
	s.echo.Use(middleware.BodyLimit(cfg.BodyLimit))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		ExposeHeaders: []string{echo.HeaderContentDisposition, HeaderReportWarnings, HeaderReportPages},
	}))

	s.echo.GET("/", s.health)

	api := s.echo.Group("/api")
	if cfg.RequireBearerToken {
		api.Use(echomw.RequireBearerToken(echomw.BearerTokenFromEnv()))
	}
	api.GET("/backend/health", s.backendHealth)
	api.POST("/extract", s.extract)
	api.POST("/analyze", s.analyze)
	api.POST("/upload/preview", s.preview)
	api.POST("/report/pdf", s.reportPDF)
	api.POST("/report/chart", s.reportChart)
	api.GET("/chart/:id", s.analysisChart)

	return s
}

// Handler is the server as a plain http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() (e *xerr.Error) {
	address := s.cfg.ListenAddress()
	tl.Log(tl.Notice, palette.BlueBold, "%s on '%s'", "Starting server", address)
	err := s.echo.Start(address)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return xerr.NewError(err, "Server stopped unexpectedly", address)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) (e *xerr.Error) {
	err := s.echo.Shutdown(ctx)
	if err != nil {
		return xerr.NewError(err, "Failed to shut down server", s.cfg.ListenAddress())
	}
	tl.Log(tl.Notice, palette.Green, "%s", "Server stopped")
	return nil
}

// handleError keeps every error response in the envelope format.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		switch code {
		case http.StatusNotFound:
			message = "Endpoint not found"
		case http.StatusInternalServerError:
		default:
			message = http.StatusText(code)
			if text, ok := httpErr.Message.(string); ok && text != "" {
				message = text
			}
		}
	}
	if code >= http.StatusInternalServerError {
		tl.Log(tl.Warning, palette.Red, "Request failed with status %s: %s", code, err.Error())
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, statement.Failure(message))
	}
	if err != nil {
		tl.Log(tl.Warning, palette.Red, "Failed to write error response: %s", err.Error())
	}
}

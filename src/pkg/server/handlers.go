package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/backend"
	"statement-analyzer/src/pkg/chart"
	"statement-analyzer/src/pkg/delivery"
	"statement-analyzer/src/pkg/report"
	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/upload"
)

const (
	HeaderReportWarnings = "X-Report-Warnings"
	HeaderReportPages    = "X-Report-Pages"

	NoImageMessage = "No image file provided"
	BadJSONMessage = "Request body must be an analysis result in JSON"
	NoChartMessage = "Chart not found"

	previewMaxWidth  = 480
	previewMaxHeight = 480
)

type healthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type previewResponse struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Preview   string `json:"preview"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "Credit Card Statement Analyzer is running",
		Version: Version,
		Endpoints: map[string]string{
			"backend_health": "GET /api/backend/health",
			"extract":        "POST /api/extract",
			"analyze":        "POST /api/analyze",
			"preview":        "POST /api/upload/preview",
			"report_pdf":     "POST /api/report/pdf",
			"report_chart":   "POST /api/report/chart",
			"analysis_chart": "GET /api/chart/:id",
		},
	})
}

func (s *Server) backendHealth(c echo.Context) error {
	health, e := s.analyzer.Health(c.Request().Context())
	if e != nil {
		return c.JSON(http.StatusBadGateway, statement.Failure(s.analyzer.NetworkHint()))
	}
	return c.JSON(http.StatusOK, statement.Success(health.Message, health))
}

/*
readImage pulls the "image" form file and validates it. The returned error
is already the 400 response to send.
*/
func readImage(c echo.Context) (img upload.Image, failure error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return img, c.JSON(http.StatusBadRequest, statement.Failure(NoImageMessage))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return img, c.JSON(http.StatusBadRequest, statement.Failure(NoImageMessage))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return img, c.JSON(http.StatusBadRequest, statement.Failure(NoImageMessage))
	}

	img, e := upload.Validate(fileHeader.Filename, data)
	if e != nil {
		return img, c.JSON(http.StatusBadRequest, statement.Failure(upload.InvalidFileTypeMessage))
	}
	return img, nil
}

// reductionPercentage reads the form value, defaulting to 20 when it is absent.
func reductionPercentage(c echo.Context) (p float64, e *xerr.Error) {
	raw := strings.TrimSpace(c.FormValue("reduction_percentage"))
	if raw == "" {
		return statement.DefaultReductionPercentage, nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, xerr.NewError(err, statement.ReductionPercentageMessage, raw)
	}
	return p, statement.ValidateReductionPercentage(p)
}

// backendFailure maps a transport error or a rejected reply to a response.
func backendFailure[T any](c echo.Context, hint string, reply backend.Reply[T], e *xerr.Error) error {
	if e != nil {
		tl.Log(tl.Warning, palette.Red, "Backend unreachable: %v", e)
		return c.JSON(http.StatusBadGateway, statement.Failure(hint))
	}
	status := reply.StatusCode
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	return c.JSON(status, statement.Failure(reply.Message))
}

func (s *Server) extract(c echo.Context) error {
	img, failure := readImage(c)
	if failure != nil {
		return failure
	}

	reply, e := s.analyzer.Extract(c.Request().Context(), img)
	if e != nil || !reply.OK {
		return backendFailure(c, s.analyzer.NetworkHint(), reply, e)
	}
	return c.JSON(http.StatusOK, statement.Success("Statement details extracted successfully", reply.Data))
}

/*
analysisResponse is the analysis result plus the ID of its chart and the
chart's slice labels. The chart is only served to whoever holds the ID.
*/
type analysisResponse struct {
	statement.AnalysisResult
	ChartID       string   `json:"chart_id,omitempty"`
	ChartTooltips []string `json:"chart_tooltips"`
}

/*
analyze forwards the image to the backend and, on success, renders the chart
of the new breakdown. A chart_id form value that names an existing chart is
reused, replacing that chart; otherwise a new ID is issued. A chart that fails
to render keeps the previous one under a reused ID.
*/
func (s *Server) analyze(c echo.Context) error {
	img, failure := readImage(c)
	if failure != nil {
		return failure
	}
	p, e := reductionPercentage(c)
	if e != nil {
		return c.JSON(http.StatusBadRequest, statement.Failure(statement.ReductionPercentageMessage))
	}

	reply, e := s.analyzer.Analyze(c.Request().Context(), img, p)
	if e != nil || !reply.OK {
		return backendFailure(c, s.analyzer.NetworkHint(), reply, e)
	}
	for _, note := range statement.CheckInvariants(reply.Data) {
		tl.Log(tl.Notice1, palette.YellowDim, "Analysis result is inconsistent: %s", note)
	}

	response := analysisResponse{
		AnalysisResult: reply.Data,
		ChartTooltips:  chart.Tooltips(reply.Data.CategoryBreakdown),
	}
	chartID := strings.TrimSpace(c.FormValue("chart_id"))
	if chartID == "" || s.canvas.Get(chartID) == nil {
		chartID = uuid.NewString()
	}
	_, e = s.canvas.Replace(chartID, reply.Data.CategoryBreakdown)
	if e != nil {
		tl.Log(tl.Warning, palette.Yellow, "Chart '%s' was not rendered: %v", chartID, e)
	}
	if s.canvas.Get(chartID) != nil {
		response.ChartID = chartID
	}
	return c.JSON(http.StatusOK, statement.Success("Statement analyzed successfully", response))
}

func (s *Server) preview(c echo.Context) error {
	img, failure := readImage(c)
	if failure != nil {
		return failure
	}
	dataURL, e := img.Preview(previewMaxWidth, previewMaxHeight)
	if e != nil {
		return c.JSON(http.StatusBadRequest, statement.Failure(upload.InvalidFileTypeMessage))
	}
	return c.JSON(http.StatusOK, statement.Success("Preview generated", previewResponse{
		Filename:  img.Filename,
		MediaType: img.MediaType,
		Preview:   dataURL,
	}))
}

// bindResult decodes the JSON body. An empty body is rejected.
func bindResult(c echo.Context) (result statement.AnalysisResult, ok bool) {
	if c.Request().ContentLength == 0 {
		return result, false
	}
	err := (&echo.DefaultBinder{}).BindBody(c, &result)
	return result, err == nil
}

func (s *Server) reportPDF(c echo.Context) error {
	result, ok := bindResult(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, statement.Failure(BadJSONMessage))
	}

	generated, e := s.generator.GeneratePDF(result, s.now())
	if e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(fmt.Errorf("%v", e))
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, delivery.AttachmentDisposition(generated.PDFName))
	header.Set(HeaderReportWarnings, strconv.Itoa(len(generated.Warnings)))
	header.Set(HeaderReportPages, strconv.Itoa(generated.Pages))
	return c.Blob(http.StatusOK, "application/pdf", generated.PDF)
}

func (s *Server) reportChart(c echo.Context) error {
	result, ok := bindResult(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, statement.Failure(BadJSONMessage))
	}

	generated, e := s.generator.GenerateChart(result.CategoryBreakdown, s.now())
	if e != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(fmt.Errorf("%v", e))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, delivery.AttachmentDisposition(generated.ChartName))
	return c.Blob(http.StatusOK, "image/png", generated.Chart)
}

// analysisChart serves the chart rendered for one analysis, named with today's date.
func (s *Server) analysisChart(c echo.Context) error {
	current := s.canvas.Get(c.Param("id"))
	if current == nil {
		return c.JSON(http.StatusNotFound, statement.Failure(NoChartMessage))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, delivery.AttachmentDisposition(report.ChartFilename(s.now())))
	return c.Blob(http.StatusOK, "image/png", current.PNG)
}

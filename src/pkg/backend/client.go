package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"statement-analyzer/src/pkg/statement"
	"statement-analyzer/src/pkg/upload"
)

const (
	ExtractPath = "/api/extract"
	AnalyzePath = "/api/analyze"
	HealthPath  = "/"
)

/*
Reply is the backend's answer to a request that reached it. OK is false when
the backend answered with an error envelope; Message then holds its text.
Transport failures are returned as errors instead.
*/
type Reply[T any] struct {
	Data       T
	OK         bool
	Message    string
	StatusCode int
}

type Health struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Client talks to the statement analysis backend over its multipart JSON API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, httpClient: &http.Client{}}
}

// NetworkHint is the message shown when the backend cannot be reached.
func (c *Client) NetworkHint() string {
	return fmt.Sprintf("Failed to connect to the server. Make sure the backend is running on %s", c.cfg.BaseURL)
}

func (c *Client) Health(ctx context.Context) (health Health, e *xerr.Error) {
	ctx, cancel := context.WithTimeout(ctx, seconds(c.cfg.HealthTimeoutSeconds))
	defer cancel()

	url := c.cfg.BaseURL + HealthPath
	req, newReqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if newReqErr != nil {
		return Health{}, xerr.NewError(newReqErr, "Failed to create HTTP request", url)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, httpErr := c.httpClient.Do(req)
	if httpErr != nil {
		return Health{}, xerr.NewError(httpErr, c.NetworkHint(), url)
	}
	defer resp.Body.Close()

	body, e := readBody(resp, url)
	if e != nil {
		return Health{}, e
	}
	if resp.StatusCode != http.StatusOK {
		return Health{}, xerr.NewError(fmt.Errorf("status is '%s'", resp.Status), "Backend health check failed", string(body))
	}
	decodeErr := json.Unmarshal(body, &health)
	if decodeErr != nil {
		return Health{}, xerr.NewError(decodeErr, "Failed to decode health response", string(body))
	}
	return health, nil
}

// Extract reads the statement header fields off an image.
func (c *Client) Extract(ctx context.Context, img upload.Image) (reply Reply[statement.StatementDetails], e *xerr.Error) {
	return postImage[statement.StatementDetails](ctx, c, ExtractPath, img, nil, seconds(c.cfg.ExtractTimeoutSeconds))
}

/*
Analyze asks for the spending analysis of an image with the given reduction
percentage. An out-of-range percentage is answered locally without a request.
*/
func (c *Client) Analyze(ctx context.Context, img upload.Image, reductionPercentage float64) (reply Reply[statement.AnalysisResult], e *xerr.Error) {
	if statement.ValidateReductionPercentage(reductionPercentage) != nil {
		return Reply[statement.AnalysisResult]{Message: statement.ReductionPercentageMessage, StatusCode: http.StatusBadRequest}, nil
	}
	fields := map[string]string{"reduction_percentage": strconv.FormatFloat(reductionPercentage, 'f', -1, 64)}
	return postImage[statement.AnalysisResult](ctx, c, AnalyzePath, img, fields, seconds(c.cfg.AnalyzeTimeoutSeconds))
}

func postImage[T any](ctx context.Context, c *Client, path string, img upload.Image, fields map[string]string, timeout time.Duration) (reply Reply[T], e *xerr.Error) {
	url := c.cfg.BaseURL + path
	tl.Log(tl.Info, palette.Blue, "%s '%s' to '%s'", "Uploading", img.Filename, url)
	startTime := time.Now()

	body, contentType, e := multipartBody(img, fields)
	if e != nil {
		return reply, e
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, newReqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if newReqErr != nil {
		return reply, xerr.NewError(newReqErr, "Failed to create HTTP request", url)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, httpErr := c.httpClient.Do(req)
	if httpErr != nil {
		return reply, xerr.NewError(httpErr, c.NetworkHint(), url)
	}
	defer resp.Body.Close()

	respBody, e := readBody(resp, url)
	if e != nil {
		return reply, e
	}
	tl.LogJSON(tl.Debug, palette.CyanDim, "backend response body", string(respBody))

	reply.StatusCode = resp.StatusCode
	var envelope statement.Envelope[T]
	decodeErr := json.Unmarshal(respBody, &envelope)
	if decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			reply.Message = fmt.Sprintf("Backend responded with status %s", resp.Status)
			return reply, nil
		}
		return reply, xerr.NewError(decodeErr, "Failed to decode backend response", string(respBody))
	}

	reply.Data = envelope.Data
	reply.Message = envelope.Message
	reply.OK = envelope.Succeeded() && resp.StatusCode < http.StatusBadRequest
	if !reply.OK && reply.Message == "" {
		reply.Message = fmt.Sprintf("Backend responded with status %s", resp.Status)
	}

	if reply.OK {
		tl.Log(tl.Info1, palette.Green, "Backend %s succeeded in %s", path, time.Since(startTime))
	} else {
		tl.Log(tl.Warning, palette.Yellow, "Backend %s rejected '%s': %s", path, img.Filename, reply.Message)
	}
	return reply, nil
}

func multipartBody(img upload.Image, fields map[string]string) (body *bytes.Buffer, contentType string, e *xerr.Error) {
	body = &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	header.Set("Content-Type", img.MediaType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", xerr.NewError(err, "create multipart image part", img.Filename)
	}
	_, err = part.Write(img.Data)
	if err != nil {
		return nil, "", xerr.NewError(err, "write multipart image part", img.Filename)
	}

	for name, value := range fields {
		err = writer.WriteField(name, value)
		if err != nil {
			return nil, "", xerr.NewError(err, "write multipart field", name)
		}
	}

	err = writer.Close()
	if err != nil {
		return nil, "", xerr.NewError(err, "close multipart body", img.Filename)
	}
	return body, writer.FormDataContentType(), nil
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 30 * time.Second
	}
	return time.Duration(n) * time.Second
}

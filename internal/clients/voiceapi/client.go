// Package voiceapi talks to the remote voice-analysis service that runs
// the acoustic model and renders the PDF report and waveform plot.
package voiceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// AnalysisResult is the analysis service's response for one recording.
type AnalysisResult struct {
	Prediction string `json:"Prediction"`
	PlotPath   string `json:"PlotPath"`
	ReportPath string `json:"ReportPath"`
}

type Client interface {
	Analyze(ctx context.Context, filename string, audio io.Reader) (AnalysisResult, error)
	FetchReport(ctx context.Context) (io.ReadCloser, error)
	FetchPlot(ctx context.Context) (io.ReadCloser, error)
	ReportURL() string
	ReportDownloadURL() string
	PlotURL() string
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("VOICE_API_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing VOICE_API_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &client{
		log:        log.With("client", "VoiceAPIClient"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (c *client) Analyze(ctx context.Context, filename string, audio io.Reader) (AnalysisResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("audio", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, audio); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio", pr)
	if err != nil {
		return AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return AnalysisResult{}, fmt.Errorf("analysis service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("analysis response decode: %w", err)
	}

	c.log.Info("Analysis complete", "prediction", result.Prediction)
	return result, nil
}

func (c *client) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *client) FetchReport(ctx context.Context) (io.ReadCloser, error) {
	return c.fetch(ctx, c.ReportURL())
}

func (c *client) FetchPlot(ctx context.Context) (io.ReadCloser, error) {
	return c.fetch(ctx, c.PlotURL())
}

func (c *client) ReportURL() string         { return c.baseURL + "/report" }
func (c *client) ReportDownloadURL() string { return c.baseURL + "/report?download=true" }
func (c *client) PlotURL() string           { return c.baseURL + "/plot" }

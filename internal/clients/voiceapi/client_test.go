package voiceapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("VOICE_API_BASE_URL", srv.URL)

	c, err := NewClient(testutil.Logger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestAnalyzePostsAudioAndDecodesResult(t *testing.T) {
	var gotField, gotName string
	mux := http.NewServeMux()
	mux.HandleFunc("/audio", func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotField = "audio"
		gotName = header.Filename
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Prediction":"Healthy","PlotPath":"plots/out.png","ReportPath":"reports/out.pdf"}`))
	})

	c := newTestClient(t, mux)
	res, err := c.Analyze(context.Background(), "sample.wav", strings.NewReader("RIFFfakewav"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if gotField != "audio" || gotName != "sample.wav" {
		t.Fatalf("multipart field=%q name=%q", gotField, gotName)
	}
	if res.Prediction != "Healthy" || res.ReportPath != "reports/out.pdf" || res.PlotPath != "plots/out.png" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalyzeNonOKStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	if _, err := c.Analyze(context.Background(), "sample.wav", strings.NewReader("x")); err == nil {
		t.Fatalf("Analyze succeeded against 503 response")
	}
}

func TestFetchReport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	c := newTestClient(t, mux)

	rc, err := c.FetchReport(context.Background())
	if err != nil {
		t.Fatalf("FetchReport: %v", err)
	}
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	if !strings.HasPrefix(string(raw), "%PDF") {
		t.Fatalf("report body=%q", raw)
	}
}

func TestURLs(t *testing.T) {
	t.Setenv("VOICE_API_BASE_URL", "http://analysis.local/")
	c, err := NewClient(testutil.Logger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := c.ReportURL(); got != "http://analysis.local/report" {
		t.Fatalf("ReportURL=%q", got)
	}
	if got := c.ReportDownloadURL(); got != "http://analysis.local/report?download=true" {
		t.Fatalf("ReportDownloadURL=%q", got)
	}
	if got := c.PlotURL(); got != "http://analysis.local/plot" {
		t.Fatalf("PlotURL=%q", got)
	}
}

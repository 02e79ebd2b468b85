package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/clients/gcp"
	"github.com/voxhealth/voxhealth-backend/internal/clients/voiceapi"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

// AnalysisResponse is the API-facing result of one analysis round trip.
type AnalysisResponse struct {
	RunID      uuid.UUID  `json:"run_id"`
	Prediction string     `json:"prediction"`
	ReportID   *uuid.UUID `json:"report_id,omitempty"`
	ReportURL  string     `json:"report_url"`
	PlotURL    string     `json:"plot_url"`
	GatewayURL string     `json:"gateway_url,omitempty"`
}

type AnalysisService interface {
	Analyze(ctx context.Context, filename string, audio io.Reader) (*AnalysisResponse, error)
	ListRuns(ctx context.Context) ([]*domain.AnalysisRun, error)
}

type analysisService struct {
	db            *gorm.DB
	log           *logger.Logger
	voiceClient   voiceapi.Client
	bucketService gcp.BucketService
	reportService ReportService
	notifier      Notifier
}

func NewAnalysisService(
	db *gorm.DB,
	log *logger.Logger,
	voiceClient voiceapi.Client,
	bucketService gcp.BucketService,
	reportService ReportService,
	notifier Notifier,
) AnalysisService {
	return &analysisService{
		db:            db,
		log:           log.With("service", "AnalysisService"),
		voiceClient:   voiceClient,
		bucketService: bucketService,
		reportService: reportService,
		notifier:      notifier,
	}
}

// Analyze forwards the recording to the remote analysis endpoint, pulls
// back the generated report and plot, registers the report, and records
// the run. The analysis model itself is opaque to this service.
func (s *analysisService) Analyze(ctx context.Context, filename string, audio io.Reader) (*AnalysisResponse, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	raw, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty recording: %w", apperr.ErrInvalidArgument)
	}

	// Archive the raw recording first, best-effort: losing the archive
	// must not block the analysis.
	recordingKey := ""
	if s.bucketService != nil {
		key := fmt.Sprintf("recordings/%s/%d_%s", userID, time.Now().UnixMilli(), filename)
		if err := s.bucketService.UploadFile(ctx, gcp.BucketCategoryRecording, key, bytes.NewReader(raw)); err != nil {
			s.log.Warn("Failed to archive recording (continuing)", "key", key, "error", err)
		} else {
			recordingKey = key
		}
	}

	result, err := s.voiceClient.Analyze(ctx, filename, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("analyze recording: %w", err)
	}

	var reportBytes, plotBytes []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := s.voiceClient.FetchReport(gctx)
		if err != nil {
			return fmt.Errorf("fetch report: %w", err)
		}
		defer rc.Close()
		reportBytes, err = io.ReadAll(rc)
		return err
	})
	g.Go(func() error {
		rc, err := s.voiceClient.FetchPlot(gctx)
		if err != nil {
			// The plot is decoration; the report is the deliverable.
			s.log.Warn("Failed to fetch plot (continuing)", "error", err)
			return nil
		}
		defer rc.Close()
		plotBytes, _ = io.ReadAll(rc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &domain.AnalysisRun{
		ID:           uuid.New(),
		UserID:       userID,
		Prediction:   result.Prediction,
		PlotPath:     result.PlotPath,
		ReportPath:   result.ReportPath,
		RecordingKey: recordingKey,
	}

	resp := &AnalysisResponse{
		RunID:      run.ID,
		Prediction: result.Prediction,
		ReportURL:  s.voiceClient.ReportDownloadURL(),
		PlotURL:    s.voiceClient.PlotURL(),
	}

	if len(reportBytes) > 0 {
		reportName := fmt.Sprintf("voice_report_%s.pdf", time.Now().UTC().Format("20060102_150405"))
		registered, err := s.reportService.Register(ctx, reportName, bytes.NewReader(reportBytes))
		if err != nil {
			s.log.Warn("Failed to register analysis report (run recorded without it)", "error", err)
		} else {
			run.ReportID = &registered.ReportID
			resp.ReportID = &registered.ReportID
			resp.GatewayURL = registered.GatewayURL
		}
	}

	if len(plotBytes) > 0 && s.bucketService != nil {
		key := fmt.Sprintf("plots/%s/%s.png", userID, run.ID)
		if err := s.bucketService.UploadFile(ctx, gcp.BucketCategoryRecording, key, bytes.NewReader(plotBytes)); err != nil {
			s.log.Warn("Failed to archive plot (continuing)", "key", key, "error", err)
		}
	}

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("persist analysis run: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, sse.EventAnalysisCompleted, resp)
	}
	s.log.Info("Analysis run recorded", "runID", run.ID, "prediction", run.Prediction)
	return resp, nil
}

func (s *analysisService) ListRuns(ctx context.Context) ([]*domain.AnalysisRun, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}
	var runs []*domain.AnalysisRun
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	return runs, nil
}

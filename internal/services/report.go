package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/report"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

// ObjectPinner is the content-addressed store reports are uploaded to.
type ObjectPinner interface {
	Pin(ctx context.Context, name string, file io.Reader) (string, error)
	GatewayURL(cid string) string
}

// Ledger records and verifies report digests. Write must reject a
// second registration of the same report id and returns an opaque
// reference to the recorded entry; Verify returns false (not an error)
// for an unknown id.
type Ledger interface {
	Write(ctx context.Context, reportID, cid, contentHash string) (string, error)
	Verify(ctx context.Context, reportID, contentHash string) (bool, error)
}

// RegisteredReport is what the API returns after registration.
type RegisteredReport struct {
	ReportID    uuid.UUID `json:"report_id"`
	ContentHash string    `json:"content_hash"`
	IpfsCID     string    `json:"ipfs_cid"`
	GatewayURL  string    `json:"gateway_url"`
}

type ReportService interface {
	Register(ctx context.Context, name string, file io.Reader) (*RegisteredReport, error)
	Verify(ctx context.Context, reportID uuid.UUID, file io.Reader) (bool, error)
	List(ctx context.Context) ([]*domain.Report, error)
}

type reportService struct {
	db         *gorm.DB
	log        *logger.Logger
	reportRepo report.ReportRepo
	pinner     ObjectPinner
	ledger     Ledger
	notifier   Notifier
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	reportRepo report.ReportRepo,
	pinner ObjectPinner,
	ledger Ledger,
	notifier Notifier,
) ReportService {
	return &reportService{
		db:         db,
		log:        log.With("service", "ReportService"),
		reportRepo: reportRepo,
		pinner:     pinner,
		ledger:     ledger,
		notifier:   notifier,
	}
}

// Register pins the report bytes, then records the digest on the
// ledger, then persists the row. Ordering matters: a failed upload must
// leave the ledger untouched, and a failed ledger write leaves an
// orphaned CID which is logged but never recorded.
func (rs *reportService) Register(ctx context.Context, name string, file io.Reader) (*RegisteredReport, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty report file: %w", apperr.ErrInvalidArgument)
	}

	digest := sha256.Sum256(raw)
	contentHash := hex.EncodeToString(digest[:])
	reportID := uuid.New()

	cid, err := rs.pinner.Pin(ctx, name, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("pin report %s: %w: %v", reportID, apperr.ErrUploadFailed, err)
	}

	ledgerTx, err := rs.ledger.Write(ctx, reportID.String(), cid, contentHash)
	if err != nil {
		rs.log.Error("Ledger write failed; pinned CID is orphaned",
			"reportID", reportID, "cid", cid, "error", err)
		return nil, fmt.Errorf("record report %s: %w: %v", reportID, apperr.ErrLedgerWriteFailed, err)
	}

	row := &domain.Report{
		ID:          reportID,
		UserID:      userID,
		Name:        name,
		ContentHash: contentHash,
		IpfsCID:     cid,
		LedgerTx:    ledgerTx,
	}
	if _, err := rs.reportRepo.Create(ctx, nil, []*domain.Report{row}); err != nil {
		// The ledger already holds the truth; the row is an index.
		rs.log.Error("Failed to persist report row after ledger write",
			"reportID", reportID, "error", err)
		return nil, fmt.Errorf("persist report %s: %w", reportID, err)
	}

	registered := &RegisteredReport{
		ReportID:    reportID,
		ContentHash: contentHash,
		IpfsCID:     cid,
		GatewayURL:  rs.pinner.GatewayURL(cid),
	}
	if rs.notifier != nil {
		rs.notifier.Notify(ctx, userID, sse.EventReportRegistered, registered)
	}
	rs.log.Info("Report registered", "reportID", reportID, "cid", cid)
	return registered, nil
}

// Verify recomputes the digest of file and asks the ledger whether it
// matches what was recorded for reportID.
func (rs *reportService) Verify(ctx context.Context, reportID uuid.UUID, file io.Reader) (bool, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return false, apperr.ErrUnauthenticated
	}

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return false, fmt.Errorf("read report file: %w", err)
	}
	contentHash := hex.EncodeToString(h.Sum(nil))

	ok, err := rs.ledger.Verify(ctx, reportID.String(), contentHash)
	if err != nil {
		return false, fmt.Errorf("verify report %s: %w", reportID, err)
	}
	return ok, nil
}

func (rs *reportService) List(ctx context.Context) ([]*domain.Report, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthenticated
	}
	reports, err := rs.reportRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

package report

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// SQLLedger is the database-backed verification ledger, used when no
// on-chain ledger is configured. Writes are append-only: the report id
// primary key rejects a second registration, matching the behavior of
// the contract-backed ledger.
type SQLLedger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLLedger(db *gorm.DB, baseLog *logger.Logger) *SQLLedger {
	return &SQLLedger{db: db, log: baseLog.With("client", "SQLLedger")}
}

// Write appends an entry and returns a reference to it. There is no
// transaction hash here, so the reference is the row key itself.
func (l *SQLLedger) Write(ctx context.Context, reportID, cid, contentHash string) (string, error) {
	entry := domain.LedgerEntry{
		ReportID:    reportID,
		IpfsCID:     cid,
		ContentHash: contentHash,
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return "", fmt.Errorf("ledger write for report %s: %w", reportID, err)
	}
	return "sql:" + reportID, nil
}

// Verify compares the stored digest for reportID against contentHash.
// An unknown report id is a clean mismatch, not an error.
func (l *SQLLedger) Verify(ctx context.Context, reportID, contentHash string) (bool, error) {
	var entry domain.LedgerEntry
	err := l.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.ContentHash == contentHash, nil
}

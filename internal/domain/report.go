package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a registered analysis report: its content hash, where the
// bytes live off-chain, and which ledger transaction recorded it.
// Rows are read-only after creation.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	ContentHash string    `gorm:"not null;column:content_hash" json:"content_hash"` // sha-256, lowercase hex
	IpfsCID     string    `gorm:"not null;column:ipfs_cid" json:"ipfs_cid"`
	LedgerTx    string    `gorm:"column:ledger_tx" json:"ledger_tx,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Report) TableName() string { return "report" }

// LedgerEntry backs the SQL verification ledger used when no on-chain
// ledger is configured. Entries are append-only: the primary key rejects
// re-registration of a report id.
type LedgerEntry struct {
	ReportID    string `gorm:"primaryKey;column:report_id"`
	IpfsCID     string `gorm:"not null;column:ipfs_cid"`
	ContentHash string `gorm:"not null;column:content_hash"`

	CreatedAt time.Time `gorm:"not null"`
}

func (LedgerEntry) TableName() string { return "report_ledger_entry" }

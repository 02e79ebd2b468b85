package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
)

func TestReportRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewReportRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	rep := &domain.Report{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "voice_report.pdf",
		ContentHash: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		IpfsCID:     "QmTestCid",
		LedgerTx:    "0xabc",
	}
	if _, err := repo.Create(ctx, tx, []*domain.Report{rep}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, rep.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ContentHash != rep.ContentHash || got.IpfsCID != rep.IpfsCID {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := repo.GetByID(ctx, tx, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v want ErrNotFound", err)
	}

	list, err := repo.ListByUser(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].ID != rep.ID {
		t.Fatalf("ListByUser=%+v want the single created report", list)
	}
}

func TestSQLLedgerWriteVerify(t *testing.T) {
	db := testutil.DB(t)
	ledger := NewSQLLedger(db, testutil.Logger(t))
	ctx := context.Background()

	reportID := uuid.NewString()
	hash := "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae"
	ref, err := ledger.Write(ctx, reportID, "QmCid", hash)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ref == "" {
		t.Fatalf("Write returned empty entry reference")
	}
	t.Cleanup(func() {
		db.Where("report_id = ?", reportID).Delete(&domain.LedgerEntry{})
	})

	ok, err := ledger.Verify(ctx, reportID, hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("Verify=false for matching digest")
	}

	ok, err = ledger.Verify(ctx, reportID, "0000000000000000000000000000000000000000000000000000000000000000")
	if err != nil {
		t.Fatalf("Verify (mismatch): %v", err)
	}
	if ok {
		t.Fatalf("Verify=true for tampered digest")
	}

	ok, err = ledger.Verify(ctx, uuid.NewString(), hash)
	if err != nil {
		t.Fatalf("Verify (unknown id): %v", err)
	}
	if ok {
		t.Fatalf("Verify=true for unknown report id")
	}
}

func TestSQLLedgerIsAppendOnly(t *testing.T) {
	db := testutil.DB(t)
	ledger := NewSQLLedger(db, testutil.Logger(t))
	ctx := context.Background()

	reportID := uuid.NewString()
	if _, err := ledger.Write(ctx, reportID, "QmFirst", "aa"); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	t.Cleanup(func() {
		db.Where("report_id = ?", reportID).Delete(&domain.LedgerEntry{})
	})

	if _, err := ledger.Write(ctx, reportID, "QmSecond", "bb"); err == nil {
		t.Fatalf("second Write for same report id succeeded, want error")
	}

	ok, err := ledger.Verify(ctx, reportID, "aa")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("original entry was overwritten")
	}
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/report"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/requestdata"
)

type fakePinner struct {
	failPin bool
	pins    int
	lastCID string
}

func (f *fakePinner) Pin(ctx context.Context, name string, file io.Reader) (string, error) {
	if f.failPin {
		return "", fmt.Errorf("pinata unreachable")
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.pins++
	sum := sha256.Sum256(raw)
	f.lastCID = "Qm" + hex.EncodeToString(sum[:6])
	return f.lastCID, nil
}

func (f *fakePinner) GatewayURL(cid string) string {
	return "https://gateway.test/ipfs/" + cid
}

type fakeLedger struct {
	failWrite bool
	entries   map[string]string // reportID -> contentHash
	writes    int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: map[string]string{}}
}

func (f *fakeLedger) Write(ctx context.Context, reportID, cid, contentHash string) (string, error) {
	if f.failWrite {
		return "", fmt.Errorf("rpc timeout")
	}
	if _, ok := f.entries[reportID]; ok {
		return "", fmt.Errorf("report %s already recorded", reportID)
	}
	f.writes++
	f.entries[reportID] = contentHash
	return fmt.Sprintf("0xtx%d", f.writes), nil
}

func (f *fakeLedger) Verify(ctx context.Context, reportID, contentHash string) (bool, error) {
	stored, ok := f.entries[reportID]
	if !ok {
		return false, nil
	}
	return stored == contentHash, nil
}

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
	})
}

func newReportService(t *testing.T, pinner *fakePinner, ledger *fakeLedger) ReportService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewReportService(db, log, report.NewReportRepo(db, log), pinner, ledger, nil)
}

func TestRegisterHappyPath(t *testing.T) {
	pinner := &fakePinner{}
	ledger := newFakeLedger()
	svc := newReportService(t, pinner, ledger)

	content := "analysis report body"
	got, err := svc.Register(authedCtx(uuid.New()), "report.pdf", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	sum := sha256.Sum256([]byte(content))
	wantHash := hex.EncodeToString(sum[:])
	if got.ContentHash != wantHash {
		t.Fatalf("content hash=%q want %q", got.ContentHash, wantHash)
	}
	if got.IpfsCID != pinner.lastCID {
		t.Fatalf("cid=%q want %q", got.IpfsCID, pinner.lastCID)
	}
	if ledger.entries[got.ReportID.String()] != wantHash {
		t.Fatalf("ledger holds %q for %s", ledger.entries[got.ReportID.String()], got.ReportID)
	}
	if got.GatewayURL != "https://gateway.test/ipfs/"+got.IpfsCID {
		t.Fatalf("gateway url=%q", got.GatewayURL)
	}
}

func TestRegisterDistinctIDs(t *testing.T) {
	svc := newReportService(t, &fakePinner{}, newFakeLedger())
	ctx := authedCtx(uuid.New())

	a, err := svc.Register(ctx, "a.pdf", strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("Register a: %v", err)
	}
	b, err := svc.Register(ctx, "b.pdf", strings.NewReader("same bytes"))
	if err != nil {
		t.Fatalf("Register b: %v", err)
	}
	if a.ReportID == b.ReportID {
		t.Fatalf("two registrations share report id %s", a.ReportID)
	}
	if a.ContentHash != b.ContentHash {
		t.Fatalf("identical bytes hashed differently: %q vs %q", a.ContentHash, b.ContentHash)
	}
}

func TestRegisterUploadFailureSkipsLedger(t *testing.T) {
	ledger := newFakeLedger()
	svc := newReportService(t, &fakePinner{failPin: true}, ledger)

	_, err := svc.Register(authedCtx(uuid.New()), "report.pdf", strings.NewReader("x"))
	if !errors.Is(err, apperr.ErrUploadFailed) {
		t.Fatalf("err=%v want ErrUploadFailed", err)
	}
	if ledger.writes != 0 {
		t.Fatalf("ledger saw %d writes after failed upload, want 0", ledger.writes)
	}
}

func TestRegisterLedgerFailureSurfaces(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failWrite = true
	pinner := &fakePinner{}
	svc := newReportService(t, pinner, ledger)

	_, err := svc.Register(authedCtx(uuid.New()), "report.pdf", strings.NewReader("x"))
	if !errors.Is(err, apperr.ErrLedgerWriteFailed) {
		t.Fatalf("err=%v want ErrLedgerWriteFailed", err)
	}
	if pinner.pins != 1 {
		t.Fatalf("pins=%d want 1 (upload happens before ledger write)", pinner.pins)
	}
}

func TestRegisterUnauthenticated(t *testing.T) {
	ledger := newFakeLedger()
	pinner := &fakePinner{}
	svc := newReportService(t, pinner, ledger)

	_, err := svc.Register(context.Background(), "report.pdf", strings.NewReader("x"))
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("err=%v want ErrUnauthenticated", err)
	}
	if pinner.pins != 0 || ledger.writes != 0 {
		t.Fatalf("unauthenticated register touched pinner (%d) or ledger (%d)", pinner.pins, ledger.writes)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	svc := newReportService(t, &fakePinner{}, newFakeLedger())
	ctx := authedCtx(uuid.New())

	content := "the original report"
	reg, err := svc.Register(ctx, "report.pdf", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	ok, err := svc.Verify(ctx, reg.ReportID, strings.NewReader(content))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("Verify=false for original bytes")
	}

	ok, err = svc.Verify(ctx, reg.ReportID, strings.NewReader(content+" tampered"))
	if err != nil {
		t.Fatalf("Verify (tampered): %v", err)
	}
	if ok {
		t.Fatalf("Verify=true for tampered bytes")
	}
}

func TestVerifyUnknownIDIsFalseNotError(t *testing.T) {
	svc := newReportService(t, &fakePinner{}, newFakeLedger())

	ok, err := svc.Verify(authedCtx(uuid.New()), uuid.New(), strings.NewReader("whatever"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("Verify=true for unregistered report id")
	}
}

func TestListIsScopedToUser(t *testing.T) {
	svc := newReportService(t, &fakePinner{}, newFakeLedger())
	alice := uuid.New()
	bob := uuid.New()

	if _, err := svc.Register(authedCtx(alice), "alice.pdf", strings.NewReader("a")); err != nil {
		t.Fatalf("Register alice: %v", err)
	}
	if _, err := svc.Register(authedCtx(bob), "bob.pdf", strings.NewReader("b")); err != nil {
		t.Fatalf("Register bob: %v", err)
	}

	list, err := svc.List(authedCtx(alice))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "alice.pdf" {
		t.Fatalf("alice sees %+v", list)
	}
}

package pinata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxhealth/voxhealth-backend/internal/data/repos/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("PINATA_JWT", "test-jwt")
	t.Setenv("PINATA_API_URL", srv.URL)
	t.Setenv("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud")

	c, err := NewClient(testutil.Logger(t))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestPinUploadsMultipartFile(t *testing.T) {
	var gotPath, gotAuth, gotFile string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		raw, _ := io.ReadAll(f)
		gotFile = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"IpfsHash":"QmFakeCid","PinSize":11,"Timestamp":"2025-06-01T00:00:00Z"}`))
	})

	cid, err := c.Pin(context.Background(), "report.pdf", strings.NewReader("fake report"))
	if err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if cid != "QmFakeCid" {
		t.Fatalf("cid=%q want QmFakeCid", cid)
	}
	if gotPath != "/pinning/pinFileToIPFS" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotAuth != "Bearer test-jwt" {
		t.Fatalf("auth=%q", gotAuth)
	}
	if gotFile != "fake report" {
		t.Fatalf("uploaded body=%q", gotFile)
	}
}

func TestPinErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid JWT"}`, http.StatusUnauthorized)
	})

	if _, err := c.Pin(context.Background(), "report.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("Pin succeeded against 401 response")
	}
}

func TestGatewayURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	got := c.GatewayURL("QmFakeCid")
	want := "https://gateway.pinata.cloud/ipfs/QmFakeCid"
	if got != want {
		t.Fatalf("GatewayURL=%q want %q", got, want)
	}
}

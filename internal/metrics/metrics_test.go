package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

func TestCounters(t *testing.T) {
	m := New()
	m.DocumentCreated(types.DocEstimate, 5000)
	m.DocumentCreated(types.DocEstimate, 2500)
	m.DocumentCreated(types.DocOrder, 100)
	m.ExportFailed("xlsx")

	if got := testutil.ToFloat64(m.documentsCreated.WithLabelValues("estimate")); got != 2 {
		t.Fatalf("estimates created = %v", got)
	}
	if got := testutil.ToFloat64(m.amountWon.WithLabelValues("estimate")); got != 7500 {
		t.Fatalf("estimate amount = %v", got)
	}
	if got := testutil.ToFloat64(m.exportFailures.WithLabelValues("xlsx")); got != 1 {
		t.Fatalf("xlsx failures = %v", got)
	}
	if n := testutil.CollectAndCount(m.documentsCreated); n != 2 {
		t.Fatalf("expected 2 type series, got %d", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.DocumentCreated(types.DocQuotationRequest, 0)

	path := filepath.Join(t.TempDir(), "salesdocs.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `salesdocs_documents_created_total{type="quotation_request"} 1`) {
		t.Fatalf("textfile missing counter:\n%s", data)
	}
	if err := m.WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
}

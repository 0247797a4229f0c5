package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/types"
)

// runAmount runs the amount command with args and returns its output.
func runAmount(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"amount"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		amountStyle = ""
	})
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestAmountCommand(t *testing.T) {
	got, err := runAmount(t, "--style", "conventional", "₩123,456")
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if got != "십이만 삼천사백오십육 원 (₩ 123,456)" {
		t.Fatalf("output %q", got)
	}
}

func TestAmountCommandStyleAfterAmount(t *testing.T) {
	got, err := runAmount(t, "100", "--style", "legacy")
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if got != "일백 원 (₩ 100)" {
		t.Fatalf("output %q", got)
	}
}

func TestAmountCommandRejectsNegative(t *testing.T) {
	for _, args := range [][]string{{"--style", "conventional", "-5"}, {"--style", "conventional", "--", "-5"}} {
		_, err := runAmount(t, args...)
		if !errors.Is(err, amount.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected invalid amount, got %v", args, err)
		}
	}
}

func TestAmountCommandArgumentCount(t *testing.T) {
	if _, err := runAmount(t, "--style", "conventional"); err == nil {
		t.Fatalf("missing amount accepted")
	}
	if _, err := runAmount(t, "--style", "conventional", "1", "2"); err == nil {
		t.Fatalf("two amounts accepted")
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.YML", "notes.txt", "sub/c.yaml"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("type: estimate\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := discoverInputFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		names = append(names, filepath.ToSlash(rel))
	}
	if strings.Join(names, ",") != "a.YML,b.yaml,sub/c.yaml" {
		t.Fatalf("files %v", names)
	}
}

func TestCheckDrafts(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte(`consultation_id: c1
items:
  - name: 볼펜
    quantity: 10
    unit_price: 500
  - name: 노트
    quantity: "1,200"
    unit_price: "₩ 1,000"
`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`consultation_id: c1
items:
  - name: 볼펜
    quantity: many
`), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := checkDrafts(&out, []string{good}); err != nil {
		t.Fatalf("good draft: %v", err)
	}
	if !strings.Contains(out.String(), "✓ good.yaml: 2 item(s)") {
		t.Fatalf("output %q", out.String())
	}

	out.Reset()
	err := checkDrafts(&out, []string{good, bad})
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failure, got %v", err)
	}
	if !strings.Contains(out.String(), "✗ bad.yaml: draft item 1") {
		t.Fatalf("output %q", out.String())
	}
}

func TestListFilterDefaults(t *testing.T) {
	t.Cleanup(func() { listType, listFrom, listTo, listConsultation = "", "", "", "" })
	now := time.Date(2024, 5, 17, 15, 30, 0, 0, time.Local)

	f, err := listFilter(now)
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != types.DocEstimate || !f.Start.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)) || !f.End.Equal(now) {
		t.Fatalf("default filter %+v", f)
	}

	listFrom = "2024-04-01"
	if f, err = listFilter(now); err != nil {
		t.Fatal(err)
	}
	if f.Start.Month() != time.April || !f.End.IsZero() {
		t.Fatalf("explicit from %+v", f)
	}

	listFrom, listConsultation = "", "c1"
	if f, err = listFilter(now); err != nil {
		t.Fatal(err)
	}
	if f.ConsultationID != "c1" || f.Type != "" || !f.Start.IsZero() || !f.End.IsZero() {
		t.Fatalf("consultation filter %+v", f)
	}

	listType = "order"
	if f, err = listFilter(now); err != nil || f.Type != types.DocOrder {
		t.Fatalf("consultation and type %+v, %v", f, err)
	}
}

package xlsxparser

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesdocs/internal/ledger"
)

// writeWorkbook saves rows to a fresh workbook, starting at A1 of sheet.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "items.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDetectsHeaderBelowTitle(t *testing.T) {
	path := writeWorkbook(t, "품목", [][]any{
		{"견적 품목"},
		{"작성일", "2024-05-02"},
		{},
		{"번호", "품명", "규격", "수량", "단가", "금액"},
		{1, "A4 용지", "80g", 2, 1000, 2000},
		{2, "토너", "", 1, 2500, 2500},
		{"합계", "", "", "", "", 4500},
	})

	sheet, err := Parse(path, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sheet.Sheet != "품목" || sheet.HeaderRow != 4 {
		t.Fatalf("sheet %q header row %d", sheet.Sheet, sheet.HeaderRow)
	}

	l := &ledger.Ledger{}
	n, err := sheet.ImportInto(l)
	if err != nil || n != 2 {
		t.Fatalf("ImportInto = %d, %v", n, err)
	}
	if !l.Total().Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("total %s", l.Total())
	}
}

func TestParseExplicitHeaderRow(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"item", "qty", "price"},
		{"볼펜", 10, 500},
	})
	l := &ledger.Ledger{}
	n, err := ImportFile(path, Options{Sheet: "Sheet1", HeaderRow: 1}, l)
	if err != nil || n != 1 {
		t.Fatalf("ImportFile = %d, %v", n, err)
	}
	if !l.Total().Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total %s", l.Total())
	}
}

func TestParseErrors(t *testing.T) {
	noHeader := writeWorkbook(t, "Sheet1", [][]any{
		{"메모", "내용"},
		{"a", "b"},
	})
	if _, err := Parse(noHeader, Options{}); !errors.Is(err, ledger.ErrNoItemColumns) {
		t.Fatalf("no header: err = %v", err)
	}

	if _, err := Parse(noHeader, Options{Sheet: "없음"}); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("missing sheet: err = %v", err)
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportReportsSheetRow(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{
		{"품명", "수량", "단가"},
		{"볼펜", 10, 500},
		{"연필", "많이", 300},
	})
	l := &ledger.Ledger{}
	n, err := ImportFile(path, Options{}, l)
	if n != 1 || !errors.Is(err, ledger.ErrInvalidValue) {
		t.Fatalf("ImportFile = %d, %v", n, err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("error %q does not name row 3", err)
	}
	if l.Len() != 1 {
		t.Fatalf("ledger has %d items", l.Len())
	}
}

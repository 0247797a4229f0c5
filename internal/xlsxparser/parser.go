// =============================================================================
// salesdocs - XLSX Item Sheet Parser
// =============================================================================
//
// This module reads line items from an Excel workbook. The item table does not
// have to start at the top of the sheet: the header row is found by looking
// for the first row that names at least two item fields, so the parser also
// reads documents exported by this tool, where the table sits below the
// supplier and recipient blocks.
//
//   | 번호 | 품명    | 규격 | 수량 | 단가  | 금액  |
//   |------|---------|------|------|-------|-------|
//   | 1    | A4 용지 | 80g  | 2    | 1,000 | 2,000 |
//   | 합계 |         |      |      |       | 2,000 |   <- no item fields, skipped
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesdocs/internal/ledger"
)

// minHeaderMatches is how many recognised item headers make a header row.
const minHeaderMatches = 2

// Options selects what part of the workbook holds the items.
type Options struct {
	// Sheet is the sheet name. Empty selects the first sheet.
	Sheet string

	// HeaderRow is the 1-based header row. Zero detects it.
	HeaderRow int
}

// ItemSheet is the item table read from one sheet.
type ItemSheet struct {
	Sheet     string
	HeaderRow int
	Headers   []string
	Rows      [][]string
}

// Parse reads the item table of an XLSX file.
func Parse(path string, opts Options) (*ItemSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return parseFile(f, opts)
}

// ParseReader reads the item table of an XLSX stream.
func ParseReader(r io.Reader, opts Options) (*ItemSheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return parseFile(f, opts)
}

// ImportFile parses an XLSX file and appends its items to l.
func ImportFile(path string, opts Options, l *ledger.Ledger) (int, error) {
	sheet, err := Parse(path, opts)
	if err != nil {
		return 0, err
	}
	return sheet.ImportInto(l)
}

// ImportInto appends the sheet's rows to l.
func (s *ItemSheet) ImportInto(l *ledger.Ledger) (int, error) {
	n, err := l.ImportRows(s.Headers, s.Rows, s.HeaderRow+1)
	if err != nil {
		return n, fmt.Errorf("sheet %q: %w", s.Sheet, err)
	}
	return n, nil
}

func parseFile(f *excelize.File, opts Options) (*ItemSheet, error) {
	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	header := opts.HeaderRow - 1
	if opts.HeaderRow == 0 {
		header = findHeaderRow(rows)
	}
	if header < 0 || header >= len(rows) {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, ledger.ErrNoItemColumns)
	}

	sheet := &ItemSheet{
		Sheet:     sheetName,
		HeaderRow: header + 1,
		Headers:   trimAll(rows[header]),
	}
	// Rows are kept positionally, blank ones included, so that the
	// ledger can report sheet row numbers.
	for _, row := range rows[header+1:] {
		sheet.Rows = append(sheet.Rows, trimAll(row))
	}
	return sheet, nil
}

// findHeaderRow returns the index of the first row naming at least
// minHeaderMatches item fields, or -1.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		seen := make(map[ledger.Field]bool)
		for _, cell := range row {
			if f, ok := ledger.FieldForHeader(cell); ok {
				seen[f] = true
			}
		}
		if len(seen) >= minHeaderMatches {
			return i
		}
	}
	return -1
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

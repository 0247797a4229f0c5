// =============================================================================
// salesdocs - CSV Parser Module
// =============================================================================
//
// This module reads line-item sheets saved as CSV. Sales staff usually keep
// item lists in Excel and export them, so the parser copes with:
//   - Different delimiters (comma, semicolon, tab, pipe)
//   - Multi-line headers
//   - A data start row below extra title rows
//   - CP949 / EUC-KR files written by Korean Excel, and UTF-8 with a BOM
//
// The parsed rows are handed to the ledger, which maps headers to item
// fields and recomputes every amount.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/ledger"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the column headers. Multi-line headers are merged.
	Headers []string

	// Rows contains the data rows, trimmed, empty rows removed.
	Rows [][]string

	// RowNumbers holds the 1-based file row of each entry in Rows.
	RowNumbers []int

	// SourceFile is the path of the file, if read from disk.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a CSV file from disk.
func ParseFile(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := Parse(file, settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// Parse reads CSV data.
//
// PARSING PROCESS:
//   1. Decode CP949 / EUC-KR to UTF-8 when configured, strip a UTF-8 BOM
//   2. Configure the CSV reader with the delimiter
//   3. Merge the header rows
//   4. Collect data rows from the configured data start row
func Parse(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	var src io.Reader = r
	switch strings.ToUpper(settings.Encoding) {
	case "EUC-KR", "CP949":
		src = transform.NewReader(r, korean.EUCKR.NewDecoder())
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	csvReader := csv.NewReader(bytes.NewReader(raw))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	data := &CSVData{Headers: headers}
	start := settings.DataStartRow - 1
	if start < settings.HeaderRows {
		start = settings.HeaderRows
	}
	for i := start; i < len(allRows); i++ {
		if isRowEmpty(allRows[i]) {
			continue
		}
		row := make([]string, len(allRows[i]))
		for c, v := range allRows[i] {
			row[c] = strings.TrimSpace(v)
		}
		data.Rows = append(data.Rows, row)
		data.RowNumbers = append(data.RowNumbers, i+1)
	}
	return data, nil
}

// ImportFile parses a CSV file and appends its rows to l.
func ImportFile(filePath string, settings config.CSVSettings, l *ledger.Ledger) (int, error) {
	data, err := ParseFile(filePath, settings)
	if err != nil {
		return 0, err
	}
	return data.ImportInto(l)
}

// ImportInto appends the parsed rows to l as line items.
func (d *CSVData) ImportInto(l *ledger.Ledger) (int, error) {
	total := 0
	// Rows are imported one at a time so errors name the file row even
	// after skipped blank rows.
	for i, row := range d.Rows {
		n, err := l.ImportRows(d.Headers, [][]string{row}, d.RowNumbers[i])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "pipe", "PIPE":
		reader.Comma = '|'
	case "semicolon":
		reader.Comma = ';'
	default:
		if d := []rune(settings.Delimiter); len(d) > 0 {
			reader.Comma = d[0]
		}
	}

	// Item sheets often have ragged trailing columns.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders merges the header rows column by column. Cells are joined
// with a space; when the joined name is not an item field but the lowest
// non-empty cell is, the lowest cell wins.
//
//   Row 1: "품목", "",     "가격", "비고"
//   Row 2: "품명", "규격", "단가", ""
//   Result: "품명", "규격", "단가", "비고"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if settings.HeaderRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < settings.HeaderRows; i++ {
		maxCols = max(maxCols, len(allRows[i]))
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < settings.HeaderRows; row++ {
			if col < len(allRows[row]) {
				if v := strings.TrimSpace(allRows[row][col]); v != "" {
					parts = append(parts, v)
				}
			}
		}
		merged := strings.Join(parts, " ")
		if _, ok := ledger.FieldForHeader(merged); !ok && len(parts) > 0 {
			if _, ok := ledger.FieldForHeader(parts[len(parts)-1]); ok {
				merged = parts[len(parts)-1]
			}
		}
		headers[col] = merged
	}
	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names empty ones by column index.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

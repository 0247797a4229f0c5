package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoItemColumns is returned when none of a sheet's headers name an item
// field.
var ErrNoItemColumns = errors.New("no line item columns found")

// ImportRows appends one item per non-empty row. Headers are resolved with
// FieldForHeader; columns that do not name an editable field (row numbers,
// precomputed amounts) are ignored. Every cell goes through UpdateField, so
// amounts are always recomputed here. rowOffset is the sheet row number of
// rows[0] and is only used in error messages.
//
// On error the ledger keeps the items imported before the failing row.
func (l *Ledger) ImportRows(headers []string, rows [][]string, rowOffset int) (int, error) {
	cols := make(map[int]Field)
	for i, h := range headers {
		if f, ok := FieldForHeader(h); ok {
			cols[i] = f
		}
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("%w in headers %q", ErrNoItemColumns, headers)
	}

	imported := 0
	for r, row := range rows {
		if blank(row, cols) {
			continue
		}
		idx := l.Add()
		for c, f := range cols {
			if c >= len(row) {
				continue
			}
			if err := l.UpdateField(idx, f, strings.TrimSpace(row[c])); err != nil {
				_ = l.Remove(idx)
				return imported, fmt.Errorf("row %d: %w", rowOffset+r, err)
			}
		}
		imported++
	}
	return imported, nil
}

func blank(row []string, cols map[int]Field) bool {
	for c := range cols {
		if c < len(row) && strings.TrimSpace(row[c]) != "" {
			return false
		}
	}
	return true
}

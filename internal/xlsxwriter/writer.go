// =============================================================================
// salesdocs - XLSX Document Writer
// =============================================================================
//
// This module renders a document as a one-sheet workbook in the layout the
// sales team prints and sends to customers:
//
//   견 적 서
//   문서번호 EST-20240502-0001                작성일 2024-05-02
//   수신   한빛상사                          공급자  우리상사
//   ...party details...
//   ...type-specific terms (유효기간, 납기일, 견적희망일, ...)
//   합계금액  오천 원 (₩ 5,000)
//   번호 | 품명 | 규격 | 수량 | 단가 | 금액
//   ...items...
//   합계                                      5,000
//   비고: ...
//
// The item table keeps the header names the item importers recognise, so an
// exported document can be read back as an item sheet.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/types"
)

// ItemHeaders are the column headers of the item table.
var ItemHeaders = []string{"번호", "품명", "규격", "수량", "단가", "금액"}

// Built-in Excel number formats.
const (
	numFmtInteger = 3 // #,##0
	numFmtDecimal = 4 // #,##0.00
)

// Render builds the workbook for a document.
func Render(v types.Rendering) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	doc := v.Document
	sheet := doc.Type.Title()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	w, err := newSheetWriter(f, sheet)
	if err != nil {
		return nil, err
	}
	w.layout(v)
	if w.err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.DocumentNumber, w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// SHEET WRITER
// =============================================================================

// sheetWriter keeps the first error so the layout reads top to bottom.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error

	title, label, header, integer, fraction, total int
}

func newSheetWriter(f *excelize.File, sheet string) (*sheetWriter, error) {
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&w.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 20},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&w.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&w.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    borders(),
		}},
		{&w.integer, &excelize.Style{NumFmt: numFmtInteger, Border: borders()}},
		{&w.fraction, &excelize.Style{NumFmt: numFmtDecimal, Border: borders()}},
		{&w.total, &excelize.Style{NumFmt: numFmtInteger, Font: &excelize.Font{Bold: true}, Border: borders()}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			return nil, fmt.Errorf("create style: %w", err)
		}
		*s.dst = id
	}
	return w, nil
}

func borders() []excelize.Border {
	var out []excelize.Border
	for _, side := range []string{"left", "right", "top", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "#808080", Style: 1})
	}
	return out
}

func (w *sheetWriter) cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func (w *sheetWriter) set(col string, value any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, w.cell(col, w.row), value)
}

func (w *sheetWriter) style(from, to string, style int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, w.cell(from, w.row), w.cell(to, w.row), style)
}

func (w *sheetWriter) merge(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, w.cell(from, w.row), w.cell(to, w.row))
}

// pair writes a bold label followed by its value.
func (w *sheetWriter) pair(labelCol, valueCol, label string, value any) {
	w.set(labelCol, label)
	w.style(labelCol, labelCol, w.label)
	w.set(valueCol, value)
}

func (w *sheetWriter) next(n int) { w.row += n }

// =============================================================================
// LAYOUT
// =============================================================================

func (w *sheetWriter) layout(v types.Rendering) {
	doc := v.Document
	c := doc.Content

	for col, width := range map[string]float64{"A": 10, "B": 28, "C": 16, "D": 10, "E": 16, "F": 18} {
		if w.err == nil {
			w.err = w.f.SetColWidth(w.sheet, col, col, width)
		}
	}

	w.set("A", spaced(doc.Type.Title()))
	w.merge("A", "F")
	w.style("A", "F", w.title)
	if w.err == nil {
		w.err = w.f.SetRowHeight(w.sheet, w.row, 36)
	}
	w.next(2)

	w.pair("A", "B", "문서번호", doc.DocumentNumber)
	w.pair("E", "F", "작성일", doc.CreatedAt.Format("2006-01-02"))
	w.next(2)

	company := v.Company.Name
	if company == "" {
		company = c.CompanyName
	}
	left := [][2]string{
		{"수신", company},
		{"담당자", strings.TrimSpace(v.Contact.ContactName + " " + v.Contact.Position)},
		{"연락처", firstNonEmpty(v.Contact.Mobile, v.Company.Phone)},
		{"이메일", firstNonEmpty(v.Contact.Email, v.Company.Email)},
		{"작성자", v.User.Name},
	}
	right := [][2]string{
		{"공급자", v.Supplier.Name},
		{"등록번호", v.Supplier.RegistrationNumber},
		{"대표자", v.Supplier.Representative},
		{"주소", v.Supplier.Address},
		{"전화", v.Supplier.Phone},
	}
	for i := range left {
		w.pair("A", "B", left[i][0], left[i][1])
		w.pair("D", "E", right[i][0], right[i][1])
		w.merge("E", "F")
		w.next(1)
	}
	w.next(1)

	for _, term := range terms(doc.Type, c) {
		w.pair("A", "B", term[0], term[1])
		w.next(1)
	}
	w.next(1)

	w.pair("A", "B", "합계금액", Caption(c.KoreanAmount, doc.TotalAmount))
	w.merge("B", "F")
	w.next(2)

	for i, h := range ItemHeaders {
		w.set(string(rune('A'+i)), h)
	}
	w.style("A", "F", w.header)
	w.next(1)

	for _, it := range c.Items {
		w.set("A", it.Number)
		w.set("B", it.Name)
		w.set("C", it.Spec)
		w.set("D", it.Quantity)
		w.set("E", it.UnitPrice.InexactFloat64())
		w.set("F", it.Amount.InexactFloat64())
		w.style("A", "D", w.integer)
		w.style("E", "E", w.numberStyle(it.UnitPrice))
		w.style("F", "F", w.numberStyle(it.Amount))
		w.next(1)
	}

	w.set("A", "합계")
	w.set("F", doc.TotalAmount.InexactFloat64())
	w.style("A", "F", w.total)
	w.next(2)

	// Notes share one merged cell so they never land in an item column.
	if c.Notes != "" {
		w.set("A", "비고: "+c.Notes)
		w.merge("A", "F")
	}
}

func (w *sheetWriter) numberStyle(d decimal.Decimal) int {
	if d.IsInteger() {
		return w.integer
	}
	return w.fraction
}

// terms returns the type-specific header lines.
func terms(t types.DocumentType, c types.Content) [][2]string {
	switch t {
	case types.DocOrder:
		return [][2]string{
			{"납기일", c.DeliveryDate},
			{"결제조건", c.PaymentTerms},
		}
	case types.DocQuotationRequest:
		return [][2]string{
			{"견적희망일", c.DesiredEstimateDate},
			{"의뢰일", c.RequestDate},
		}
	default:
		return [][2]string{
			{"유효기간", c.ValidUntil},
			{"납품장소", c.DeliveryPlace},
			{"납기", c.DeliveryTerm},
			{"결제조건", c.PaymentTerms},
		}
	}
}

// Caption renders the total line, e.g. "오천 원 (₩ 5,000)".
func Caption(words string, total decimal.Decimal) string {
	won := amount.FormatWon(total.IntPart())
	return strings.TrimSpace(words+" 원") + " (" + won + ")"
}

// spaced letter-spaces a short title: 견적서 -> 견 적 서.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

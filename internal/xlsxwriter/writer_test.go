package xlsxwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/salesdocs/internal/ledger"
	"github.com/ginjaninja78/salesdocs/internal/types"
	"github.com/ginjaninja78/salesdocs/internal/xlsxparser"
)

func sampleRendering(t types.DocumentType) types.Rendering {
	items := []types.ContentItem{
		{Number: 1, Name: "A4 용지", Spec: "80g", Quantity: 2, UnitPrice: decimal.NewFromInt(1000), Amount: decimal.NewFromInt(2000)},
		{Number: 2, Name: "토너", Quantity: 1, UnitPrice: decimal.NewFromInt(2500), Amount: decimal.NewFromInt(2500)},
		{Number: 3, Name: "볼펜", Spec: "흑색", Quantity: 5, UnitPrice: decimal.NewFromInt(100), Amount: decimal.NewFromInt(500)},
	}
	total := decimal.NewFromInt(5000)
	return types.Rendering{
		Document: types.Document{
			DocumentNumber: t.NumberPrefix() + "-20240502-0001",
			Type:           t,
			CompanyName:    "한빛상사",
			TotalAmount:    total,
			CreatedAt:      time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
			Content: types.Content{
				Items:        items,
				CompanyName:  "한빛상사",
				TotalAmount:  total,
				KoreanAmount: "오천",
				Notes:        "부가세 별도",
				ValidUntil:   "2024-06-01",
				PaymentTerms: types.PaymentNegotiable,
				DeliveryDate: "2024-05-20",
			},
		},
		Company:  types.Company{Name: "한빛상사", Phone: "02-123-4567"},
		Contact:  types.Contact{ContactName: "김민수", Position: "과장"},
		User:     types.User{Name: "이영업"},
		Supplier: types.Supplier{Name: "우리상사", Representative: "박대표"},
	}
}

func rowsOf(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", sheet, err)
	}
	return rows
}

// labelled returns the cell right of the first cell equal to label.
func labelled(rows [][]string, label string) (string, bool) {
	for _, row := range rows {
		for i, cell := range row {
			if cell == label && i+1 < len(row) {
				return row[i+1], true
			}
		}
	}
	return "", false
}

func TestRenderEstimate(t *testing.T) {
	data, err := Render(sampleRendering(types.DocEstimate))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	rows := rowsOf(t, data, "견적서")

	if rows[0][0] != "견 적 서" {
		t.Fatalf("title %q", rows[0][0])
	}
	checks := map[string]string{
		"문서번호": "EST-20240502-0001",
		"작성일":  "2024-05-02",
		"수신":   "한빛상사",
		"담당자":  "김민수 과장",
		"연락처":  "02-123-4567",
		"공급자":  "우리상사",
		"대표자":  "박대표",
		"유효기간": "2024-06-01",
		"결제조건": "협의",
		"합계금액": "오천 원 (₩ 5,000)",
	}
	for label, want := range checks {
		got, ok := labelled(rows, label)
		if !ok || got != want {
			t.Errorf("%s = %q, want %q", label, got, want)
		}
	}
	if _, ok := labelled(rows, "견적희망일"); ok {
		t.Error("estimate should not print quotation request terms")
	}
}

func TestRenderTypeSpecificTerms(t *testing.T) {
	tests := []struct {
		docType types.DocumentType
		sheet   string
		label   string
		want    string
	}{
		{types.DocOrder, "발주서", "납기일", "2024-05-20"},
		{types.DocQuotationRequest, "견적의뢰서", "견적희망일", ""},
	}
	for _, tt := range tests {
		data, err := Render(sampleRendering(tt.docType))
		if err != nil {
			t.Fatalf("Render(%s): %v", tt.docType, err)
		}
		rows := rowsOf(t, data, tt.sheet)
		if _, ok := labelled(rows, "유효기간"); ok {
			t.Errorf("%s printed estimate terms", tt.docType)
		}
		if tt.want != "" {
			if got, _ := labelled(rows, tt.label); got != tt.want {
				t.Errorf("%s %s = %q, want %q", tt.docType, tt.label, got, tt.want)
			}
		}
	}
}

func TestRenderedItemsReimport(t *testing.T) {
	r := sampleRendering(types.DocEstimate)
	data, err := Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	sheet, err := xlsxparser.ParseReader(bytes.NewReader(data), xlsxparser.Options{})
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	l := &ledger.Ledger{}
	n, err := sheet.ImportInto(l)
	if err != nil {
		t.Fatalf("ImportInto: %v", err)
	}
	if n != len(r.Document.Content.Items) {
		t.Fatalf("imported %d items, want %d", n, len(r.Document.Content.Items))
	}
	if !l.Total().Equal(r.Document.TotalAmount) {
		t.Fatalf("total %s, want %s", l.Total(), r.Document.TotalAmount)
	}
	for i, it := range l.Items() {
		want := r.Document.Content.Items[i]
		if it.Name != want.Name || it.Spec != want.Spec || it.Quantity != want.Quantity {
			t.Errorf("item %d = %+v, want %+v", i, it, want)
		}
	}
}

func TestRenderFractionalPrice(t *testing.T) {
	r := sampleRendering(types.DocEstimate)
	r.Document.Content.Items = []types.ContentItem{
		{Number: 1, Name: "나사", Quantity: 4, UnitPrice: decimal.RequireFromString("12.5"), Amount: decimal.NewFromInt(50)},
	}
	data, err := Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	sheet, err := xlsxparser.ParseReader(bytes.NewReader(data), xlsxparser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	l := &ledger.Ledger{}
	if _, err := sheet.ImportInto(l); err != nil {
		t.Fatal(err)
	}
	it, _ := l.Item(0)
	if !it.UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unit price %s", it.UnitPrice)
	}
}

func TestCaption(t *testing.T) {
	if got := Caption("", decimal.Zero); got != "원 (₩ 0)" {
		t.Fatalf("Caption(0) = %q", got)
	}
	if got := Caption("십이만 삼천사백오십육", decimal.NewFromInt(123456)); got != "십이만 삼천사백오십육 원 (₩ 123,456)" {
		t.Fatalf("Caption = %q", got)
	}
}

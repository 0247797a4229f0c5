package ledger

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
)

func checkInvariants(t *testing.T, l *Ledger) {
	t.Helper()
	sum := decimal.Zero
	for i, it := range l.Items() {
		want := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		if !it.Amount.Equal(want) {
			t.Fatalf("item %d amount %s, want %s", i, it.Amount, want)
		}
		sum = sum.Add(it.Amount)
	}
	if !l.Total().Equal(sum) {
		t.Fatalf("total %s, want %s", l.Total(), sum)
	}
}

func TestAddUsesDefaults(t *testing.T) {
	l := &Ledger{}
	idx := l.Add()
	if idx != 0 || l.Len() != 1 {
		t.Fatalf("Add returned %d, len %d", idx, l.Len())
	}
	it, err := l.Item(0)
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if it.Name != "" || it.Spec != "" || it.Quantity != 1 || !it.UnitPrice.IsZero() || !it.Amount.IsZero() {
		t.Fatalf("unexpected defaults: %+v", it)
	}
}

func TestThreeItemScenario(t *testing.T) {
	l := &Ledger{}
	rows := []struct{ qty, price string }{{"2", "1000"}, {"1", "2500"}, {"5", "100"}}
	for _, r := range rows {
		i := l.Add()
		if err := l.UpdateField(i, FieldQuantity, r.qty); err != nil {
			t.Fatalf("quantity: %v", err)
		}
		if err := l.UpdateField(i, FieldUnitPrice, r.price); err != nil {
			t.Fatalf("unit price: %v", err)
		}
		checkInvariants(t, l)
	}

	wantAmounts := []int64{2000, 2500, 500}
	for i, it := range l.Items() {
		if !it.Amount.Equal(decimal.NewFromInt(wantAmounts[i])) {
			t.Fatalf("item %d amount %s, want %d", i, it.Amount, wantAmounts[i])
		}
	}
	if !l.Total().Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total %s, want 5000", l.Total())
	}
}

func TestUpdateFieldUsesCurrentOtherField(t *testing.T) {
	l := &Ledger{}
	l.Add()
	if err := l.UpdateField(0, FieldUnitPrice, "300"); err != nil {
		t.Fatal(err)
	}
	// quantity is still the default 1
	if it, _ := l.Item(0); !it.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("amount %s, want 300", it.Amount)
	}
	if err := l.UpdateField(0, FieldQuantity, "4"); err != nil {
		t.Fatal(err)
	}
	if it, _ := l.Item(0); !it.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("amount %s, want 1200", it.Amount)
	}
}

func TestUpdateFieldTextFields(t *testing.T) {
	l := &Ledger{}
	l.Add()
	if err := l.UpdateField(0, FieldName, "복합기"); err != nil {
		t.Fatal(err)
	}
	if err := l.UpdateField(0, FieldSpec, "A3 컬러"); err != nil {
		t.Fatal(err)
	}
	it, _ := l.Item(0)
	if it.Name != "복합기" || it.Spec != "A3 컬러" {
		t.Fatalf("unexpected item %+v", it)
	}
	checkInvariants(t, l)
}

func TestUpdateFieldParsesFormattedNumbers(t *testing.T) {
	l := &Ledger{}
	l.Add()
	if err := l.UpdateField(0, FieldQuantity, "1,200"); err != nil {
		t.Fatal(err)
	}
	if err := l.UpdateField(0, FieldUnitPrice, "₩ 12,500"); err != nil {
		t.Fatal(err)
	}
	if !l.Total().Equal(decimal.NewFromInt(15000000)) {
		t.Fatalf("total %s", l.Total())
	}
	if err := l.UpdateField(0, FieldUnitPrice, "99.5"); err != nil {
		t.Fatal(err)
	}
	if !l.Total().Equal(decimal.RequireFromString("119400")) {
		t.Fatalf("total %s", l.Total())
	}
}

func TestErrors(t *testing.T) {
	l := &Ledger{}
	l.Add()

	if err := l.Remove(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Remove(1): %v", err)
	}
	if err := l.Remove(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Remove(-1): %v", err)
	}
	if err := l.UpdateField(3, FieldName, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("UpdateField(3): %v", err)
	}
	if err := l.UpdateField(0, Field("amount"), "10"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("UpdateField(amount): %v", err)
	}
	if err := l.UpdateField(0, FieldQuantity, "two"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("quantity two: %v", err)
	}
	if err := l.UpdateField(0, FieldQuantity, "1.5"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("quantity 1.5: %v", err)
	}
	if err := l.UpdateField(0, FieldUnitPrice, "-10"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("price -10: %v", err)
	}
	if err := l.SetQuantity(0, -1); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("SetQuantity(-1): %v", err)
	}
	if _, err := New(LineItem{Quantity: -2}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("New negative: %v", err)
	}
	// failed updates leave the item untouched
	if it, _ := l.Item(0); it.Quantity != 1 || !it.UnitPrice.IsZero() {
		t.Fatalf("item changed after failed updates: %+v", it)
	}
}

func TestRemoveShiftsItems(t *testing.T) {
	l, err := New(
		LineItem{Name: "a", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		LineItem{Name: "b", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
		LineItem{Name: "c", Quantity: 3, UnitPrice: decimal.NewFromInt(30)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Remove(1); err != nil {
		t.Fatal(err)
	}
	items := l.Items()
	if len(items) != 2 || items[0].Name != "a" || items[1].Name != "c" {
		t.Fatalf("unexpected items %+v", items)
	}
	if !l.Total().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("total %s, want 100", l.Total())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	l := &Ledger{}
	l.Add()
	items := l.Items()
	items[0].Name = "changed"
	if it, _ := l.Item(0); it.Name != "" {
		t.Fatalf("ledger mutated through Items copy")
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := &Ledger{}
	for step := 0; step < 500; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || l.Len() == 0:
			l.Add()
		case op == 1:
			_ = l.UpdateField(rng.Intn(l.Len()), FieldQuantity, strconv.Itoa(rng.Intn(50)))
		case op == 2:
			_ = l.UpdateField(rng.Intn(l.Len()), FieldUnitPrice, strconv.Itoa(rng.Intn(100000)))
		default:
			_ = l.Remove(rng.Intn(l.Len()))
		}
		checkInvariants(t, l)
	}
}

func TestFieldForHeader(t *testing.T) {
	cases := map[string]Field{
		"Name":       FieldName,
		"제품명":        FieldName,
		" 규격 ":       FieldSpec,
		"QTY":        FieldQuantity,
		"Unit Price": FieldUnitPrice,
		"단가":         FieldUnitPrice,
	}
	for header, want := range cases {
		got, ok := FieldForHeader(header)
		if !ok || got != want {
			t.Fatalf("FieldForHeader(%q) = %q, %v", header, got, ok)
		}
	}
	if _, ok := FieldForHeader("금액"); ok {
		t.Fatalf("amount column must not map to an editable field")
	}
}

func TestImportRows(t *testing.T) {
	l := &Ledger{}
	headers := []string{"번호", "품명", "규격", "수량", "단가", "금액"}
	rows := [][]string{
		{"1", "A4 용지", "80g", "2", "1,000", "9999"},
		{"", "", "", "", "", ""},
		{"2", "토너", "", "1", "₩ 2,500", ""},
		{"3", "볼펜", "흑색", "5"},
	}
	n, err := l.ImportRows(headers, rows, 2)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	if n != 3 || l.Len() != 3 {
		t.Fatalf("imported %d, len %d", n, l.Len())
	}
	checkInvariants(t, l)
	// the sheet's amount column is ignored
	if it, _ := l.Item(0); !it.Amount.Equal(decimal.NewFromInt(2000)) || it.Spec != "80g" {
		t.Fatalf("item 0 %+v", it)
	}
	// missing unit price keeps the default
	if it, _ := l.Item(2); it.Quantity != 5 || !it.UnitPrice.IsZero() {
		t.Fatalf("item 2 %+v", it)
	}
	if !l.Total().Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("total %s", l.Total())
	}
}

func TestImportRowsErrors(t *testing.T) {
	l := &Ledger{}
	if _, err := l.ImportRows([]string{"a", "b"}, [][]string{{"1", "2"}}, 2); !errors.Is(err, ErrNoItemColumns) {
		t.Fatalf("expected ErrNoItemColumns, got %v", err)
	}

	rows := [][]string{{"펜", "3"}, {"지우개", "many"}}
	n, err := l.ImportRows([]string{"name", "qty"}, rows, 2)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if n != 1 || l.Len() != 1 {
		t.Fatalf("partial import kept %d items (n=%d)", l.Len(), n)
	}
	if got := err.Error(); got[:5] != "row 3" {
		t.Fatalf("error should name the sheet row: %q", got)
	}
	checkInvariants(t, l)
}

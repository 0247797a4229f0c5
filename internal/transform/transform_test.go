package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/ledger"
)

func TestActions(t *testing.T) {
	cases := []struct {
		action config.TransformationAction
		in     string
		want   string
	}{
		{config.TransformationAction{Type: "trim"}, "  볼펜 ", "볼펜"},
		{config.TransformationAction{Type: "uppercase"}, "a4", "A4"},
		{config.TransformationAction{Type: "lowercase"}, "BOX", "box"},
		{config.TransformationAction{Type: "prepend_string", Value: "KR-"}, "100", "KR-100"},
		{config.TransformationAction{Type: "append_string", Value: "g"}, "80", "80g"},
		{config.TransformationAction{Type: "replace", Find: "원", Value: ""}, "1,000원", "1,000"},
		{config.TransformationAction{Type: "replace"}, "abc", "abc"},
		{config.TransformationAction{Type: "regex_replace", Find: `(?i)\s*ea$`, Value: ""}, "10 EA", "10"},
		{config.TransformationAction{Type: "extract_digits"}, "10EA", "10"},
		{config.TransformationAction{Type: "remove_special_chars"}, "A4-용지!", "A4용지"},
		{config.TransformationAction{Type: "normalize_whitespace"}, " A4   복사 용지 ", "A4 복사 용지"},
		{config.TransformationAction{Type: "if_empty_use_default", Value: "-"}, " ", "-"},
		{config.TransformationAction{Type: "if_empty_use_default", Value: "-"}, "80g", "80g"},
	}
	for _, tc := range cases {
		tr, err := NewTransformer([]config.TransformationRule{{Field: "name", Actions: []config.TransformationAction{tc.action}}})
		if err != nil {
			t.Fatalf("%s: %v", tc.action.Type, err)
		}
		got, err := tr.Transform(ledger.FieldName, tc.in, nil)
		if err != nil || got != tc.want {
			t.Errorf("%s(%q) = %q, %v; want %q", tc.action.Type, tc.in, got, err, tc.want)
		}
	}
}

func TestIfEmptyUseField(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{{
		Field:   "규격",
		Actions: []config.TransformationAction{{Type: "if_empty_use_field", Value: "name"}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := tr.Transform(ledger.FieldSpec, "", map[ledger.Field]string{ledger.FieldName: "토너"})
	if err != nil || got != "토너" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestNewTransformerRejectsBadRules(t *testing.T) {
	bad := [][]config.TransformationRule{
		{{Field: "colour", Actions: []config.TransformationAction{{Type: "trim"}}}},
		{{Field: "name", Actions: []config.TransformationAction{{Type: "shout"}}}},
		{{Field: "name", Actions: []config.TransformationAction{{Type: "regex_replace", Find: "("}}}},
	}
	for i, rules := range bad {
		if _, err := NewTransformer(rules); err == nil {
			t.Errorf("rules %d: expected an error", i)
		}
	}
}

func TestApplyRowsBeforeImport(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{
		{Field: "quantity", Actions: []config.TransformationAction{{Type: "extract_digits"}}},
		{Field: "unit_price", Actions: []config.TransformationAction{{Type: "replace", Find: "₩", Value: ""}}},
		{Field: "spec", Actions: []config.TransformationAction{{Type: "if_empty_use_default", Value: "-"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	headers := []string{"번호", "품명", "규격", "수량", "단가"}
	rows := [][]string{
		{"1", "A4 용지", "", "10EA", "₩1,000"},
		{"", "", "", "", ""},
		{"2", "토너", "검정", "2 box", "25000"},
	}
	if err := tr.ApplyRows(headers, rows, 2); err != nil {
		t.Fatal(err)
	}
	if rows[0][2] != "-" || rows[0][3] != "10" || rows[0][4] != "1,000" {
		t.Fatalf("row 1 = %q", rows[0])
	}
	if strings.Join(rows[1], "") != "" {
		t.Fatalf("blank row changed: %q", rows[1])
	}
	if rows[0][0] != "1" {
		t.Fatalf("unmapped column changed: %q", rows[0][0])
	}

	l := &ledger.Ledger{}
	n, err := l.ImportRows(headers, rows, 2)
	if err != nil || n != 2 {
		t.Fatalf("ImportRows = %d, %v", n, err)
	}
	if !l.Total().Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("total %s", l.Total())
	}
}

func TestNilTransformerIsIdentity(t *testing.T) {
	var tr *Transformer
	rows := [][]string{{" x "}}
	if err := tr.ApplyRows([]string{"name"}, rows, 2); err != nil || rows[0][0] != " x " {
		t.Fatalf("rows %q, %v", rows, err)
	}
	got, err := tr.Transform(ledger.FieldName, " x ", nil)
	if err != nil || got != " x " {
		t.Fatalf("got %q, %v", got, err)
	}
}

package amount

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatConventional(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, ""},
		{1, "일"},
		{10, "십"},
		{11, "십일"},
		{20, "이십"},
		{100, "백"},
		{1000, "천"},
		{1010, "천십"},
		{5000, "오천"},
		{10000, "만"},
		{10001, "만 일"},
		{20000, "이만"},
		{110000, "십일만"},
		{123456, "십이만 삼천사백오십육"},
		{100000000, "일억"},
		{100010000, "일억 일만"},
		{1000010000, "십억 일만"},
		{10010, "만 십"},
		{1234567890, "십이억 삼천사백오십육만 칠천팔백구십"},
		{1000000000000, "일조"},
		{10000000000000000, "일경"},
	}
	for _, tc := range cases {
		got, err := Korean(tc.in)
		if err != nil {
			t.Fatalf("Korean(%d) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Korean(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatLegacy(t *testing.T) {
	f := Formatter{Style: StyleLegacy}
	cases := []struct {
		in   int64
		want string
	}{
		{0, ""},
		{10, "십"},
		{11, "십일"},
		{100, "일백"},
		{10000, "일만"},
		{123456, "십이만 삼천사백오십육"},
		{5000, "오천"},
		// "일십" is rewritten everywhere, not only at the start.
		{1010, "일천십"},
		{101010, "십만 일천십"},
		{1010101010, "십억 일천십만 일천십"},
	}
	for _, tc := range cases {
		got, err := f.Format(tc.in)
		if err != nil {
			t.Fatalf("Format(%d) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("legacy Format(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRejectsNegative(t *testing.T) {
	for _, style := range []Style{StyleConventional, StyleLegacy} {
		if _, err := (Formatter{Style: style}).Format(-1); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v", style, err)
		}
	}
}

func TestFormatHasNoDigitsAndIsDeterministic(t *testing.T) {
	var n int64 = 1
	for n < 1e16 {
		for _, v := range []int64{n, n + 1, n*7 + 3, n*10 - 1} {
			for _, style := range []Style{StyleConventional, StyleLegacy} {
				f := Formatter{Style: style}
				first, err := f.Format(v)
				if err != nil {
					t.Fatalf("Format(%d): %v", v, err)
				}
				if strings.ContainsAny(first, "0123456789") {
					t.Fatalf("Format(%d) = %q contains digits", v, first)
				}
				second, _ := f.Format(v)
				if first != second {
					t.Fatalf("Format(%d) not deterministic: %q vs %q", v, first, second)
				}
			}
		}
		n *= 13
	}
}

func TestFormatDecimal(t *testing.T) {
	f := Formatter{}
	got, err := f.FormatDecimal(decimal.NewFromInt(5000))
	if err != nil || got != "오천" {
		t.Fatalf("FormatDecimal(5000) = %q, %v", got, err)
	}
	got, err = f.FormatDecimal(decimal.RequireFromString("2500.00"))
	if err != nil || got != "이천오백" {
		t.Fatalf("FormatDecimal(2500.00) = %q, %v", got, err)
	}

	bad := []decimal.Decimal{
		decimal.RequireFromString("0.5"),
		decimal.NewFromInt(-3),
		decimal.RequireFromString("99999999999999999999"),
	}
	for _, d := range bad {
		if _, err := f.FormatDecimal(d); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("FormatDecimal(%s): expected ErrInvalidAmount, got %v", d, err)
		}
	}
}

func TestCaption(t *testing.T) {
	got, err := Formatter{}.Caption(5000)
	if err != nil || got != "오천 원" {
		t.Fatalf("Caption(5000) = %q, %v", got, err)
	}
	got, _ = Formatter{}.Caption(0)
	if got != "원" {
		t.Fatalf("Caption(0) = %q", got)
	}
}

func TestParseStyle(t *testing.T) {
	if s, err := ParseStyle(""); err != nil || s != StyleConventional {
		t.Fatalf("empty style: %v %v", s, err)
	}
	if s, err := ParseStyle("Legacy"); err != nil || s != StyleLegacy {
		t.Fatalf("legacy style: %v %v", s, err)
	}
	if _, err := ParseStyle("hanja"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}

func TestFormatWon(t *testing.T) {
	if got := FormatWon(123456); got != "₩ 123,456" {
		t.Fatalf("FormatWon = %q", got)
	}
	if got := FormatWon(0); got != "₩ 0" {
		t.Fatalf("FormatWon(0) = %q", got)
	}
}

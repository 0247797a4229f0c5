// =============================================================================
// salesdocs - Korean Amount Formatter
// =============================================================================
//
// This module renders document totals as Korean numeral words, the way they
// are printed on estimates, purchase orders and quotation requests
// ("금 오천 원").
//
// GROUPING:
//   Numbers are split into myriad groups of four digits (만, 억, 조, 경).
//   Inside a group every nonzero digit is paired with its position unit
//   (십, 백, 천). Groups are joined most-significant first with one space.
//
//   123456  ->  [3456, 12]  ->  "십이만 삼천사백오십육"
//
// STYLES:
//   conventional : drops the digit word "일" in front of 십/백/천 and in front
//                  of 만 when it leads the number ("백", "만 십", "천십").
//                  Inside a larger number 일만 is kept ("일억 일만").
//   legacy       : only rewrites "일십" to "십", as documents issued before the
//                  conventional style did
//                  ("일백", "일만", "일천십").
//
// =============================================================================

package amount

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that cannot be written as words:
// negative values, fractional values and values beyond the int64 range.
var ErrInvalidAmount = errors.New("invalid amount")

// =============================================================================
// WORD TABLES
// =============================================================================

var (
	digitWords = [10]string{"", "일", "이", "삼", "사", "오", "육", "칠", "팔", "구"}
	smallUnits = [4]string{"", "십", "백", "천"}
	bigUnits   = [5]string{"", "만", "억", "조", "경"}
)

const groupBase = 10000

// =============================================================================
// STYLE
// =============================================================================

// Style selects how the digit one is spelled in front of a unit.
type Style int

const (
	// StyleConventional omits "일" before 십, 백, 천 and a leading 만.
	StyleConventional Style = iota

	// StyleLegacy matches previously issued documents: "일" is always written and
	// the only simplification is the global "일십" -> "십" rewrite.
	StyleLegacy
)

// ParseStyle maps a configuration value to a Style. The empty string selects
// the conventional style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conventional":
		return StyleConventional, nil
	case "legacy":
		return StyleLegacy, nil
	default:
		return StyleConventional, fmt.Errorf("unknown numeral style %q", s)
	}
}

// String returns the configuration name of the style.
func (s Style) String() string {
	if s == StyleLegacy {
		return "legacy"
	}
	return "conventional"
}

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter converts integer amounts to Korean numeral words.
// The zero value uses the conventional style.
type Formatter struct {
	Style Style
}

// Korean formats n with the conventional style.
func Korean(n int64) (string, error) {
	return Formatter{}.Format(n)
}

// Format renders n as Korean numeral words. Zero renders as the empty string.
func (f Formatter) Format(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d is negative", ErrInvalidAmount, n)
	}

	// Groups are collected least-significant first and emitted in reverse,
	// which is the same as prepending each chunk to the result.
	var chunks []string
	for group := 0; n > 0; group++ {
		value := int(n % groupBase)
		n /= groupBase
		if value == 0 {
			continue
		}
		chunks = append(chunks, f.groupWords(value, group, n == 0)+bigUnits[group])
	}

	var b strings.Builder
	for i := len(chunks) - 1; i >= 0; i-- {
		b.WriteString(chunks[i])
		b.WriteByte(' ')
	}

	return strings.ReplaceAll(strings.TrimSpace(b.String()), "일십", "십"), nil
}

// FormatDecimal renders an amount held as a decimal. The value must be a
// non-negative whole number that fits in an int64.
func (f Formatter) FormatDecimal(d decimal.Decimal) (string, error) {
	n, err := WholeWon(d)
	if err != nil {
		return "", err
	}
	return f.Format(n)
}

// Caption returns the words followed by the currency unit, e.g. "오천 원".
func (f Formatter) Caption(n int64) (string, error) {
	words, err := f.Format(n)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(words + " 원"), nil
}

// groupWords renders one myriad group (1..9999) most-significant digit first.
// leading reports whether no higher group follows.
func (f Formatter) groupWords(value, group int, leading bool) string {
	if f.Style == StyleConventional && group == 1 && value == 1 && leading {
		return ""
	}

	var b strings.Builder
	for pos := len(smallUnits) - 1; pos >= 0; pos-- {
		digit := value / pow10(pos) % 10
		if digit == 0 {
			continue
		}
		if !(f.Style == StyleConventional && digit == 1 && pos > 0) {
			b.WriteString(digitWords[digit])
		}
		b.WriteString(smallUnits[pos])
	}
	return b.String()
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	maxWon = decimal.NewFromInt(math.MaxInt64)
)

// WholeWon converts a decimal total to an int64 amount of won, failing with
// ErrInvalidAmount when the value is negative, fractional or too large.
func WholeWon(d decimal.Decimal) (int64, error) {
	switch {
	case d.IsNegative():
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d.String())
	case !d.IsInteger():
		return 0, fmt.Errorf("%w: %s is not a whole number", ErrInvalidAmount, d.String())
	case d.GreaterThan(maxWon):
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return d.IntPart(), nil
}

package amount

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon renders n with Korean digit grouping and the won sign,
// e.g. "₩ 123,456".
func FormatWon(n int64) string {
	return wonPrinter.Sprintf("₩ %d", n)
}

// =============================================================================
// salesdocs - Line Item Ledger
// =============================================================================
//
// The ledger holds the line items of one commercial document while it is being
// edited and keeps every item's extended amount in step with its quantity and
// unit price.
//
// INVARIANTS:
//   - item.Amount == item.Quantity * item.UnitPrice after every operation
//   - Total() == sum of item.Amount
//   - Quantity and UnitPrice are never negative
//
// OWNERSHIP:
//   A Ledger is owned by one caller (a document draft, an import run). Methods
//   mutate it in place. It is not safe for concurrent use.
//
// =============================================================================

package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrIndexOutOfRange is returned when an index does not address an item.
	ErrIndexOutOfRange = errors.New("item index out of range")

	// ErrUnknownField is returned by UpdateField for fields other than
	// name, spec, quantity and unit_price.
	ErrUnknownField = errors.New("unknown item field")

	// ErrInvalidValue is returned when a quantity or unit price cannot be
	// parsed or is negative.
	ErrInvalidValue = errors.New("invalid item value")
)

// =============================================================================
// FIELDS
// =============================================================================

// Field names an editable line item field.
type Field string

const (
	FieldName      Field = "name"
	FieldSpec      Field = "spec"
	FieldQuantity  Field = "quantity"
	FieldUnitPrice Field = "unit_price"
)

// headerAliases maps column headers found in item sheets to fields.
// Keys are lower-cased with spaces removed.
var headerAliases = map[string]Field{
	"name":       FieldName,
	"item":       FieldName,
	"product":    FieldName,
	"제품명":        FieldName,
	"품명":         FieldName,
	"spec":       FieldSpec,
	"규격":         FieldSpec,
	"quantity":   FieldQuantity,
	"qty":        FieldQuantity,
	"수량":         FieldQuantity,
	"unit_price": FieldUnitPrice,
	"unitprice":  FieldUnitPrice,
	"price":      FieldUnitPrice,
	"단가":         FieldUnitPrice,
}

// FieldForHeader resolves a sheet column header to a Field.
func FieldForHeader(header string) (Field, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(header), " ", ""))
	f, ok := headerAliases[key]
	return f, ok
}

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one row of a commercial document.
type LineItem struct {
	Name      string          `json:"name"`
	Spec      string          `json:"spec"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewLineItem returns an item with the editing defaults: quantity 1,
// unit price 0.
func NewLineItem() LineItem {
	return LineItem{Quantity: 1, UnitPrice: decimal.Zero, Amount: decimal.Zero}
}

func (it *LineItem) recompute() {
	it.Amount = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is an ordered sequence of line items.
type Ledger struct {
	items []LineItem
}

// New builds a ledger from existing items. Amounts are recomputed; items with
// a negative quantity or unit price are rejected.
func New(items ...LineItem) (*Ledger, error) {
	l := &Ledger{}
	for i, it := range items {
		if err := l.Append(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return l, nil
}

// Len returns the number of items.
func (l *Ledger) Len() int { return len(l.items) }

// Items returns a copy of the items in order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the item at index.
func (l *Ledger) Item(index int) (LineItem, error) {
	if err := l.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return l.items[index], nil
}

// Add appends a default item and returns its index.
func (l *Ledger) Add() int {
	l.items = append(l.items, NewLineItem())
	return len(l.items) - 1
}

// Append adds a fully populated item. Its amount is recomputed.
func (l *Ledger) Append(it LineItem) error {
	if it.Quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", ErrInvalidValue, it.Quantity)
	}
	if it.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price %s is negative", ErrInvalidValue, it.UnitPrice)
	}
	it.recompute()
	l.items = append(l.items, it)
	return nil
}

// Remove deletes the item at index, shifting later items down.
func (l *Ledger) Remove(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return nil
}

// UpdateField sets one field of the item at index from its text form, as it
// arrives from a form or a sheet cell. Quantity and unit price changes
// recompute the item's amount.
func (l *Ledger) UpdateField(index int, field Field, value string) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}

	switch field {
	case FieldName:
		l.items[index].Name = value
		return nil
	case FieldSpec:
		l.items[index].Spec = value
		return nil
	case FieldQuantity:
		q, err := parseQuantity(value)
		if err != nil {
			return err
		}
		return l.SetQuantity(index, q)
	case FieldUnitPrice:
		p, err := parseUnitPrice(value)
		if err != nil {
			return err
		}
		return l.SetUnitPrice(index, p)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// SetQuantity sets the quantity of the item at index.
func (l *Ledger) SetQuantity(index int, quantity int64) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity %d is negative", ErrInvalidValue, quantity)
	}
	l.items[index].Quantity = quantity
	l.items[index].recompute()
	return nil
}

// SetUnitPrice sets the unit price of the item at index.
func (l *Ledger) SetUnitPrice(index int, price decimal.Decimal) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: unit price %s is negative", ErrInvalidValue, price)
	}
	l.items[index].UnitPrice = price
	l.items[index].recompute()
	return nil
}

// Total returns the sum of all item amounts.
func (l *Ledger) Total() decimal.Decimal {
	return Total(l.items)
}

// Total sums the amounts of items.
func Total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d (have %d items)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// parseQuantity accepts whole numbers, optionally written with thousands
// separators ("1,200").
func parseQuantity(s string) (int64, error) {
	clean := cleanNumber(s)
	if clean == "" {
		return 0, nil
	}
	q, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q", ErrInvalidValue, s)
	}
	if q < 0 {
		return 0, fmt.Errorf("%w: quantity %d is negative", ErrInvalidValue, q)
	}
	return q, nil
}

// parseUnitPrice accepts decimal prices, optionally prefixed with the won
// sign and written with thousands separators ("₩ 12,500").
func parseUnitPrice(s string) (decimal.Decimal, error) {
	clean := strings.TrimPrefix(cleanNumber(s), "₩")
	if clean == "" {
		return decimal.Zero, nil
	}
	p, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unit price %q", ErrInvalidValue, s)
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price %s is negative", ErrInvalidValue, p)
	}
	return p, nil
}

func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", " ", "", "원", "").Replace(strings.TrimSpace(s))
}

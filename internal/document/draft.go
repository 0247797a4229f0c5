package document

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/salesdocs/internal/ledger"
	"github.com/ginjaninja78/salesdocs/internal/types"
)

// Draft is the input of a document run: the consultation it belongs to, the
// type-specific terms and the line items. Items come from the YAML list, the
// attached ledger, or both; ledger items come first.
type Draft struct {
	Type           types.DocumentType `yaml:"type"`
	ConsultationID string             `yaml:"consultation_id"`

	// ContactID and UserID default to the consultation's.
	ContactID string `yaml:"contact_id"`
	UserID    string `yaml:"user_id"`

	ValidUntil          string `yaml:"valid_until"`
	DeliveryPlace       string `yaml:"delivery_place"`
	DeliveryTerm        string `yaml:"delivery_term"`
	PaymentTerms        string `yaml:"payment_terms"`
	DeliveryDate        string `yaml:"delivery_date"`
	DesiredEstimateDate string `yaml:"desired_estimate_date"`
	RequestDate         string `yaml:"request_date"`
	Notes               string `yaml:"notes"`

	Items []DraftItem `yaml:"items"`

	// Ledger holds items imported from a sheet.
	Ledger *ledger.Ledger `yaml:"-"`
}

// DraftItem is a line item as written in a draft file. Quantity and unit
// price may be numbers or formatted text ("1,200", "₩ 12,500").
type DraftItem struct {
	Name      string `yaml:"name"`
	Spec      string `yaml:"spec"`
	Quantity  any    `yaml:"quantity"`
	UnitPrice any    `yaml:"unit_price"`
}

// LoadDraft reads a YAML draft file. Unknown keys are rejected.
func LoadDraft(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Draft
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse draft file: %w", err)
	}
	return &d, nil
}

// BuildLedger returns a new ledger with the draft's items. Every YAML item is
// added with the editing defaults and then filled field by field.
func (d *Draft) BuildLedger() (*ledger.Ledger, error) {
	l := &ledger.Ledger{}
	if d.Ledger != nil {
		var err error
		if l, err = ledger.New(d.Ledger.Items()...); err != nil {
			return nil, err
		}
	}

	for i, it := range d.Items {
		idx := l.Add()
		values := []struct {
			field ledger.Field
			value any
		}{
			{ledger.FieldName, it.Name},
			{ledger.FieldSpec, it.Spec},
			{ledger.FieldQuantity, it.Quantity},
			{ledger.FieldUnitPrice, it.UnitPrice},
		}
		for _, v := range values {
			if v.value == nil {
				continue
			}
			if err := l.UpdateField(idx, v.field, fmt.Sprint(v.value)); err != nil {
				return nil, fmt.Errorf("draft item %d: %w", i+1, err)
			}
		}
	}
	return l, nil
}

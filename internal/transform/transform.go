// =============================================================================
// salesdocs - Import Cleanup Rules
// =============================================================================
//
// This module rewrites cell values of imported item sheets before they reach
// the ledger. Supplier price lists rarely match our columns exactly: units are
// glued to quantities ("10EA"), prices carry currency words, names have stray
// whitespace.
//
// Rules are configured per item field under import_rules:
//
//   import_rules:
//     - field: quantity
//       actions:
//         - type: extract_digits
//     - field: spec
//       actions:
//         - type: if_empty_use_default
//           value: "-"
//
// Actions of a rule run in order. Rules for columns that are not in the sheet
// are ignored.
//
// =============================================================================

package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/ledger"
)

var (
	digits       = regexp.MustCompile(`\d+`)
	specialChars = regexp.MustCompile(`[^\p{L}\p{N}]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies the configured rules. The zero value applies none.
type Transformer struct {
	rules map[ledger.Field][]action
}

// action is a configured action with its pattern compiled.
type action struct {
	config.TransformationAction
	re *regexp.Regexp
}

// NewTransformer checks the rules and compiles their patterns.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{rules: make(map[ledger.Field][]action)}
	for _, rule := range rules {
		field, ok := ledger.FieldForHeader(rule.Field)
		if !ok {
			return nil, fmt.Errorf("import rule: unknown field %q", rule.Field)
		}
		for _, a := range rule.Actions {
			compiled := action{TransformationAction: a}
			switch a.Type {
			case "trim", "uppercase", "lowercase", "prepend_string", "append_string",
				"replace", "extract_digits", "remove_special_chars", "normalize_whitespace",
				"if_empty_use_default", "if_empty_use_field":
			case "regex_replace":
				re, err := regexp.Compile(a.Find)
				if err != nil {
					return nil, fmt.Errorf("import rule %s: invalid regex pattern: %w", rule.Field, err)
				}
				compiled.re = re
			default:
				return nil, fmt.Errorf("import rule %s: unknown action %q", rule.Field, a.Type)
			}
			t.rules[field] = append(t.rules[field], compiled)
		}
	}
	return t, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// Transform applies the rule for field to value.
//
// PARAMETERS:
//   - field: The item field of the cell.
//   - value: The cell value.
//   - allFields: The other cells of the row by field (for if_empty_use_field).
func (t *Transformer) Transform(field ledger.Field, value string, allFields map[ledger.Field]string) (string, error) {
	if t == nil {
		return value, nil
	}
	result := value
	for _, a := range t.rules[field] {
		var err error
		result, err = a.apply(result, allFields)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", a.Type, err)
		}
	}
	return result, nil
}

// ApplyRows transforms the item cells of non-blank rows in place. firstRow is the sheet
// row number of rows[0], used in error messages.
func (t *Transformer) ApplyRows(headers []string, rows [][]string, firstRow int) error {
	if t == nil || len(t.rules) == 0 {
		return nil
	}
	cols := make(map[int]ledger.Field)
	for i, h := range headers {
		if f, ok := ledger.FieldForHeader(h); ok {
			cols[i] = f
		}
	}

	for r, row := range rows {
		fields := make(map[ledger.Field]string, len(cols))
		blank := true
		for c, f := range cols {
			if c < len(row) {
				fields[f] = row[c]
				blank = blank && strings.TrimSpace(row[c]) == ""
			}
		}
		// Blank rows stay blank so the importer still skips them.
		if blank {
			continue
		}
		for c, f := range cols {
			if c >= len(row) {
				continue
			}
			v, err := t.Transform(f, row[c], fields)
			if err != nil {
				return fmt.Errorf("row %d: %s: %w", firstRow+r, f, err)
			}
			row[c] = v
		}
	}
	return nil
}

func (a action) apply(value string, allFields map[ledger.Field]string) (string, error) {
	switch a.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "prepend_string":
		return a.Value + value, nil

	case "append_string":
		return value + a.Value, nil

	case "replace":
		// "1,000원" with find "원" and value "" -> "1,000"
		if a.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, a.Find, a.Value), nil

	case "regex_replace":
		return a.re.ReplaceAllString(value, a.Value), nil

	case "extract_digits":
		// "10EA" -> "10"
		return strings.Join(digits.FindAllString(value, -1), ""), nil

	case "remove_special_chars":
		return specialChars.ReplaceAllString(value, ""), nil

	case "normalize_whitespace":
		return strings.TrimSpace(whitespace.ReplaceAllString(value, " ")), nil

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return a.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		if strings.TrimSpace(value) == "" {
			if f, ok := ledger.FieldForHeader(a.Value); ok {
				return allFields[f], nil
			}
		}
		return value, nil
	}
	return "", fmt.Errorf("unknown action %q", a.Type)
}

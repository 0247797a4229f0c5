// =============================================================================
// salesdocs - Validation Engine
// =============================================================================
//
// This module checks a document before it is numbered, rendered and stored.
// Errors are collected, not returned one at a time, so the user sees every
// missing field in one pass.
//
// RULES:
//   estimate          : contact, user, total amount not zero
//   order             : contact, user, delivery date, total amount not zero
//   quotation_request : contact, user, desired estimate date
//
//   All types         : dates are YYYY-MM-DD, payment terms are one of
//                       협의 / 정기결제 / 선현금결제
//
// SEVERITY:
//   "error"   : the document is rejected
//   "warning" : reported, the document is still saved (for example an item
//               without a name)
//
// =============================================================================

package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the content field that failed validation.
	Field string

	// Value is the offending value, if any.
	Value string

	// Rule names the violated rule ("required", "nonzero", "date", ...).
	Rule string

	// Message is a human-readable message.
	Message string

	// Item is the 1-based line item number, or 0 for document fields.
	Item int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	where := e.Field
	if e.Item > 0 {
		where = fmt.Sprintf("item %d %s", e.Item, e.Field)
	}
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), where, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')", strings.ToUpper(e.Severity), where, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes warnings reject the document.
	TreatWarningsAsErrors bool
}

// Validator checks documents.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks a document with default options and returns its findings.
func Validate(doc *types.Document) []*ValidationError {
	return NewValidator().ValidateDocument(doc).Errors
}

// ValidateDocument checks the document's references, its type-specific
// required fields and its line items.
func (v *Validator) ValidateDocument(doc *types.Document) *ValidationResult {
	var errs []*ValidationError
	errs = append(errs, requiredFields(doc)...)
	errs = append(errs, formatFields(&doc.Content)...)
	errs = append(errs, itemWarnings(doc.Content.Items)...)

	result := &ValidationResult{IsValid: true, Errors: errs}
	for _, e := range errs {
		if e.Severity == SeverityError {
			result.ErrorCount++
			result.IsValid = false
			continue
		}
		result.WarningCount++
		if v.options.TreatWarningsAsErrors {
			result.IsValid = false
		}
	}
	return result
}

// =============================================================================
// RULES
// =============================================================================

func requiredFields(doc *types.Document) []*ValidationError {
	var errs []*ValidationError
	required := func(field, value, label string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    field,
				Rule:     "required",
				Message:  label + " is required",
			})
		}
	}
	nonZeroTotal := func() {
		if doc.TotalAmount.IsZero() {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    "total_amount",
				Value:    doc.TotalAmount.String(),
				Rule:     "nonzero",
				Message:  "total amount must not be zero",
			})
		}
	}

	required("company_id", doc.CompanyID, "company")
	required("contact_id", doc.ContactID, "contact")
	required("user_id", doc.UserID, "user")

	switch doc.Type {
	case types.DocEstimate:
		nonZeroTotal()
	case types.DocOrder:
		required("delivery_date", doc.Content.DeliveryDate, "delivery date")
		nonZeroTotal()
	case types.DocQuotationRequest:
		required("desired_estimate_date", doc.Content.DesiredEstimateDate, "desired estimate date")
	default:
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "type",
			Value:    string(doc.Type),
			Rule:     "type",
			Message:  "unknown document type",
		})
	}
	return errs
}

func formatFields(c *types.Content) []*ValidationError {
	var errs []*ValidationError
	dates := []struct{ field, value string }{
		{"valid_until", c.ValidUntil},
		{"delivery_date", c.DeliveryDate},
		{"desired_estimate_date", c.DesiredEstimateDate},
		{"request_date", c.RequestDate},
	}
	for _, d := range dates {
		if msg := validateDate(d.value); msg != "" {
			errs = append(errs, &ValidationError{
				Severity: SeverityError,
				Field:    d.field,
				Value:    d.value,
				Rule:     "date",
				Message:  msg,
			})
		}
	}
	if c.PaymentTerms != "" && !slices.Contains(types.PaymentTerms, c.PaymentTerms) {
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    "payment_terms",
			Value:    c.PaymentTerms,
			Rule:     "enum",
			Message:  fmt.Sprintf("payment terms must be one of %s", strings.Join(types.PaymentTerms, ", ")),
		})
	}
	return errs
}

func itemWarnings(items []types.ContentItem) []*ValidationError {
	var errs []*ValidationError
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    "name",
				Rule:     "required",
				Message:  "item has no name",
				Item:     it.Number,
			})
		}
		if it.Quantity == 0 {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Field:    "quantity",
				Value:    "0",
				Rule:     "nonzero",
				Message:  "item quantity is zero",
				Item:     it.Number,
			})
		}
	}
	return errs
}

// validateDate returns a message when value is set and not YYYY-MM-DD.
func validateDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Sprintf("'%s' is not a YYYY-MM-DD date", value)
	}
	return ""
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors formats validation findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))
	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

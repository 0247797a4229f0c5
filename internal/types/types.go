// =============================================================================
// salesdocs - Shared Types
// =============================================================================
//
// This package contains the records shared by the store, the document
// generator and the exporters. Keeping them here avoids import cycles between:
//   - store
//   - document
//   - validation
//   - xmlwriter / xlsxwriter
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Content JSON keeps amounts as plain numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// DocumentType identifies the kind of commercial document.
type DocumentType string

const (
	DocEstimate         DocumentType = "estimate"
	DocOrder            DocumentType = "order"
	DocQuotationRequest DocumentType = "quotation_request"
)

// DocumentTypes lists every supported type in display order.
var DocumentTypes = []DocumentType{DocEstimate, DocOrder, DocQuotationRequest}

// ParseDocumentType validates a type name. The empty string selects estimate.
func ParseDocumentType(s string) (DocumentType, error) {
	if s == "" {
		return DocEstimate, nil
	}
	for _, t := range DocumentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Title returns the heading printed on the document.
func (t DocumentType) Title() string {
	switch t {
	case DocOrder:
		return "발주서"
	case DocQuotationRequest:
		return "견적의뢰서"
	default:
		return "견적서"
	}
}

// NumberPrefix returns the prefix of document numbers of this type.
func (t DocumentType) NumberPrefix() string {
	switch t {
	case DocOrder:
		return "ORD"
	case DocQuotationRequest:
		return "REQ"
	default:
		return "EST"
	}
}

// =============================================================================
// PAYMENT TERMS
// =============================================================================

// Payment terms offered on estimates and orders.
const (
	PaymentNegotiable = "협의"
	PaymentRegular    = "정기결제"
	PaymentPrepaid    = "선현금결제"
)

// PaymentTerms lists the accepted payment terms.
var PaymentTerms = []string{PaymentNegotiable, PaymentRegular, PaymentPrepaid}

// =============================================================================
// CONSULTATION STATUS AND PRIORITY
// =============================================================================

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Statuses and Priorities list the accepted consultation values.
var (
	Statuses   = []string{StatusPending, StatusCompleted, StatusCanceled}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

// =============================================================================
// RECORDS
// =============================================================================

// Company is a customer or supplier.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Fax       string    `json:"fax"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Contact is a person at a company.
type Contact struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	ContactName string `json:"contact_name"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	Level       int    `json:"level"`
}

// User is a member of our sales staff.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Consultation is one recorded customer conversation. Documents hang off it.
type Consultation struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	ContactID    string     `json:"contact_id"`
	UserID       string     `json:"user_id"`
	Date         time.Time  `json:"date"`
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Document is a generated estimate, order or quotation request.
type Document struct {
	ID             string          `json:"id"`
	DocumentNumber string          `json:"document_number"`
	Type           DocumentType    `json:"type"`
	CompanyID      string          `json:"company_id"`
	ConsultationID string          `json:"consultation_id"`
	ContactID      string          `json:"contact_id"`
	UserID         string          `json:"user_id"`
	CompanyName    string          `json:"company_name"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Content        Content         `json:"content"`
	FileURL        string          `json:"file_url"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DocumentRow is a document listing row joined with its consultation and
// author.
type DocumentRow struct {
	Document
	ConsultationStatus   string `json:"consultation_status"`
	ConsultationPriority string `json:"consultation_priority"`
	UserName             string `json:"user_name"`
}

// =============================================================================
// DOCUMENT CONTENT
// =============================================================================

// ContentItem is a numbered line item as stored in document content.
type ContentItem struct {
	Number    int             `json:"number"`
	Name      string          `json:"name"`
	Spec      string          `json:"spec"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// Content is the JSON body of a document. Fields that do not apply to the
// document's type are left empty and omitted.
type Content struct {
	Items        []ContentItem   `json:"items"`
	CompanyName  string          `json:"company_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	KoreanAmount string          `json:"korean_amount"`
	Notes        string          `json:"notes"`

	// estimate
	ValidUntil    string `json:"valid_until,omitempty"`
	DeliveryPlace string `json:"delivery_place,omitempty"`
	DeliveryTerm  string `json:"delivery_term,omitempty"`

	// estimate and order
	PaymentTerms string `json:"payment_terms,omitempty"`

	// order
	DeliveryDate string `json:"delivery_date,omitempty"`

	// quotation request
	DesiredEstimateDate string `json:"desired_estimate_date,omitempty"`
	RequestDate         string `json:"request_date,omitempty"`
}

// =============================================================================
// RENDERING
// =============================================================================

// Supplier is our own company as printed on documents.
type Supplier struct {
	Name               string `yaml:"name" json:"name"`
	RegistrationNumber string `yaml:"registration_number" json:"registration_number"`
	Representative     string `yaml:"representative" json:"representative"`
	Address            string `yaml:"address" json:"address"`
	Phone              string `yaml:"phone" json:"phone"`
	Fax                string `yaml:"fax" json:"fax"`
	Email              string `yaml:"email" json:"email"`
}

// Rendering is everything an exporter prints: the document and the parties
// it refers to.
type Rendering struct {
	Document Document
	Company  Company
	Contact  Contact
	User     User
	Supplier Supplier
}

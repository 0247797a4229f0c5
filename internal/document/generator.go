// =============================================================================
// salesdocs - Document Generator
// =============================================================================
//
// This module turns a draft into a stored, rendered commercial document. It
// orchestrates the whole pipeline for one document.
//
// GENERATION PIPELINE:
//   1. Load the consultation and its company
//   2. Build the ledger and total it
//   3. Write the total as Korean words
//   4. Build the type-specific content
//   5. Validate the required fields
//   6. Assign the ID and the document number (EST-20240502-0001)
//   7. Render every configured format and store the files
//   8. Persist the document and record metrics
//
// CONCURRENCY:
//   Run may be called from several goroutines. Steps 6 to 8 hold a mutex so
//   numbers are not handed out twice within one process; across processes
//   the unique index on document_number rejects the second insert.
//
// Rendered files are stored before the document row is written. A failed
// insert leaves the files behind; they are overwritten on the next run with
// the same name.
//
// =============================================================================

package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/blob"
	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/ledger"
	"github.com/ginjaninja78/salesdocs/internal/logging"
	"github.com/ginjaninja78/salesdocs/internal/metrics"
	"github.com/ginjaninja78/salesdocs/internal/store"
	"github.com/ginjaninja78/salesdocs/internal/types"
	"github.com/ginjaninja78/salesdocs/internal/validation"
	"github.com/ginjaninja78/salesdocs/pkg/utils"
)

// ErrInvalidDocument is returned when validation rejects a draft.
var ErrInvalidDocument = errors.New("document failed validation")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of generating or exporting one document.
type Result struct {
	Document types.Document

	// Files lists the stored renderings in the configured format order.
	Files []File

	// Findings holds validation warnings, or the errors that rejected the
	// draft.
	Findings []*validation.ValidationError

	Stats Stats
}

// File is one stored rendering.
type File struct {
	Format string
	Key    string
	URL    string
	Size   int
}

// Stats contains statistics about a run.
type Stats struct {
	Items          int
	Warnings       int
	ProcessingTime time.Duration
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator creates and exports documents.
type Generator struct {
	store     *store.Store
	blobs     blob.Store
	metrics   *metrics.Metrics
	log       logging.Logger
	output    config.OutputConfig
	supplier  types.Supplier
	formatter amount.Formatter
	validator *validation.Validator
	now       func() time.Time

	// numbering serialises number assignment through persistence.
	numbering sync.Mutex
}

// New creates a Generator. A nil logger discards messages.
func New(st *store.Store, blobs blob.Store, m *metrics.Metrics, cfg *config.Config, log logging.Logger) *Generator {
	if log == nil {
		log = logging.Nop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Generator{
		store:     st,
		blobs:     blobs,
		metrics:   m,
		log:       log,
		output:    cfg.Output,
		supplier:  cfg.Supplier,
		formatter: amount.Formatter{Style: cfg.NumeralStyle()},
		validator: validation.NewValidator(),
		now:       time.Now,
	}
}

// Run executes the generation pipeline for a draft.
func (g *Generator) Run(ctx context.Context, draft *Draft) (*Result, error) {
	start := g.now()
	result := &Result{}

	docType, err := types.ParseDocumentType(string(draft.Type))
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 1: CONSULTATION AND PARTIES
	// =========================================================================

	g.log.Info("Generating %s for consultation %s", docType, draft.ConsultationID)

	consultation, err := g.store.GetConsultation(ctx, draft.ConsultationID)
	if err != nil {
		return result, fmt.Errorf("failed to load consultation: %w", err)
	}
	company, err := g.store.GetCompany(ctx, consultation.CompanyID)
	if err != nil {
		return result, fmt.Errorf("failed to load company: %w", err)
	}

	doc := types.Document{
		Type:           docType,
		CompanyID:      company.ID,
		ConsultationID: consultation.ID,
		ContactID:      firstNonEmpty(draft.ContactID, consultation.ContactID),
		UserID:         firstNonEmpty(draft.UserID, consultation.UserID),
		CompanyName:    company.Name,
	}
	view, err := g.rendering(ctx, doc, &company)
	if err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 2-3: LEDGER, TOTAL AND KOREAN WORDS
	// =========================================================================

	l, err := draft.BuildLedger()
	if err != nil {
		return result, fmt.Errorf("failed to build items: %w", err)
	}
	result.Stats.Items = l.Len()

	total := l.Total()
	won, err := amount.WholeWon(total)
	if err != nil {
		return result, fmt.Errorf("document total: %w", err)
	}
	words, err := g.formatter.Format(won)
	if err != nil {
		return result, err
	}
	g.log.Debug("Total %s (%s) over %d items", amount.FormatWon(won), words, l.Len())

	// =========================================================================
	// STEP 4-5: CONTENT AND VALIDATION
	// =========================================================================

	doc.TotalAmount = total
	doc.Content = buildContent(docType, draft, l, company.Name, words)
	if docType == types.DocQuotationRequest && doc.Content.RequestDate == "" {
		doc.Content.RequestDate = start.Format("2006-01-02")
	}

	check := g.validator.ValidateDocument(&doc)
	result.Findings = check.Errors
	result.Stats.Warnings = check.WarningCount
	for _, f := range check.Errors {
		g.log.Warn("Validation: %s", f.Error())
	}
	if !check.IsValid {
		return result, fmt.Errorf("%w: %d error(s)", ErrInvalidDocument, check.ErrorCount)
	}

	// =========================================================================
	// STEP 6: IDENTITY AND NUMBER
	// =========================================================================

	g.numbering.Lock()
	defer g.numbering.Unlock()

	now := g.now()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	if doc.DocumentNumber, err = g.nextNumber(ctx, docType, now); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 7: RENDER AND STORE
	// =========================================================================

	view.Document = doc
	files, err := g.storeFiles(ctx, view)
	if err != nil {
		return result, err
	}
	result.Files = files
	if len(files) > 0 {
		doc.FileURL = files[0].URL
	}

	// =========================================================================
	// STEP 8: PERSIST
	// =========================================================================

	if err := g.store.CreateDocument(ctx, &doc); err != nil {
		return result, fmt.Errorf("failed to save document: %w", err)
	}
	g.metrics.DocumentCreated(docType, won)

	result.Document = doc
	result.Stats.ProcessingTime = g.now().Sub(start)
	g.log.Info("Created %s %s (%s)", docType.Title(), doc.DocumentNumber, amount.FormatWon(won))
	return result, nil
}

// Export renders a stored document again in the given formats, or in the
// configured formats when none are given, and records the new file URL.
func (g *Generator) Export(ctx context.Context, id string, formats ...string) (*Result, error) {
	start := g.now()
	result := &Result{}

	doc, err := g.store.GetDocument(ctx, id)
	if err != nil {
		return result, err
	}
	result.Stats.Items = len(doc.Content.Items)

	view, err := g.rendering(ctx, doc, nil)
	if err != nil {
		return result, err
	}

	files, err := g.storeFiles(ctx, view, formats...)
	if err != nil {
		return result, err
	}
	result.Files = files
	if len(files) > 0 && files[0].URL != doc.FileURL {
		if err := g.store.SetDocumentFileURL(ctx, doc.ID, files[0].URL); err != nil {
			return result, err
		}
		doc.FileURL = files[0].URL
	}

	result.Document = doc
	result.Stats.ProcessingTime = g.now().Sub(start)
	g.log.Info("Exported %s to %d file(s)", doc.DocumentNumber, len(files))
	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// rendering loads the parties a document refers to. Empty references are
// left blank for validation to report.
func (g *Generator) rendering(ctx context.Context, doc types.Document, company *types.Company) (types.Rendering, error) {
	view := types.Rendering{Document: doc, Supplier: g.supplier}

	if company != nil {
		view.Company = *company
	} else if doc.CompanyID != "" {
		c, err := g.store.GetCompany(ctx, doc.CompanyID)
		if err != nil {
			return view, fmt.Errorf("failed to load company: %w", err)
		}
		view.Company = c
	}
	if doc.ContactID != "" {
		c, err := g.store.GetContact(ctx, doc.ContactID)
		if err != nil {
			return view, fmt.Errorf("failed to load contact: %w", err)
		}
		view.Contact = c
	}
	if doc.UserID != "" {
		u, err := g.store.GetUser(ctx, doc.UserID)
		if err != nil {
			return view, fmt.Errorf("failed to load user: %w", err)
		}
		view.User = u
	}
	return view, nil
}

// nextNumber returns PREFIX-YYYYMMDD-NNNN, counting the documents of the
// type created on the same day. The unique index on document_number rejects
// a number taken concurrently.
func (g *Generator) nextNumber(ctx context.Context, t types.DocumentType, now time.Time) (string, error) {
	n, err := g.store.CountDocumentsOn(ctx, t, now)
	if err != nil {
		return "", fmt.Errorf("failed to number document: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", t.NumberPrefix(), now.Format("20060102"), n+1), nil
}

// storeFiles renders the document in each format and puts the files to blob
// storage.
func (g *Generator) storeFiles(ctx context.Context, view types.Rendering, formats ...string) ([]File, error) {
	if len(formats) == 0 {
		formats = g.output.Formats
	}
	doc := view.Document
	params := map[string]string{
		"uuid":    doc.ID,
		"number":  doc.DocumentNumber,
		"type":    string(doc.Type),
		"company": doc.CompanyName,
	}

	var files []File
	for _, format := range formats {
		data, err := Render(format, view)
		if err != nil {
			g.metrics.ExportFailed(format)
			return files, fmt.Errorf("failed to render %s: %w", format, err)
		}
		key := utils.GenerateOutputFileNameAt(g.output.FileNameFormat, params, format, doc.CreatedAt)
		url, err := g.blobs.Put(ctx, key, data, blob.ContentType(format))
		if err != nil {
			g.metrics.ExportFailed(format)
			return files, fmt.Errorf("failed to store %s: %w", format, err)
		}
		g.log.Debug("Stored %s (%d bytes) at %s", key, len(data), url)
		files = append(files, File{Format: format, Key: key, URL: url, Size: len(data)})
	}
	return files, nil
}

// buildContent numbers the items and fills the fields of the document type.
func buildContent(t types.DocumentType, d *Draft, l *ledger.Ledger, company, words string) types.Content {
	c := types.Content{
		CompanyName:  company,
		TotalAmount:  l.Total(),
		KoreanAmount: words,
		Notes:        d.Notes,
	}
	for i, it := range l.Items() {
		c.Items = append(c.Items, types.ContentItem{
			Number:    i + 1,
			Name:      it.Name,
			Spec:      it.Spec,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Amount:    it.Amount,
		})
	}

	switch t {
	case types.DocEstimate:
		c.ValidUntil = d.ValidUntil
		c.DeliveryPlace = d.DeliveryPlace
		c.DeliveryTerm = d.DeliveryTerm
		c.PaymentTerms = firstNonEmpty(d.PaymentTerms, types.PaymentNegotiable)
	case types.DocOrder:
		c.DeliveryDate = d.DeliveryDate
		c.PaymentTerms = firstNonEmpty(d.PaymentTerms, types.PaymentNegotiable)
	case types.DocQuotationRequest:
		c.DesiredEstimateDate = d.DesiredEstimateDate
		c.RequestDate = d.RequestDate
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

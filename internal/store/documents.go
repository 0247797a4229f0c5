package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

const documentColumns = "d.id, d.document_number, d.type, d.company_id, d.consultation_id, d.contact_id, " +
	"d.user_id, d.company_name, d.total_amount, d.content, d.file_url, d.created_at"

// DocumentFilter narrows a document listing.
type DocumentFilter struct {
	// Type defaults to estimate unless ConsultationID is set, in which case
	// an empty Type lists every type.
	Type types.DocumentType

	// ConsultationID limits the listing to one consultation's documents.
	ConsultationID string

	// Start and End bound the creation day, both inclusive. Zero values
	// leave the range open.
	Start time.Time
	End   time.Time

	// CompanyName and UserName match substrings, ignoring case.
	CompanyName string
	UserName    string
}

// CreateDocument inserts d. The ID and creation time are assigned when unset.
func (s *Store) CreateDocument(ctx context.Context, d *types.Document) error {
	if d.DocumentNumber == "" {
		return fmt.Errorf("%w: document number is required", ErrInvalid)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}
	content, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	_, err = s.exec(ctx, `INSERT INTO documents (id, document_number, type, company_id, consultation_id, contact_id,
		user_id, company_name, total_amount, content, file_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DocumentNumber, string(d.Type), d.CompanyID, d.ConsultationID, d.ContactID,
		d.UserID, d.CompanyName, d.TotalAmount.String(), string(content), d.FileURL, formatTime(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	s.log.Debug("stored document %s", d.DocumentNumber)
	return nil
}

// GetDocument returns the document with the given ID.
func (s *Store) GetDocument(ctx context.Context, id string) (types.Document, error) {
	d, err := scanDocument(s.queryRow(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = ?`, id))
	if err != nil {
		return types.Document{}, notFound(err, "document", id)
	}
	return d, nil
}

// SetDocumentFileURL records where the rendered document was stored.
func (s *Store) SetDocumentFileURL(ctx context.Context, id, url string) error {
	res, err := s.exec(ctx, `UPDATE documents SET file_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return affected(res, "document", id)
}

// CountDocumentsOn counts documents of a type created on day's calendar date.
func (s *Store) CountDocumentsOn(ctx context.Context, t types.DocumentType, day time.Time) (int, error) {
	start := dayStart(day)
	var w filter
	w.add("d.type = ?", string(t))
	w.add("d.created_at >= ?", formatTime(start))
	w.add("d.created_at < ?", formatTime(start.AddDate(0, 0, 1)))
	return s.count(ctx, "documents d", &w)
}

// ListDocuments returns documents newest first, joined with their
// consultation's status and priority and the author's name.
func (s *Store) ListDocuments(ctx context.Context, f DocumentFilter, page Page) (Result[types.DocumentRow], error) {
	page = page.normalize(10)
	if f.Type == "" && f.ConsultationID == "" {
		f.Type = types.DocEstimate
	}

	const from = "documents d LEFT JOIN consultations c ON c.id = d.consultation_id LEFT JOIN users u ON u.id = d.user_id"

	var w filter
	if f.Type != "" {
		w.add("d.type = ?", string(f.Type))
	}
	if f.ConsultationID != "" {
		w.add("d.consultation_id = ?", f.ConsultationID)
	}
	if !f.Start.IsZero() {
		w.add("d.created_at >= ?", formatTime(dayStart(f.Start)))
	}
	if !f.End.IsZero() {
		w.add("d.created_at < ?", formatTime(dayStart(f.End).AddDate(0, 0, 1)))
	}
	w.contains("d.company_name", f.CompanyName)
	w.contains("COALESCE(u.name, '')", f.UserName)

	total, err := s.count(ctx, from, &w)
	if err != nil {
		return Result[types.DocumentRow]{}, err
	}

	args := append(w.args, page.Size, page.offset())
	rows, err := s.query(ctx, `SELECT `+documentColumns+`, COALESCE(c.status, ''), COALESCE(c.priority, ''), COALESCE(u.name, '')
		FROM `+from+w.where()+` ORDER BY d.created_at DESC, d.document_number DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return Result[types.DocumentRow]{}, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := Result[types.DocumentRow]{Total: total, Page: page}
	for rows.Next() {
		var r types.DocumentRow
		d, err := scanDocument(rows, &r.ConsultationStatus, &r.ConsultationPriority, &r.UserName)
		if err != nil {
			return Result[types.DocumentRow]{}, err
		}
		r.Document = d
		out.Items = append(out.Items, r)
	}
	return out, rows.Err()
}

func scanDocument(sc scanner, extra ...any) (types.Document, error) {
	var (
		d                types.Document
		typ, content, ts string
	)
	dest := append([]any{&d.ID, &d.DocumentNumber, &typ, &d.CompanyID, &d.ConsultationID, &d.ContactID,
		&d.UserID, &d.CompanyName, &d.TotalAmount, &content, &d.FileURL, &ts}, extra...)
	if err := sc.Scan(dest...); err != nil {
		return types.Document{}, err
	}
	d.Type = types.DocumentType(typ)
	if err := json.Unmarshal([]byte(content), &d.Content); err != nil {
		return types.Document{}, fmt.Errorf("decode content of %s: %w", d.DocumentNumber, err)
	}
	created, err := parseTime(ts)
	if err != nil {
		return types.Document{}, err
	}
	d.CreatedAt = created
	return d, nil
}

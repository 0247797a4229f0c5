package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

const consultationColumns = "id, company_id, contact_id, user_id, date, content, status, priority, follow_up_date, created_at"

// ConsultationField names a consultation field that can be changed after
// creation.
type ConsultationField string

const (
	ConsultationStatus   ConsultationField = "status"
	ConsultationPriority ConsultationField = "priority"
	ConsultationFollowUp ConsultationField = "follow_up_date"
	ConsultationContent  ConsultationField = "content"
)

// CreateConsultation inserts a consultation. Status defaults to pending and
// priority to medium; the date defaults to now.
func (s *Store) CreateConsultation(ctx context.Context, c *types.Consultation) error {
	if _, err := s.GetCompany(ctx, c.CompanyID); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = types.StatusPending
	}
	if c.Priority == "" {
		c.Priority = types.PriorityMedium
	}
	if !slices.Contains(types.Statuses, c.Status) {
		return fmt.Errorf("%w: status %q", ErrInvalid, c.Status)
	}
	if !slices.Contains(types.Priorities, c.Priority) {
		return fmt.Errorf("%w: priority %q", ErrInvalid, c.Priority)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.Date.IsZero() {
		c.Date = c.CreatedAt
	}

	_, err := s.exec(ctx, `INSERT INTO consultations (`+consultationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CompanyID, c.ContactID, c.UserID, formatTime(c.Date), c.Content,
		c.Status, c.Priority, nullTime(c.FollowUpDate), formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

// GetConsultation returns the consultation with the given ID.
func (s *Store) GetConsultation(ctx context.Context, id string) (types.Consultation, error) {
	c, err := scanConsultation(s.queryRow(ctx, `SELECT `+consultationColumns+` FROM consultations WHERE id = ?`, id))
	if err != nil {
		return types.Consultation{}, notFound(err, "consultation", id)
	}
	return c, nil
}

// UpdateConsultation changes one field of a consultation. Status and priority
// must be known values; an empty follow-up date clears it.
func (s *Store) UpdateConsultation(ctx context.Context, id string, field ConsultationField, value string) error {
	var arg any = value
	switch field {
	case ConsultationStatus:
		if !slices.Contains(types.Statuses, value) {
			return fmt.Errorf("%w: status %q", ErrInvalid, value)
		}
	case ConsultationPriority:
		if !slices.Contains(types.Priorities, value) {
			return fmt.Errorf("%w: priority %q", ErrInvalid, value)
		}
	case ConsultationFollowUp:
		if value == "" {
			arg = sql.NullString{}
			break
		}
		d, err := ParseDate(value)
		if err != nil {
			return err
		}
		arg = nullTime(&d)
	case ConsultationContent:
	default:
		return fmt.Errorf("%w: consultation field %q cannot be updated", ErrInvalid, field)
	}

	res, err := s.exec(ctx, `UPDATE consultations SET `+string(field)+` = ? WHERE id = ?`, arg, id)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	return affected(res, "consultation", id)
}

// ListConsultations returns the consultations of a company, newest first.
func (s *Store) ListConsultations(ctx context.Context, companyID string, page Page) (Result[types.Consultation], error) {
	page = page.normalize(5)

	var w filter
	w.add("company_id = ?", companyID)

	total, err := s.count(ctx, "consultations", &w)
	if err != nil {
		return Result[types.Consultation]{}, err
	}

	args := append(w.args, page.Size, page.offset())
	rows, err := s.query(ctx, `SELECT `+consultationColumns+` FROM consultations`+w.where()+
		` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return Result[types.Consultation]{}, fmt.Errorf("list consultations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := Result[types.Consultation]{Total: total, Page: page}
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return Result[types.Consultation]{}, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

func scanConsultation(sc scanner) (types.Consultation, error) {
	var (
		c             types.Consultation
		date, created string
		followUp      sql.NullString
	)
	if err := sc.Scan(&c.ID, &c.CompanyID, &c.ContactID, &c.UserID, &date, &c.Content,
		&c.Status, &c.Priority, &followUp, &created); err != nil {
		return types.Consultation{}, err
	}

	var err error
	if c.Date, err = parseTime(date); err != nil {
		return types.Consultation{}, err
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return types.Consultation{}, err
	}
	if followUp.Valid {
		t, err := parseTime(followUp.String)
		if err != nil {
			return types.Consultation{}, err
		}
		c.FollowUpDate = &t
	}
	return c, nil
}

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

const companyColumns = "id, name, address, phone, fax, email, notes, created_at"

// CompanyFilter narrows a company listing.
type CompanyFilter struct {
	// Search matches a substring of the company name, ignoring case.
	Search string
}

// CreateCompany inserts c, assigning its ID and creation time.
func (s *Store) CreateCompany(ctx context.Context, c *types.Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalid)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	_, err := s.exec(ctx, `INSERT INTO companies (`+companyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Address, c.Phone, c.Fax, c.Email, c.Notes, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	s.log.Debug("created company %s (%s)", c.Name, c.ID)
	return nil
}

// GetCompany returns the company with the given ID.
func (s *Store) GetCompany(ctx context.Context, id string) (types.Company, error) {
	c, err := scanCompany(s.queryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
	if err != nil {
		return types.Company{}, notFound(err, "company", id)
	}
	return c, nil
}

// UpdateCompanyNotes replaces the free-form notes of a company.
func (s *Store) UpdateCompanyNotes(ctx context.Context, id, notes string) error {
	res, err := s.exec(ctx, `UPDATE companies SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return fmt.Errorf("update company notes: %w", err)
	}
	return affected(res, "company", id)
}

// ListCompanies returns companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context, f CompanyFilter, page Page) (Result[types.Company], error) {
	page = page.normalize(10)

	var w filter
	w.contains("name", f.Search)

	total, err := s.count(ctx, "companies", &w)
	if err != nil {
		return Result[types.Company]{}, err
	}

	args := append(w.args, page.Size, page.offset())
	rows, err := s.query(ctx, `SELECT `+companyColumns+` FROM companies`+w.where()+
		` ORDER BY name ASC, id ASC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return Result[types.Company]{}, fmt.Errorf("list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := Result[types.Company]{Total: total, Page: page}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return Result[types.Company]{}, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(sc scanner) (types.Company, error) {
	var c types.Company
	var created string
	if err := sc.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Fax, &c.Email, &c.Notes, &created); err != nil {
		return types.Company{}, err
	}
	t, err := parseTime(created)
	if err != nil {
		return types.Company{}, err
	}
	c.CreatedAt = t
	return c, nil
}

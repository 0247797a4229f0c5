package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

// =============================================================================
// CONTACTS
// =============================================================================

const contactColumns = "id, company_id, contact_name, department, position, mobile, email, level"

// CreateContact inserts a contact for an existing company.
func (s *Store) CreateContact(ctx context.Context, c *types.Contact) error {
	if strings.TrimSpace(c.ContactName) == "" {
		return fmt.Errorf("%w: contact name is required", ErrInvalid)
	}
	if _, err := s.GetCompany(ctx, c.CompanyID); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.exec(ctx, `INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CompanyID, c.ContactName, c.Department, c.Position, c.Mobile, c.Email, c.Level)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetContact returns the contact with the given ID.
func (s *Store) GetContact(ctx context.Context, id string) (types.Contact, error) {
	var c types.Contact
	err := s.queryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id).
		Scan(&c.ID, &c.CompanyID, &c.ContactName, &c.Department, &c.Position, &c.Mobile, &c.Email, &c.Level)
	if err != nil {
		return types.Contact{}, notFound(err, "contact", id)
	}
	return c, nil
}

// ListContacts returns the contacts of a company ordered by name.
func (s *Store) ListContacts(ctx context.Context, companyID string) ([]types.Contact, error) {
	rows, err := s.query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE company_id = ? ORDER BY contact_name ASC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.Contact
	for rows.Next() {
		var c types.Contact
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ContactName, &c.Department, &c.Position, &c.Mobile, &c.Email, &c.Level); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts a staff member.
func (s *Store) CreateUser(ctx context.Context, u *types.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalid)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := s.exec(ctx, `INSERT INTO users (id, name, level) VALUES (?, ?, ?)`, u.ID, u.Name, u.Level); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id string) (types.User, error) {
	var u types.User
	if err := s.queryRow(ctx, `SELECT id, name, level FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name, &u.Level); err != nil {
		return types.User{}, notFound(err, "user", id)
	}
	return u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.query(ctx, `SELECT id, name, level FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Level); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// =============================================================================
// salesdocs - Record Store
// =============================================================================
//
// The store owns the five record sets of the application (companies,
// contacts, users, consultations, documents) on top of database/sql. Two
// drivers are supported:
//   sqlite : modernc.org/sqlite, a file on disk (default)
//   pgx    : PostgreSQL through github.com/jackc/pgx/v5/stdlib
//
// Queries are written once with "?" placeholders and rebound to "$n" for
// PostgreSQL. Timestamps are stored as fixed-width UTC text so that range
// filters and ordering work the same on both engines.
//
// =============================================================================

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/ginjaninja78/salesdocs/internal/logging"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalid is returned when a record or update fails a store-level check.
var ErrInvalid = errors.New("invalid record")

// timeLayout keeps every stored timestamp the same width so text comparison
// orders them chronologically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// dateLayout is used for calendar dates given on the command line.
const dateLayout = "2006-01-02"

// Store is a handle on the record database. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	driver string
	log    logging.Logger
	now    func() time.Time
}

// Open connects to the database and creates missing tables.
func Open(ctx context.Context, driver, dsn string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	switch driver {
	case "sqlite":
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
				return nil, fmt.Errorf("create dirs: %w", err)
			}
		}
	case "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// One writer at a time avoids SQLITE_BUSY under the pool.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver, log: log, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("opened %s store", driver)
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the database driver name.
func (s *Store) Driver() string { return s.driver }

// =============================================================================
// SCHEMA
// =============================================================================

var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		fax TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		contact_name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		mobile TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS consultations (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		contact_id TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		priority TEXT NOT NULL DEFAULT 'medium',
		follow_up_date TEXT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		document_number TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		company_id TEXT NOT NULL,
		consultation_id TEXT NOT NULL DEFAULT '',
		contact_id TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL DEFAULT '0',
		content TEXT NOT NULL,
		file_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_consultations_company ON consultations (company_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_type_created ON documents (type, created_at)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// =============================================================================
// PAGINATION
// =============================================================================

// Page selects one page of a listing. Numbers start at 1.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	return p
}

func (p Page) offset() int { return (p.Number - 1) * p.Size }

// Result is one page of records with the exact number of matching records.
type Result[T any] struct {
	Items []T
	Total int
	Page  Page
}

// TotalPages returns ceil(Total / Page.Size).
func (r Result[T]) TotalPages() int {
	if r.Page.Size < 1 {
		return 0
	}
	return (r.Total + r.Page.Size - 1) / r.Page.Size
}

// =============================================================================
// QUERY HELPERS
// =============================================================================

// filter accumulates WHERE conditions with their arguments.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, args ...any) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

// contains adds a case-insensitive substring match on column.
func (f *filter) contains(column, term string) {
	if term == "" {
		return
	}
	f.add("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", "%"+escapeLike(term)+"%")
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// rebind rewrites "?" placeholders for the active driver.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '?' && !inQuote:
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

func (s *Store) count(ctx context.Context, from string, f *filter) (int, error) {
	var n int
	if err := s.queryRow(ctx, "SELECT COUNT(*) FROM "+from+f.where(), f.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// affected turns a zero-row update into ErrNotFound.
func affected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("get %s %s: %w", what, id, err)
}

// =============================================================================
// TIME ENCODING
// =============================================================================

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored time %q: %w", s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// ParseDate parses a YYYY-MM-DD date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalid, s)
	}
	return t, nil
}

// dayStart returns local midnight of t's day.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package foodies

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MealStore is the persistence layer holding all meals. Meals are only ever
// inserted; there is no update or delete.
type MealStore interface {
	// ListMeals returns every meal in insertion order.
	ListMeals(ctx context.Context) ([]Meal, error)
	// GetMeal returns the meal with slug, or ErrNotFound.
	GetMeal(ctx context.Context, slug string) (Meal, error)
	// InsertMeal persists m. A duplicate slug yields a *SlugConflictError.
	InsertMeal(ctx context.Context, m Meal) error
	Close() error
}

// Store wraps a SQLite database and implements MealStore.
type Store struct {
	db *sql.DB
}

var _ MealStore = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// sqlitePragmas run on every pooled connection as it is opened. WAL lets
// readers proceed during a write; the busy timeout makes writers wait for the
// lock instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"cache_size(-8000)",
}

// sqliteDSN appends sqlitePragmas to path as _pragma query parameters.
func sqliteDSN(path string) string {
	q := url.Values{"_pragma": sqlitePragmas}
	return path + "?" + q.Encode()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS meals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    instructions TEXT NOT NULL,
    creator TEXT NOT NULL,
    creator_email TEXT NOT NULL,
    image TEXT NOT NULL
);
`)
	return err
}

// ListMeals returns all meals ordered by insertion.
func (s *Store) ListMeals(ctx context.Context) ([]Meal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, title, summary, instructions, creator, creator_email, image FROM meals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var m Meal
		if err := rows.Scan(&m.Slug, &m.Title, &m.Summary, &m.Instructions, &m.Creator, &m.CreatorEmail, &m.Image); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meals, nil
}

// GetMeal returns a single meal by slug.
func (s *Store) GetMeal(ctx context.Context, slug string) (Meal, error) {
	m := Meal{Slug: slug}
	err := s.db.QueryRowContext(ctx, `SELECT title, summary, instructions, creator, creator_email, image FROM meals WHERE slug = ?`, slug).
		Scan(&m.Title, &m.Summary, &m.Instructions, &m.Creator, &m.CreatorEmail, &m.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return Meal{}, ErrNotFound
	}
	if err != nil {
		return Meal{}, err
	}
	return m, nil
}

// InsertMeal adds a new meal. It never overwrites an existing row.
func (s *Store) InsertMeal(ctx context.Context, m Meal) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO meals (slug, title, summary, instructions, creator, creator_email, image) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Slug, m.Title, m.Summary, m.Instructions, m.Creator, m.CreatorEmail, m.Image)
	if isUniqueViolation(err) {
		return &SlugConflictError{Slug: m.Slug}
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

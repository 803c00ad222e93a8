// Package postgres implements foodies.MealStore on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eringen/foodies"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is a pgxpool-backed meal store.
type Store struct {
	pool *pgxpool.Pool
}

var _ foodies.MealStore = (*Store)(nil)

// IsURL reports whether dsn should be opened with this package rather than
// as a SQLite file path.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// New connects to the database at connStr and creates the schema.
func New(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS meals (
    id BIGSERIAL PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    instructions TEXT NOT NULL,
    creator TEXT NOT NULL,
    creator_email TEXT NOT NULL,
    image TEXT NOT NULL
)`)
	return err
}

// ListMeals returns all meals ordered by insertion.
func (s *Store) ListMeals(ctx context.Context) ([]foodies.Meal, error) {
	rows, err := s.pool.Query(ctx, `SELECT slug, title, summary, instructions, creator, creator_email, image FROM meals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []foodies.Meal
	for rows.Next() {
		var m foodies.Meal
		if err := rows.Scan(&m.Slug, &m.Title, &m.Summary, &m.Instructions, &m.Creator, &m.CreatorEmail, &m.Image); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetMeal returns a single meal by slug, or foodies.ErrNotFound.
func (s *Store) GetMeal(ctx context.Context, slug string) (foodies.Meal, error) {
	m := foodies.Meal{Slug: slug}
	err := s.pool.QueryRow(ctx, `SELECT title, summary, instructions, creator, creator_email, image FROM meals WHERE slug = $1`, slug).
		Scan(&m.Title, &m.Summary, &m.Instructions, &m.Creator, &m.CreatorEmail, &m.Image)
	if errors.Is(err, pgx.ErrNoRows) {
		return foodies.Meal{}, foodies.ErrNotFound
	}
	if err != nil {
		return foodies.Meal{}, err
	}
	return m, nil
}

// InsertMeal adds a new meal, reporting a duplicate slug as a
// *foodies.SlugConflictError.
func (s *Store) InsertMeal(ctx context.Context, m foodies.Meal) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO meals (slug, title, summary, instructions, creator, creator_email, image) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.Slug, m.Title, m.Summary, m.Instructions, m.Creator, m.CreatorEmail, m.Image)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &foodies.SlugConflictError{Slug: m.Slug}
	}
	return err
}

// truncate empties the table; tests use it to start from a clean slate.
func (s *Store) truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE meals RESTART IDENTITY`)
	return err
}

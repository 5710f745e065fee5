// Package directory resolves employees against the organogram reference table.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dragon-learning/hr-backend/internal/models"
)

// NotFoundError reports an email with no organogram entry. This is an
// expected outcome surfaced to the user, not a transport failure.
type NotFoundError struct {
	Email string // normalized
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Email '%s' não encontrado no organograma", e.Email)
}

// Repository handles organogram lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Normalize lowercases and trims an employee identifier for matching.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Lookup returns the employee record for an email, matched after
// normalization. Returns *NotFoundError when the email has no entry.
func (r *Repository) Lookup(ctx context.Context, email string) (*models.Employee, error) {
	normalized := Normalize(email)
	const q = `SELECT id, email, manager, tribe, area, created_at, updated_at
		FROM employees WHERE LOWER(TRIM(email)) = $1`
	var e models.Employee
	err := r.pool.QueryRow(ctx, q, normalized).
		Scan(&e.ID, &e.Email, &e.Manager, &e.Tribe, &e.Area, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Email: normalized}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	return &e, nil
}

// List returns all organogram rows, ordered by email.
func (r *Repository) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, manager, tribe, area, created_at, updated_at
		FROM employees ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Email, &e.Manager, &e.Tribe, &e.Area, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Upsert inserts or refreshes an organogram row (admin sync from the
// external HR source).
func (r *Repository) Upsert(ctx context.Context, e *models.Employee) error {
	const q = `INSERT INTO employees (email, manager, tribe, area)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (LOWER(TRIM(email))) DO UPDATE
		SET manager = EXCLUDED.manager, tribe = EXCLUDED.tribe, area = EXCLUDED.area, updated_at = NOW()
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, Normalize(e.Email), e.Manager, e.Tribe, e.Area).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

package vacations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/models"
)

const eventColumns = `id, recorded_at, email, action, leave_start, leave_return, business_days, notes,
		original_leave_start, original_leave_return, original_business_days, justification, contract_type`

// Repository persists the append-only vacation event log. Only INSERT and
// SELECT are issued against vacation_events; corrections happen through
// cancellation events, never row edits.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a vacation event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append inserts one event. The database stamps recorded_at; the row is
// returned with its id and timestamp filled in.
func (r *Repository) Append(ctx context.Context, ev *models.VacationEvent) error {
	const q = `INSERT INTO vacation_events
		(email, action, leave_start, leave_return, business_days, notes,
		 original_leave_start, original_leave_return, original_business_days, justification, contract_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10,''), $11)
		RETURNING id, recorded_at`
	err := r.pool.QueryRow(ctx, q,
		directory.Normalize(ev.Email), ev.Action, ev.LeaveStart, ev.LeaveReturn, ev.BusinessDays, ev.Notes,
		ev.OriginalLeaveStart, ev.OriginalLeaveReturn, ev.OriginalBusinessDays, ev.Justification, ev.ContractType,
	).Scan(&ev.ID, &ev.RecordedAt)
	if err != nil {
		return fmt.Errorf("append vacation event: %w", err)
	}
	return nil
}

// GetByID returns one event.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.VacationEvent, error) {
	q := `SELECT ` + eventColumns + ` FROM vacation_events WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ev, err
}

// ListByEmail returns the full history for an employee, oldest first.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]models.VacationEvent, error) {
	q := `SELECT ` + eventColumns + ` FROM vacation_events
		WHERE LOWER(email) = $1 ORDER BY recorded_at`
	rows, err := r.pool.Query(ctx, q, directory.Normalize(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListAll returns the whole log, oldest first. Used by the CSV exporter and
// the admin API.
func (r *Repository) ListAll(ctx context.Context) ([]models.VacationEvent, error) {
	q := `SELECT ` + eventColumns + ` FROM vacation_events ORDER BY recorded_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.VacationEvent, error) {
	var ev models.VacationEvent
	var justification *string
	err := row.Scan(&ev.ID, &ev.RecordedAt, &ev.Email, &ev.Action,
		&ev.LeaveStart, &ev.LeaveReturn, &ev.BusinessDays, &ev.Notes,
		&ev.OriginalLeaveStart, &ev.OriginalLeaveReturn, &ev.OriginalBusinessDays,
		&justification, &ev.ContractType)
	if err != nil {
		return nil, err
	}
	if justification != nil {
		ev.Justification = *justification
	}
	return &ev, nil
}

func collectEvents(rows pgx.Rows) ([]models.VacationEvent, error) {
	var list []models.VacationEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *ev)
	}
	return list, rows.Err()
}

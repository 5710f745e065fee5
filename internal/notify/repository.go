package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dragon-learning/hr-backend/internal/models"
)

// Repository handles notification_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notification log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a pending delivery record.
func (r *Repository) Create(ctx context.Context, l *models.NotificationLog) error {
	const q = `INSERT INTO notification_logs (event_id, recipient_email, action)
		VALUES ($1, $2, $3)
		RETURNING id, status, attempts, created_at`
	return r.pool.QueryRow(ctx, q, l.EventID, l.RecipientEmail, l.Action).
		Scan(&l.ID, &l.Status, &l.Attempts, &l.CreatedAt)
}

// GetByID returns one delivery record, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error) {
	const q = `SELECT id, event_id, recipient_email, action, status, attempts, error_message, sent_at, created_at
		FROM notification_logs WHERE id = $1`
	var l models.NotificationLog
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&l.ID, &l.EventID, &l.RecipientEmail, &l.Action, &l.Status, &l.Attempts, &l.ErrorMessage, &l.SentAt, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns delivery records, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]models.NotificationLog, error) {
	const q = `SELECT id, event_id, recipient_email, action, status, attempts, error_message, sent_at, created_at
		FROM notification_logs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT 500`
	rows, err := r.pool.Query(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.NotificationLog
	for rows.Next() {
		var l models.NotificationLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.RecipientEmail, &l.Action, &l.Status, &l.Attempts, &l.ErrorMessage, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// MarkSent records a successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE notification_logs
		SET status = 'sent', attempts = attempts + 1, error_message = '', sent_at = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// MarkFailed records a failed attempt with its error text.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	const q = `UPDATE notification_logs
		SET status = 'failed', attempts = attempts + 1, error_message = $2
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, errMsg)
	return err
}

// MarkPending resets a record for redelivery.
func (r *Repository) MarkPending(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE notification_logs SET status = 'pending' WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

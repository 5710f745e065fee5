package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/queue"
)

// DeliveryLog records delivery attempts.
type DeliveryLog interface {
	Create(ctx context.Context, l *models.NotificationLog) error
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// Enqueuer hands delivery jobs to the background worker.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// SyncDeliverer POSTs inline with the request. A non-2xx becomes the
// caller's error; there is no retry.
type SyncDeliverer struct {
	client *Client
	log    DeliveryLog
	logger *zap.Logger
}

// NewSyncDeliverer creates an inline deliverer.
func NewSyncDeliverer(client *Client, log DeliveryLog, logger *zap.Logger) *SyncDeliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncDeliverer{client: client, log: log, logger: logger}
}

// Deliver sends the event payload and records the outcome.
func (d *SyncDeliverer) Deliver(ctx context.Context, ev *models.VacationEvent, emp *models.Employee) error {
	rec := &models.NotificationLog{EventID: &ev.ID, RecipientEmail: ev.Email, Action: ev.Action}
	if err := d.log.Create(ctx, rec); err != nil {
		// The delivery log is bookkeeping; its failure must not block
		// the notification itself.
		d.logger.Warn("create notification log failed", zap.Error(err))
	}
	if err := d.client.Send(ctx, BuildPayload(ev, emp)); err != nil {
		if rec.ID != uuid.Nil {
			_ = d.log.MarkFailed(ctx, rec.ID, err.Error())
		}
		return err
	}
	if rec.ID != uuid.Nil {
		_ = d.log.MarkSent(ctx, rec.ID)
	}
	return nil
}

// AsyncDeliverer records a pending delivery and enqueues a worker job. The
// worker retries transient failures and parks exhausted jobs in the DLQ.
type AsyncDeliverer struct {
	log    DeliveryLog
	queue  Enqueuer
	logger *zap.Logger
}

// NewAsyncDeliverer creates a queue-backed deliverer.
func NewAsyncDeliverer(log DeliveryLog, q Enqueuer, logger *zap.Logger) *AsyncDeliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncDeliverer{log: log, queue: q, logger: logger}
}

// Deliver enqueues the delivery; the event payload is rebuilt by the worker
// from the stored event rather than serialized into the job.
func (d *AsyncDeliverer) Deliver(ctx context.Context, ev *models.VacationEvent, _ *models.Employee) error {
	rec := &models.NotificationLog{EventID: &ev.ID, RecipientEmail: ev.Email, Action: ev.Action}
	if err := d.log.Create(ctx, rec); err != nil {
		return err
	}
	return d.queue.EnqueueNotification(ctx, queue.NotificationPayload{NotificationID: rec.ID})
}

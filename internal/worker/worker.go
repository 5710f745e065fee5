package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/exports"
	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/internal/notify"
	"github.com/dragon-learning/hr-backend/pkg/queue"
)

// DeliveryLog loads and updates notification delivery records.
type DeliveryLog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.NotificationLog, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// EventLog loads vacation events for delivery.
type EventLog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.VacationEvent, error)
}

// Directory resolves employees for the form payload.
type Directory interface {
	Lookup(ctx context.Context, email string) (*models.Employee, error)
}

// Sender posts form payloads to the notification endpoint.
type Sender interface {
	Send(ctx context.Context, p notify.FormPayload) error
}

// Processor handles background jobs: form notification deliveries and
// event-log exports.
type Processor struct {
	notifyRepo DeliveryLog
	eventRepo  EventLog
	dirRepo    Directory
	client     Sender
	exporter   *exports.Exporter
	queue      *queue.Queue
	logger     *zap.Logger
}

// NewProcessor creates a background job processor. exporter may be nil when
// S3 is not configured; export jobs then fail and land in the DLQ.
func NewProcessor(
	notifyRepo DeliveryLog,
	eventRepo EventLog,
	dirRepo Directory,
	client Sender,
	exporter *exports.Exporter,
	q *queue.Queue,
	logger *zap.Logger,
) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		notifyRepo: notifyRepo,
		eventRepo:  eventRepo,
		dirRepo:    dirRepo,
		client:     client,
		exporter:   exporter,
		queue:      q,
		logger:     logger,
	}
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeNotification:
		return p.processNotification(ctx, job)
	case queue.JobTypeExport:
		return p.processExport(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Processor) processNotification(ctx context.Context, job *queue.Job) error {
	var payload queue.NotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	// A repo error is transient and worth retrying as-is; only a missing
	// row means the job is unrecoverable.
	rec, err := p.notifyRepo.GetByID(ctx, payload.NotificationID)
	if err != nil {
		return fmt.Errorf("load notification %s: %w", payload.NotificationID, err)
	}
	if rec == nil {
		return fmt.Errorf("notification not found: %s", payload.NotificationID)
	}
	if rec.Status == models.NotificationStatusSent {
		p.logger.Info("notification already sent", zap.String("notification_id", rec.ID.String()))
		return nil
	}
	if rec.EventID == nil {
		_ = p.notifyRepo.MarkFailed(ctx, rec.ID, "notification has no event")
		return fmt.Errorf("notification %s has no event", rec.ID)
	}

	ev, err := p.eventRepo.GetByID(ctx, *rec.EventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", rec.EventID, err)
	}
	if ev == nil {
		_ = p.notifyRepo.MarkFailed(ctx, rec.ID, "event not found")
		return fmt.Errorf("event not found: %s", rec.EventID)
	}
	emp, err := p.dirRepo.Lookup(ctx, ev.Email)
	if err != nil {
		_ = p.notifyRepo.MarkFailed(ctx, rec.ID, err.Error())
		return fmt.Errorf("lookup employee: %w", err)
	}

	if err := p.client.Send(ctx, notify.BuildPayload(ev, emp)); err != nil {
		_ = p.notifyRepo.MarkFailed(ctx, rec.ID, err.Error())
		return fmt.Errorf("send: %w", err)
	}
	if err := p.notifyRepo.MarkSent(ctx, rec.ID); err != nil {
		p.logger.Error("mark sent failed", zap.Error(err), zap.String("notification_id", rec.ID.String()))
	}

	p.logger.Info("notification delivered",
		zap.String("notification_id", rec.ID.String()),
		zap.String("email", ev.Email),
		zap.String("action", ev.Action),
	)
	return nil
}

func (p *Processor) processExport(ctx context.Context, job *queue.Job) error {
	if p.exporter == nil {
		return fmt.Errorf("exports not configured (missing S3 settings)")
	}
	var payload queue.ExportPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	url, err := p.exporter.Run(ctx, payload.Email)
	if err != nil {
		return fmt.Errorf("run export: %w", err)
	}
	p.logger.Info("export completed",
		zap.String("requested_by", payload.RequestedBy),
		zap.String("url", url),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping")
			return
		default:
		}

		job, key, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("worker stopping")
				return
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job, key); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}

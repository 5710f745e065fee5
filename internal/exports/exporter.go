package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/storage"
)

// presignExpiry bounds how long an export download link stays valid.
const presignExpiry = 24 * time.Hour

// csvHeader mirrors the columns of the HR response spreadsheet the event
// log replaced. Downstream consumers still read these names.
var csvHeader = []string{
	"carimbo_data_hora",
	"email",
	"acao",
	"data_saida",
	"data_retorno",
	"qtd_dias",
	"observacoes",
	"data_saida_original",
	"data_retorno_original",
	"qtd_dias_original",
	"justificativa",
	"contrato",
}

// EventSource lists vacation events for export.
type EventSource interface {
	ListAll(ctx context.Context) ([]models.VacationEvent, error)
	ListByEmail(ctx context.Context, email string) ([]models.VacationEvent, error)
}

// ObjectStore holds finished export objects and hands out download links.
// Satisfied by storage.S3.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	ExportsBucket() string
}

// Exporter renders the vacation event log as CSV and uploads it to S3.
type Exporter struct {
	events EventSource
	store  ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates an event-log exporter.
func NewExporter(events EventSource, store ObjectStore, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{events: events, store: store, logger: logger, now: time.Now}
}

// Run loads the event log (optionally filtered by email), renders it as
// CSV and uploads it. Returns a presigned download URL so the export is
// readable even though the bucket stays private.
func (e *Exporter) Run(ctx context.Context, email string) (string, error) {
	var (
		events []models.VacationEvent
		err    error
		name   = "vacation-events"
	)
	if email != "" {
		events, err = e.events.ListByEmail(ctx, email)
		name = "vacation-events-" + email
	} else {
		events, err = e.events.ListAll(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}

	body, err := RenderCSV(events)
	if err != nil {
		return "", err
	}

	key := storage.ExportKey(fmt.Sprintf("%s-%s", name, e.now().Format("150405")), e.now())
	bucket := e.store.ExportsBucket()
	if _, err := e.store.Upload(ctx, bucket, key, "text/csv", bytes.NewReader(body)); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	url, err := e.store.GeneratePresignedDownloadURL(ctx, bucket, key, presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}
	e.logger.Info("event log exported",
		zap.String("key", key),
		zap.Int("rows", len(events)),
	)
	return url, nil
}

// RenderCSV renders events in recording order with the spreadsheet's
// column layout. Timestamps are day-first, leave dates ISO.
func RenderCSV(events []models.VacationEvent) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := range events {
		if err := w.Write(eventRow(&events[i])); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func eventRow(ev *models.VacationEvent) []string {
	return []string{
		ev.RecordedAt.Format(models.DayFirstTimestamp),
		ev.Email,
		ev.Action,
		dateField(ev.LeaveStart),
		dateField(ev.LeaveReturn),
		intField(ev.BusinessDays),
		ev.Notes,
		dateField(ev.OriginalLeaveStart),
		dateField(ev.OriginalLeaveReturn),
		intField(ev.OriginalBusinessDays),
		ev.Justification,
		ev.ContractType,
	}
}

func dateField(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(busdays.DateLayout)
}

func intField(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

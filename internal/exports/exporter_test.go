package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/models"
)

type fakeEvents struct {
	all        []models.VacationEvent
	byEmail    map[string][]models.VacationEvent
	lastFilter string
}

func (f *fakeEvents) ListAll(context.Context) ([]models.VacationEvent, error) {
	f.lastFilter = ""
	return f.all, nil
}

func (f *fakeEvents) ListByEmail(_ context.Context, email string) ([]models.VacationEvent, error) {
	f.lastFilter = email
	return f.byEmail[email], nil
}

type fakeStore struct {
	bucket       string
	uploadedKey  string
	uploadedBody []byte
	contentType  string
	presignedKey string
}

func (f *fakeStore) Upload(_ context.Context, _, key, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploadedKey = key
	f.uploadedBody = b
	f.contentType = contentType
	return "https://bucket.example/" + key, nil
}

func (f *fakeStore) GeneratePresignedDownloadURL(_ context.Context, _, key string, _ time.Duration) (string, error) {
	f.presignedKey = key
	return "https://bucket.example/" + key + "?signed", nil
}

func (f *fakeStore) ExportsBucket() string { return f.bucket }

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func intp(n int) *int { return &n }

func TestRenderCSVHeaderOnly(t *testing.T) {
	out, err := RenderCSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}

func TestRenderCSVRows(t *testing.T) {
	recorded := time.Date(2025, 7, 1, 14, 30, 5, 0, time.UTC)
	events := []models.VacationEvent{
		{
			ID:           uuid.New(),
			RecordedAt:   recorded,
			Email:        "ana.silva@empresa.com",
			Action:       models.ActionRequest,
			LeaveStart:   date("2025-07-29"),
			LeaveReturn:  date("2025-08-20"),
			BusinessDays: intp(17),
			Notes:        "viagem em família",
			ContractType: "CLT",
		},
		{
			ID:                   uuid.New(),
			RecordedAt:           recorded.Add(48 * time.Hour),
			Email:                "ana.silva@empresa.com",
			Action:               models.ActionCancellation,
			OriginalLeaveStart:   date("2025-07-29"),
			OriginalLeaveReturn:  date("2025-08-20"),
			OriginalBusinessDays: intp(17),
			Justification:        models.DefaultJustification,
			ContractType:         "CLT",
		},
	}

	out, err := RenderCSV(events)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	req := rows[1]
	assert.Equal(t, "01/07/2025 14:30:05", req[0])
	assert.Equal(t, "ana.silva@empresa.com", req[1])
	assert.Equal(t, models.ActionRequest, req[2])
	assert.Equal(t, "2025-07-29", req[3])
	assert.Equal(t, "2025-08-20", req[4])
	assert.Equal(t, "17", req[5])
	assert.Equal(t, "viagem em família", req[6])
	assert.Equal(t, "", req[7])
	assert.Equal(t, "", req[9])

	canc := rows[2]
	assert.Equal(t, models.ActionCancellation, canc[2])
	assert.Equal(t, "", canc[3])
	assert.Equal(t, "", canc[5])
	assert.Equal(t, "2025-07-29", canc[7])
	assert.Equal(t, "2025-08-20", canc[8])
	assert.Equal(t, "17", canc[9])
	assert.Equal(t, models.DefaultJustification, canc[10])
	assert.Equal(t, "CLT", canc[11])
}

func TestRunUploadsAndReturnsPresignedURL(t *testing.T) {
	events := &fakeEvents{all: []models.VacationEvent{
		{
			ID:           uuid.New(),
			RecordedAt:   time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
			Email:        "ana.silva@empresa.com",
			Action:       models.ActionRequest,
			LeaveStart:   date("2025-07-29"),
			LeaveReturn:  date("2025-08-20"),
			BusinessDays: intp(17),
			ContractType: "CLT",
		},
	}}
	store := &fakeStore{bucket: "hr-exports"}
	exp := NewExporter(events, store, zap.NewNop())
	exp.now = func() time.Time { return time.Date(2025, 9, 2, 15, 4, 5, 0, time.UTC) }

	url, err := exp.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "exports/2025-09-02/vacation-events-150405.csv", store.uploadedKey)
	assert.Equal(t, "text/csv", store.contentType)
	assert.Equal(t, store.uploadedKey, store.presignedKey, "download link points at the uploaded object")
	assert.Equal(t, "https://bucket.example/"+store.uploadedKey+"?signed", url)

	rows, err := csv.NewReader(strings.NewReader(string(store.uploadedBody))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ana.silva@empresa.com", rows[1][1])
}

func TestRunFiltersByEmail(t *testing.T) {
	events := &fakeEvents{byEmail: map[string][]models.VacationEvent{
		"ana.silva@empresa.com": {{
			ID:           uuid.New(),
			RecordedAt:   time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
			Email:        "ana.silva@empresa.com",
			Action:       models.ActionRequest,
			LeaveStart:   date("2025-07-29"),
			LeaveReturn:  date("2025-08-20"),
			ContractType: "CLT",
		}},
	}}
	store := &fakeStore{bucket: "hr-exports"}
	exp := NewExporter(events, store, zap.NewNop())

	_, err := exp.Run(context.Background(), "ana.silva@empresa.com")
	require.NoError(t, err)
	assert.Equal(t, "ana.silva@empresa.com", events.lastFilter)
	assert.Contains(t, store.uploadedKey, "vacation-events-ana.silva@empresa.com")
}

package vacations

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/models"
	"github.com/dragon-learning/hr-backend/pkg/database"
)

// testPool connects to TEST_DATABASE_URL and applies migrations. Tests are
// skipped when the variable is unset so the suite runs without Postgres.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func TestAppendAndListByEmail(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	email := "repo.test+" + time.Now().Format("150405.000000") + "@empresa.com"
	start := time.Date(2025, 7, 29, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	days := 17

	ev := &models.VacationEvent{
		Email:        "  " + email + "  ", // stored normalized
		Action:       models.ActionRequest,
		LeaveStart:   &start,
		LeaveReturn:  &finish,
		BusinessDays: &days,
		Notes:        "integração",
		ContractType: "CLT",
	}
	require.NoError(t, repo.Append(ctx, ev))
	assert.NotZero(t, ev.ID)
	assert.False(t, ev.RecordedAt.IsZero())

	canc := &models.VacationEvent{
		Email:                email,
		Action:               models.ActionCancellation,
		OriginalLeaveStart:   &start,
		OriginalLeaveReturn:  &finish,
		OriginalBusinessDays: &days,
		ContractType:         "CLT",
	}
	require.NoError(t, repo.Append(ctx, canc))

	history, err := repo.ListByEmail(ctx, email)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionRequest, history[0].Action)
	assert.Equal(t, models.ActionCancellation, history[1].Action)
	assert.Equal(t, email, history[0].Email)
	require.NotNil(t, history[0].BusinessDays)
	assert.Equal(t, 17, *history[0].BusinessDays)

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "integração", got.Notes)
}

func TestAppendDefaultsEmptyJustificationToNull(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	email := "repo.null+" + time.Now().Format("150405.000000") + "@empresa.com"
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	days := 5

	canc := &models.VacationEvent{
		Email:                email,
		Action:               models.ActionCancellation,
		OriginalLeaveStart:   &start,
		OriginalLeaveReturn:  &finish,
		OriginalBusinessDays: &days,
		Justification:        "",
		ContractType:         "CLT",
	}
	require.NoError(t, repo.Append(ctx, canc))

	got, err := repo.GetByID(ctx, canc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Justification)
}

package vacations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragon-learning/hr-backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func request(recorded, start, finish string) models.VacationEvent {
	return models.VacationEvent{
		ID:          uuid.New(),
		RecordedAt:  at(recorded),
		Email:       "joao@example.com",
		Action:      models.ActionRequest,
		LeaveStart:  dayPtr(start),
		LeaveReturn: dayPtr(finish),
	}
}

func cancellation(recorded, origStart, origFinish string) models.VacationEvent {
	return models.VacationEvent{
		ID:                  uuid.New(),
		RecordedAt:          at(recorded),
		Email:               "joao@example.com",
		Action:              models.ActionCancellation,
		OriginalLeaveStart:  dayPtr(origStart),
		OriginalLeaveReturn: dayPtr(origFinish),
	}
}

func TestFindOpenRequestsEmptyLog(t *testing.T) {
	assert.Empty(t, FindOpenRequests(nil, day("2025-07-01")))
}

func TestFindOpenRequestsSingleOpen(t *testing.T) {
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1)
	assert.Equal(t, day("2025-07-29"), open[0].LeaveStart)
	assert.Equal(t, day("2025-08-20"), open[0].LeaveReturn)
}

func TestFindOpenRequestsClosedByLaterCancellation(t *testing.T) {
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
		cancellation("2025-06-05 09:00:00", "2025-07-29", "2025-08-20"),
	}
	// Closed at any as_of after the cancellation.
	for _, asOf := range []string{"2025-06-06", "2025-07-01", "2025-08-19"} {
		assert.Empty(t, FindOpenRequests(events, day(asOf)), "as_of %s", asOf)
	}
}

func TestFindOpenRequestsCancellationMustMatchKeyExactly(t *testing.T) {
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
		cancellation("2025-06-05 09:00:00", "2025-07-29", "2025-08-21"), // return differs
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1, "a cancellation for a different period must not close the request")
}

func TestFindOpenRequestsCancellationBeforeRequestDoesNotClose(t *testing.T) {
	// Forward pairing only: a cancellation recorded before the request
	// cannot close it.
	events := []models.VacationEvent{
		cancellation("2025-06-01 08:00:00", "2025-07-29", "2025-08-20"),
		request("2025-06-02 10:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1)
}

func TestFindOpenRequestsOneCancellationConsumesOneRequest(t *testing.T) {
	// Two same-key requests and one later cancellation: the cancellation
	// closes the earliest, leaving the second open.
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
		request("2025-06-03 11:00:00", "2025-07-29", "2025-08-20"),
		cancellation("2025-06-05 09:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1)
	assert.Equal(t, at("2025-06-03 11:00:00"), open[0].RecordedAt)
}

func TestFindOpenRequestsAmbiguousReturnsBoth(t *testing.T) {
	// Two requests with no intervening cancellation: both are reported.
	// Deciding what to do with the violation is the workflow's job.
	events := []models.VacationEvent{
		request("2025-06-03 11:00:00", "2025-09-01", "2025-09-10"),
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 2)
	// Ordered by recording time, not slice order.
	assert.True(t, open[0].RecordedAt.Before(open[1].RecordedAt))
	assert.Equal(t, day("2025-07-29"), open[0].LeaveStart)
}

func TestFindOpenRequestsIgnoresFullyPastPeriods(t *testing.T) {
	events := []models.VacationEvent{
		request("2025-01-05 10:00:00", "2025-02-03", "2025-02-14"), // fully past
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1)
	assert.Equal(t, day("2025-07-29"), open[0].LeaveStart)
}

func TestFindOpenRequestsPeriodCoveringAsOfIsRelevant(t *testing.T) {
	// Leave already started but not yet finished still counts.
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-08-10"))
	require.Len(t, open, 1)
}

func TestFindOpenRequestsDeduplicatesIdenticalRows(t *testing.T) {
	ev := request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20")
	dup := ev
	dup.ID = uuid.New()
	open := FindOpenRequests([]models.VacationEvent{ev, dup}, day("2025-07-01"))
	require.Len(t, open, 1)
}

func TestFindOpenRequestsSkipsEventsWithMissingDates(t *testing.T) {
	broken := models.VacationEvent{
		ID:         uuid.New(),
		RecordedAt: at("2025-06-01 10:00:00"),
		Email:      "joao@example.com",
		Action:     models.ActionRequest,
	}
	assert.Empty(t, FindOpenRequests([]models.VacationEvent{broken}, day("2025-07-01")))
}

func TestFindOpenRequestsResubmitAfterCancel(t *testing.T) {
	// Request, cancel, request again for the same period: only the second
	// request is open.
	events := []models.VacationEvent{
		request("2025-06-01 10:00:00", "2025-07-29", "2025-08-20"),
		cancellation("2025-06-02 09:00:00", "2025-07-29", "2025-08-20"),
		request("2025-06-10 14:00:00", "2025-07-29", "2025-08-20"),
	}
	open := FindOpenRequests(events, day("2025-07-01"))
	require.Len(t, open, 1)
	assert.Equal(t, at("2025-06-10 14:00:00"), open[0].RecordedAt)
}

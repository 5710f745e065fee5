// Package vacations implements the vacation request/cancellation workflow
// over an append-only event log.
package vacations

import (
	"sort"
	"time"

	"github.com/dragon-learning/hr-backend/internal/models"
)

// periodKey identifies a leave period. A cancellation closes a request only
// when both dates match exactly.
type periodKey struct {
	start  int64 // unix day boundary
	finish int64
}

func keyOf(start, finish time.Time) periodKey {
	return periodKey{start: dayOf(start), finish: dayOf(finish)}
}

func dayOf(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// FindOpenRequests derives the open requests from one employee's full event
// history as of a moment in time.
//
// An event is still relevant at asOf when its leave period (the original
// period, for cancellations) starts or ends on asOf's date or later; fully
// past periods are ignored. Each relevant cancellation closes the earliest
// still-open relevant request with the same (leave_start, leave_return) key
// recorded at or before it; one cancellation consumes exactly one request.
// Whatever remains unclosed is returned in recording order.
//
// Zero results means nothing to cancel. More than one result is an
// at-most-one-open-request integrity violation; callers must escalate, not
// pick one.
func FindOpenRequests(events []models.VacationEvent, asOf time.Time) []models.OpenRequest {
	cutoff := dayOf(asOf)

	var requests, cancellations []models.VacationEvent
	seen := make(map[eventIdentity]struct{})
	for _, ev := range events {
		start, finish, ok := periodOf(ev)
		if !ok {
			continue
		}
		if dayOf(start) < cutoff && dayOf(finish) < cutoff {
			continue
		}
		// The source log can carry duplicated rows; identical entries
		// collapse to one.
		id := identityOf(ev, start, finish)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		switch ev.Action {
		case models.ActionRequest:
			requests = append(requests, ev)
		case models.ActionCancellation:
			cancellations = append(cancellations, ev)
		}
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RecordedAt.Before(requests[j].RecordedAt)
	})
	sort.SliceStable(cancellations, func(i, j int) bool {
		return cancellations[i].RecordedAt.Before(cancellations[j].RecordedAt)
	})

	closed := make([]bool, len(requests))
	for _, c := range cancellations {
		ck := keyOf(*c.OriginalLeaveStart, *c.OriginalLeaveReturn)
		for i, req := range requests {
			if closed[i] {
				continue
			}
			if keyOf(*req.LeaveStart, *req.LeaveReturn) != ck {
				continue
			}
			if req.RecordedAt.After(c.RecordedAt) {
				continue
			}
			closed[i] = true
			break
		}
	}

	var open []models.OpenRequest
	for i, req := range requests {
		if closed[i] {
			continue
		}
		open = append(open, models.OpenRequest{
			EventID:     req.ID,
			RecordedAt:  req.RecordedAt,
			Email:       req.Email,
			LeaveStart:  *req.LeaveStart,
			LeaveReturn: *req.LeaveReturn,
		})
	}
	return open
}

// periodOf extracts the leave period relevant for resolution: the requested
// period for requests, the original period for cancellations. Events with
// incomplete dates cannot participate in pairing.
func periodOf(ev models.VacationEvent) (start, finish time.Time, ok bool) {
	switch ev.Action {
	case models.ActionRequest:
		if ev.LeaveStart == nil || ev.LeaveReturn == nil {
			return time.Time{}, time.Time{}, false
		}
		return *ev.LeaveStart, *ev.LeaveReturn, true
	case models.ActionCancellation:
		if ev.OriginalLeaveStart == nil || ev.OriginalLeaveReturn == nil {
			return time.Time{}, time.Time{}, false
		}
		return *ev.OriginalLeaveStart, *ev.OriginalLeaveReturn, true
	}
	return time.Time{}, time.Time{}, false
}

type eventIdentity struct {
	action     string
	recordedAt int64
	key        periodKey
}

func identityOf(ev models.VacationEvent, start, finish time.Time) eventIdentity {
	return eventIdentity{
		action:     ev.Action,
		recordedAt: ev.RecordedAt.UnixNano(),
		key:        keyOf(start, finish),
	}
}

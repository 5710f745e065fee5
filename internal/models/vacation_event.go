package models

import (
	"time"

	"github.com/google/uuid"
)

// Vacation event actions. The values match the labels of the original HR
// response form, which downstream consumers still expect.
const (
	ActionRequest      = "Solicitação"
	ActionCancellation = "Cancelamento"
)

// DefaultJustification is recorded when a cancellation carries no reason.
const DefaultJustification = "O usuário não justificou o cancelamento"

// DayFirstTimestamp is the day-first layout used when rendering event
// timestamps at the edges (CSV export, notification payloads).
const DayFirstTimestamp = "02/01/2006 15:04:05"

// VacationEvent is one row of the append-only vacation log. Request events
// carry the leave period; cancellation events additionally carry the
// original period they close. Rows are never updated or deleted.
type VacationEvent struct {
	ID           uuid.UUID `json:"id"`
	RecordedAt   time.Time `json:"recorded_at"`
	Email        string    `json:"email"`
	Action       string    `json:"action"`
	LeaveStart   *time.Time `json:"leave_start,omitempty"`
	LeaveReturn  *time.Time `json:"leave_return,omitempty"`
	BusinessDays *int       `json:"business_days,omitempty"`
	Notes        string    `json:"notes,omitempty"`

	OriginalLeaveStart   *time.Time `json:"original_leave_start,omitempty"`
	OriginalLeaveReturn  *time.Time `json:"original_leave_return,omitempty"`
	OriginalBusinessDays *int       `json:"original_business_days,omitempty"`
	Justification        string     `json:"justification,omitempty"`

	ContractType string `json:"contract_type"`
}

// OpenRequest is a derived view: a request event with no later matching
// cancellation. Never stored.
type OpenRequest struct {
	EventID     uuid.UUID `json:"event_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Email       string    `json:"email"`
	LeaveStart  time.Time `json:"leave_start"`
	LeaveReturn time.Time `json:"leave_return"`
}

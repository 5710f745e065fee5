// Package agent exposes the vacation workflow as a fixed set of named tools
// for the conversational layer. Dispatch is a typed switch over the enum;
// the workflow stays free of any language-understanding concern.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/vacations"
)

// Tool names callable by the conversational layer.
type Tool string

const (
	ToolSubmitRequest     Tool = "submit_vacation_request"
	ToolCancelRequest     Tool = "cancel_vacation_request"
	ToolCountBusinessDays Tool = "count_business_days"
	ToolCurrentYear       Tool = "current_year"
)

// Tools lists every callable tool.
var Tools = []Tool{ToolSubmitRequest, ToolCancelRequest, ToolCountBusinessDays, ToolCurrentYear}

// ErrUnknownTool reports a tool name outside the enum.
var ErrUnknownTool = errors.New("unknown tool")

// SubmitRequestArgs are the arguments of submit_vacation_request.
type SubmitRequestArgs struct {
	LeaveStart  string `json:"leave_start"`
	LeaveReturn string `json:"leave_return"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
}

// CancelRequestArgs are the arguments of cancel_vacation_request.
type CancelRequestArgs struct {
	Email         string `json:"email"`
	Justification string `json:"justification"`
}

// CountBusinessDaysArgs are the arguments of count_business_days.
type CountBusinessDaysArgs struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// VacationService is the workflow surface the tools call.
type VacationService interface {
	SubmitRequest(ctx context.Context, leaveStart, leaveReturn, email, notes string) (string, error)
	CancelRequest(ctx context.Context, email, justification string) (vacations.CancelResult, error)
	CountBusinessDays(leaveStart, leaveReturn string) (string, error)
	CurrentYear() string
}

// Dispatcher routes tool invocations to the workflow.
type Dispatcher struct {
	svc VacationService
}

// NewDispatcher creates a tool dispatcher.
func NewDispatcher(svc VacationService) *Dispatcher {
	return &Dispatcher{svc: svc}
}

// Dispatch invokes one tool with JSON arguments and returns the answer as
// plain text. Recoverable domain outcomes (unknown employee, bad dates,
// ambiguity, nothing to cancel) come back as the answer itself, the way the
// conversational layer relays them to the user; only unexpected faults
// return an error.
func (d *Dispatcher) Dispatch(ctx context.Context, tool Tool, args json.RawMessage) (string, error) {
	switch tool {
	case ToolSubmitRequest:
		var a SubmitRequestArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		msg, err := d.svc.SubmitRequest(ctx, a.LeaveStart, a.LeaveReturn, a.Email, a.Notes)
		if err != nil {
			return answerForDomainError(err)
		}
		return msg, nil

	case ToolCancelRequest:
		var a CancelRequestArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		res, err := d.svc.CancelRequest(ctx, a.Email, a.Justification)
		if err != nil {
			return answerForDomainError(err)
		}
		return res.Message, nil

	case ToolCountBusinessDays:
		var a CountBusinessDaysArgs
		if err := decodeArgs(args, &a); err != nil {
			return "", err
		}
		msg, err := d.svc.CountBusinessDays(a.Start, a.End)
		if err != nil {
			return answerForDomainError(err)
		}
		return msg, nil

	case ToolCurrentYear:
		return d.svc.CurrentYear(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, tool)
}

func decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode tool arguments: %w", err)
	}
	return nil
}

// answerForDomainError turns recoverable outcomes into user-facing answers.
func answerForDomainError(err error) (string, error) {
	var nf *directory.NotFoundError
	switch {
	case errors.As(err, &nf),
		errors.Is(err, busdays.ErrInvalidDate),
		errors.Is(err, vacations.ErrAmbiguousOpenRequests),
		errors.Is(err, vacations.ErrBusy):
		return err.Error(), nil
	}
	return "", err
}

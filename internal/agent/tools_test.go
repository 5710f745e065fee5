package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/vacations"
)

type fakeService struct {
	submitMsg  string
	submitErr  error
	cancelRes  vacations.CancelResult
	cancelErr  error
	lastSubmit SubmitRequestArgs
}

func (f *fakeService) SubmitRequest(_ context.Context, leaveStart, leaveReturn, email, notes string) (string, error) {
	f.lastSubmit = SubmitRequestArgs{LeaveStart: leaveStart, LeaveReturn: leaveReturn, Email: email, Notes: notes}
	return f.submitMsg, f.submitErr
}

func (f *fakeService) CancelRequest(context.Context, string, string) (vacations.CancelResult, error) {
	return f.cancelRes, f.cancelErr
}

func (f *fakeService) CountBusinessDays(start, end string) (string, error) {
	return "Entre " + start + " e " + end + " há 17 dias úteis.", nil
}

func (f *fakeService) CurrentYear() string { return "O ano atual é 2025" }

func TestDispatchSubmitRequest(t *testing.T) {
	svc := &fakeService{submitMsg: "Solicitação de férias enviada com sucesso!"}
	d := NewDispatcher(svc)
	args, _ := json.Marshal(SubmitRequestArgs{
		LeaveStart: "2025-07-29", LeaveReturn: "2025-08-20", Email: "joao@example.com", Notes: "viagem",
	})
	answer, err := d.Dispatch(context.Background(), ToolSubmitRequest, args)
	require.NoError(t, err)
	assert.Equal(t, svc.submitMsg, answer)
	assert.Equal(t, "joao@example.com", svc.lastSubmit.Email)
	assert.Equal(t, "viagem", svc.lastSubmit.Notes)
}

func TestDispatchCancelRequest(t *testing.T) {
	svc := &fakeService{cancelRes: vacations.CancelResult{Message: "Cancelamento de férias enviado com sucesso!"}}
	d := NewDispatcher(svc)
	answer, err := d.Dispatch(context.Background(), ToolCancelRequest, json.RawMessage(`{"email":"joao@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, svc.cancelRes.Message, answer)
}

func TestDispatchDomainErrorsBecomeAnswers(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", &directory.NotFoundError{Email: "ghost@example.com"}},
		{"ambiguous", vacations.ErrAmbiguousOpenRequests},
		{"busy", vacations.ErrBusy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(&fakeService{cancelErr: tt.err})
			answer, err := d.Dispatch(context.Background(), ToolCancelRequest, json.RawMessage(`{"email":"x@y.com"}`))
			require.NoError(t, err, "domain outcomes are answers, not faults")
			assert.Equal(t, tt.err.Error(), answer)
		})
	}
}

func TestDispatchUnexpectedErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	d := NewDispatcher(&fakeService{submitErr: boom})
	_, err := d.Dispatch(context.Background(), ToolSubmitRequest, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, boom)
}

func TestDispatchCountBusinessDaysAndCurrentYear(t *testing.T) {
	d := NewDispatcher(&fakeService{})
	answer, err := d.Dispatch(context.Background(), ToolCountBusinessDays, json.RawMessage(`{"start":"2025-07-29","end":"2025-08-20"}`))
	require.NoError(t, err)
	assert.Contains(t, answer, "17 dias úteis")

	answer, err = d.Dispatch(context.Background(), ToolCurrentYear, nil)
	require.NoError(t, err)
	assert.Equal(t, "O ano atual é 2025", answer)
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(&fakeService{})
	_, err := d.Dispatch(context.Background(), Tool("transfer_money"), nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestDispatchBadArguments(t *testing.T) {
	d := NewDispatcher(&fakeService{})
	_, err := d.Dispatch(context.Background(), ToolSubmitRequest, json.RawMessage(`{"email":7}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tool arguments")
}

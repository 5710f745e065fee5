package vacations

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/directory"
	"github.com/dragon-learning/hr-backend/internal/models"
)

// Directory resolves employees against the organogram.
type Directory interface {
	Lookup(ctx context.Context, email string) (*models.Employee, error)
}

// EventLog is the append-only log collaborator.
type EventLog interface {
	Append(ctx context.Context, ev *models.VacationEvent) error
	ListByEmail(ctx context.Context, email string) ([]models.VacationEvent, error)
}

// Notifier delivers an event payload to the HR form endpoint.
type Notifier interface {
	Deliver(ctx context.Context, ev *models.VacationEvent, emp *models.Employee) error
}

// Locker serializes operations per employee.
type Locker interface {
	Acquire(ctx context.Context, email string) (release func(), err error)
}

// CancelResult is the outcome of a cancellation attempt.
type CancelResult struct {
	Message string
	// NoOp is true when there was nothing to cancel: accepted, but no
	// event appended and nothing delivered.
	NoOp bool

	OriginalLeaveStart   time.Time
	OriginalLeaveReturn  time.Time
	OriginalBusinessDays int
}

// Service orchestrates the vacation workflow: directory validation,
// business-day computation, event appends and notification delivery.
// Stateless across calls except through the event log.
type Service struct {
	dir          Directory
	log          EventLog
	notifier     Notifier
	locker       Locker
	cal          *busdays.Calendar
	contractType string
	logger       *zap.Logger

	now func() time.Time
}

// NewService creates the vacation workflow service.
func NewService(dir Directory, log EventLog, notifier Notifier, locker Locker, cal *busdays.Calendar, contractType string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dir:          dir,
		log:          log,
		notifier:     notifier,
		locker:       locker,
		cal:          cal,
		contractType: contractType,
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitRequest validates the employee, computes the business days of the
// period and appends a request event. The append and the notification are
// not transactional with the lookup; a failed append surfaces as an error
// with nothing to compensate.
func (s *Service) SubmitRequest(ctx context.Context, leaveStart, leaveReturn, email, notes string) (string, error) {
	start, err := busdays.ParseDate(leaveStart)
	if err != nil {
		return "", err
	}
	finish, err := busdays.ParseDate(leaveReturn)
	if err != nil {
		return "", err
	}

	normalized := directory.Normalize(email)
	release, err := s.locker.Acquire(ctx, normalized)
	if err != nil {
		return "", err
	}
	defer release()

	emp, err := s.dir.Lookup(ctx, normalized)
	if err != nil {
		return "", err
	}

	days := s.cal.CountBusinessDays(start, finish)
	ev := &models.VacationEvent{
		Email:        normalized,
		Action:       models.ActionRequest,
		LeaveStart:   &start,
		LeaveReturn:  &finish,
		BusinessDays: &days,
		Notes:        notes,
		ContractType: s.contractType,
	}
	if err := s.log.Append(ctx, ev); err != nil {
		return "", err
	}
	s.logger.Info("vacation request recorded",
		zap.String("email", normalized),
		zap.String("leave_start", leaveStart),
		zap.String("leave_return", leaveReturn),
		zap.Int("business_days", days),
	)

	if err := s.notifier.Deliver(ctx, ev, emp); err != nil {
		// The event is already durable; the delivery failure is the
		// caller's to see, not silently retried here.
		return "", fmt.Errorf("solicitação registrada, mas o envio da notificação falhou: %w", err)
	}

	return fmt.Sprintf("Solicitação de férias enviada com sucesso! Período: %s a %s (%d dias úteis).",
		busdays.FormatDate(start), busdays.FormatDate(finish), days), nil
}

// CancelRequest resolves the employee's open requests as of now and closes
// the single open one. Zero open requests is a normal no-op outcome; more
// than one fails with ErrAmbiguousOpenRequests.
func (s *Service) CancelRequest(ctx context.Context, email, justification string) (CancelResult, error) {
	normalized := directory.Normalize(email)
	release, err := s.locker.Acquire(ctx, normalized)
	if err != nil {
		return CancelResult{}, err
	}
	defer release()

	emp, err := s.dir.Lookup(ctx, normalized)
	if err != nil {
		return CancelResult{}, err
	}

	history, err := s.log.ListByEmail(ctx, normalized)
	if err != nil {
		return CancelResult{}, err
	}
	open := FindOpenRequests(history, s.now())

	switch len(open) {
	case 0:
		return CancelResult{Message: "Não há férias para serem canceladas.", NoOp: true}, nil
	case 1:
		// fall through
	default:
		s.logger.Warn("multiple open vacation requests",
			zap.String("email", normalized), zap.Int("count", len(open)))
		return CancelResult{}, ErrAmbiguousOpenRequests
	}

	target := open[0]
	if justification == "" {
		justification = models.DefaultJustification
	}
	days := s.cal.CountBusinessDays(target.LeaveStart, target.LeaveReturn)
	ev := &models.VacationEvent{
		Email:                normalized,
		Action:               models.ActionCancellation,
		OriginalLeaveStart:   &target.LeaveStart,
		OriginalLeaveReturn:  &target.LeaveReturn,
		OriginalBusinessDays: &days,
		Justification:        justification,
		ContractType:         s.contractType,
	}
	if err := s.log.Append(ctx, ev); err != nil {
		return CancelResult{}, err
	}
	s.logger.Info("vacation cancellation recorded",
		zap.String("email", normalized),
		zap.String("original_leave_start", busdays.FormatDate(target.LeaveStart)),
		zap.String("original_leave_return", busdays.FormatDate(target.LeaveReturn)),
	)

	if err := s.notifier.Deliver(ctx, ev, emp); err != nil {
		return CancelResult{}, fmt.Errorf("cancelamento registrado, mas o envio da notificação falhou: %w", err)
	}

	return CancelResult{
		Message: fmt.Sprintf("Cancelamento de férias enviado com sucesso! Período cancelado: %s a %s, Totalizando %d dias úteis.",
			busdays.FormatDate(target.LeaveStart), busdays.FormatDate(target.LeaveReturn), days),
		OriginalLeaveStart:   target.LeaveStart,
		OriginalLeaveReturn:  target.LeaveReturn,
		OriginalBusinessDays: days,
	}, nil
}

// CountBusinessDays wraps the calculator into a user-facing sentence.
func (s *Service) CountBusinessDays(leaveStart, leaveReturn string) (string, error) {
	start, err := busdays.ParseDate(leaveStart)
	if err != nil {
		return "", err
	}
	finish, err := busdays.ParseDate(leaveReturn)
	if err != nil {
		return "", err
	}
	days := s.cal.CountBusinessDays(start, finish)
	return fmt.Sprintf("Entre %s e %s há %d dias úteis.", leaveStart, leaveReturn, days), nil
}

// CurrentYear returns the current year as a user-facing sentence. The
// conversational layer calls it when a request omits the year.
func (s *Service) CurrentYear() string {
	return fmt.Sprintf("O ano atual é %d", s.now().Year())
}

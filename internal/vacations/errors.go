package vacations

import "errors"

// Domain errors are phrased as the user-facing messages the workflow
// boundary returns; the handlers map them onto HTTP statuses.
var (
	// ErrAmbiguousOpenRequests signals the at-most-one-open-request
	// invariant is violated. Fatal for the operation: resolution requires
	// a human, never an automatic pick.
	ErrAmbiguousOpenRequests = errors.New("Existe mais de um pedido de férias aberto. Consulte o RH para proceder esse cancelamento.")

	// ErrBusy signals another operation currently holds this employee's
	// serialization lease. Retryable by the caller.
	ErrBusy = errors.New("Já existe uma operação de férias em andamento para este colaborador. Tente novamente em instantes.")
)

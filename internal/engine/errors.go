package engine

import "strings"

// The engine reports business failures through four error kinds so the
// HTTP layer can map them to status codes without inspecting messages:
// validation (bad request), conflict (seats lost to someone else),
// precondition (right request, wrong state or closed window) and not
// found (including records hidden from non-owners).

// ValidationError rejects malformed or out-of-range input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports seats that were claimed by a competing booking.
// Seats holds the losing seat labels, ordered.
type ConflictError struct {
	Msg   string
	Seats []string
}

func (e *ConflictError) Error() string {
	if len(e.Seats) == 0 {
		return e.Msg
	}
	return e.Msg + ": " + strings.Join(e.Seats, ", ")
}

// PreconditionError reports a request that is well-formed but illegal
// in the current state, such as paying a canceled booking or refunding
// after the window closed.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// NotFoundError reports a missing record.  Records owned by another
// user are reported as not found rather than forbidden, so the API
// never confirms their existence.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

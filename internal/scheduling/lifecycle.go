package scheduling

import (
	"fmt"
	"slices"
	"time"
)

// Status is a reservation lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// transitions lists the legal next states per current state. Terminal states
// have no entry.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

// InvalidTransitionError reports an illegal lifecycle transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition reservation from %s to %s", e.From, e.To)
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}

	return false
}

// Terminal reports whether no further transitions are legal out of s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// Blocking reports whether a reservation in this status occupies its interval
// for conflict-checking purposes.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransition reports whether from → to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// Transition validates a lifecycle step and returns an InvalidTransitionError
// when the step is illegal.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}

	return nil
}

// ValidateCancel enforces requester-initiated cancellation rules: only
// pending or approved reservations may be cancelled, and only before they
// start.
func ValidateCancel(current Status, startsAt, now time.Time) error {
	if err := Transition(current, StatusCancelled); err != nil {
		return err
	}

	if !now.Before(startsAt) {
		return &InvalidTransitionError{From: current, To: StatusCancelled}
	}

	return nil
}

// Deletable reports whether a reservation record may be removed outright.
// Only reservations that have left the active lifecycle can be deleted.
func Deletable(s Status) bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusCompleted:
		return true
	}

	return false
}

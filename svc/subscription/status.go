package subscription

import "fmt"

// Status represents the lifecycle state of a subscription.
type Status string

const (
	StatusActive         Status = "active"
	StatusSuspended      Status = "suspended"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
	StatusPendingPayment Status = "pending_payment"
)

// ParseStatus converts a storage string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusSuspended, StatusCancelled, StatusExpired, StatusPendingPayment:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// transitions is the legal state-change table. Cancelled and expired are
// terminal; an upgrade re-enters active and is not a transition.
var transitions = map[Status][]Status{
	StatusActive:         {StatusSuspended, StatusCancelled, StatusExpired},
	StatusSuspended:      {StatusActive, StatusCancelled},
	StatusPendingPayment: {StatusActive, StatusCancelled},
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

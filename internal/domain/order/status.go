package order

import "slices"

// Status is the lifecycle state of an order, persisted as its string value.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus converts a wire value into a Status. The second return value is
// false for unknown values.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// transitions is the table of legal status edges. Delivered and Cancelled are
// terminal and therefore have no entry. Same-state transitions are illegal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether from → to is a legal status edge.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// ValidateTransition returns an InvalidTransitionError when from → to is not a
// legal edge. It is a pure decision function; applying the transition is the
// caller's responsibility.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

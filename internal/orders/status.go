package orders

import "strings"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusDraft        Status = "DRAFT"
	StatusOrdered      Status = "ORDERED"
	StatusApproved     Status = "APPROVED"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusShipped      Status = "SHIPPED"
	StatusDelivered    Status = "DELIVERED"
	StatusCancelled    Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusDraft:        {StatusOrdered, StatusCancelled},
	StatusOrdered:      {StatusApproved, StatusCancelled},
	StatusApproved:     {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusShipped},
	StatusShipped:      {StatusDelivered},
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusOrdered, StatusApproved, StatusInProduction, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition reports whether an order may move from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Editable reports whether order contents may still change.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusOrdered
}

// Final reports whether no further transition exists.
func (s Status) Final() bool {
	return len(transitions[s]) == 0
}

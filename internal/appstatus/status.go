// Package appstatus defines the review workflow for job applications.
//
// Valid status graph:
//
//	pending ──► reviewing ──► interviewed ──► accepted
//	   │            │              │
//	   └────────────┴──────────────┴──► rejected
//
// accepted and rejected are terminal.
package appstatus

import "fmt"

// Status mirrors the CHECK constraint on applications.status.
type Status string

const (
	Pending     Status = "pending"
	Reviewing   Status = "reviewing"
	Interviewed Status = "interviewed"
	Accepted    Status = "accepted"
	Rejected    Status = "rejected"
)

var validTransitions = map[Status][]Status{
	Pending:     {Reviewing, Rejected},
	Reviewing:   {Interviewed, Rejected},
	Interviewed: {Accepted, Rejected},
}

// All returns every status in workflow order.
func All() []Status {
	return []Status{Pending, Reviewing, Interviewed, Accepted, Rejected}
}

// Parse converts a raw string to a Status.
func Parse(s string) (Status, error) {
	st := Status(s)
	switch st {
	case Pending, Reviewing, Interviewed, Accepted, Rejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition reports whether an application may move from one status to
// another. Re-applying the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

package domain

// transitions is the status adjacency table. A status change is legal only if
// the target appears in the source's entry.
var transitions = map[Status][]Status{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusApproved, StatusInProgress},
	StatusApproved:      {StatusInProgress},
	StatusInProgress:    {},
}

// NextStatuses returns the statuses reachable in one step from s.
// Terminal and unknown statuses return an empty slice.
func NextStatuses(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is an edge of the table.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a *StateTransitionError unless from -> to is allowed.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &StateTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

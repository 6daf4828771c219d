package reports

import "ajali/core/store"

// transitions is the full legality table for the report lifecycle.
// pending may be closed directly (resolved/rejected) so admins can dispose
// of duplicates or low-priority reports without an investigation phase.
var transitions = map[store.Status][]store.Status{
	store.StatusPending:            {store.StatusUnderInvestigation, store.StatusResolved, store.StatusRejected},
	store.StatusUnderInvestigation: {store.StatusResolved, store.StatusRejected},
	store.StatusResolved:           {},
	store.StatusRejected:           {},
}

// Terminal reports admit no further transitions.
func Terminal(s store.Status) bool {
	targets, ok := transitions[s]
	return ok && len(targets) == 0
}

func CanTransition(from, to store.Status) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// LegalTargets returns the statuses reachable from the given one.
func LegalTargets(from store.Status) []store.Status {
	targets := transitions[from]
	out := make([]store.Status, len(targets))
	copy(out, targets)
	return out
}

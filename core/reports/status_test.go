package reports

import (
	"testing"

	"ajali/core/store"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to store.Status
		ok       bool
	}{
		{store.StatusPending, store.StatusUnderInvestigation, true},
		{store.StatusPending, store.StatusResolved, true},
		{store.StatusPending, store.StatusRejected, true},
		{store.StatusUnderInvestigation, store.StatusResolved, true},
		{store.StatusUnderInvestigation, store.StatusRejected, true},
		{store.StatusUnderInvestigation, store.StatusPending, false},
		{store.StatusResolved, store.StatusPending, false},
		{store.StatusResolved, store.StatusRejected, false},
		{store.StatusRejected, store.StatusUnderInvestigation, false},
		{store.StatusPending, store.StatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTerminal(t *testing.T) {
	if Terminal(store.StatusPending) || Terminal(store.StatusUnderInvestigation) {
		t.Fatalf("open statuses must not be terminal")
	}
	if !Terminal(store.StatusResolved) || !Terminal(store.StatusRejected) {
		t.Fatalf("closed statuses must be terminal")
	}
	if Terminal(store.Status("bogus")) {
		t.Fatalf("unknown status must not report terminal")
	}
}

func TestLegalTargets(t *testing.T) {
	targets := LegalTargets(store.StatusPending)
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets from pending, got %v", targets)
	}
	if got := LegalTargets(store.StatusResolved); len(got) != 0 {
		t.Fatalf("expected no targets from resolved, got %v", got)
	}
}

// Package analysis computes structural diagnostics over a state machine.
//
// Both queries are pure and recomputed from scratch; neither fails on cycles,
// self-loops or references to undefined states.
package analysis

import (
	"sync"

	"github.com/aretw0/protostate/pkg/domain"
)

// UnreachableStates returns the defined states that cannot be reached from the
// initial state, in display order. Targets that are not defined are not visited.
func UnreachableStates(m *domain.StateMachine) []string {
	visited := make(map[string]bool, m.Len())

	var queue []string
	if m.Has(m.Initial()) {
		queue = append(queue, m.Initial())
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		value, _ := m.Lookup(current)
		for _, e := range value.Events() {
			target := domain.ParseEventValue(e.Value).Target
			if target == "" || visited[target] || !m.Has(target) {
				continue
			}
			queue = append(queue, target)
		}
	}

	var unreachable []string
	for _, name := range m.Names() {
		if !visited[name] {
			unreachable = append(unreachable, name)
		}
	}
	return unreachable
}

// UnresolvedStates returns every non-empty target that names an undefined
// state, deduplicated, in order of first sighting.
func UnresolvedStates(m *domain.StateMachine) []string {
	seen := make(map[string]bool)
	var unresolved []string
	for _, s := range m.States() {
		for _, e := range s.Value.Events() {
			target := domain.ParseEventValue(e.Value).Target
			if target == "" || seen[target] || m.Has(target) {
				continue
			}
			seen[target] = true
			unresolved = append(unresolved, target)
		}
	}
	return unresolved
}

// Report bundles every diagnostic for one machine snapshot.
type Report struct {
	Unreachable []string `json:"unreachable"`
	Unresolved  []string `json:"unresolved"`
	// InitialUndefined is set when the initial state names a state that is not defined.
	InitialUndefined bool `json:"initial_undefined,omitempty"`
}

// Analyze runs every query over m.
func Analyze(m *domain.StateMachine) Report {
	r := Report{
		Unreachable: UnreachableStates(m),
		Unresolved:  UnresolvedStates(m),
	}
	if r.Unreachable == nil {
		r.Unreachable = []string{}
	}
	if r.Unresolved == nil {
		r.Unresolved = []string{}
	}
	r.InitialUndefined = m.Initial() != "" && !m.Has(m.Initial())
	return r
}

// Clean reports whether the report carries no diagnostic.
func (r Report) Clean() bool {
	return len(r.Unreachable) == 0 && len(r.Unresolved) == 0 && !r.InitialUndefined
}

// IsUnreachable reports whether name is in the unreachable set.
func (r Report) IsUnreachable(name string) bool {
	return contains(r.Unreachable, name)
}

// IsUnresolved reports whether name is referenced but undefined.
func (r Report) IsUnresolved(name string) bool {
	return contains(r.Unresolved, name)
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// Analyzer memoizes the last report by machine identity.
// Every mutation produces a new snapshot, so a pointer change is an invalidation.
type Analyzer struct {
	mu      sync.Mutex
	machine *domain.StateMachine
	report  Report
}

// Analyze returns the report for m, recomputing only when m is a different snapshot.
func (a *Analyzer) Analyze(m *domain.StateMachine) Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine != nil && a.machine == m {
		return a.report
	}
	a.machine = m
	a.report = Analyze(m)
	return a.report
}

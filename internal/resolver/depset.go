package resolver

import (
	"sort"

	"github.com/planit-dev/planit/internal/backend"
)

// DepSet is the set of terminal job handles a subtree exposes to whatever
// follows it, keyed by job ID. It is the "all of these must succeed" gate
// for the next node. An incoming DepSet is never mutated; every recursion
// step builds a fresh one.
type DepSet map[string]*backend.Handle

// IDs returns the job IDs in the set, sorted so submissions are
// deterministic.
func (s DepSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

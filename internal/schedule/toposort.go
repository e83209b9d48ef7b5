package schedule

import (
	"fmt"
	"sort"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// topoSort orders steps so every step follows all of its dependencies.
//
// Kahn's algorithm with a fixed tie-break: among ready steps, the
// lexicographically smallest step ID runs first. That tie-break is the only
// ordering freedom the determinism contract grants; emission order and map
// iteration order never influence the result.
func topoSort(steps []ir.Step) ([]ir.Step, error) {
	byID := make(map[ir.StepID]ir.Step, len(steps))
	indegree := make(map[ir.StepID]int, len(steps))
	dependents := make(map[ir.StepID][]ir.StepID, len(steps))

	for _, s := range steps {
		if _, dup := byID[s.ID]; dup {
			return nil, &Error{Code: CodeStepCycle, Message: fmt.Sprintf("duplicate step id %q", s.ID)}
		}
		byID[s.ID] = s
		indegree[s.ID] = 0
	}
	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, &Error{Code: CodeStepCycle, Message: fmt.Sprintf("step %q depends on unknown step %q", s.ID, dep)}
			}
			indegree[s.ID]++
			dependents[dep] = append(dependents[dep], s.ID)
		}
	}

	var ready []ir.StepID
	for _, s := range steps {
		if indegree[s.ID] == 0 {
			ready = append(ready, s.ID)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	ordered := make([]ir.Step, 0, len(steps))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[next])

		released := dependents[next]
		sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })
		for _, dep := range released {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(ordered) != len(steps) {
		return nil, &Error{Code: CodeStepCycle, Message: "step dependency graph contains a cycle"}
	}
	return ordered, nil
}

// insertSorted keeps the ready list sorted by step ID.
func insertSorted(ids []ir.StepID, id ir.StepID) []ir.StepID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

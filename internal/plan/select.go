// Package plan turns a requested set of task names into an ordered,
// deduplicated execution plan over the task graph.
package plan

import (
	"errors"
	"fmt"

	"github.com/Valitseja/doit/internal/task"
)

// ErrCycle reports a cycle in the transitive task_dep closure.
var ErrCycle = errors.New("cyclic task dependency")

// visit states for the dependency walk.
const (
	stateUnseen = iota
	stateVisiting
	stateDone
)

type selector struct {
	index map[string]*task.Task
	state map[string]int
	plan  []*task.Task
}

// Select resolves names against the full task list and returns the
// execution plan: every task preceded by its transitive task_dep closure,
// each task exactly once, ties in declaration order.
//
// An empty request selects every top-level (non-subtask) task in
// declaration order. Unknown names and dependency cycles fail with
// task.ErrNotATask and ErrCycle respectively; nothing runs in that case.
func Select(all []*task.Task, names []string) ([]*task.Task, error) {
	sel := &selector{
		index: task.Index(all),
		state: make(map[string]int, len(all)),
	}

	if len(names) == 0 {
		for _, t := range all {
			if t.Subtask {
				continue
			}

			if err := sel.visit(t.Name); err != nil {
				return nil, err
			}
		}

		return sel.plan, nil
	}

	for _, name := range names {
		if err := sel.visit(name); err != nil {
			return nil, err
		}
	}

	return sel.plan, nil
}

func (s *selector) visit(name string) error {
	t, ok := s.index[name]
	if !ok {
		return fmt.Errorf("'%s' %w", name, task.ErrNotATask)
	}

	switch s.state[name] {
	case stateDone:
		return nil
	case stateVisiting:
		return fmt.Errorf("%w: %s", ErrCycle, name)
	}

	s.state[name] = stateVisiting

	for _, dep := range t.TaskDep {
		if err := s.visit(dep); err != nil {
			return err
		}
	}

	s.state[name] = stateDone
	s.plan = append(s.plan, t)

	return nil
}

// Expand returns the breadth-first group closure of name: the name
// itself, then the task_dep members of every group task reached, each
// exactly once. Non-group tasks contribute only themselves. This is the
// traversal forget and ignore share.
func Expand(index map[string]*task.Task, name string) ([]string, error) {
	if _, ok := index[name]; !ok {
		return nil, fmt.Errorf("'%s' %w", name, task.ErrNotATask)
	}

	var closure []string

	seen := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		closure = append(closure, current)

		t, ok := index[current]
		if !ok {
			return nil, fmt.Errorf("'%s' %w", current, task.ErrNotATask)
		}

		if !t.Group() {
			continue
		}

		for _, member := range t.TaskDep {
			if seen[member] {
				continue
			}

			seen[member] = true
			queue = append(queue, member)
		}
	}

	return closure, nil
}

package dep

import (
	"fmt"
	"os"

	"github.com/Valitseja/doit/internal/task"
)

// Status is the computed execution state of a task. It is derived on
// every query from the stored record against the current filesystem and
// task graph, never persisted.
type Status int

const (
	// StatusRun marks a task that is stale or never executed.
	StatusRun Status = iota
	// StatusUpToDate marks a task whose dependencies all match their
	// last-committed fingerprints.
	StatusUpToDate
	// StatusIgnored marks a task explicitly flagged by the ignore
	// command.
	StatusIgnored
)

// String returns the status name used in user-facing output.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up-to-date"
	case StatusIgnored:
		return "ignore"
	case StatusRun:
		return "run"
	default:
		return "run"
	}
}

// StatusChecker computes task status against one store handle. Results
// are memoized per checker, so build a fresh one per invocation: a status
// computed before a run does not reflect commits made during it.
type StatusChecker struct {
	store    *Store
	tasks    map[string]*task.Task
	memo     map[string]Status
	visiting map[string]bool
}

// NewStatusChecker creates a checker over the full task index.
func NewStatusChecker(store *Store, tasks map[string]*task.Task) *StatusChecker {
	return &StatusChecker{
		store:    store,
		tasks:    tasks,
		memo:     map[string]Status{},
		visiting: map[string]bool{},
	}
}

// Status resolves the execution state of t.
//
// StatusIgnored wins over everything. Otherwise the task must run if it
// has no record, any file dependency is missing, unrecorded or changed,
// any target is missing, or any task dependency would itself run.
// Ignored dependencies count as settled.
func (c *StatusChecker) Status(t *task.Task) (Status, error) {
	if st, ok := c.memo[t.Name]; ok {
		return st, nil
	}

	if c.visiting[t.Name] {
		return StatusRun, fmt.Errorf("%w: %s", ErrCycle, t.Name)
	}

	c.visiting[t.Name] = true
	defer delete(c.visiting, t.Name)

	st, err := c.compute(t)
	if err != nil {
		return StatusRun, err
	}

	c.memo[t.Name] = st

	return st, nil
}

func (c *StatusChecker) compute(t *task.Task) (Status, error) {
	rec, ok := c.store.Record(t.Name)
	if rec.Ignored {
		return StatusIgnored, nil
	}

	if !ok {
		return StatusRun, nil
	}

	for _, name := range t.TaskDep {
		depTask, known := c.tasks[name]
		if !known {
			return StatusRun, fmt.Errorf("'%s' %w", name, task.ErrNotATask)
		}

		depStatus, err := c.Status(depTask)
		if err != nil {
			return StatusRun, err
		}

		// An ignored dependency is settled, not stale; only a dependency
		// that would actually run makes the dependent stale.
		if depStatus == StatusRun {
			return StatusRun, nil
		}
	}

	for _, target := range t.Targets {
		if _, err := os.Stat(target); err != nil {
			return StatusRun, nil
		}
	}

	for _, path := range t.FileDep {
		stored, recorded := rec.Files[path]
		if !recorded {
			return StatusRun, nil
		}

		same, err := stored.Unchanged(path)
		if err != nil {
			return StatusRun, err
		}

		if !same {
			return StatusRun, nil
		}
	}

	return StatusUpToDate, nil
}

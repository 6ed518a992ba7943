// Package task defines the task graph model: immutable task descriptors,
// the polymorphic actions they execute, and their clean collaborators.
package task

import (
	"errors"
	"strings"
)

// Verbosity levels. A task-level override of VerbosityDefault or higher
// takes precedence over the global level passed to the runner.
const (
	// VerbositySilent captures both stdout and stderr of actions.
	VerbositySilent = 0
	// VerbosityDefault captures stdout; stderr passes through.
	VerbosityDefault = 1
	// VerbosityVerbose streams both stdout and stderr immediately.
	VerbosityVerbose = 2
)

// NameSep separates a parent task name from a generated sub-task name.
const NameSep = ":"

// ErrNotATask reports a name that does not resolve to any known task.
// Callers wrap it as "'<name>' is not a task".
var ErrNotATask = errors.New("is not a task")

// Task describes a named unit of work. Tasks are built once at startup and
// treated as read-only afterwards.
type Task struct {
	// Name uniquely identifies the task. Sub-task names are namespaced
	// as "parent:child".
	Name string

	// Actions run in order when the task executes. A task with no
	// actions is a group task: it only aggregates TaskDep members.
	Actions []Action

	// FileDep lists file paths the task reads. Used for staleness
	// checks and watch-mode triggering.
	FileDep []string

	// TaskDep lists task names that must run or be up-to-date first.
	TaskDep []string

	// Targets lists file paths the task produces. A missing target
	// makes the task stale.
	Targets []string

	// Doc is an optional one-line description shown by list --doc.
	Doc string

	// Subtask marks tasks generated from a parametrized definition.
	Subtask bool

	// Verbosity optionally overrides the global output verbosity.
	Verbosity *int

	// CleanActions run when the task is cleaned.
	CleanActions []Action

	// CleanTargets removes declared Targets when the task is cleaned.
	CleanTargets bool
}

// Group reports whether the task only aggregates other tasks.
func (t *Task) Group() bool {
	return len(t.Actions) == 0
}

// Private reports whether the task is hidden from default listings.
// Follows the underscore-prefix convention.
func (t *Task) Private() bool {
	return strings.HasPrefix(t.Name, "_")
}

// SubtaskOf reports whether name is namespaced under t.
func (t *Task) SubtaskOf(name string) bool {
	return strings.HasPrefix(name, t.Name+NameSep)
}

// SubtaskName builds the namespaced name for a generated sub-task.
func SubtaskName(parent, child string) string {
	return parent + NameSep + child
}

// Index maps task names to tasks. Later duplicates win, matching
// declaration-order semantics of task definition files.
func Index(tasks []*Task) map[string]*Task {
	index := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		index[t.Name] = t
	}

	return index
}

// Package report renders task lifecycle events. The runner talks to the
// Reporter interface only; concrete reporters are resolved by name
// through an explicit Registry built at process startup.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Valitseja/doit/internal/task"
)

// ErrUnknownReporter reports a reporter name with no registered factory.
var ErrUnknownReporter = errors.New("no reporter named")

// Reporter receives per-task lifecycle notifications from the runner and
// a final Complete call. Captured action output arrives exactly once,
// with the failure that produced it.
type Reporter interface {
	// ExecuteTask signals that the task's actions are about to run.
	ExecuteTask(t *task.Task)

	// SkipUpToDate signals the task was skipped as up-to-date.
	SkipUpToDate(t *task.Task)

	// SkipIgnored signals the task was skipped as explicitly ignored.
	SkipIgnored(t *task.Task)

	// AddSuccess signals all actions completed.
	AddSuccess(t *task.Task)

	// AddFailure signals a failed task with its captured output.
	AddFailure(t *task.Task, err error, out, errOut string)

	// Complete signals the end of the plan walk.
	Complete()
}

// Factory builds a reporter writing to out. showOut includes captured
// stdout in failure reports; showFailures prints failure details on
// Complete.
type Factory func(out io.Writer, showOut, showFailures bool) Reporter

// Registry maps reporter names to factories. It replaces a process-wide
// mutable map: construct one, register factories, pass it where needed.
type Registry struct {
	factories map[string]Factory
	names     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under name, overwriting any previous entry.
func (r *Registry) Register(name string, factory Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}

	r.factories[name] = factory
}

// Lookup resolves name to a factory.
func (r *Registry) Lookup(name string) (Factory, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s' (available: %s)",
			ErrUnknownReporter, name, strings.Join(r.names, ", "))
	}

	return factory, nil
}

// Names returns the registered reporter names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Default returns a registry with the built-in reporters: console,
// executed-only, and json.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register("console", NewConsole)
	reg.Register("executed-only", NewExecutedOnly)
	reg.Register("json", NewJSON)

	return reg
}

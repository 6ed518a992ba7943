// Package runner walks an execution plan: it consults the dependency
// store per task, executes stale or forced tasks, commits fingerprints on
// success, and routes outcomes to a reporter.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/report"
	"github.com/Valitseja/doit/internal/task"
)

// ErrTaskDepFailed marks a task failed because one of its task
// dependencies failed earlier in the plan. Its actions never ran.
var ErrTaskDepFailed = errors.New("task dependency failed")

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Runner executes one plan sequentially in plan order. Build a fresh one
// per invocation.
type Runner struct {
	// Store is the open dependency store for this invocation.
	Store *dep.Store

	// Reporter receives lifecycle events.
	Reporter report.Reporter

	// Out and ErrOut receive action output when the effective verbosity
	// streams instead of capturing.
	Out    io.Writer
	ErrOut io.Writer

	// Verbosity is the global level; tasks may override it.
	Verbosity int

	// AlwaysExecute skips the status check and runs every planned task.
	AlwaysExecute bool

	// ContinueOnError keeps walking the plan after a failure. Tasks
	// depending on a failed task are marked failed without executing.
	ContinueOnError bool
}

// Run walks the plan. The exit code is ExitOK when every task succeeded
// or was skipped, ExitFailure otherwise. A non-nil error means the store
// or task graph is unusable; no exit code is meaningful then.
func (r *Runner) Run(ctx context.Context, plan []*task.Task, index map[string]*task.Task) (int, error) {
	checker := dep.NewStatusChecker(r.Store, index)
	failed := map[string]bool{}
	exit := ExitOK

	for _, t := range plan {
		if depName, ok := failedDep(t, failed); ok {
			failed[t.Name] = true
			exit = ExitFailure
			r.Reporter.AddFailure(t, fmt.Errorf("%w: %s", ErrTaskDepFailed, depName), "", "")

			if !r.ContinueOnError {
				break
			}

			continue
		}

		status := dep.StatusRun

		if !r.AlwaysExecute {
			var err error

			status, err = checker.Status(t)
			if err != nil {
				// The reporter still owes its closing output for the
				// tasks already walked.
				r.Reporter.Complete()

				return ExitFailure, err
			}
		}

		switch status {
		case dep.StatusIgnored:
			r.Reporter.SkipIgnored(t)

			continue
		case dep.StatusUpToDate:
			r.Reporter.SkipUpToDate(t)

			continue
		case dep.StatusRun:
		}

		if err := r.execute(ctx, t); err != nil {
			failed[t.Name] = true
			exit = ExitFailure

			if !r.ContinueOnError {
				break
			}
		}
	}

	r.Reporter.Complete()

	return exit, nil
}

// execute runs the task's actions and commits fingerprints on success.
// The returned error is already reported; callers only branch on it.
func (r *Runner) execute(ctx context.Context, t *task.Task) error {
	r.Reporter.ExecuteTask(t)

	streams := r.streamsFor(t)

	for _, action := range t.Actions {
		if err := action.Run(ctx, streams.out, streams.errOut); err != nil {
			r.Reporter.AddFailure(t, err, streams.capturedOut(), streams.capturedErr())

			return err
		}
	}

	fingerprints, err := fileFingerprints(t.FileDep)
	if err != nil {
		// Actions succeeded but a declared dependency cannot be
		// fingerprinted; without a commit the task stays stale.
		r.Reporter.AddFailure(t, err, streams.capturedOut(), streams.capturedErr())

		return err
	}

	r.Store.Commit(t.Name, fingerprints)
	r.Reporter.AddSuccess(t)

	return nil
}

// actionStreams holds the output routing for one task. Captured buffers
// are nil when the corresponding stream goes live.
type actionStreams struct {
	out    io.Writer
	errOut io.Writer
	outBuf *bytes.Buffer
	errBuf *bytes.Buffer
}

func (s actionStreams) capturedOut() string {
	if s.outBuf == nil {
		return ""
	}

	return s.outBuf.String()
}

func (s actionStreams) capturedErr() string {
	if s.errBuf == nil {
		return ""
	}

	return s.errBuf.String()
}

// streamsFor resolves the effective verbosity and wires buffers or live
// writers accordingly. Streamed output is never also captured, so no
// message can reach the reporter twice.
func (r *Runner) streamsFor(t *task.Task) actionStreams {
	verbosity := r.Verbosity
	if t.Verbosity != nil {
		verbosity = *t.Verbosity
	}

	var streams actionStreams

	switch {
	case verbosity <= task.VerbositySilent:
		streams.outBuf = &bytes.Buffer{}
		streams.errBuf = &bytes.Buffer{}
		streams.out = streams.outBuf
		streams.errOut = streams.errBuf
	case verbosity == task.VerbosityDefault:
		streams.outBuf = &bytes.Buffer{}
		streams.out = streams.outBuf
		streams.errOut = r.ErrOut
	default:
		streams.out = r.Out
		streams.errOut = r.ErrOut
	}

	return streams
}

func failedDep(t *task.Task, failed map[string]bool) (string, bool) {
	for _, dep := range t.TaskDep {
		if failed[dep] {
			return dep, true
		}
	}

	return "", false
}

func fileFingerprints(paths []string) (map[string]dep.Fingerprint, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	fingerprints := make(map[string]dep.Fingerprint, len(paths))

	for _, path := range paths {
		fp, err := dep.FileFingerprint(path)
		if err != nil {
			return nil, err
		}

		fingerprints[path] = fp
	}

	return fingerprints, nil
}

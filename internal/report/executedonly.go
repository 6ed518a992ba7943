package report

import (
	"io"

	"github.com/Valitseja/doit/internal/task"
)

// ExecutedOnly is the console reporter without skip lines. Watch mode
// uses it so an unchanged graph produces no output on re-runs.
type ExecutedOnly struct {
	*Console
}

// NewExecutedOnly creates the executed-only reporter.
func NewExecutedOnly(out io.Writer, showOut, showFailures bool) Reporter {
	return &ExecutedOnly{
		Console: &Console{out: out, showOut: showOut, showFailures: showFailures},
	}
}

// SkipUpToDate is silent.
func (r *ExecutedOnly) SkipUpToDate(_ *task.Task) {}

// SkipIgnored is silent.
func (r *ExecutedOnly) SkipIgnored(_ *task.Task) {}

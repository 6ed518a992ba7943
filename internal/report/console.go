package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Valitseja/doit/internal/task"
)

// failure records one failed task for the closing report.
type failure struct {
	name   string
	err    error
	out    string
	errOut string
}

// Console is the default reporter: one line per task as the plan
// advances, failure details at the end.
type Console struct {
	out          io.Writer
	showOut      bool
	showFailures bool
	failures     []failure
}

// NewConsole creates the default console reporter.
func NewConsole(out io.Writer, showOut, showFailures bool) Reporter {
	return &Console{out: out, showOut: showOut, showFailures: showFailures}
}

// ExecuteTask prints ".  <name>" for a task about to run.
func (r *Console) ExecuteTask(t *task.Task) {
	fmt.Fprintf(r.out, ".  %s\n", t.Name)
}

// SkipUpToDate prints "-- <name>" for an up-to-date task.
func (r *Console) SkipUpToDate(t *task.Task) {
	fmt.Fprintf(r.out, "-- %s\n", t.Name)
}

// SkipIgnored prints "!! <name>" for an explicitly ignored task.
func (r *Console) SkipIgnored(t *task.Task) {
	fmt.Fprintf(r.out, "!! %s\n", t.Name)
}

// AddSuccess is a no-op for the console; the execute line already shows
// progress.
func (r *Console) AddSuccess(_ *task.Task) {}

// AddFailure records the failure for the closing report.
func (r *Console) AddFailure(t *task.Task, err error, out, errOut string) {
	r.failures = append(r.failures, failure{
		name:   t.Name,
		err:    err,
		out:    out,
		errOut: errOut,
	})
}

// Complete prints the recorded failures.
func (r *Console) Complete() {
	if !r.showFailures {
		return
	}

	for _, f := range r.failures {
		fmt.Fprintln(r.out, strings.Repeat("#", failureRuleWidth))
		fmt.Fprintf(r.out, "%s %s\n", color.RedString("task failed:"), f.name)
		fmt.Fprintln(r.out, f.err)

		if f.errOut != "" {
			fmt.Fprintln(r.out, color.YellowString("captured stderr:"))
			fmt.Fprint(r.out, ensureNewline(f.errOut))
		}

		if r.showOut && f.out != "" {
			fmt.Fprintln(r.out, color.YellowString("captured stdout:"))
			fmt.Fprint(r.out, ensureNewline(f.out))
		}
	}
}

const failureRuleWidth = 40

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Valitseja/doit/internal/task"
)

// Result states emitted by the JSON reporter.
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultUpToDate = "up-to-date"
	ResultIgnored  = "ignore"
)

// TaskResult is one task's outcome in the JSON document.
type TaskResult struct {
	Name   string `json:"name"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
	Out    string `json:"out,omitempty"`
	ErrOut string `json:"err,omitempty"`
}

// JSON buffers all outcomes and writes a single document on Complete,
// for driving doit from other tooling.
type JSON struct {
	out     io.Writer
	results []TaskResult
}

// NewJSON creates the JSON reporter. The show flags are accepted for
// factory compatibility; the document always carries captured output.
func NewJSON(out io.Writer, _, _ bool) Reporter {
	return &JSON{out: out, results: []TaskResult{}}
}

// ExecuteTask is silent; the outcome is recorded at success or failure.
func (r *JSON) ExecuteTask(_ *task.Task) {}

// SkipUpToDate records an up-to-date outcome.
func (r *JSON) SkipUpToDate(t *task.Task) {
	r.results = append(r.results, TaskResult{Name: t.Name, Result: ResultUpToDate})
}

// SkipIgnored records an ignored outcome.
func (r *JSON) SkipIgnored(t *task.Task) {
	r.results = append(r.results, TaskResult{Name: t.Name, Result: ResultIgnored})
}

// AddSuccess records a success outcome.
func (r *JSON) AddSuccess(t *task.Task) {
	r.results = append(r.results, TaskResult{Name: t.Name, Result: ResultSuccess})
}

// AddFailure records a failed outcome with its captured output.
func (r *JSON) AddFailure(t *task.Task, err error, out, errOut string) {
	r.results = append(r.results, TaskResult{
		Name:   t.Name,
		Result: ResultFailed,
		Error:  err.Error(),
		Out:    out,
		ErrOut: errOut,
	})
}

// Complete writes the document.
func (r *JSON) Complete() {
	doc := struct {
		Tasks []TaskResult `json:"tasks"`
	}{Tasks: r.results}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "{\"error\": %q}\n", err.Error())

		return
	}

	fmt.Fprintf(r.out, "%s\n", data)
}

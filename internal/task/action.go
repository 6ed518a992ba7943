package task

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Action is a single executable step of a task. The runner decides whether
// out and errOut are live streams or capture buffers; actions must route
// all of their output through them.
type Action interface {
	// Run executes the step. A non-nil error marks the owning task failed.
	Run(ctx context.Context, out, errOut io.Writer) error

	// String describes the step for clean dry-runs and failure reports.
	String() string
}

// cmdAction runs a shell command via "sh -c".
type cmdAction struct {
	command string
}

// Cmd returns an action that runs command through the shell.
func Cmd(command string) Action {
	return cmdAction{command: command}
}

func (a cmdAction) Run(ctx context.Context, out, errOut io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", a.command)
	cmd.Stdout = out
	cmd.Stderr = errOut

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %q: %w", a.command, err)
	}

	return nil
}

func (a cmdAction) String() string {
	return a.command
}

// fnAction runs an in-process callable.
type fnAction struct {
	name string
	fn   func(ctx context.Context, out io.Writer) error
}

// Fn returns an action that calls fn in-process. Output written to out is
// captured or streamed by the runner like command stdout. The name is used
// in clean dry-runs and failure reports.
func Fn(name string, fn func(ctx context.Context, out io.Writer) error) Action {
	return fnAction{name: name, fn: fn}
}

func (a fnAction) Run(ctx context.Context, out, _ io.Writer) error {
	if err := a.fn(ctx, out); err != nil {
		return fmt.Errorf("%s: %w", a.name, err)
	}

	return nil
}

func (a fnAction) String() string {
	return a.name
}

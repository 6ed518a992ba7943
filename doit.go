// Package doit is a dependency-aware task automation engine: a
// programmable alternative to make. Tasks are declared in Go, with
// actions, file/task dependencies, and produced targets; the engine
// decides which tasks are stale, executes them in dependency order,
// persists execution fingerprints, and can re-trigger itself when
// watched files change.
//
// A build program embeds the engine by declaring tasks and handing them
// to Main:
//
//	package main
//
//	import (
//		"os"
//
//		"github.com/Valitseja/doit"
//	)
//
//	func main() {
//		os.Exit(doit.Main([]*doit.Task{
//			{
//				Name:    "compile",
//				Actions: []doit.Action{doit.Cmd("go build ./...")},
//				FileDep: []string{"main.go"},
//			},
//		}))
//	}
//
// The resulting binary exposes the run, list, clean, forget, ignore and
// auto commands over that task graph.
package doit

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Valitseja/doit/internal/cli"
	"github.com/Valitseja/doit/internal/task"
)

// Task describes a named unit of work. See the internal/task docs for
// field semantics.
type Task = task.Task

// Action is a single executable step of a task.
type Action = task.Action

// Verbosity levels for Task.Verbosity overrides and the -v flag.
const (
	VerbositySilent  = task.VerbositySilent
	VerbosityDefault = task.VerbosityDefault
	VerbosityVerbose = task.VerbosityVerbose
)

// Cmd returns an action that runs command through the shell.
func Cmd(command string) Action {
	return task.Cmd(command)
}

// Fn returns an action that calls fn in-process. Output written to out
// is captured or streamed like command stdout.
func Fn(name string, fn func(ctx context.Context, out io.Writer) error) Action {
	return task.Fn(name, fn)
}

// SubtaskName builds the namespaced name for a generated sub-task.
func SubtaskName(parent, child string) string {
	return task.SubtaskName(parent, child)
}

// Main runs the command line over the given task graph and returns the
// process exit code. It wires the standard streams, the environment, and
// an interrupt channel that stops the auto command's watch loop.
func Main(tasks []*Task) int {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	return cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env, sigCh, tasks)
}

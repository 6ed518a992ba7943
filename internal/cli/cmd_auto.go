package cli

import (
	"context"
	"io"
	"os"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/plan"
	"github.com/Valitseja/doit/internal/report"
	"github.com/Valitseja/doit/internal/runner"
	"github.com/Valitseja/doit/internal/task"
	"github.com/Valitseja/doit/internal/watch"
)

func cmdAuto(
	ctx context.Context, o *IO, cfg Config, workDir string,
	tasks []*task.Task, args []string, sigCh <-chan os.Signal,
) int {
	if hasHelpFlag(args) {
		printAutoHelp(o.out)

		return 0
	}

	selected, err := plan.Select(tasks, args)
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	// The watch set is fixed at loop start; a re-run that changes
	// declared dependencies does not extend it.
	monitor, err := watch.NewMonitor(watchFiles(selected))
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	stop := make(chan struct{})

	if sigCh != nil {
		go func() {
			<-sigCh
			close(stop)
		}()
	}

	index := task.Index(tasks)

	loopErr := monitor.Loop(stop, func(_ string) {
		autoRunOnce(ctx, o, cfg, workDir, selected, index)
	})
	if loopErr != nil {
		fprintln(o.errOut, "error:", loopErr)

		return 1
	}

	return 0
}

// watchFiles returns the union of file dependencies across the plan, in
// plan order without duplicates.
func watchFiles(selected []*task.Task) []string {
	seen := map[string]bool{}

	var files []string

	for _, t := range selected {
		for _, path := range t.FileDep {
			if seen[path] {
				continue
			}

			seen[path] = true
			files = append(files, path)
		}
	}

	return files
}

// autoRunOnce re-runs the selected plan with the executed-only reporter.
// Failures are reported and watching resumes; only an unusable store
// surfaces on stderr.
func autoRunOnce(
	ctx context.Context, o *IO, cfg Config, workDir string,
	selected []*task.Task, index map[string]*task.Task,
) {
	store, err := dep.Open(resolveDB(cfg, workDir))
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return
	}

	run := &runner.Runner{
		Store:           store,
		Reporter:        report.NewExecutedOnly(o.out, true, true),
		Out:             o.out,
		ErrOut:          o.errOut,
		Verbosity:       cfg.Verbosity,
		AlwaysExecute:   false,
		ContinueOnError: false,
	}

	_, runErr := run.Run(ctx, selected, index)

	if err := store.Close(); err != nil && runErr == nil {
		runErr = err
	}

	if runErr != nil {
		fprintln(o.errOut, "error:", runErr)
	}
}

func printAutoHelp(out io.Writer) {
	fprintln(out, "Usage: doit auto [task...]")
	fprintln(out, "")
	fprintln(out, "Watch the file dependencies of the selected tasks and re-run the")
	fprintln(out, "plan whenever one of them changes. Runs until interrupted.")
}

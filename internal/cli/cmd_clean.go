package cli

import (
	"context"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/Valitseja/doit/internal/task"
)

func cmdClean(ctx context.Context, o *IO, tasks []*task.Task, args []string) int {
	if hasHelpFlag(args) {
		printCleanHelp(o.out)

		return 0
	}

	flagSet := flag.NewFlagSet("clean", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	dryRun := flagSet.BoolP("dry-run", "n", false, "Report what would be removed without removing it")

	if err := flagSet.Parse(args); err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	names := flagSet.Args()
	index := task.Index(tasks)

	selected := tasks

	if len(names) > 0 {
		selected = make([]*task.Task, 0, len(names))

		for _, name := range names {
			t, ok := index[name]
			if !ok {
				fprintln(o.errOut, "error:", fmt.Errorf("'%s' %w", name, task.ErrNotATask))

				return 1
			}

			selected = append(selected, t)
		}
	}

	for _, t := range selected {
		if err := t.Clean(ctx, o.out, *dryRun); err != nil {
			fprintln(o.errOut, "error:", err)

			return 1
		}
	}

	return 0
}

func printCleanHelp(out io.Writer) {
	fprintln(out, "Usage: doit clean [options] [task...]")
	fprintln(out, "")
	fprintln(out, "Run each task's clean collaborators (all tasks if none given).")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -n, --dry-run    Report what would be removed without removing it")
}

package cli

import (
	"io"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/task"
)

func cmdIgnore(o *IO, cfg Config, workDir string, tasks []*task.Task, args []string) int {
	if hasHelpFlag(args) {
		printIgnoreHelp(o.out)

		return 0
	}

	// Ignoring everything is disallowed; the caller must name tasks.
	if len(args) == 0 {
		fprintln(o.errOut, "error:", errIgnoreAll)

		return 1
	}

	closures, code := groupClosures(o.errOut, tasks, args)
	if code != 0 {
		return code
	}

	store, err := dep.Open(resolveDB(cfg, workDir))
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	for _, name := range closures {
		store.Ignore(name)
		o.Println("ignoring", name)
	}

	if err := store.Close(); err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	return 0
}

func printIgnoreHelp(out io.Writer) {
	fprintln(out, "Usage: doit ignore <task...>")
	fprintln(out, "")
	fprintln(out, "Mark tasks as ignored: run skips them until they are forgotten.")
	fprintln(out, "Ignoring a group task also ignores its members.")
}

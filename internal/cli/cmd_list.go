package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/task"
)

// listOptions holds parsed list command options.
type listOptions struct {
	all     bool
	status  bool
	private bool
	subtask bool
	doc     bool
	names   []string
}

func cmdList(o *IO, cfg Config, workDir string, tasks []*task.Task, args []string) int {
	if hasHelpFlag(args) {
		printListHelp(o.out)

		return 0
	}

	opts, parseCode := parseListFlags(o.errOut, args)
	if parseCode != 0 {
		return parseCode
	}

	index := task.Index(tasks)

	selected, err := listSelection(tasks, index, opts)
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	var checker *dep.StatusChecker

	if opts.status {
		store, err := dep.Open(resolveDB(cfg, workDir))
		if err != nil {
			fprintln(o.errOut, "error:", err)

			return 1
		}

		defer func() { _ = store.Close() }()

		checker = dep.NewStatusChecker(store, index)
	}

	for _, t := range selected {
		if code := printTaskLine(o, index, checker, opts, t); code != 0 {
			return code
		}
	}

	return 0
}

// listSelection resolves the tasks to print. Explicitly named tasks are
// never filtered; the default listing hides subtasks and private tasks.
func listSelection(tasks []*task.Task, index map[string]*task.Task, opts listOptions) ([]*task.Task, error) {
	if len(opts.names) > 0 {
		selected := make([]*task.Task, 0, len(opts.names))

		for _, name := range opts.names {
			t, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("'%s' %w", name, task.ErrNotATask)
			}

			selected = append(selected, t)
		}

		return selected, nil
	}

	var selected []*task.Task

	for _, t := range tasks {
		if t.Subtask && !opts.all {
			continue
		}

		if t.Private() && !opts.private {
			continue
		}

		selected = append(selected, t)
	}

	return selected, nil
}

func printTaskLine(o *IO, index map[string]*task.Task, checker *dep.StatusChecker, opts listOptions, t *task.Task) int {
	line := t.Name

	if opts.doc && t.Doc != "" {
		line += "\t* " + t.Doc
	}

	if checker != nil {
		status, err := checker.Status(t)
		if err != nil {
			fprintln(o.errOut, "error:", err)

			return 1
		}

		line = statusLetter(status) + " " + line
	}

	o.Println(line)

	if !opts.subtask {
		return 0
	}

	for _, depName := range t.TaskDep {
		sub, ok := index[depName]
		if !ok || !t.SubtaskOf(depName) {
			continue
		}

		if code := printTaskLine(o, index, checker, opts, sub); code != 0 {
			return code
		}
	}

	return 0
}

func statusLetter(status dep.Status) string {
	switch status {
	case dep.StatusIgnored:
		return "I"
	case dep.StatusUpToDate:
		return "U"
	case dep.StatusRun:
		return "R"
	default:
		return "R"
	}
}

func parseListFlags(errOut io.Writer, args []string) (listOptions, int) {
	flagSet := flag.NewFlagSet("list", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	all := flagSet.Bool("all", false, "Include subtasks in the listing")
	status := flagSet.Bool("status", false, "Prefix each task with its status (I/U/R)")
	private := flagSet.Bool("private", false, "Include private tasks (names starting with '_')")
	subtask := flagSet.BoolP("subtask", "s", false, "Print each task's subtasks below it")
	doc := flagSet.Bool("doc", false, "Print task doc strings")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return listOptions{}, 1
	}

	return listOptions{
		all:     *all,
		status:  *status,
		private: *private,
		subtask: *subtask,
		doc:     *doc,
		names:   flagSet.Args(),
	}, 0
}

func printListHelp(out io.Writer) {
	fprintln(out, "Usage: doit list [options] [task...]")
	fprintln(out, "")
	fprintln(out, "List tasks in declaration order. By default subtasks and private")
	fprintln(out, "tasks are hidden, unless named explicitly.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  --all            Include subtasks in the listing")
	fprintln(out, "  --status         Prefix each task with I (ignore), U (up-to-date) or R (run)")
	fprintln(out, "  --private        Include private tasks")
	fprintln(out, "  -s, --subtask    Print each task's subtasks below it")
	fprintln(out, "  --doc            Print task doc strings")
}

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/plan"
	"github.com/Valitseja/doit/internal/task"
)

func cmdForget(o *IO, cfg Config, workDir string, tasks []*task.Task, args []string) int {
	if hasHelpFlag(args) {
		printForgetHelp(o.out)

		return 0
	}

	// Validate every name before touching the store: a command error
	// must not leave a partial forget behind.
	closures, code := groupClosures(o.errOut, tasks, args)
	if code != 0 {
		return code
	}

	if len(args) == 0 && !confirmForgetAll(o.in) {
		o.Println("aborted")

		return 0
	}

	store, err := dep.Open(resolveDB(cfg, workDir))
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	if len(args) == 0 {
		store.RemoveAll()
		o.Println("forgetting all tasks")
	}

	for _, name := range closures {
		store.Remove(name)
		o.Println("forgetting", name)
	}

	if err := store.Close(); err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	return 0
}

// groupClosures expands each requested name through its group closure,
// in request order. Unknown names fail before any expansion is used.
func groupClosures(errOut io.Writer, tasks []*task.Task, names []string) ([]string, int) {
	index := task.Index(tasks)

	var closures []string

	for _, name := range names {
		closure, err := plan.Expand(index, name)
		if err != nil {
			fprintln(errOut, "error:", err)

			return nil, 1
		}

		closures = append(closures, closure...)
	}

	return closures, 0
}

// confirmForgetAll prompts before clearing the whole store when run from
// a terminal. Piped input proceeds unprompted so scripts keep working.
func confirmForgetAll(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return true
	}

	prompt := liner.NewLiner()
	defer func() { _ = prompt.Close() }()

	answer, err := prompt.Prompt("forget all tasks? [y/N] ")
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

func printForgetHelp(out io.Writer) {
	fprintln(out, "Usage: doit forget [task...]")
	fprintln(out, "")
	fprintln(out, "Remove saved fingerprints so tasks run again. Forgetting a group")
	fprintln(out, "task also forgets its members. With no tasks, clears the whole db.")
}

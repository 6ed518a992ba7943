package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Valitseja/doit/internal/task"
)

const (
	minArgs     = 2
	consumedOne = 1
	consumedTwo = 2
	helpFlag    = "--help"
)

// Run is the main entry point. Returns the process exit code.
//
// tasks is the full task graph in declaration order; sigCh is the stop
// hook for the auto command's watch loop.
func Run(
	in io.Reader, out, errOut io.Writer,
	args []string, env map[string]string,
	sigCh <-chan os.Signal, tasks []*task.Task,
) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	cfg, err := LoadConfig(workDir, flags.configPath, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if flags.db != "" {
		cfg.DB = flags.db
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	rest := flags.remaining[1:]

	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	ctx := context.Background()
	o := NewIO(in, out, errOut)

	switch cmd {
	case "run":
		return cmdRun(ctx, o, cfg, workDir, tasks, rest)
	case "list":
		return cmdList(o, cfg, workDir, tasks, rest)
	case "clean":
		return cmdClean(ctx, o, tasks, rest)
	case "forget":
		return cmdForget(o, cfg, workDir, tasks, rest)
	case "ignore":
		return cmdIgnore(o, cfg, workDir, tasks, rest)
	case "auto":
		return cmdAuto(ctx, o, cfg, workDir, tasks, rest, sigCh)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	db         string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args
// consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	set := func(target *string, name string) (int, error) {
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagRequiresArg, name)
		}

		*target = args[idx+1]

		return consumedTwo, nil
	}

	switch arg {
	case "-C", "--cwd":
		return set(&flags.workDir, arg)
	case "-c", "--config":
		return set(&flags.configPath, arg)
	case "--db":
		return set(&flags.db, arg)
	case "-h", helpFlag:
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--db="); ok {
		flags.db = after

		return consumedOne, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return 0, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return 0, nil
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `doit - dependency-aware task automation

Usage: doit [options] <command> [args]

Options:
  -C, --cwd <dir>    Resolve config, db and output paths against <dir>
  -c, --config       Use specified config file
  --db <path>        Use specified dependency db file

Commands:
  run [task...]          Run stale tasks in dependency order
  list [task...]         List tasks
  clean [task...]        Run task clean collaborators
  forget [task...]       Forget saved runs (all tasks if none given)
  ignore <task...>       Mark tasks to be ignored
  auto [task...]         Re-run tasks when their file deps change`)
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/Valitseja/doit/internal/dep"
	"github.com/Valitseja/doit/internal/plan"
	"github.com/Valitseja/doit/internal/report"
	"github.com/Valitseja/doit/internal/runner"
	"github.com/Valitseja/doit/internal/task"
)

// runOptions holds parsed run command options.
type runOptions struct {
	verbosity  int
	always     bool
	continueOn bool
	reporter   string
	output     string
	names      []string
}

func cmdRun(
	ctx context.Context, o *IO, cfg Config, workDir string,
	tasks []*task.Task, args []string,
) int {
	if hasHelpFlag(args) {
		printRunHelp(o.out)

		return 0
	}

	opts, parseCode := parseRunFlags(o.errOut, cfg, args)
	if parseCode != 0 {
		return parseCode
	}

	// Selection and reporter lookup are command errors: they abort
	// before any task runs and before the store is touched.
	selected, err := plan.Select(tasks, opts.names)
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	factory, err := report.Default().Lookup(opts.reporter)
	if err != nil {
		fprintln(o.errOut, "error:", err)

		return 1
	}

	outW := io.Writer(o.out)

	var outFile *os.File

	if opts.output != "" {
		path := opts.output
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		outFile, err = os.Create(path) //nolint:gosec // user-chosen output path
		if err != nil {
			fprintln(o.errOut, "error: cannot open output file:", err)

			return 1
		}

		outW = outFile
	}

	store, err := dep.Open(resolveDB(cfg, workDir))
	if err != nil {
		fprintln(o.errOut, "error:", err)
		closeOutput(o, outFile)

		return 1
	}

	showOut := opts.verbosity < task.VerbosityVerbose
	run := &runner.Runner{
		Store:           store,
		Reporter:        factory(outW, showOut, true),
		Out:             outW,
		ErrOut:          o.errOut,
		Verbosity:       opts.verbosity,
		AlwaysExecute:   opts.always,
		ContinueOnError: opts.continueOn,
	}

	code, runErr := run.Run(ctx, selected, task.Index(tasks))

	// Close flushes committed fingerprints; its error outranks the code.
	closeErr := store.Close()
	closeOutput(o, outFile)

	if runErr != nil {
		fprintln(o.errOut, "error:", runErr)

		return 1
	}

	if closeErr != nil {
		fprintln(o.errOut, "error:", closeErr)

		return 1
	}

	return code
}

func closeOutput(o *IO, outFile *os.File) {
	if outFile == nil {
		return
	}

	if err := outFile.Close(); err != nil {
		fprintln(o.errOut, "error: closing output file:", err)
	}
}

func parseRunFlags(errOut io.Writer, cfg Config, args []string) (runOptions, int) {
	flagSet := flag.NewFlagSet("run", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	verbosity := flagSet.IntP("verbosity", "v", cfg.Verbosity, "Action output verbosity (0-2)")
	always := flagSet.Bool("always", false, "Always execute, even up-to-date tasks")
	continueOn := flagSet.Bool("continue", false, "Continue executing after a task failure")
	reporter := flagSet.String("reporter", cfg.Reporter, "Reporter name")
	output := flagSet.String("output", "", "Write reporter output to a file")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return runOptions{}, 1
	}

	if *verbosity < task.VerbositySilent || *verbosity > task.VerbosityVerbose {
		fprintln(errOut, "error:", errVerbosityRange)

		return runOptions{}, 1
	}

	return runOptions{
		verbosity:  *verbosity,
		always:     *always,
		continueOn: *continueOn,
		reporter:   *reporter,
		output:     *output,
		names:      flagSet.Args(),
	}, 0
}

func printRunHelp(out io.Writer) {
	fprintln(out, "Usage: doit run [options] [task...]")
	fprintln(out, "")
	fprintln(out, "Run the selected tasks (all top-level tasks if none given) in")
	fprintln(out, "dependency order, skipping tasks that are up-to-date or ignored.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -v, --verbosity=N    0 captures all output, 1 captures stdout,")
	fprintln(out, "                       2 streams everything [default: 1]")
	fprintln(out, "  --always             Always execute, even up-to-date tasks")
	fprintln(out, "  --continue           Keep going after a task failure")
	fprintln(out, "  --reporter=<name>    console | executed-only | json [default: console]")
	fprintln(out, "  --output=<path>      Write reporter output to a file")
}

package cli

import "errors"

// Command-level errors. All of them surface before any task runs.
var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
	errIgnoreAll       = errors.New("cannot ignore all tasks, select at least one task")
	errVerbosityRange  = errors.New("verbosity must be 0, 1 or 2")
	errConfigRead      = errors.New("cannot read config file")
	errConfigInvalid   = errors.New("invalid config file")
	errDBPathEmpty     = errors.New("db path cannot be empty")
)

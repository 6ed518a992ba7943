// depdb is a small REPL for inspecting and repairing doit dependency db
// files.
//
// Usage:
//
//	depdb <db-file>
//
// Commands (in REPL):
//
//	ls                 List task names with stored records
//	get <task>         Show a task's record
//	del <task>         Delete a task's record
//	ignore <task>      Set a task's ignored marker
//	clear              Delete every record
//	save               Flush pending changes to disk
//	help               Show this help
//	exit / quit / q    Exit (flushes pending changes)
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/Valitseja/doit/internal/dep"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: depdb <db-file>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	store, err := dep.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	fmt.Printf("depdb: %s (%d records)\n", path, len(store.Names()))

	for {
		input, err := line.Prompt("depdb> ")
		if err != nil {
			// Ctrl-C / Ctrl-D: flush via the deferred Close.
			fmt.Println()

			return store.Close()
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		cmd, arg, _ := strings.Cut(input, " ")
		arg = strings.TrimSpace(arg)

		done, err := execute(store, cmd, arg)
		if err != nil {
			fmt.Println("error:", err)

			continue
		}

		if done {
			return store.Close()
		}
	}
}

func execute(store *dep.Store, cmd, arg string) (bool, error) {
	switch cmd {
	case "ls":
		names := store.Names()
		sort.Strings(names)

		for _, name := range names {
			rec, _ := store.Record(name)
			marker := " "

			if rec.Ignored {
				marker = "I"
			}

			fmt.Printf("%s %s (%d files)\n", marker, name, len(rec.Files))
		}

		return false, nil
	case "get":
		if arg == "" {
			return false, fmt.Errorf("get requires a task name")
		}

		rec, ok := store.Record(arg)
		if !ok {
			return false, fmt.Errorf("no record for %q", arg)
		}

		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return false, err
		}

		fmt.Println(string(data))

		return false, nil
	case "del":
		if arg == "" {
			return false, fmt.Errorf("del requires a task name")
		}

		store.Remove(arg)
		fmt.Println("deleted", arg)

		return false, nil
	case "ignore":
		if arg == "" {
			return false, fmt.Errorf("ignore requires a task name")
		}

		store.Ignore(arg)
		fmt.Println("ignoring", arg)

		return false, nil
	case "clear":
		store.RemoveAll()
		fmt.Println("cleared all records")

		return false, nil
	case "save":
		if err := store.Flush(); err != nil {
			return false, err
		}

		fmt.Println("saved")

		return false, nil
	case "help":
		printHelp()

		return false, nil
	case "exit", "quit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  ls                 List task names with stored records
  get <task>         Show a task's record
  del <task>         Delete a task's record
  ignore <task>      Set a task's ignored marker
  clear              Delete every record
  save               Flush pending changes to disk
  exit / quit / q    Exit (flushes pending changes)
`)
}

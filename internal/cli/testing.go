package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Valitseja/doit/internal/task"
)

// CLI provides a clean interface for running commands in tests. It
// manages a temp directory, an env map, and the task graph under test.
type CLI struct {
	t     *testing.T
	Dir   string
	Env   map[string]string
	Tasks []*task.Task
}

// NewCLI creates a new test CLI with a temp directory. XDG_CONFIG_HOME
// is pinned inside the temp directory so the developer's own global
// config never leaks into a test.
func NewCLI(t *testing.T, tasks []*task.Task) *CLI {
	t.Helper()

	dir := t.TempDir()

	return &CLI{
		t:     t,
		Dir:   dir,
		Env:   map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, "xdg")},
		Tasks: tasks,
	}
}

// Run executes the CLI with the given args and returns stdout, stderr,
// and exit code. Args should not include "doit" or "--cwd" - those are
// added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"doit", "--cwd", r.Dir}, args...)
	code := Run(strings.NewReader(""), &outBuf, &errBuf, fullArgs, r.Env, nil, r.Tasks)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns
// non-zero. Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// WriteFile writes a file under the temp directory and returns its path.
func (r *CLI) WriteFile(name, content string) string {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}

	return path
}

// DBPath returns the default dependency store path.
func (r *CLI) DBPath() string {
	return filepath.Join(r.Dir, DefaultConfig().DB)
}

// Package watch maps filesystem modification events back to the file
// dependencies of an execution plan.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrNoWatchFiles reports a selection whose tasks declare no file
// dependencies; there is nothing to watch.
var ErrNoWatchFiles = errors.New("selected tasks have no file dependencies to watch")

// Monitor observes a fixed set of files. The watch set is computed once
// from the initial selection and never recomputed, even if a re-run
// changes declared dependencies.
type Monitor struct {
	files map[string]bool
	dirs  []string
}

// writeOps are the operations treated as one completed change. fsnotify
// has no portable close-after-write event, so a write, a fresh create, or
// an atomic rename-over counts as the unit of one modification.
const writeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// NewMonitor builds a monitor over the given file paths. Watches are
// installed per parent directory and events filtered back down to the
// exact files, to tolerate mechanisms with directory granularity only.
func NewMonitor(paths []string) (*Monitor, error) {
	if len(paths) == 0 {
		return nil, ErrNoWatchFiles
	}

	m := &Monitor{files: make(map[string]bool, len(paths))}
	seenDirs := map[string]bool{}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}

		m.files[abs] = true

		dir := filepath.Dir(abs)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			m.dirs = append(m.dirs, dir)
		}
	}

	return m, nil
}

// Files returns the absolute watched file paths, in map order.
func (m *Monitor) Files() []string {
	files := make([]string, 0, len(m.files))
	for f := range m.files {
		files = append(files, f)
	}

	return files
}

// Loop blocks on filesystem notifications and calls handle synchronously
// for each qualifying change to a watched file. The loop runs until stop
// is closed; a watcher setup failure or a notification error ends it
// with an error.
func (m *Monitor) Loop(stop <-chan struct{}, handle func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch setup: %w", err)
	}

	defer func() { _ = watcher.Close() }()

	for _, dir := range m.dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !m.files[event.Name] || event.Op&writeOps == 0 {
				continue
			}

			handle(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			return fmt.Errorf("watch: %w", err)
		}
	}
}

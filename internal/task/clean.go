package task

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Clean runs the task's clean collaborators: CleanActions first, then
// removal of declared Targets when CleanTargets is set. With dryRun the
// steps are reported but nothing executes or is removed.
func (t *Task) Clean(ctx context.Context, out io.Writer, dryRun bool) error {
	for _, action := range t.CleanActions {
		if dryRun {
			fmt.Fprintf(out, "%s - would execute: %s\n", t.Name, action)

			continue
		}

		if err := action.Run(ctx, out, out); err != nil {
			return fmt.Errorf("clean %s: %w", t.Name, err)
		}
	}

	if !t.CleanTargets {
		return nil
	}

	for _, target := range t.Targets {
		if _, err := os.Stat(target); err != nil {
			continue // nothing to remove
		}

		if dryRun {
			fmt.Fprintf(out, "%s - would remove: %s\n", t.Name, target)

			continue
		}

		fmt.Fprintf(out, "%s - removing: %s\n", t.Name, target)

		if err := os.Remove(target); err != nil {
			return fmt.Errorf("clean %s: %w", t.Name, err)
		}
	}

	return nil
}

package dep

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const lockPerms = 0o600

// acquireLock takes an exclusive, non-blocking flock on a sidecar lock
// file next to the store. The store is a single-writer resource; a second
// concurrent invocation fails fast with ErrLocked instead of racing.
//
// flock is advisory and applies to the open descriptor; the lock file is
// never unlinked so the pathname stays stable for all cooperating
// processes. Unix-only, like the rest of the module.
func acquireLock(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPerms) //nolint:gosec // sidecar of the configured db path
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}

		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return file, nil
}

// releaseLock drops the flock and closes the descriptor. Closing alone
// releases the lock on Unix; the explicit unlock keeps intent visible.
func releaseLock(file *os.File) error {
	if file == nil {
		return nil
	}

	_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)

	if err := file.Close(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	return nil
}

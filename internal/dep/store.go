// Package dep persists per-task execution fingerprints and computes
// up-to-date status from them.
//
// The store is a single JSON file mapping task names to records. It is a
// single-writer resource guarded by a flock sidecar: open it, use it, and
// Close it within one logical invocation. Mutations stay in memory until
// Close (or Flush) writes the whole file back atomically, so a crashed
// run never leaves a half-updated record behind.
package dep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Record is the persisted state of one task: the fingerprints of its file
// dependencies at the last successful run, plus the ignored marker.
// Absence of a record means the task never ran.
type Record struct {
	Ignored bool                   `json:"ignored,omitempty"`
	Files   map[string]Fingerprint `json:"files,omitempty"`
}

// Store is the dependency store handle. Not safe for concurrent use; the
// flock prevents concurrent processes, not concurrent goroutines.
type Store struct {
	path    string
	lock    *os.File
	records map[string]Record
	dirty   bool
	closed  bool
}

// lockSuffix names the flock sidecar next to the db file.
const lockSuffix = ".lock"

// Open acquires the store lock and loads the db file. A missing file is
// an empty store; an unparsable one is ErrCorrupt.
func Open(path string) (*Store, error) {
	lock, err := acquireLock(path + lockSuffix)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords(path)
	if err != nil {
		_ = releaseLock(lock)

		return nil, err
	}

	return &Store{path: path, lock: lock, records: records}, nil
}

func loadRecords(path string) (map[string]Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // configured db path
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Record{}, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records := map[string]Record{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
		}
	}

	return records, nil
}

// Record returns the stored record for a task name.
func (s *Store) Record(name string) (Record, bool) {
	rec, ok := s.records[name]

	return rec, ok
}

// Names returns every task name with a stored record, in map order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}

	return names
}

// Commit replaces the stored fingerprints for a task after its actions
// succeeded. The ignored marker survives, so a later forget-free unignore
// does not force a full re-run.
func (s *Store) Commit(name string, files map[string]Fingerprint) {
	rec := s.records[name]
	rec.Files = files
	s.records[name] = rec
	s.dirty = true
}

// Remove deletes the record for one task. Idempotent if absent.
func (s *Store) Remove(name string) {
	if _, ok := s.records[name]; !ok {
		return
	}

	delete(s.records, name)
	s.dirty = true
}

// RemoveAll clears every record.
func (s *Store) RemoveAll() {
	if len(s.records) == 0 {
		return
	}

	s.records = map[string]Record{}
	s.dirty = true
}

// Ignore sets the ignored marker without touching stored fingerprints.
func (s *Store) Ignore(name string) {
	rec := s.records[name]
	rec.Ignored = true
	s.records[name] = rec
	s.dirty = true
}

// Flush writes pending mutations to disk with an atomic replace.
func (s *Store) Flush() error {
	if s.closed {
		return ErrClosed
	}

	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.dirty = false

	return nil
}

// Close flushes pending mutations and releases the store lock. Must be
// called on every exit path; fingerprints are not durable before it runs.
// Idempotent after the first call.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	flushErr := s.Flush()
	s.closed = true

	if err := releaseLock(s.lock); err != nil && flushErr == nil {
		flushErr = err
	}

	s.lock = nil

	return flushErr
}

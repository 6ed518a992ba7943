package dep_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Valitseja/doit/internal/dep"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func Test_Fingerprint_Unchanged_For_Untouched_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "dep.txt", "content")

	fp, err := dep.FileFingerprint(path)
	require.NoError(t, err)

	same, err := fp.Unchanged(path)
	require.NoError(t, err)
	require.True(t, same)
}

func Test_Fingerprint_Changed_On_Content_Change(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "dep.txt", "one")

	fp, err := dep.FileFingerprint(path)
	require.NoError(t, err)

	writeFile(t, dir, "dep.txt", "two!")

	same, err := fp.Unchanged(path)
	require.NoError(t, err)
	require.False(t, same)
}

// A touch that changes mtime but not content must not count as a change;
// the digest settles it.
func Test_Fingerprint_Unchanged_After_Touch(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "dep.txt", "stable")

	fp, err := dep.FileFingerprint(path)
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	same, err := fp.Unchanged(path)
	require.NoError(t, err)
	require.True(t, same)
}

func Test_Fingerprint_Changed_When_File_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "dep.txt", "here")

	fp, err := dep.FileFingerprint(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	same, err := fp.Unchanged(path)
	require.NoError(t, err)
	require.False(t, same)
}

func Test_FileFingerprint_Errors_On_Missing_File(t *testing.T) {
	t.Parallel()

	_, err := dep.FileFingerprint(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

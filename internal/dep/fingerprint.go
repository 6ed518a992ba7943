package dep

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint is the content signature of one file dependency. Size and
// mtime form a cheap fast path; the digest settles disagreements, so a
// touch without a content change does not mark dependents stale.
type Fingerprint struct {
	Size    int64  `json:"size"`
	MTimeNS int64  `json:"mtime_ns"`
	SHA256  string `json:"sha256"`
}

// FileFingerprint computes the fingerprint of the file at path.
func FileFingerprint(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	digest, err := fileDigest(path)
	if err != nil {
		return Fingerprint{}, err
	}

	return Fingerprint{
		Size:    info.Size(),
		MTimeNS: info.ModTime().UnixNano(),
		SHA256:  digest,
	}, nil
}

// Unchanged reports whether the file at path still matches the stored
// fingerprint. A missing file counts as changed, not as an error.
func (f Fingerprint) Unchanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	if info.Size() != f.Size {
		return false, nil
	}

	if info.ModTime().UnixNano() == f.MTimeNS {
		return true, nil
	}

	digest, err := fileDigest(path)
	if err != nil {
		return false, err
	}

	return digest == f.SHA256, nil
}

func fileDigest(path string) (string, error) {
	file, err := os.Open(path) //nolint:gosec // path comes from the task graph
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

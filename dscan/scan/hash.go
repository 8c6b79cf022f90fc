package scan

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// digestFactory produces fresh hash.Hash instances for a named algorithm.
// The algorithm is a configuration choice, not a correctness requirement:
// any digest wide enough to make collisions negligible works here.
type digestFactory func() hash.Hash

// newDigestFactory resolves a configured algorithm name.
func newDigestFactory(algorithm string) (digestFactory, error) {
	switch algorithm {
	case "md5":
		return md5.New, nil
	case "sha256":
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", algorithm)
	}
}

// emptyDigest returns the hex digest of zero bytes of input, used for the
// zero-byte group without opening any file.
func (df digestFactory) emptyDigest() string {
	return hex.EncodeToString(df().Sum(nil))
}

// prefixDigest hashes at most limit bytes from the start of the file.
// The returned full flag is true when the whole file fit inside the limit,
// in which case the digest doubles as the full-content digest.
func (df digestFactory) prefixDigest(path string, limit int64) (digest string, full bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	h := df()
	_, err = io.CopyN(h, f, limit)
	if err == io.EOF {
		return hex.EncodeToString(h.Sum(nil)), true, nil
	}
	if err != nil {
		return "", false, err
	}

	// Exactly limit bytes were hashed; the digest covers the whole file
	// only when nothing remains past the window.
	var extra [1]byte
	n, err := f.Read(extra[:])
	if err != nil && err != io.EOF {
		return "", false, err
	}
	return hex.EncodeToString(h.Sum(nil)), n == 0 && err == io.EOF, nil
}

// fullDigest streams the entire file through the hash.
func (df digestFactory) fullDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := df()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// classifyReadError maps an I/O error to a partial-failure reason.
func classifyReadError(err error) FailureReason {
	switch {
	case os.IsNotExist(err):
		return Vanished
	case os.IsPermission(err):
		return PermissionDenied
	default:
		return IOError
	}
}

// Package digest computes content-derived file identities.
//
// A digest identifies a file by its bytes alone: the same content stored
// under different paths, names, or timestamps yields the same digest. The
// hash is SHA-256, streamed in fixed-size chunks so arbitrarily large files
// never have to fit in memory.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// chunkSize is the read-buffer size used while streaming file contents.
const chunkSize = 128 * 1024

// ErrNotAFile indicates the target path does not resolve to a readable
// regular file. Callers must not proceed to a store write on this failure.
var ErrNotAFile = errors.New("not a regular file")

// File returns the hexadecimal SHA-256 digest of the file at path.
//
// Returns ErrNotAFile (wrapped) if path is missing, a directory, or
// otherwise not a regular file. I/O errors during reading are surfaced
// immediately; there are no retries.
func File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, ErrNotAFile)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("digest %s: %w", path, ErrNotAFile)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, ErrNotAFile)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the hexadecimal SHA-256 digest of an in-memory byte slice.
// It matches File for identical content and exists mainly for tests and
// callers that already hold the data.
func Bytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package cas stores encoded documents by content and remembers which source
// text produced them, so an unchanged eBook is never parsed twice.
//
// Blobs live under <root>/blobs/sha256/<first2>/<sha256>. Cache index entries
// map a source BLAKE3 digest and a codec key to a blob:
// <root>/index/<first2>/<blake3>.<key>.json.
package cas

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// ErrBlobNotFound is returned when a blob with the given hash does not exist.
var ErrBlobNotFound = fmt.Errorf("blob %w", gkerrors.ErrNotFound)

// ErrInvalidHash is returned when a hash string is not 64 lowercase hex digits.
var ErrInvalidHash = fmt.Errorf("hash format: %w", gkerrors.ErrInvalidInput)

// hashPattern matches a lowercase 256-bit hex digest (SHA-256 or BLAKE3).
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store provides content-addressed storage for blobs using SHA-256 hashing.
type Store struct {
	root string
}

// NewStore creates a store at root, creating the directory layout if needed.
func NewStore(root string) (*Store, error) {
	blobDir := filepath.Join(root, "blobs", "sha256")
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		return nil, gkerrors.NewIO("create", blobDir, err)
	}
	return &Store{root: root}, nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// Put stores data and returns its SHA-256 hash. Storing content that is
// already present is a no-op.
func (s *Store) Put(data []byte) (string, error) {
	hash := Hash(data)
	if s.Has(hash) {
		return hash, nil
	}
	if err := writeAtomic(s.pathForHash(hash), ".blob-*", data); err != nil {
		return "", err
	}
	return hash, nil
}

// Get returns the blob with the given SHA-256 hash. The content is verified
// against the hash before it is returned.
func (s *Store) Get(hash string) ([]byte, error) {
	if !isValidHash(hash) {
		return nil, ErrInvalidHash
	}

	blobPath := s.pathForHash(hash)
	data, err := os.ReadFile(blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, gkerrors.NewIO("read", blobPath, err)
	}
	if got := Hash(data); got != hash {
		return nil, fmt.Errorf("blob %s is corrupt (content hashes to %s): %w", hash, got, gkerrors.ErrInvalidInput)
	}
	return data, nil
}

// Has reports whether a blob with the given hash exists.
func (s *Store) Has(hash string) bool {
	if !isValidHash(hash) {
		return false
	}
	_, err := os.Stat(s.pathForHash(hash))
	return err == nil
}

// pathForHash returns <root>/blobs/sha256/<first2>/<hash>.
func (s *Store) pathForHash(hash string) string {
	return filepath.Join(s.root, "blobs", "sha256", hash[:2], hash)
}

func isValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}

// writeAtomic writes data to a temp file beside path and renames it into place.
func writeAtomic(path, pattern string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return gkerrors.NewIO("create", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return gkerrors.NewIO("create temp file in", dir, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return gkerrors.NewIO("write", tempPath, err)
	}
	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return gkerrors.NewIO("close", tempPath, err)
	}
	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return gkerrors.NewIO("rename", path, err)
	}
	return nil
}

package cas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// keyPattern restricts cache keys to names that are safe in file names.
var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Entry is one cache index record.
type Entry struct {
	// Source is the BLAKE3 digest of the source text.
	Source string `json:"source_blake3"`

	// Key names the encoding stored, e.g. "bin.v1".
	Key string `json:"key"`

	// SHA256 addresses the encoded blob in the store.
	SHA256 string `json:"sha256"`

	// Size is the encoded blob length in bytes.
	Size int64 `json:"size"`

	Created time.Time `json:"created"`
}

// Cache maps source texts to encoded documents.
type Cache struct {
	store *Store
	now   func() time.Time
}

// OpenCache opens or creates a cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	store, err := NewStore(dir)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, now: time.Now}, nil
}

// Store returns the underlying blob store.
func (c *Cache) Store() *Store {
	return c.store
}

// Get returns the blob recorded for the source digest and key. A miss
// returns an error matching errors.ErrNotFound.
func (c *Cache) Get(sourceBlake3, key string) ([]byte, *Entry, error) {
	path, err := c.entryPath(sourceBlake3, key)
	if err != nil {
		return nil, nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &gkerrors.NotFoundError{Resource: "cache entry", ID: sourceBlake3[:12] + "." + key}
		}
		return nil, nil, gkerrors.NewIO("read", path, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil, gkerrors.NewParse("cache entry", path, "", err)
	}
	if e.Source != sourceBlake3 || e.Key != key {
		return nil, nil, gkerrors.NewParse("cache entry", path, "entry does not match its file name", nil)
	}

	data, err := c.store.Get(e.SHA256)
	if err != nil {
		return nil, nil, gkerrors.Wrapf(err, "cache entry %s", path)
	}
	return data, &e, nil
}

// Put stores data and records it for the source digest and key, replacing
// any previous entry.
func (c *Cache) Put(sourceBlake3, key string, data []byte) (*Entry, error) {
	path, err := c.entryPath(sourceBlake3, key)
	if err != nil {
		return nil, err
	}

	hash, err := c.store.Put(data)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Source:  sourceBlake3,
		Key:     key,
		SHA256:  hash,
		Size:    int64(len(data)),
		Created: c.now().UTC(),
	}
	raw, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, gkerrors.Wrap(err, "failed to marshal cache entry")
	}
	if err := writeAtomic(path, ".entry-*", raw); err != nil {
		return nil, err
	}
	return e, nil
}

// entryPath returns <root>/index/<first2>/<blake3>.<key>.json.
func (c *Cache) entryPath(sourceBlake3, key string) (string, error) {
	if !isValidHash(sourceBlake3) {
		return "", ErrInvalidHash
	}
	if !keyPattern.MatchString(key) {
		return "", gkerrors.NewValidation("cache key", key, "must be lowercase letters, digits, '.', '_' or '-'")
	}
	return filepath.Join(c.store.root, "index", sourceBlake3[:2], sourceBlake3+"."+key+".json"), nil
}

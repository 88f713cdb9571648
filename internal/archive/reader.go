package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// BundleReader wraps a tar.Reader over a possibly compressed bundle file.
type BundleReader struct {
	*tar.Reader
	file io.Closer
}

// OpenBundle opens a .tar, .tar.gz or .tar.xz bundle for reading.
func OpenBundle(path string) (*BundleReader, error) {
	if !IsBundle(path) {
		return nil, gkerrors.NewUnsupported("bundle "+path, "expected .tar, .tar.gz or .tar.xz")
	}
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &BundleReader{Reader: tar.NewReader(rc), file: rc}, nil
}

// Close closes the bundle and its decompressor.
func (r *BundleReader) Close() error {
	return r.file.Close()
}

// Visitor is a callback function for iterating bundle entries.
// Return true to stop iteration, false to continue.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all entries in the bundle, calling the visitor for each.
func (r *BundleReader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// IterateBundle opens a bundle and iterates through its entries.
func IterateBundle(path string, visitor Visitor) error {
	r, err := OpenBundle(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// List returns the entry names of a bundle with the leading directory removed.
func List(path string) ([]string, error) {
	var names []string
	err := IterateBundle(path, func(header *tar.Header, _ io.Reader) (bool, error) {
		if header.Typeflag == tar.TypeReg {
			names = append(names, entryName(header.Name))
		}
		return false, nil
	})
	return names, err
}

// ReadEntry reads a named entry from the bundle. Names are matched with or
// without the bundle's leading directory.
func ReadEntry(bundlePath, name string) ([]byte, error) {
	content, _, err := FindEntry(bundlePath, func(n string) bool { return n == name })
	if gkerrors.Is(err, gkerrors.ErrNotFound) {
		return nil, gkerrors.NewNotFound("bundle entry", name)
	}
	return content, err
}

// FindEntry returns the first regular entry whose name (leading directory
// removed) satisfies the predicate.
func FindEntry(bundlePath string, predicate func(name string) bool) ([]byte, string, error) {
	var content []byte
	var foundName string
	err := IterateBundle(bundlePath, func(header *tar.Header, r io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}
		name := entryName(header.Name)
		if !predicate(name) && !predicate(header.Name) {
			return false, nil
		}
		var err error
		content, err = io.ReadAll(r)
		foundName = name
		return true, err
	})
	if err != nil {
		return nil, "", err
	}
	if content == nil {
		return nil, "", gkerrors.NewNotFound("bundle entry", bundlePath)
	}
	return content, foundName, nil
}

func entryName(name string) string {
	if idx := strings.Index(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

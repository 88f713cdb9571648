package archive

import (
	"archive/tar"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// bundleExts are the recognized bundle suffixes, most specific first.
var bundleExts = []string{".tar.xz", ".tar.gz", ".tar"}

// IsBundle reports whether path has a bundle suffix.
func IsBundle(path string) bool {
	return BundleID(path) != filepath.Base(path)
}

// BundleID returns the base name of path without its bundle suffix. It is
// used as the directory inside the bundle.
func BundleID(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range bundleExts {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// BundleWriter writes entries into a tar bundle under one directory.
type BundleWriter struct {
	fw      *FileWriter
	tw      *tar.Writer
	baseDir string
	modTime time.Time
	names   map[string]bool
}

// CreateBundle creates a bundle at path. Every entry gets modTime so the
// same entries always produce the same bytes.
func CreateBundle(path string, modTime time.Time) (*BundleWriter, error) {
	if !IsBundle(path) {
		return nil, gkerrors.NewUnsupported("bundle "+path, "expected .tar, .tar.gz or .tar.xz")
	}
	fw, err := Create(path)
	if err != nil {
		return nil, err
	}
	return &BundleWriter{
		fw:      fw,
		tw:      tar.NewWriter(fw),
		baseDir: BundleID(path),
		modTime: modTime.UTC().Truncate(time.Second),
		names:   make(map[string]bool),
	}, nil
}

// Add writes one file entry. Names must be relative and unique.
func (b *BundleWriter) Add(name string, data []byte) error {
	clean := filepath.ToSlash(filepath.Clean(name))
	if name == "" || filepath.IsAbs(name) || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return gkerrors.NewValidation("bundle entry", name, "must be a relative path inside the bundle")
	}
	if b.names[clean] {
		return gkerrors.NewValidation("bundle entry", name, "duplicate entry")
	}
	b.names[clean] = true

	header := &tar.Header{
		Name:     b.baseDir + "/" + clean,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  b.modTime,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatPAX,
	}
	if err := b.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := b.tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Close finishes the tar stream and moves the bundle into place.
func (b *BundleWriter) Close() error {
	if err := b.tw.Close(); err != nil {
		b.fw.Abort()
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return b.fw.Close()
}

// Abort discards the bundle.
func (b *BundleWriter) Abort() {
	b.fw.Abort()
}

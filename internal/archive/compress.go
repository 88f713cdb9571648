// Package archive handles compressed files and tar bundles. Compression is
// chosen by file suffix: ".xz" uses xz, ".gz" uses gzip, anything else is
// stored as-is.
package archive

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// Compression identifies a stream compression.
type Compression int

const (
	// None stores data uncompressed.
	None Compression = iota
	// Gzip compresses with gzip.
	Gzip
	// XZ compresses with xz.
	XZ
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	default:
		return "none"
	}
}

// Ext returns the file suffix for c, including the dot.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case XZ:
		return ".xz"
	default:
		return ""
	}
}

// DetectCompression returns the compression implied by the suffix of path.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return XZ
	case ".gz":
		return Gzip
	default:
		return None
	}
}

// TrimCompression removes a compression suffix from path.
func TrimCompression(path string) string {
	c := DetectCompression(path)
	if c == None {
		return path
	}
	return path[:len(path)-len(c.Ext())]
}

// NewReader returns a reader that decompresses r. The returned closer must
// be closed when done; it does not close r.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case XZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		return io.NopCloser(xzr), nil
	case Gzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gzr, nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter returns a writer that compresses into w. Close flushes the
// compressor but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case XZ:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		return xzw, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// fileReader closes both the decompressor and the file.
type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReader) Close() error {
	var errs []error
	if err := r.ReadCloser.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Open opens path for reading, decompressing it according to its suffix.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gkerrors.NewIO("open", path, err)
	}
	rc, err := NewReader(f, DetectCompression(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileReader{ReadCloser: rc, file: f}, nil
}

// ReadFile reads and decompresses the whole file at path.
func ReadFile(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, gkerrors.NewIO("read", path, err)
	}
	return data, nil
}

// FileWriter writes a compressed file atomically: data goes to a temp file
// beside the destination, which replaces the destination on Close.
type FileWriter struct {
	path     string
	tempPath string
	file     *os.File
	w        io.WriteCloser
	done     bool
}

// Create opens path for writing, compressing according to its suffix. The
// parent directory is created if needed.
func Create(path string) (*FileWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, gkerrors.NewIO("create", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, gkerrors.NewIO("create temp file in", dir, err)
	}
	w, err := NewWriter(f, DetectCompression(path))
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return &FileWriter{path: path, tempPath: f.Name(), file: f, w: w}, nil
}

// Path returns the destination path.
func (fw *FileWriter) Path() string {
	return fw.path
}

// Write implements io.Writer.
func (fw *FileWriter) Write(p []byte) (int, error) {
	return fw.w.Write(p)
}

// Close flushes the compressor and moves the file into place.
func (fw *FileWriter) Close() error {
	if fw.done {
		return nil
	}
	fw.done = true

	if err := fw.w.Close(); err != nil {
		fw.file.Close()
		os.Remove(fw.tempPath)
		return gkerrors.NewIO("write", fw.path, err)
	}
	if err := fw.file.Close(); err != nil {
		os.Remove(fw.tempPath)
		return gkerrors.NewIO("close", fw.tempPath, err)
	}
	if err := osRename(fw.tempPath, fw.path); err != nil {
		os.Remove(fw.tempPath)
		return gkerrors.NewIO("rename", fw.path, err)
	}
	return nil
}

// Abort discards everything written. It is a no-op after Close.
func (fw *FileWriter) Abort() {
	if fw.done {
		return
	}
	fw.done = true
	fw.file.Close()
	os.Remove(fw.tempPath)
}

// WriteFile compresses data into path atomically.
func WriteFile(path string, data []byte) error {
	fw, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		fw.Abort()
		return gkerrors.NewIO("write", path, err)
	}
	return fw.Close()
}

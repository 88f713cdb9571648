// Package validation checks paths and files handed to the CLI before they
// reach the parser or a codec.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits on CLI inputs.
const (
	// MaxSourceSize bounds both the file on disk and its decompressed
	// content (64 MiB). The reference eBook is about 4.4 MiB.
	MaxSourceSize = 64 << 20
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTooLarge         = errors.New("input too large")
	ErrNotRegular       = errors.New("not a regular file")
)

// ValidatePath checks a user-supplied path for length limits and
// control characters. "-" (stdin/stdout) is accepted.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateFilename checks a single path element, such as a bundle entry name.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}

	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}

	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}

	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}

	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}

	return nil
}

// CheckInputFile validates path and confirms it names a regular file no
// larger than MaxSourceSize. It returns the file size.
func CheckInputFile(path string) (int64, error) {
	if err := ValidatePath(path); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if info.Size() > MaxSourceSize {
		return 0, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, path, info.Size(), MaxSourceSize)
	}
	return info.Size(), nil
}

// ReadAllLimited reads r to the end, failing once more than limit bytes
// have been read. It guards against decompression bombs.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// FileType represents a detected file type.
type FileType string

const (
	// Compression wrappers
	FileTypeGzip FileType = "gzip"
	FileTypeXZ   FileType = "xz"
	FileTypeTar  FileType = "tar"

	// Encoded documents
	FileTypeBin    FileType = "bin"
	FileTypeSQLite FileType = "sqlite"
	FileTypeXLSX   FileType = "xlsx"
	FileTypeXML    FileType = "xml"
	FileTypeJSON   FileType = "json"
	FileTypeText   FileType = "text"

	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeTar, []byte("ustar"), 257},
	{FileTypeGzip, []byte{0x1f, 0x8b}, 0},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
	{FileTypeXLSX, []byte{0x50, 0x4b, 0x03, 0x04}, 0},
	{FileTypeSQLite, []byte("SQLite format 3\x00"), 0},
	{FileTypeBin, []byte("GKJV"), 0},
}

// ValidateFileType checks that the content of r matches the type implied by
// filename. Compression suffixes are checked against the compressed bytes.
// It returns the detected type.
func ValidateFileType(r io.Reader, filename string) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detected := DetectFileType(buf)
	expected := FileTypeFromExtension(filename)

	if detected == expected {
		return detected, nil
	}

	if detected == FileTypeUnknown {
		switch expected {
		case FileTypeXML, FileTypeJSON, FileTypeText:
			if isLikelyText(buf) {
				return expected, nil
			}
			return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is binary", expected)
		}
		return expected, nil
	}

	if expected != FileTypeUnknown {
		return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expected, detected)
	}
	return detected, nil
}

// DetectFileType detects a file type from its leading bytes.
func DetectFileType(buf []byte) FileType {
	for _, sig := range magicBytes {
		if sig.offset+len(sig.magic) <= len(buf) {
			if bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
				return sig.fileType
			}
		}
	}
	return FileTypeUnknown
}

// FileTypeFromExtension determines the expected file type from a filename.
// The outermost suffix wins, so "kjv.json.xz" is xz.
func FileTypeFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz":
		return FileTypeXZ
	case ".gz", ".tgz":
		return FileTypeGzip
	case ".tar":
		return FileTypeTar
	case ".bin":
		return FileTypeBin
	case ".sqlite", ".db", ".sqlite3":
		return FileTypeSQLite
	case ".xlsx":
		return FileTypeXLSX
	case ".xml", ".osis":
		return FileTypeXML
	case ".json":
		return FileTypeJSON
	case ".txt":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText reports whether buf looks like UTF-8 or ASCII text.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 lead and continuation bytes are neutral.
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}

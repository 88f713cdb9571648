// Package formats is the codec registry. Each codec lives in its own
// subpackage and registers itself from init; internal/embedded imports them
// all.
package formats

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
)

// Info describes a codec.
type Info struct {
	// Name is the value accepted by --format.
	Name string `json:"name"`

	// Extensions are the file suffixes (with dot) that select this codec.
	// Longer suffixes win, so ".keyed.json" beats ".json".
	Extensions []string `json:"extensions"`

	Description string `json:"description"`

	// CanDecode is false for encode-only codecs.
	CanDecode bool `json:"can_decode"`
}

// Codec encodes a document into one output format.
type Codec interface {
	Info() Info
	Encode(w io.Writer, doc *scripture.Document) error
}

// Decoder is implemented by codecs that can read their output back.
type Decoder interface {
	Decode(r io.Reader) (*scripture.Document, error)
}

// registry holds all codecs by name.
var registry = make(map[string]Codec)

// Register adds c to the registry, replacing any codec with the same name.
func Register(c Codec) {
	if name := c.Info().Name; name != "" {
		registry[name] = c
	}
}

// Unregister removes the codec with the given name (for testing).
func Unregister(name string) {
	delete(registry, name)
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, gkerrors.NewUnsupported("format "+name, "known formats: "+strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered codecs sorted by name.
func List() []Codec {
	out := make([]Codec, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

// ByPath selects a codec from the suffix of path. A trailing .xz or .gz is
// ignored.
func ByPath(path string) (Codec, error) {
	base := strings.ToLower(filepath.Base(archive.TrimCompression(path)))

	var best Codec
	bestLen := 0
	for _, c := range List() {
		for _, ext := range c.Info().Extensions {
			if len(ext) > bestLen && strings.HasSuffix(base, strings.ToLower(ext)) {
				best, bestLen = c, len(ext)
			}
		}
	}
	if best == nil {
		return nil, gkerrors.NewUnsupported("output "+filepath.Base(path), "no format matches this extension; use --format")
	}
	return best, nil
}

// Resolve returns the codec named by format, or the one implied by path when
// format is empty.
func Resolve(format, path string) (Codec, error) {
	if format != "" {
		return Lookup(format)
	}
	return ByPath(path)
}

// AsDecoder returns c as a Decoder, or an UnsupportedError for encode-only
// codecs.
func AsDecoder(c Codec) (Decoder, error) {
	info := c.Info()
	d, ok := c.(Decoder)
	if !ok || !info.CanDecode {
		return nil, gkerrors.NewUnsupported("decoding "+info.Name, "format is encode-only")
	}
	return d, nil
}

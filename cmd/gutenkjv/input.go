package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
	"github.com/FocuswithJustin/gutenkjv/internal/logging"
	"github.com/FocuswithJustin/gutenkjv/internal/validation"
)

// ParserFlags configures the eBook parser. Embedded in commands that read
// the plain text.
type ParserFlags struct {
	StartMarker string `name:"start-marker" help:"Skip input up to the line containing this text" default:"${start_marker}"`
	EndMarker   string `name:"end-marker" help:"Stop at the line containing this text" default:"${end_marker}"`
	NoContents  bool   `name:"no-contents" help:"Do not read the table of contents"`
}

// options returns parser options for the flags.
func (f ParserFlags) options() gutenberg.Options {
	return gutenberg.Options{
		StartMarker: f.StartMarker,
		EndMarker:   f.EndMarker,
		NoContents:  f.NoContents,
	}
}

// isText reports whether path names eBook text rather than an encoded
// document.
func isText(path string) bool {
	return path == "-" || strings.EqualFold(filepath.Ext(archive.TrimCompression(path)), ".txt")
}

// readInput validates path and returns its decompressed content. "-" reads
// standard input.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := validation.ReadAllLimited(os.Stdin, validation.MaxSourceSize)
		if err != nil {
			return nil, gkerrors.NewIO("read", "stdin", err)
		}
		return data, nil
	}

	if _, err := validation.CheckInputFile(path); err != nil {
		return nil, gkerrors.Wrap(err, "invalid input")
	}
	if err := checkFileType(path); err != nil {
		return nil, err
	}

	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := validation.ReadAllLimited(rc, validation.MaxSourceSize)
	if err != nil {
		return nil, gkerrors.NewIO("read", path, err)
	}
	return data, nil
}

// checkFileType compares the leading bytes of path with its extension.
func checkFileType(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return gkerrors.NewIO("open", path, err)
	}
	defer f.Close()

	if _, err := validation.ValidateFileType(f, path); err != nil {
		return gkerrors.NewValidation("input", path, err.Error())
	}
	return nil
}

// parseText converts eBook text, logging a summary. Events are counted into
// the returned Stats; tracer, if non-nil, also receives them.
func parseText(ctx context.Context, source string, data []byte, opts gutenberg.Options, tracer gutenberg.Tracer) (*scripture.Document, *gutenberg.Stats, error) {
	events := &gutenberg.Stats{}
	opts.Tracer = events
	if tracer != nil {
		opts.Tracer = gutenberg.MultiTracer(events, tracer)
	}

	start := time.Now()
	doc, err := gutenberg.ParseReader(bytes.NewReader(data), opts)
	if err != nil {
		return nil, nil, gkerrors.NewIO("read", source, err)
	}
	logging.ParseSummary(ctx, source, doc.Stats(), events, time.Since(start))
	return doc, events, nil
}

// loadDocument returns the document at path. Text is parsed with flags;
// bundles yield their first decodable entry; anything else is decoded by the
// codec named by format or implied by the extension.
func loadDocument(ctx context.Context, path, format string, flags ParserFlags) (*scripture.Document, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, gkerrors.Wrap(err, "invalid input path")
	}

	if archive.IsBundle(path) {
		return loadBundle(ctx, path, format)
	}

	if format == "" && isText(path) {
		data, err := readInput(path)
		if err != nil {
			return nil, err
		}
		doc, _, err := parseText(ctx, path, data, flags.options(), nil)
		return doc, err
	}

	codec, err := formats.Resolve(format, path)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	doc, err := formats.DecodeBytes(codec, data)
	if err != nil {
		return nil, gkerrors.Wrapf(err, "failed to decode %s", path)
	}
	logging.DebugContext(ctx, "document_loaded", "path", path, "format", codec.Info().Name)
	return doc, nil
}

// loadBundle decodes the first entry of a bundle whose name maps to a
// decodable codec. The run manifest is never a candidate.
func loadBundle(ctx context.Context, path, format string) (*scripture.Document, error) {
	if _, err := validation.CheckInputFile(path); err != nil {
		return nil, gkerrors.Wrap(err, "invalid input")
	}

	var codec formats.Codec
	data, name, err := archive.FindEntry(path, func(name string) bool {
		if strings.Contains(name, "/") || name == manifestEntry {
			return false
		}
		c, err := formats.Resolve(format, name)
		if err != nil {
			return false
		}
		if _, err := formats.AsDecoder(c); err != nil {
			return false
		}
		codec = c
		return true
	})
	if err != nil {
		if gkerrors.Is(err, gkerrors.ErrNotFound) {
			return nil, gkerrors.NewNotFound("decodable entry in bundle", path)
		}
		return nil, err
	}

	doc, err := formats.DecodeBytes(codec, data)
	if err != nil {
		return nil, gkerrors.Wrapf(err, "failed to decode %s in %s", name, path)
	}
	logging.DebugContext(ctx, "document_loaded", "path", path, "entry", name, "format", codec.Info().Name)
	return doc, nil
}

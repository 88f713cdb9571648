package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/gutenkjv/core/cas"
	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
	"github.com/FocuswithJustin/gutenkjv/internal/formats/bin"
	"github.com/FocuswithJustin/gutenkjv/internal/logging"
	"github.com/FocuswithJustin/gutenkjv/internal/manifest"
	"github.com/FocuswithJustin/gutenkjv/internal/validation"
)

// cacheKey names the encoding kept in the parse cache.
const cacheKey = "bin.v1"

// manifestEntry is the manifest's name inside a bundle.
const manifestEntry = "manifest.json"

// defaultFormat is used for standard output when --format is not given.
const defaultFormat = "json"

// ParseCmd converts the eBook text and writes one or more encodings.
type ParseCmd struct {
	Input    string   `arg:"" help:"Path to the eBook text (.txt, optionally .xz or .gz; - for stdin)"`
	Out      []string `short:"o" help:"Output path; repeat for several formats. Without -o the document is written to stdout"`
	Format   string   `short:"f" help:"Output format, overriding the output extension (see 'formats')"`
	CacheDir string   `name:"cache-dir" help:"Reuse parse results stored in this directory" type:"path" env:"GUTENKJV_CACHE_DIR"`
	Manifest string   `help:"Write a run manifest to this path" type:"path"`
	Bundle   string   `help:"Write every output and the manifest into one tar bundle (.tar, .tar.gz, .tar.xz)" type:"path"`
	Trace    bool     `help:"Log every parser event (shown with --log-level debug)"`

	ParserFlags `embed:""`
}

func (c *ParseCmd) Run() error {
	if err := validation.ValidatePath(c.Input); err != nil {
		return gkerrors.Wrap(err, "invalid input path")
	}
	if !isText(c.Input) {
		return gkerrors.NewValidation("input", c.Input, "parse reads eBook text (.txt); use convert for encoded documents")
	}
	for _, out := range c.Out {
		if err := validation.ValidatePath(out); err != nil {
			return gkerrors.Wrap(err, "invalid output path")
		}
	}
	if c.Bundle != "" {
		if err := validation.ValidatePath(c.Bundle); err != nil {
			return gkerrors.Wrap(err, "invalid bundle path")
		}
		if !archive.IsBundle(c.Bundle) {
			return gkerrors.NewValidation("bundle", c.Bundle, "must end in .tar, .tar.gz or .tar.xz")
		}
	}

	m := manifest.New("gutenkjv", version)
	ctx := logging.WithRunID(context.Background(), m.RunID)

	runErr := c.run(ctx, m)
	m.Complete(runErr)

	if c.Manifest != "" {
		if err := m.WriteFile(c.Manifest); err != nil {
			if runErr == nil {
				return err
			}
			logging.ErrorContext(ctx, "manifest_write_failed", "path", c.Manifest, "error", err)
		}
	}
	if runErr != nil {
		logging.ErrorContext(ctx, "parse_failed", "input", c.Input, "error", runErr)
	}
	return runErr
}

func (c *ParseCmd) run(ctx context.Context, m *manifest.Manifest) error {
	data, err := readInput(c.Input)
	if err != nil {
		return err
	}
	digests := cas.Sum(data)
	m.SetSource(c.Input, digests)

	doc, events, cached, err := c.document(ctx, data, digests)
	if err != nil {
		return err
	}
	m.Cached = cached
	m.SetResult(doc, events)
	if !c.Trace {
		// With --trace the tracer has already logged these.
		for _, s := range m.Suppressed {
			logging.WarnContext(ctx, "book_suppressed", "line", s.Line, "book", s.Book, "reason", s.Reason)
		}
	}

	switch {
	case c.Bundle != "":
		return c.writeBundle(ctx, m, doc)
	case len(c.Out) == 0:
		format := c.Format
		if format == "" {
			format = defaultFormat
		}
		codec, err := formats.Lookup(format)
		if err != nil {
			return err
		}
		return codec.Encode(stdout, doc)
	}

	for _, out := range c.Out {
		codec, err := formats.Resolve(c.Format, out)
		if err != nil {
			return err
		}
		encoded, err := formats.EncodeBytes(codec, doc)
		if err != nil {
			return err
		}
		if err := archive.WriteFile(out, encoded); err != nil {
			return err
		}
		m.AddOutput(out, codec.Info().Name, encoded)
		logging.OutputWritten(ctx, codec.Info().Name, out, int64(len(encoded)))
	}
	return nil
}

// document parses data, or loads the result of an earlier parse of the same
// bytes from the cache. Cached results carry no events. Tracing always
// parses so every event is logged.
func (c *ParseCmd) document(ctx context.Context, data []byte, digests cas.Digests) (*scripture.Document, *gutenberg.Stats, bool, error) {
	var cache *cas.Cache
	key := c.cacheKey()
	if c.CacheDir != "" {
		var err error
		if cache, err = cas.OpenCache(c.CacheDir); err != nil {
			return nil, nil, false, err
		}
		if !c.Trace {
			if doc, ok := lookupCache(ctx, cache, digests.BLAKE3, key); ok {
				return doc, nil, true, nil
			}
		}
	}

	var tracer gutenberg.Tracer
	if c.Trace {
		tracer = logging.Tracer(ctx)
	}
	doc, events, err := parseText(ctx, c.Input, data, c.options(), tracer)
	if err != nil {
		return nil, nil, false, err
	}

	if cache != nil {
		if _, err := cache.Put(digests.BLAKE3, key, bin.Marshal(doc)); err != nil {
			logging.WarnContext(ctx, "cache_store_failed", "dir", c.CacheDir, "error", err)
		}
	}
	return doc, events, false, nil
}

// cacheKey distinguishes results produced with non-default parser flags.
func (c *ParseCmd) cacheKey() string {
	def := gutenberg.DefaultOptions()
	if c.StartMarker == def.StartMarker && c.EndMarker == def.EndMarker && !c.NoContents {
		return cacheKey
	}
	opts := fmt.Sprintf("%q|%q|%t", c.StartMarker, c.EndMarker, c.NoContents)
	return cacheKey + "-" + cas.Blake3Hash([]byte(opts))[:12]
}

// lookupCache returns the cached document, or false on a miss or an
// unreadable entry.
func lookupCache(ctx context.Context, cache *cas.Cache, source, key string) (*scripture.Document, bool) {
	blob, _, err := cache.Get(source, key)
	if err != nil {
		var pe *gkerrors.ParseError
		switch {
		case gkerrors.Is(err, gkerrors.ErrNotFound):
		case gkerrors.As(err, &pe):
			logging.WarnContext(ctx, "cache_entry_invalid", "key", key, "error", err)
		default:
			logging.WarnContext(ctx, "cache_read_failed", "key", key, "error", err)
		}
		logging.CacheLookup(ctx, key, false)
		return nil, false
	}
	doc, err := bin.Unmarshal(blob)
	if err != nil {
		logging.WarnContext(ctx, "cache_entry_invalid", "key", key, "error", err)
		logging.CacheLookup(ctx, key, false)
		return nil, false
	}
	logging.CacheLookup(ctx, key, true, "size", len(blob))
	return doc, true
}

// writeBundle writes every -o output as a bundle entry, followed by the
// manifest. Entries are stored uncompressed; the bundle suffix decides the
// compression of the whole archive.
func (c *ParseCmd) writeBundle(ctx context.Context, m *manifest.Manifest, doc *scripture.Document) error {
	outs := c.Out
	if len(outs) == 0 {
		format := c.Format
		if format == "" {
			format = "bin"
		}
		codec, err := formats.Lookup(format)
		if err != nil {
			return err
		}
		outs = []string{archive.BundleID(c.Bundle) + codec.Info().Extensions[0]}
	}

	bw, err := archive.CreateBundle(c.Bundle, time.Now())
	if err != nil {
		return err
	}

	for _, out := range outs {
		name := filepath.Base(out)
		if archive.DetectCompression(name) != archive.None {
			bw.Abort()
			return gkerrors.NewValidation("output", out, "bundle entries cannot be compressed individually")
		}
		if strings.EqualFold(name, manifestEntry) {
			bw.Abort()
			return gkerrors.NewValidation("output", out, "name is reserved for the run manifest")
		}
		codec, err := formats.Resolve(c.Format, name)
		if err != nil {
			bw.Abort()
			return err
		}
		encoded, err := formats.EncodeBytes(codec, doc)
		if err != nil {
			bw.Abort()
			return err
		}
		if err := bw.Add(name, encoded); err != nil {
			bw.Abort()
			return err
		}
		m.AddOutput(name, codec.Info().Name, encoded)
		logging.OutputWritten(ctx, codec.Info().Name, name, int64(len(encoded)), "bundle", c.Bundle)
	}

	m.Complete(nil)
	raw, err := m.Marshal()
	if err != nil {
		bw.Abort()
		return err
	}
	if err := bw.Add(manifestEntry, raw); err != nil {
		bw.Abort()
		return err
	}
	return bw.Close()
}

// TocCmd prints the table of contents of the eBook or of an encoded
// document.
type TocCmd struct {
	Input  string `arg:"" help:"eBook text or encoded document"`
	Format string `short:"f" help:"Input format, overriding the extension"`

	ParserFlags `embed:""`
}

func (c *TocCmd) Run() error {
	if err := validation.ValidatePath(c.Input); err != nil {
		return gkerrors.Wrap(err, "invalid input path")
	}

	var oldNames, newNames []string
	if c.Format == "" && isText(c.Input) {
		data, err := readInput(c.Input)
		if err != nil {
			return err
		}
		oldNames, newNames = gutenberg.ScanContents(string(data), c.options())
	} else {
		doc, err := loadDocument(context.Background(), c.Input, c.Format, c.ParserFlags)
		if err != nil {
			return err
		}
		oldNames, newNames = doc.OldContents, doc.NewContents
	}

	if len(oldNames) == 0 && len(newNames) == 0 {
		return gkerrors.NewNotFound("table of contents", c.Input)
	}
	printContents(scripture.TestamentOld, oldNames)
	printContents(scripture.TestamentNew, newNames)
	return nil
}

func printContents(t scripture.Testament, names []string) {
	fmt.Fprintf(stdout, "%s (%d books)\n", t, len(names))
	for i, name := range names {
		fmt.Fprintf(stdout, "%4d  %s\n", i+1, name)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/ref"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/archive"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
	"github.com/FocuswithJustin/gutenkjv/internal/logging"
	"github.com/FocuswithJustin/gutenkjv/internal/validation"
)

// CheckCmd reports structural problems. Structural checks always run;
// --strict adds the canon and table-of-contents comparisons.
type CheckCmd struct {
	Input          string `arg:"" help:"eBook text, encoded document or bundle"`
	Format         string `short:"f" help:"Input format, overriding the extension"`
	Strict         bool   `help:"Also compare with the KJV canon and the table of contents"`
	MinVerseLength int    `name:"min-verse-length" help:"Flag verses shorter than this many bytes (0 disables)" default:"2"`

	ParserFlags `embed:""`
}

func (c *CheckCmd) Run() error {
	ctx := context.Background()
	doc, err := loadDocument(ctx, c.Input, c.Format, c.ParserFlags)
	if err != nil {
		return err
	}

	opts := scripture.CheckOptions{MinVerseLength: c.MinVerseLength}
	if c.Strict {
		opts.Canon = true
		opts.Contents = true
	}

	problems := scripture.Check(doc, opts)
	for _, p := range problems {
		fmt.Fprintln(stdout, p)
	}

	st := doc.Stats()
	if len(problems) > 0 {
		logging.WarnContext(ctx, "check_failed", "input", c.Input, "problems", len(problems))
		return fmt.Errorf("%s: %d problem(s) found", c.Input, len(problems))
	}
	fmt.Fprintf(stdout, "ok: %d old testament books, %d new testament books, %d chapters, %d verses\n",
		st.OldBooks, st.NewBooks, st.Chapters, st.Verses)
	return nil
}

// LookupCmd prints the verses covered by one or more references. The
// reference words are joined, so "John 3:16" needs no quoting; separate
// several references with ';'.
type LookupCmd struct {
	Input     string   `arg:"" help:"eBook text, encoded document or bundle"`
	Reference []string `arg:"" help:"Reference such as 'John 3:16', '1 Kings 2' or 'Gen 1:1-3; Ps 23'"`
	Format    string   `short:"f" help:"Input format, overriding the extension"`
	JSON      bool     `name:"json" help:"Print passages as JSON"`

	ParserFlags `embed:""`
}

func (c *LookupCmd) Run() error {
	refs := splitReferences(strings.Join(c.Reference, " "))
	if len(refs) == 0 {
		return gkerrors.NewValidation("reference", strings.Join(c.Reference, " "), "no reference given")
	}

	doc, err := loadDocument(context.Background(), c.Input, c.Format, c.ParserFlags)
	if err != nil {
		return err
	}

	var passages []ref.Passage
	for _, r := range refs {
		p, err := ref.LookupString(doc, r)
		if err != nil {
			return gkerrors.Wrapf(err, "lookup %q", r)
		}
		passages = append(passages, p...)
	}

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(passages)
	}
	for _, p := range passages {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

// splitReferences splits a ';'-separated list, dropping empty items.
func splitReferences(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ConvertCmd re-encodes a document.
type ConvertCmd struct {
	Input  string `arg:"" help:"Encoded document, bundle or eBook text"`
	Out    string `short:"o" required:"" help:"Output path" type:"path"`
	From   string `help:"Input format, overriding the input extension"`
	Format string `short:"f" help:"Output format, overriding the output extension"`

	ParserFlags `embed:""`
}

func (c *ConvertCmd) Run() error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return gkerrors.Wrap(err, "invalid output path")
	}
	if archive.IsBundle(c.Out) {
		return gkerrors.NewValidation("output", c.Out, "use parse --bundle to write bundles")
	}

	codec, err := formats.Resolve(c.Format, c.Out)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, err := loadDocument(ctx, c.Input, c.From, c.ParserFlags)
	if err != nil {
		return err
	}

	n, err := formats.WriteFile(c.Out, codec, doc)
	if err != nil {
		return err
	}
	logging.OutputWritten(ctx, codec.Info().Name, c.Out, n, "input", c.Input)
	return nil
}

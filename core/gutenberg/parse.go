package gutenberg

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// Gutenberg eBook markers.
const (
	DefaultStartMarker = "*** START OF THE PROJECT GUTENBERG"
	DefaultEndMarker   = "*** END OF THE PROJECT GUTENBERG"

	// OldTestamentMarker opens the table of contents and, on its second
	// appearance, the body.
	OldTestamentMarker = "The Old Testament"

	// NewTestamentMarker switches the table of contents to New Testament books.
	NewTestamentMarker = "The New Testament"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// Options configures Parse.
type Options struct {
	// StartMarker skips every line up to and including the first line that
	// contains it. Empty starts at the first line.
	StartMarker string

	// EndMarker stops the body at the first line that contains it.
	// Empty reads to the end of input.
	EndMarker string

	// NoContents disables the table-of-contents pre-pass.
	NoContents bool

	// Tracer receives diagnostics. May be nil.
	Tracer Tracer
}

// DefaultOptions returns options for an unmodified Project Gutenberg eBook.
func DefaultOptions() Options {
	return Options{
		StartMarker: DefaultStartMarker,
		EndMarker:   DefaultEndMarker,
	}
}

// region is the part of the eBook the parser is in.
type region int

const (
	regionPreamble region = iota
	regionContents
	regionBody
	regionTrailer
)

// parser drives the assembler across the regions of an eBook.
type parser struct {
	opts        Options
	asm         *Assembler
	region      region
	contentsNT  bool
	contentsRan bool

	oldContents []string
	newContents []string
}

func newParser(opts Options) *parser {
	p := &parser{
		opts: opts,
		asm:  NewAssembler(opts.Tracer),
	}
	if opts.StartMarker == "" {
		p.region = regionBody
	}
	return p
}

func (p *parser) emit(e Event) {
	if p.opts.Tracer != nil {
		p.opts.Tracer.Trace(e)
	}
}

func (p *parser) line(n int, raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	switch p.region {
	case regionPreamble:
		if strings.Contains(line, p.opts.StartMarker) {
			p.region = regionBody
			p.emit(Event{Kind: EventBodyStarted, Line: n, Text: line, Reason: "start marker"})
		}

	case regionContents:
		switch {
		case p.opts.EndMarker != "" && strings.Contains(line, p.opts.EndMarker):
			p.region = regionTrailer
			p.emit(Event{Kind: EventBodyEnded, Line: n, Text: line, Reason: "end marker inside contents"})
		case strings.Contains(line, NewTestamentMarker):
			p.contentsNT = true
		case strings.Contains(line, OldTestamentMarker):
			p.region = regionBody
			p.asm.Division(n, line)
			p.emit(Event{Kind: EventBodyStarted, Line: n, Text: line, Reason: "contents closed"})
		default:
			if t, ok := Classify(line); ok {
				if p.contentsNT {
					p.newContents = append(p.newContents, t.Name)
				} else {
					p.oldContents = append(p.oldContents, t.Name)
				}
				p.emit(Event{Kind: EventContentsEntry, Line: n, Text: line, Book: t.Name})
			}
		}

	case regionBody:
		if p.opts.EndMarker != "" && strings.Contains(line, p.opts.EndMarker) {
			p.region = regionTrailer
			p.emit(Event{Kind: EventBodyEnded, Line: n, Text: line, Reason: "end marker"})
			return
		}
		if strings.HasPrefix(line, OldTestamentMarker) || strings.HasPrefix(line, NewTestamentMarker) {
			if !p.opts.NoContents && !p.contentsRan && !p.asm.Started() &&
				strings.HasPrefix(line, OldTestamentMarker) {
				p.region = regionContents
				p.contentsRan = true
				p.emit(Event{Kind: EventContentsOpened, Line: n, Text: line})
				return
			}
			p.asm.Division(n, line)
			return
		}
		p.asm.Feed(n, line)

	case regionTrailer:
	}
}

func (p *parser) finish() *scripture.Document {
	doc := p.asm.Finish()
	doc.OldContents = p.oldContents
	doc.NewContents = p.newContents
	return doc
}

// Parse converts a fully materialized eBook text into a Document.
func Parse(text string, opts Options) *scripture.Document {
	p := newParser(opts)
	for n, line := range strings.Split(text, "\n") {
		p.line(n+1, line)
	}
	return p.finish()
}

// ParseReader reads the whole of r and converts it. Only read errors are
// returned; the conversion itself cannot fail.
func ParseReader(r io.Reader, opts Options) (*scripture.Document, error) {
	p := newParser(opts)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	n := 0
	for scanner.Scan() {
		n++
		p.line(n, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", n+1, err)
	}
	return p.finish(), nil
}

// ScanContents runs only the table-of-contents pre-pass and returns the Old
// and New Testament names it declares.
func ScanContents(text string, opts Options) (oldNames, newNames []string) {
	p := newParser(opts)
	for n, line := range strings.Split(text, "\n") {
		p.line(n+1, line)
		if p.contentsRan && p.region != regionContents {
			break
		}
	}
	return p.oldContents, p.newContents
}

package gutenberg

import (
	"strings"

	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// samuelMarker identifies the books whose headers are followed by a stray
// forward reference to Kings in this edition.
const samuelMarker = "Samuel"

// Suppression reasons reported with EventBookSuppressed.
const (
	ReasonAfterHeader   = "kings header directly follows another header"
	ReasonSamuelNoVerse = "kings header before the open Samuel book has any verse"
)

// Assembler is the line state machine that builds a Document. It is not safe
// for concurrent use; create one per parse.
type Assembler struct {
	tracer Tracer
	doc    scripture.Document

	book      *scripture.Book
	testament scripture.Testament
	chapter   *scripture.Chapter
	verse     *openVerse

	// bookHasVerse is true once the open book has opened a verse.
	bookHasVerse bool

	// prevHeader is true while the last non-blank line was a header.
	prevHeader bool

	seen map[string]bool
	line int
}

// openVerse is the verse under accumulation.
type openVerse struct {
	number string
	text   strings.Builder
}

// appendWords joins words onto the verse text with single spaces.
func (v *openVerse) appendWords(words []string) {
	for _, w := range words {
		if v.text.Len() > 0 {
			v.text.WriteByte(' ')
		}
		v.text.WriteString(w)
	}
}

// NewAssembler returns an assembler with no open book. tracer may be nil.
func NewAssembler(tracer Tracer) *Assembler {
	return &Assembler{
		tracer: tracer,
		seen:   make(map[string]bool),
	}
}

func (a *Assembler) emit(e Event) {
	if a.tracer == nil {
		return
	}
	if e.Line == 0 {
		e.Line = a.line
	}
	a.tracer.Trace(e)
}

// Feed processes one input line. lineNo is only used for diagnostics.
func (a *Assembler) Feed(lineNo int, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	a.line = lineNo

	if title, ok := Classify(line); ok {
		a.header(title, line)
		return
	}

	a.prevHeader = false
	a.body(line)
}

// Division records a structural line (such as a testament heading) that is
// neither a header nor verse text.
func (a *Assembler) Division(lineNo int, line string) {
	a.line = lineNo
	a.prevHeader = false
	a.emit(Event{Kind: EventDivision, Text: line})
}

// Started reports whether any book header has been accepted.
func (a *Assembler) Started() bool {
	return a.book != nil || len(a.seen) > 0
}

// SeenBooks returns how many distinct book names have been accepted.
func (a *Assembler) SeenBooks() int {
	return len(a.seen)
}

func (a *Assembler) header(t Title, line string) {
	if isKings(t.Name) {
		if a.prevHeader {
			a.emit(Event{Kind: EventBookSuppressed, Text: line, Book: t.Name, Reason: ReasonAfterHeader})
			return
		}
		if a.book != nil && strings.Contains(a.book.Name, samuelMarker) && !a.bookHasVerse {
			a.emit(Event{Kind: EventBookSuppressed, Text: line, Book: t.Name, Reason: ReasonSamuelNoVerse})
			return
		}
	}

	if a.seen[t.Name] {
		a.emit(Event{Kind: EventBookReencountered, Text: line, Book: t.Name})
		if a.book != nil && a.book.Name == t.Name {
			// A repeated header continues the open book.
			a.prevHeader = true
			return
		}
	} else {
		a.seen[t.Name] = true
	}

	a.sealBook()
	a.book = &scripture.Book{Name: t.Name}
	a.testament = t.Testament
	a.bookHasVerse = false
	a.prevHeader = true
	a.emit(Event{Kind: EventBookAccepted, Text: line, Book: t.Name})
}

func (a *Assembler) body(line string) {
	words := strings.Fields(line)
	i, ref := findVerseRef(words)

	if i < 0 {
		if a.verse == nil {
			a.emit(Event{Kind: EventLineDropped, Text: line, Reason: "no open verse"})
			return
		}
		a.verse.appendWords(words)
		return
	}

	// Words ahead of the reference are the tail of the previous verse.
	if a.verse != nil {
		a.verse.appendWords(words[:i])
	}
	a.sealVerse()

	if a.chapter == nil || a.chapter.Number != ref.Chapter {
		a.sealChapter()
		a.chapter = &scripture.Chapter{Number: ref.Chapter}
		a.emit(Event{Kind: EventChapterOpened, Text: line, Book: a.bookName(), Chapter: ref.Chapter})
	}

	a.verse = &openVerse{number: ref.Verse}
	a.verse.appendWords(words[i+1:])
	a.bookHasVerse = true
	a.emit(Event{Kind: EventVerseOpened, Text: line, Book: a.bookName(), Chapter: ref.Chapter, Verse: ref.Verse})
}

func (a *Assembler) bookName() string {
	if a.book == nil {
		return ""
	}
	return a.book.Name
}

func (a *Assembler) sealVerse() {
	if a.verse == nil {
		return
	}
	if a.chapter != nil {
		a.chapter.Verses = append(a.chapter.Verses, scripture.Verse{
			Number: a.verse.number,
			Text:   a.verse.text.String(),
		})
	}
	a.verse = nil
}

func (a *Assembler) sealChapter() {
	a.sealVerse()
	if a.chapter == nil {
		return
	}
	if a.book != nil {
		a.book.Chapters = append(a.book.Chapters, *a.chapter)
	} else {
		a.emit(Event{Kind: EventChapterDropped, Chapter: a.chapter.Number, Reason: "no open book"})
	}
	a.chapter = nil
}

func (a *Assembler) sealBook() {
	a.sealChapter()
	if a.book == nil {
		return
	}
	if len(a.book.Chapters) == 0 {
		a.emit(Event{Kind: EventBookDropped, Book: a.book.Name, Reason: "no chapters"})
	} else {
		a.doc.Append(a.testament, *a.book)
	}
	a.book = nil
}

// Finish seals the open verse, chapter and book and returns the document.
// The assembler is reset and may be reused.
func (a *Assembler) Finish() *scripture.Document {
	a.sealBook()
	doc := a.doc
	a.doc = scripture.Document{}
	a.seen = make(map[string]bool)
	a.bookHasVerse = false
	a.prevHeader = false
	return &doc
}

package scripture

// types.go - Document tree produced by the Gutenberg assembler.
// Every node is owned by value by its parent; nothing is shared between books.

import "strconv"

// Testament identifies which collection a book belongs to.
type Testament string

// Testament constants.
const (
	TestamentOld Testament = "old"
	TestamentNew Testament = "new"
)

// validTestaments is the set of valid testaments.
var validTestaments = map[Testament]bool{
	TestamentOld: true,
	TestamentNew: true,
}

// IsValid returns true if the testament is one of the two known collections.
func (t Testament) IsValid() bool {
	return validTestaments[t]
}

// String returns a human-readable name.
func (t Testament) String() string {
	switch t {
	case TestamentOld:
		return "Old Testament"
	case TestamentNew:
		return "New Testament"
	default:
		return string(t)
	}
}

// Document is the top-level container for a parsed Bible.
type Document struct {
	// OldContents holds the Old Testament book names declared by the table of contents.
	OldContents []string `json:"old_contents,omitempty"`

	// OldTestament contains the Old Testament books in source order.
	OldTestament []Book `json:"old_testament"`

	// NewContents holds the New Testament book names declared by the table of contents.
	NewContents []string `json:"new_contents,omitempty"`

	// NewTestament contains the New Testament books in source order.
	NewTestament []Book `json:"new_testament"`
}

// Book is a single book identified by its canonical name (e.g. "1 Samuel").
type Book struct {
	// Name is the canonical book name.
	Name string `json:"name"`

	// Chapters contains the chapters in the order they were discovered.
	Chapters []Chapter `json:"chapters"`
}

// Chapter holds the verses of one chapter.
type Chapter struct {
	// Number is the chapter number exactly as it appeared in the source.
	Number string `json:"number"`

	// Verses contains the verses in the order they were discovered.
	Verses []Verse `json:"verses"`
}

// Verse is a single verse with its accumulated text.
type Verse struct {
	// Number is the verse number exactly as it appeared in the source.
	Number string `json:"number"`

	// Text is the whitespace-normalized verse text.
	Text string `json:"text"`
}

// Testament returns the books of the given testament.
func (d *Document) Testament(t Testament) []Book {
	if t == TestamentNew {
		return d.NewTestament
	}
	return d.OldTestament
}

// Contents returns the table-of-contents names of the given testament.
func (d *Document) Contents(t Testament) []string {
	if t == TestamentNew {
		return d.NewContents
	}
	return d.OldContents
}

// Append adds a sealed book to the collection of its testament.
func (d *Document) Append(t Testament, b Book) {
	if t == TestamentNew {
		d.NewTestament = append(d.NewTestament, b)
		return
	}
	d.OldTestament = append(d.OldTestament, b)
}

// Book finds a book by canonical name in either testament.
// The first match wins when a name occurs more than once.
func (d *Document) Book(name string) (*Book, Testament, bool) {
	for i := range d.OldTestament {
		if d.OldTestament[i].Name == name {
			return &d.OldTestament[i], TestamentOld, true
		}
	}
	for i := range d.NewTestament {
		if d.NewTestament[i].Name == name {
			return &d.NewTestament[i], TestamentNew, true
		}
	}
	return nil, "", false
}

// Each calls fn for every book, Old Testament first, until fn returns false.
func (d *Document) Each(fn func(t Testament, b *Book) bool) {
	for i := range d.OldTestament {
		if !fn(TestamentOld, &d.OldTestament[i]) {
			return
		}
	}
	for i := range d.NewTestament {
		if !fn(TestamentNew, &d.NewTestament[i]) {
			return
		}
	}
}

// Chapter finds a chapter by its number.
func (b *Book) Chapter(number string) (*Chapter, bool) {
	for i := range b.Chapters {
		if b.Chapters[i].Number == number {
			return &b.Chapters[i], true
		}
	}
	return nil, false
}

// ChapterN finds a chapter by its integer number.
func (b *Book) ChapterN(n int) (*Chapter, bool) {
	return b.Chapter(strconv.Itoa(n))
}

// Verse finds a verse by its number.
func (c *Chapter) Verse(number string) (*Verse, bool) {
	for i := range c.Verses {
		if c.Verses[i].Number == number {
			return &c.Verses[i], true
		}
	}
	return nil, false
}

// VerseN finds a verse by its integer number.
func (c *Chapter) VerseN(n int) (*Verse, bool) {
	return c.Verse(strconv.Itoa(n))
}

// Stats summarizes the size of a document.
type Stats struct {
	OldBooks int `json:"old_books"`
	NewBooks int `json:"new_books"`
	Chapters int `json:"chapters"`
	Verses   int `json:"verses"`
}

// Stats counts books, chapters and verses.
func (d *Document) Stats() Stats {
	s := Stats{
		OldBooks: len(d.OldTestament),
		NewBooks: len(d.NewTestament),
	}
	d.Each(func(_ Testament, b *Book) bool {
		s.Chapters += len(b.Chapters)
		for _, ch := range b.Chapters {
			s.Verses += len(ch.Verses)
		}
		return true
	})
	return s
}

package ref

import (
	"strconv"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// Passage is one verse returned by Lookup.
type Passage struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   string `json:"verse"`
	Text    string `json:"text"`
}

// String renders the passage as "Book C:V Text".
func (p Passage) String() string {
	return p.Book + " " + p.Chapter + ":" + p.Verse + " " + p.Text
}

// Lookup returns the verses r covers, in document order. A whole-book or
// whole-chapter reference returns every verse beneath it. Every verse of a
// range must exist.
func Lookup(doc *scripture.Document, r *Ref) ([]Passage, error) {
	book, _, ok := doc.Book(r.Book)
	if !ok {
		return nil, gkerrors.NewNotFound("book", r.Book)
	}

	if r.Chapter == 0 {
		var out []Passage
		for i := range book.Chapters {
			out = appendChapter(out, book.Name, &book.Chapters[i])
		}
		return out, nil
	}

	ch, ok := book.ChapterN(r.Chapter)
	if !ok {
		return nil, gkerrors.NewNotFound("chapter", book.Name+" "+strconv.Itoa(r.Chapter))
	}
	if r.Verse == 0 {
		return appendChapter(nil, book.Name, ch), nil
	}

	last := r.Verse
	if r.IsRange() {
		last = r.VerseEnd
	}
	out := make([]Passage, 0, last-r.Verse+1)
	for n := r.Verse; n <= last; n++ {
		v, ok := ch.VerseN(n)
		if !ok {
			return nil, gkerrors.NewNotFound("verse", book.Name+" "+ch.Number+":"+strconv.Itoa(n))
		}
		out = append(out, Passage{Book: book.Name, Chapter: ch.Number, Verse: v.Number, Text: v.Text})
	}
	return out, nil
}

func appendChapter(out []Passage, book string, ch *scripture.Chapter) []Passage {
	for _, v := range ch.Verses {
		out = append(out, Passage{Book: book, Chapter: ch.Number, Verse: v.Number, Text: v.Text})
	}
	return out
}

// LookupString parses s and looks it up in doc.
func LookupString(doc *scripture.Document, s string) ([]Passage, error) {
	r, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return Lookup(doc, r)
}

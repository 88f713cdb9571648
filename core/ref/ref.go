package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
)

// Ref is a resolved reference into the canon.
type Ref struct {
	// Book is the canonical book name (e.g. "1 Kings").
	Book string `json:"book"`

	// Chapter is the chapter number, 0 for a whole-book reference.
	Chapter int `json:"chapter,omitempty"`

	// Verse is the first verse, 0 for a whole-chapter reference.
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the last verse of a range, 0 when not a range.
	VerseEnd int `json:"verse_end,omitempty"`
}

// refGrammar accepts "John 3:16", "1 Kings 2:3-5", "Song of Solomon 1",
// "Gen.1.1" and "1Kgs 2".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix string       `@Int?`
	BookWords  []string     `@Ident+`
	ChapterRef *chapterPart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Chapter  int        `"."? @Int`
	VerseRef *versePart `( (":" | ".") @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	Range *int `( "-" @Int )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[.:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse parses a human reference and resolves its book against the canon.
func Parse(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, gkerrors.NewValidation("reference", s, "empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, gkerrors.NewValidation("reference", s, fmt.Sprintf("cannot parse %q: %v", s, err))
	}

	book, err := ResolveBook(parsed.bookName())
	if err != nil {
		return nil, err
	}

	r := &Ref{Book: book.Name}
	if c := parsed.ChapterRef; c != nil {
		if c.Chapter == 0 {
			return nil, gkerrors.NewValidation("reference", s, "chapter 0 does not exist")
		}
		r.Chapter = c.Chapter
		if v := c.VerseRef; v != nil {
			if v.Verse == 0 {
				return nil, gkerrors.NewValidation("reference", s, "verse 0 does not exist")
			}
			r.Verse = v.Verse
			if v.Range != nil {
				if *v.Range < v.Verse {
					return nil, gkerrors.NewValidation("reference", s,
						fmt.Sprintf("range end %d precedes start %d", *v.Range, v.Verse))
				}
				r.VerseEnd = *v.Range
			}
		}
	}
	return r, nil
}

func (g *refGrammar) bookName() string {
	name := strings.Join(g.BookWords, " ")
	if g.BookPrefix != "" {
		name = g.BookPrefix + " " + name
	}
	return name
}

// String renders the reference in "Book C:V-E" form.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)
	if r.Chapter > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(r.Chapter))
		if r.Verse > 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(r.Verse))
			if r.IsRange() {
				sb.WriteByte('-')
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}
	return sb.String()
}

// IsRange returns true if this reference spans multiple verses.
func (r *Ref) IsRange() bool {
	return r.VerseEnd > 0 && r.VerseEnd > r.Verse
}

// Contains returns true if this reference contains the other reference.
func (r *Ref) Contains(other *Ref) bool {
	if r.Book != other.Book {
		return false
	}
	if r.Chapter == 0 {
		return true
	}
	if r.Chapter != other.Chapter {
		return false
	}
	if r.Verse == 0 {
		return true
	}
	if r.IsRange() {
		return other.Verse >= r.Verse && other.Verse <= r.VerseEnd
	}
	return r.Verse == other.Verse
}

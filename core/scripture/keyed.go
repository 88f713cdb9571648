package scripture

import (
	"sort"
	"strconv"
)

// Keyed is the sorted-map rendering of a Document: book name → chapter
// number → verse number → text. Iterate it through BookKeys and NumericKeys
// so output order never depends on map iteration.
type Keyed struct {
	OldContents  []string       `json:"old_contents,omitempty"`
	OldTestament KeyedTestament `json:"old_testament"`
	NewContents  []string       `json:"new_contents,omitempty"`
	NewTestament KeyedTestament `json:"new_testament"`
}

// KeyedTestament maps canonical book names to their chapters.
type KeyedTestament map[string]KeyedBook

// KeyedBook maps chapter numbers to their verses.
type KeyedBook map[string]KeyedChapter

// KeyedChapter maps verse numbers to verse text.
type KeyedChapter map[string]string

// ToKeyed converts a Document into its keyed form.
// A book or verse repeated in the list form collapses into one key; later
// verse text wins.
func ToKeyed(d *Document) *Keyed {
	k := &Keyed{
		OldContents:  append([]string(nil), d.OldContents...),
		OldTestament: keyedTestament(d.OldTestament),
		NewContents:  append([]string(nil), d.NewContents...),
		NewTestament: keyedTestament(d.NewTestament),
	}
	return k
}

func keyedTestament(books []Book) KeyedTestament {
	kt := make(KeyedTestament, len(books))
	for _, b := range books {
		kb, ok := kt[b.Name]
		if !ok {
			kb = make(KeyedBook, len(b.Chapters))
			kt[b.Name] = kb
		}
		for _, ch := range b.Chapters {
			kc, ok := kb[ch.Number]
			if !ok {
				kc = make(KeyedChapter, len(ch.Verses))
				kb[ch.Number] = kc
			}
			for _, v := range ch.Verses {
				kc[v.Number] = v.Text
			}
		}
	}
	return kt
}

// Document rebuilds the list form. Books follow canonical order, chapters and
// verses follow numeric order.
func (k *Keyed) Document() *Document {
	return &Document{
		OldContents:  append([]string(nil), k.OldContents...),
		OldTestament: k.OldTestament.books(),
		NewContents:  append([]string(nil), k.NewContents...),
		NewTestament: k.NewTestament.books(),
	}
}

func (kt KeyedTestament) books() []Book {
	var books []Book
	for _, name := range BookKeys(kt) {
		kb := kt[name]
		b := Book{Name: name}
		for _, chNum := range NumericKeys(kb) {
			kc := kb[chNum]
			ch := Chapter{Number: chNum}
			for _, vNum := range NumericKeys(kc) {
				ch.Verses = append(ch.Verses, Verse{Number: vNum, Text: kc[vNum]})
			}
			b.Chapters = append(b.Chapters, ch)
		}
		books = append(books, b)
	}
	return books
}

// BookKeys returns the book names of a keyed testament in canonical order.
// Names outside the canon sort last, alphabetically.
func BookKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, iok := canonByName[keys[i]]
		bj, jok := canonByName[keys[j]]
		switch {
		case iok && jok:
			return bi.Order < bj.Order
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// NumericKeys returns map keys ordered by their integer value. Keys that are
// not integers sort after the numeric ones, as strings.
func NumericKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortNumeric(keys)
	return keys
}

// SortNumeric sorts decimal strings by value in place.
func SortNumeric(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		ni, ierr := strconv.Atoi(keys[i])
		nj, jerr := strconv.Atoi(keys[j])
		switch {
		case ierr == nil && jerr == nil:
			if ni != nj {
				return ni < nj
			}
			return keys[i] < keys[j]
		case (ierr == nil) != (jerr == nil):
			return ierr == nil
		default:
			return keys[i] < keys[j]
		}
	})
}

// Package formatstest holds fixtures and assertions shared by codec tests.
package formatstest

import (
	"bytes"
	"testing"

	"github.com/FocuswithJustin/gutenkjv/core/scripture"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
)

// Document returns a small document covering both testaments, a numbered
// book, contents lists and punctuation-heavy text.
func Document() *scripture.Document {
	return &scripture.Document{
		OldContents: []string{"Genesis", "1 Samuel", "Psalms"},
		OldTestament: []scripture.Book{
			{Name: "Genesis", Chapters: []scripture.Chapter{
				{Number: "1", Verses: []scripture.Verse{
					{Number: "1", Text: "In the beginning God created the heaven and the earth."},
					{Number: "2", Text: "And the earth was without form, and void; and darkness was upon the face of the deep. And the Spirit of God moved upon the face of the waters."},
				}},
				{Number: "2", Verses: []scripture.Verse{
					{Number: "1", Text: "Thus the heavens and the earth were finished, and all the host of them."},
				}},
			}},
			{Name: "1 Samuel", Chapters: []scripture.Chapter{
				{Number: "3", Verses: []scripture.Verse{
					{Number: "10", Text: "And the LORD came, and stood, and called as at other times, Samuel, Samuel. Then Samuel answered, Speak; for thy servant heareth."},
				}},
			}},
			{Name: "Psalms", Chapters: []scripture.Chapter{
				{Number: "119", Verses: []scripture.Verse{
					{Number: "105", Text: "NUN. Thy word is a lamp unto my feet, and a light unto my path."},
				}},
			}},
		},
		NewContents: []string{"John", "Revelation"},
		NewTestament: []scripture.Book{
			{Name: "John", Chapters: []scripture.Chapter{
				{Number: "3", Verses: []scripture.Verse{
					{Number: "16", Text: "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
				}},
				{Number: "11", Verses: []scripture.Verse{
					{Number: "35", Text: "Jesus wept."},
				}},
			}},
			{Name: "Revelation", Chapters: []scripture.Chapter{
				{Number: "22", Verses: []scripture.Verse{
					{Number: "21", Text: "The grace of our Lord Jesus Christ be with you all. Amen."},
				}},
			}},
		},
	}
}

// Equal fails t unless got and want hold the same books, chapters, verses
// and contents. Nil and empty slices compare equal.
func Equal(t *testing.T, got, want *scripture.Document) {
	t.Helper()
	if got == nil {
		t.Fatal("document is nil")
	}
	equalStrings(t, "old_contents", got.OldContents, want.OldContents)
	equalStrings(t, "new_contents", got.NewContents, want.NewContents)
	equalBooks(t, "old_testament", got.OldTestament, want.OldTestament)
	equalBooks(t, "new_testament", got.NewTestament, want.NewTestament)
}

func equalStrings(t *testing.T, path string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %q, want %q", path, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", path, i, got[i], want[i])
		}
	}
}

func equalBooks(t *testing.T, path string, got, want []scripture.Book) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s has %d books, want %d", path, len(got), len(want))
		return
	}
	for i, wb := range want {
		gb := got[i]
		if gb.Name != wb.Name {
			t.Errorf("%s[%d].name = %q, want %q", path, i, gb.Name, wb.Name)
			continue
		}
		if len(gb.Chapters) != len(wb.Chapters) {
			t.Errorf("%s has %d chapters, want %d", wb.Name, len(gb.Chapters), len(wb.Chapters))
			continue
		}
		for j, wc := range wb.Chapters {
			gc := gb.Chapters[j]
			if gc.Number != wc.Number || len(gc.Verses) != len(wc.Verses) {
				t.Errorf("%s chapter %q (%d verses), want %q (%d verses)",
					wb.Name, gc.Number, len(gc.Verses), wc.Number, len(wc.Verses))
				continue
			}
			for k, wv := range wc.Verses {
				if gc.Verses[k] != wv {
					t.Errorf("%s %s:%s = %+v, want %+v", wb.Name, wc.Number, wv.Number, gc.Verses[k], wv)
				}
			}
		}
	}
}

// RoundTrip encodes the fixture with c, decodes it back and compares.
func RoundTrip(t *testing.T, c formats.Codec) []byte {
	t.Helper()
	want := Document()

	var buf bytes.Buffer
	if err := c.Encode(&buf, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	d, err := formats.AsDecoder(c)
	if err != nil {
		t.Fatalf("AsDecoder() error = %v", err)
	}
	got, err := d.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	Equal(t, got, want)
	return buf.Bytes()
}

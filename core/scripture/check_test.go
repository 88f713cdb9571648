package scripture

import (
	"errors"
	"strings"
	"testing"
)

func noCanon() CheckOptions {
	return CheckOptions{Contents: true, MinVerseLength: 2}
}

func TestCheckClean(t *testing.T) {
	if errs := Check(sampleDocument(), noCanon()); len(errs) != 0 {
		t.Errorf("Check() = %v, want no errors", errs)
	}
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Document)
		want   string
	}{
		{
			name:   "empty book",
			mutate: func(d *Document) { d.OldTestament[1].Chapters = nil },
			want:   "Ruth: book has no chapters",
		},
		{
			name:   "empty chapter",
			mutate: func(d *Document) { d.OldTestament[0].Chapters[1].Verses = nil },
			want:   "Genesis 2: chapter has no verses",
		},
		{
			name:   "empty verse",
			mutate: func(d *Document) { d.NewTestament[0].Chapters[0].Verses[0].Text = "" },
			want:   "John 11:35: empty verse text",
		},
		{
			name:   "short verse",
			mutate: func(d *Document) { d.NewTestament[0].Chapters[0].Verses[0].Text = "J" },
			want:   `John 11:35: suspiciously short verse "J"`,
		},
		{
			name:   "non-numeric chapter",
			mutate: func(d *Document) { d.OldTestament[0].Chapters[1].Number = "II" },
			want:   "Genesis II: chapter number is not numeric",
		},
		{
			name: "duplicate book",
			mutate: func(d *Document) {
				d.OldTestament = append(d.OldTestament, d.OldTestament[1])
			},
			want: "Ruth: duplicate book",
		},
		{
			name:   "missing from contents",
			mutate: func(d *Document) { d.OldContents = []string{"Genesis"} },
			want:   "Ruth: parsed but not listed in the table of contents",
		},
		{
			name:   "missing from body",
			mutate: func(d *Document) { d.NewContents = append(d.NewContents, "Jude") },
			want:   "Jude: listed in the table of contents but not parsed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDocument()
			tt.mutate(d)
			errs := Check(d, noCanon())
			if !containsError(errs, tt.want) {
				t.Errorf("Check() = %v, want %q", errs, tt.want)
			}
		})
	}
}

func TestCheckEmptyContentsSkipped(t *testing.T) {
	d := sampleDocument()
	d.OldContents = nil
	d.NewContents = nil
	if errs := Check(d, noCanon()); len(errs) != 0 {
		t.Errorf("Check() = %v, want no errors", errs)
	}
}

func TestCheckMinVerseLengthDisabled(t *testing.T) {
	d := sampleDocument()
	d.NewTestament[0].Chapters[0].Verses[0].Text = "J"
	if errs := Check(d, CheckOptions{}); len(errs) != 0 {
		t.Errorf("Check() = %v, want no errors", errs)
	}
}

func TestCheckCanon(t *testing.T) {
	d := sampleDocument()
	d.NewTestament = append(d.NewTestament, Book{Name: "Hezekiah", Chapters: []Chapter{
		{Number: "1", Verses: []Verse{{Number: "1", Text: "not scripture"}}},
	}})
	d.NewTestament = append(d.NewTestament, Book{Name: "Joel", Chapters: []Chapter{
		{Number: "1", Verses: []Verse{{Number: "1", Text: "The word of the LORD"}}},
	}})

	errs := Check(d, CheckOptions{Canon: true})

	for _, want := range []string{
		"Genesis: expected 50 chapters, got 2",
		"Ruth: expected 4 chapters, got 1",
		"John: expected 21 chapters, got 1",
		"Hezekiah: not a canonical book name",
		"Joel: belongs to the Old Testament",
		"old_testament: expected 39 books, got 2",
		"new_testament: expected 27 books, got 3",
	} {
		if !containsError(errs, want) {
			t.Errorf("missing %q in %v", want, errs)
		}
	}
}

func TestCheckErrorType(t *testing.T) {
	d := sampleDocument()
	d.OldTestament[1].Chapters = nil

	errs := Check(d, noCanon())
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	var ce *CheckError
	if !errors.As(errs[0], &ce) {
		t.Fatalf("error %T is not a *CheckError", errs[0])
	}
	if ce.Path != "Ruth" {
		t.Errorf("Path = %q, want %q", ce.Path, "Ruth")
	}
	if got := (&CheckError{Message: "bare"}).Error(); got != "bare" {
		t.Errorf("Error() = %q, want %q", got, "bare")
	}
}

func containsError(errs []error, want string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), want) {
			return true
		}
	}
	return false
}

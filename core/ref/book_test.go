package ref

import (
	"errors"
	"testing"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

func TestResolveBook(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Genesis", "Genesis"},
		{"GENESIS", "Genesis"},
		{"1 kings", "1 Kings"},
		{"1  Kings", "1 Kings"},
		{"1Kgs", "1 Kings"},
		{"Matt", "Matthew"},
		{"Song", "Song of Solomon"},
		{"song of songs", "Song of Solomon"},
		{"Canticles", "Song of Solomon"},
		{"Revelations", "Revelation"},
		{"Eccl", "Ecclesiastes"},
		{"Phil", "Philippians"},
		{"phlm", "Philemon"},
		{"Obad", "Obadiah"},
		{"Rvltn", "Revelation"},
		{"Deutronomy", "Deuteronomy"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveBook(tt.input)
			if err != nil {
				t.Fatalf("ResolveBook(%q) error = %v", tt.input, err)
			}
			if got.Name != tt.want {
				t.Errorf("ResolveBook(%q) = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestResolveBookEveryCanonicalName(t *testing.T) {
	for _, b := range scripture.Canon() {
		got, err := ResolveBook(b.Name)
		if err != nil || got.Name != b.Name {
			t.Errorf("ResolveBook(%q) = %q, %v", b.Name, got.Name, err)
		}
		got, err = ResolveBook(b.OSIS)
		if err != nil || got.Name != b.Name {
			t.Errorf("ResolveBook(%q) = %q, %v", b.OSIS, got.Name, err)
		}
	}
}

func TestResolveBookAmbiguous(t *testing.T) {
	_, err := ResolveBook("Jud")
	var amb *gkerrors.AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("error = %v, want AmbiguousError", err)
	}
	if len(amb.Candidates) != 2 || amb.Candidates[0] != "Judges" || amb.Candidates[1] != "Jude" {
		t.Errorf("Candidates = %v", amb.Candidates)
	}
}

func TestResolveBookErrors(t *testing.T) {
	if _, err := ResolveBook("   "); !errors.Is(err, gkerrors.ErrInvalidInput) {
		t.Errorf("empty name error = %v", err)
	}
	if _, err := ResolveBook("Enoch"); !errors.Is(err, gkerrors.ErrNotFound) {
		t.Errorf("Enoch error = %v", err)
	}
}

package scripture

import (
	"fmt"
	"strconv"
)

// CheckError represents a structural problem found in a Document.
type CheckError struct {
	Path    string
	Message string
}

func (e *CheckError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// newCheckError creates a new CheckError.
func newCheckError(path, message string) error {
	return &CheckError{Path: path, Message: message}
}

// CheckOptions selects which checks Check performs.
type CheckOptions struct {
	// Canon compares book counts, names and chapter counts with the KJV table.
	Canon bool

	// Contents compares the table of contents with the parsed books.
	Contents bool

	// MinVerseLength flags verses shorter than this many bytes (0 disables).
	MinVerseLength int
}

// DefaultCheckOptions enables every check used for the reference input.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{Canon: true, Contents: true, MinVerseLength: 2}
}

// Check validates a Document and returns all problems found.
// Structural invariants (non-empty books, chapters and verses) are always checked.
func Check(d *Document, opts CheckOptions) []error {
	var errs []error

	errs = append(errs, checkTestament(d.OldTestament, TestamentOld, opts)...)
	errs = append(errs, checkTestament(d.NewTestament, TestamentNew, opts)...)

	if opts.Canon {
		if n := len(d.OldTestament); n != OldTestamentBooks {
			errs = append(errs, newCheckError("old_testament",
				fmt.Sprintf("expected %d books, got %d", OldTestamentBooks, n)))
		}
		if n := len(d.NewTestament); n != NewTestamentBooks {
			errs = append(errs, newCheckError("new_testament",
				fmt.Sprintf("expected %d books, got %d", NewTestamentBooks, n)))
		}
	}

	if opts.Contents {
		errs = append(errs, checkContents(d, TestamentOld)...)
		errs = append(errs, checkContents(d, TestamentNew)...)
	}

	return errs
}

func checkTestament(books []Book, t Testament, opts CheckOptions) []error {
	var errs []error
	seen := make(map[string]bool, len(books))

	for i := range books {
		b := &books[i]
		path := b.Name
		if path == "" {
			path = fmt.Sprintf("%s[%d]", t, i)
		}

		if seen[b.Name] {
			errs = append(errs, newCheckError(path, "duplicate book"))
		}
		seen[b.Name] = true

		if len(b.Chapters) == 0 {
			errs = append(errs, newCheckError(path, "book has no chapters"))
		}

		if opts.Canon {
			cb, ok := LookupCanon(b.Name)
			switch {
			case !ok:
				errs = append(errs, newCheckError(path, "not a canonical book name"))
			case cb.Testament != t:
				errs = append(errs, newCheckError(path,
					fmt.Sprintf("belongs to the %s", cb.Testament)))
			case len(b.Chapters) != cb.Chapters:
				errs = append(errs, newCheckError(path,
					fmt.Sprintf("expected %d chapters, got %d", cb.Chapters, len(b.Chapters))))
			}
		}

		errs = append(errs, checkChapters(path, b, opts)...)
	}

	return errs
}

func checkChapters(bookPath string, b *Book, opts CheckOptions) []error {
	var errs []error
	for _, ch := range b.Chapters {
		chPath := bookPath + " " + ch.Number
		if _, err := strconv.ParseUint(ch.Number, 10, 32); err != nil {
			errs = append(errs, newCheckError(chPath, "chapter number is not numeric"))
		}
		if len(ch.Verses) == 0 {
			errs = append(errs, newCheckError(chPath, "chapter has no verses"))
		}
		for _, v := range ch.Verses {
			vPath := chPath + ":" + v.Number
			switch {
			case v.Text == "":
				errs = append(errs, newCheckError(vPath, "empty verse text"))
			case opts.MinVerseLength > 0 && len(v.Text) < opts.MinVerseLength:
				errs = append(errs, newCheckError(vPath,
					fmt.Sprintf("suspiciously short verse %q", v.Text)))
			}
		}
	}
	return errs
}

// checkContents reports books declared by the table of contents but missing
// from the body, and the reverse. An empty table of contents is skipped.
func checkContents(d *Document, t Testament) []error {
	contents := d.Contents(t)
	if len(contents) == 0 {
		return nil
	}

	var errs []error
	declared := make(map[string]bool, len(contents))
	for _, name := range contents {
		declared[name] = true
	}
	parsed := make(map[string]bool)
	for _, b := range d.Testament(t) {
		parsed[b.Name] = true
		if !declared[b.Name] {
			errs = append(errs, newCheckError(b.Name, "parsed but not listed in the table of contents"))
		}
	}
	for _, name := range contents {
		if !parsed[name] {
			errs = append(errs, newCheckError(name, "listed in the table of contents but not parsed"))
		}
	}
	return errs
}

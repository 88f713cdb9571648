package gutenberg

import (
	"strconv"
	"strings"
)

// VerseRef is a "chapter:verse" token found in a body line.
type VerseRef struct {
	Chapter string
	Verse   string
}

// ParseVerseRef parses a single whitespace-free token of the form
// <decimal>:<decimal>. Both sides must be non-negative base-10 integers; any
// other punctuation makes the token ordinary text.
func ParseVerseRef(token string) (VerseRef, bool) {
	ch, v, ok := strings.Cut(token, ":")
	if !ok {
		return VerseRef{}, false
	}
	if !isDecimal(ch) || !isDecimal(v) {
		return VerseRef{}, false
	}
	return VerseRef{Chapter: ch, Verse: v}, true
}

// isDecimal reports whether s parses as an unsigned 32-bit base-10 integer.
func isDecimal(s string) bool {
	_, err := strconv.ParseUint(s, 10, 32)
	return err == nil
}

// findVerseRef returns the index of the first verse-reference token, or -1.
func findVerseRef(words []string) (int, VerseRef) {
	for i, w := range words {
		if ref, ok := ParseVerseRef(w); ok {
			return i, ref
		}
	}
	return -1, VerseRef{}
}

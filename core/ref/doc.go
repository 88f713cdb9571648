// Package ref parses human scripture references such as "John 3:16",
// "1 Kings 2:3-5" or "Song of Solomon 1" and looks them up in a parsed
// document.
//
// Book names are resolved leniently: canonical names, OSIS ids ("1Kgs"),
// a few aliases, unique prefixes ("Gen"), subsequences ("Rvltn") and small
// typos ("Genisis") all resolve. A name that matches several books equally
// well is reported as ambiguous rather than guessed.
package ref

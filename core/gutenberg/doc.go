// Package gutenberg converts the Project Gutenberg plain-text King James Bible
// into a scripture.Document.
//
// The conversion is a single left-to-right pass over trimmed lines:
//
//   - Classify decides whether a line is a book-title header, using the
//     ordered title table returned by Titles.
//   - Assembler is the state machine that opens and seals books, chapters
//     and verses. Verse references are "chapter:verse" tokens found anywhere
//     in a line; the words before the token finish the previous verse.
//   - Parse drives both over the regions of an eBook: the preamble up to the
//     START marker, the table of contents, the body, and the END trailer.
//
// Parsing never fails. Lines that cannot be placed are dropped and reported
// through the optional Tracer, which is also how title collisions between
// the Samuel and Kings headers are made visible.
package gutenberg

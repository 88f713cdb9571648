// Package scripture defines the normalized Bible document produced by the
// Gutenberg converter and the canonical KJV book table used to check it.
//
// # Document Tree
//
// The tree is strictly hierarchical and owned by value:
//
//   - Document: Old and New Testament book lists plus table-of-contents names
//   - Book: canonical name and ordered chapters
//   - Chapter: source chapter number and ordered verses
//   - Verse: source verse number and whitespace-normalized text
//
// Numbers are kept as the strings found in the source. Ordering is the order
// of discovery; the keyed view (Keyed) offers the sorted-map rendering.
//
// # Checking
//
// Check compares a Document against the canonical table (39 + 27 books and
// their chapter counts) and the structural invariants every sealed node must
// satisfy. The converter itself never enforces them.
package scripture

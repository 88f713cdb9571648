// Package sqliteexternal registers the CGO SQLite driver (mattn/go-sqlite3).
//
// It is only compiled with the cgo_sqlite build tag and is imported by
// core/sqlite; nothing else should import it directly:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/gutenkjv
//
// The CGO driver writes the sqlite output format noticeably faster. The
// default pure Go driver keeps the binary static and cross-compilable.
package sqliteexternal

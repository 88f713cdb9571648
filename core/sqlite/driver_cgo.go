//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: CGO_ENABLED=1 go build -tags cgo_sqlite
package sqlite

import (
	sqliteexternal "github.com/FocuswithJustin/gutenkjv/contrib/sqlite-external"
)

const (
	driverName     = sqliteexternal.DriverName
	driverType     = "cgo"
	driverPackage  = sqliteexternal.Package + " (via contrib/sqlite-external)"
	bulkLoadParams = sqliteexternal.BulkLoadParams
)

//go:build !cgo_sqlite

package sqlite

import (
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"

	// modernc.org/sqlite runs each _pragma parameter on every new connection.
	bulkLoadParams = "_pragma=journal_mode(OFF)&_pragma=synchronous(OFF)"
)

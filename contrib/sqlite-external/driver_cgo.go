//go:build cgo_sqlite

package sqliteexternal

import (
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
)

// DriverName is the database/sql name mattn/go-sqlite3 registers.
const DriverName = "sqlite3"

// Package is the import path reported by `gutenkjv version`.
const Package = "github.com/mattn/go-sqlite3"

// BulkLoadParams are DSN parameters that turn off the rollback journal and
// fsync. mattn/go-sqlite3 spells pragmas as underscore-prefixed keys.
const BulkLoadParams = "_journal_mode=OFF&_sync=OFF"

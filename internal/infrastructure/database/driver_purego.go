//go:build purego_sqlite

// Pure Go SQLite driver using modernc.org/sqlite.
// Selected with -tags purego_sqlite; needs no CGO toolchain.

package database

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	driverName = "sqlite"
	driverType = "purego"

	// primaryCodeMask strips the extended part of an SQLite result code.
	primaryCodeMask = 0xff
)

// buildDSN renders the connection string with pragmas.
// modernc.org/sqlite applies each _pragma on every new connection.
func buildDSN(cfg Config) string {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		dsnPath(cfg.Path),
		cfg.BusyTimeout.Milliseconds(),
	)
	if cfg.WALMode {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}
	return dsn
}

func classify(err error) ErrorKind {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return KindOther
	}
	switch sqliteErr.Code() & primaryCodeMask {
	case sqlite3.SQLITE_CONSTRAINT:
		return KindConstraint
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return KindBusy
	default:
		return KindOther
	}
}

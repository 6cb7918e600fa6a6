//go:build !purego_sqlite

// CGO SQLite driver using mattn/go-sqlite3. This is the default build.
// Build with -tags purego_sqlite to switch to modernc.org/sqlite.

package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const (
	driverName = "sqlite3"
	driverType = "cgo"
)

// buildDSN renders the connection string with pragmas.
// See: https://github.com/mattn/go-sqlite3#connection-string
func buildDSN(cfg Config) string {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		dsnPath(cfg.Path),
		cfg.BusyTimeout.Milliseconds(),
	)
	if cfg.WALMode {
		dsn += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return dsn
}

func classify(err error) ErrorKind {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return KindOther
	}
	switch sqliteErr.Code {
	case sqlite3.ErrConstraint:
		return KindConstraint
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return KindBusy
	default:
		return KindOther
	}
}

// Package database provides SQLite connectivity for the sqlitedb store.
//
// This package manages:
//   - Opening a database file with busy timeout, foreign keys and optional WAL
//   - A connection pool pinned to a single connection per handle
//   - Driver selection at build time (mattn/go-sqlite3 by default,
//     modernc.org/sqlite with -tags purego_sqlite)
//   - Driver-independent classification of engine errors
//   - Versioned SQL migrations read from an fs.FS
//
// Security Considerations:
//   - Values are always bound as parameters by callers of this package
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "data/app.sqlite"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if database.Classify(err) == database.KindBusy {
//	    // lock held past the busy timeout
//	}
//
// Migration Strategy:
//
// Migrations are additive-only:
//   - New columns must be NULLABLE or have DEFAULT values
//   - Never DROP or RENAME columns in an up migration
//   - Each migration file pair is YYYYMMDD_HHMMSS_name.up.sql / .down.sql
package database

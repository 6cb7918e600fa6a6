// Package sqlitedb is a thin table and row layer over an embedded SQLite file.
//
// It opens or creates a database file, creates tables from an ordered
// column/type list, and inserts, updates and reads rows keyed by an integer
// id. Every write is a single statement committed before the call returns;
// there is no caching, pooling or transaction spanning calls.
//
// # Lifecycle
//
//	store, err := sqlitedb.Create(ctx, sqlitedb.Options{Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
// Close is explicit and idempotent. Options.Dir is required unless
// Options.WorkingDir is set; pass sqlitedb.CurrentDir to resolve against the
// process working directory.
//
// # Tables and rows
//
//	users, err := sqlitedb.DefineTable("users",
//	    sqlitedb.Column{Name: "name", Type: sqlitedb.TypeText},
//	    sqlitedb.Column{Name: "age", Type: sqlitedb.TypeInteger},
//	)
//	_, err = store.CreateTable(ctx, users)
//	id, err := store.AddRow(ctx, "users", sqlitedb.Row{
//	    {Column: "name", Value: "Ann"},
//	    {Column: "age", Value: 30},
//	})
//	_, err = store.UpdateValue(ctx, "users", "age", id, 31)
//	row, err := store.GetRow(ctx, "users", id)
//
// Every table has an implicit id INTEGER PRIMARY KEY AUTOINCREMENT column.
// AddRow provisions a missing table from the row itself (EnsureTable), but
// never changes an existing table; MigrateTable adds missing columns
// explicitly.
//
// # Errors
//
// Failures are *Error values naming the operation and table. Test them with
// errors.Is against ErrConfig (and its refinements ErrInvalidColumnType,
// ErrInvalidIdentifier, ErrDuplicateColumn, ErrIDRedeclared), ErrEngine (and
// ErrConstraint, ErrBusy), ErrNotFound and ErrClosed. Updates that match no
// row are not errors; they report zero rows affected.
//
// # Identifiers
//
// Table and column names are validated against [A-Za-z_][A-Za-z0-9_]* and
// the SQLite keyword list before they are quoted into SQL text. Values are
// always bound parameters.
//
// # Drivers
//
// The default build uses github.com/mattn/go-sqlite3 (CGO). Building with
// -tags purego_sqlite switches to modernc.org/sqlite.
package sqlitedb

package sqlitedb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Stanislav-Shavlinsly/SQLiteDB-Utilits/internal/infrastructure/database"
)

var (
	// ErrConfig is the kind of every invalid-input failure: bad column type,
	// bad identifier, bad path. Nothing is sent to the engine.
	ErrConfig = errors.New("invalid configuration")

	// ErrInvalidColumnType is returned for a type tag outside the closed set.
	ErrInvalidColumnType = fmt.Errorf("%w: unsupported column type", ErrConfig)

	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain identifiers, are SQL keywords, or use the sqlite_ prefix.
	ErrInvalidIdentifier = fmt.Errorf("%w: invalid identifier", ErrConfig)

	// ErrDuplicateColumn is returned when a column name appears twice.
	ErrDuplicateColumn = fmt.Errorf("%w: duplicate column", ErrConfig)

	// ErrIDRedeclared is returned when the implicit id column is declared
	// with a type other than INT or INTEGER.
	ErrIDRedeclared = fmt.Errorf("%w: id column redeclared", ErrConfig)

	// ErrEngine is the kind of every failure surfaced by SQLite.
	ErrEngine = errors.New("database engine error")

	// ErrConstraint is an engine error caused by a constraint violation,
	// such as inserting an id that already exists.
	ErrConstraint = fmt.Errorf("%w: constraint violation", ErrEngine)

	// ErrBusy is an engine error caused by a lock held past the busy timeout.
	ErrBusy = fmt.Errorf("%w: database is locked", ErrEngine)

	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("row not found")

	// ErrClosed is returned by every operation on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Error annotates a failed operation with the table it targeted.
//
// errors.Is matches both Kind (ErrEngine, ErrConstraint, ErrBusy) and the
// wrapped cause, so callers can test for the error family or the driver error.
type Error struct {
	// Op names the operation, e.g. "add row".
	Op string

	// Table is the target table, empty for store-level operations.
	Table string

	// Kind is set for engine errors; for other failures Err carries the kind.
	Kind error

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// opError annotates an error that already carries its kind.
func opError(op, table string, err error) error {
	return &Error{Op: op, Table: table, Err: err}
}

// engineError annotates a driver error and classifies it.
func engineError(op, table string, err error) error {
	kind := ErrEngine
	switch database.Classify(err) {
	case database.KindConstraint:
		kind = ErrConstraint
	case database.KindBusy:
		kind = ErrBusy
	}
	return &Error{Op: op, Table: table, Kind: kind, Err: err}
}

package database

import "net/url"

// ErrorKind is a driver-independent classification of engine errors.
type ErrorKind int

const (
	// KindOther covers every engine failure without a finer classification.
	KindOther ErrorKind = iota

	// KindConstraint is a constraint violation (primary key, unique, not null, check).
	KindConstraint

	// KindBusy means the database stayed locked past the busy timeout.
	KindBusy
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConstraint:
		return "constraint"
	case KindBusy:
		return "busy"
	default:
		return "other"
	}
}

// Classify maps an error returned by the active SQLite driver to an ErrorKind.
// Errors that did not originate in the driver are KindOther.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	return classify(err)
}

// DriverName returns the database/sql driver name registered by the build.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 or "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// dsnPath escapes a filesystem path for a file: URI. SQLite decodes %XX
// escapes in the path, so '?', '#' and '%' no longer end or alter it.
func dsnPath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}

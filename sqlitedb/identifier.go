package sqlitedb

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern is the allow-list for table and column names.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// maxIdentifierLength keeps generated statements bounded.
const maxIdentifierLength = 128

// ValidateIdentifier reports whether name may be used as a table or column name.
//
// A valid identifier matches [A-Za-z_][A-Za-z0-9_]*, is at most 128 bytes,
// is not an SQLite keyword and does not start with the reserved sqlite_ prefix.
// Failures wrap ErrInvalidIdentifier.
func ValidateIdentifier(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	case len(name) > maxIdentifierLength:
		return fmt.Errorf("%w %q: longer than %d bytes", ErrInvalidIdentifier, name, maxIdentifierLength)
	case !identifierPattern.MatchString(name):
		return fmt.Errorf("%w %q: only letters, digits and underscore are allowed", ErrInvalidIdentifier, name)
	case IsKeyword(name):
		return fmt.Errorf("%w %q: reserved SQL keyword", ErrInvalidIdentifier, name)
	case strings.HasPrefix(strings.ToLower(name), "sqlite_"):
		return fmt.Errorf("%w %q: sqlite_ prefix is reserved", ErrInvalidIdentifier, name)
	}
	return nil
}

// IsKeyword reports whether name is an SQLite keyword, case-insensitively.
func IsKeyword(name string) bool {
	_, ok := keywords[strings.ToUpper(name)]
	return ok
}

// quoteIdent quotes a validated identifier.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// keywords is the SQLite keyword list (https://sqlite.org/lang_keywords.html).
var keywords = func() map[string]struct{} {
	list := []string{
		"ABORT", "ACTION", "ADD", "AFTER", "ALL", "ALTER", "ALWAYS", "ANALYZE",
		"AND", "AS", "ASC", "ATTACH", "AUTOINCREMENT", "BEFORE", "BEGIN",
		"BETWEEN", "BY", "CASCADE", "CASE", "CAST", "CHECK", "COLLATE", "COLUMN",
		"COMMIT", "CONFLICT", "CONSTRAINT", "CREATE", "CROSS", "CURRENT",
		"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "DATABASE",
		"DEFAULT", "DEFERRABLE", "DEFERRED", "DELETE", "DESC", "DETACH",
		"DISTINCT", "DO", "DROP", "EACH", "ELSE", "END", "ESCAPE", "EXCEPT",
		"EXCLUDE", "EXCLUSIVE", "EXISTS", "EXPLAIN", "FAIL", "FILTER", "FIRST",
		"FOLLOWING", "FOR", "FOREIGN", "FROM", "FULL", "GENERATED", "GLOB",
		"GROUP", "GROUPS", "HAVING", "IF", "IGNORE", "IMMEDIATE", "IN", "INDEX",
		"INDEXED", "INITIALLY", "INNER", "INSERT", "INSTEAD", "INTERSECT",
		"INTO", "IS", "ISNULL", "JOIN", "KEY", "LAST", "LEFT", "LIKE", "LIMIT",
		"MATCH", "MATERIALIZED", "NATURAL", "NO", "NOT", "NOTHING", "NOTNULL",
		"NULL", "NULLS", "OF", "OFFSET", "ON", "OR", "ORDER", "OTHERS", "OUTER",
		"OVER", "PARTITION", "PLAN", "PRAGMA", "PRECEDING", "PRIMARY", "QUERY",
		"RAISE", "RANGE", "RECURSIVE", "REFERENCES", "REGEXP", "REINDEX",
		"RELEASE", "RENAME", "REPLACE", "RESTRICT", "RETURNING", "RIGHT",
		"ROLLBACK", "ROW", "ROWS", "SAVEPOINT", "SELECT", "SET", "TABLE", "TEMP",
		"TEMPORARY", "THEN", "TIES", "TO", "TRANSACTION", "TRIGGER", "UNBOUNDED",
		"UNION", "UNIQUE", "UPDATE", "USING", "VACUUM", "VALUES", "VIEW",
		"VIRTUAL", "WHEN", "WHERE", "WINDOW", "WITH", "WITHOUT",
	}
	m := make(map[string]struct{}, len(list))
	for _, k := range list {
		m[k] = struct{}{}
	}
	return m
}()

package sqlitedb

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Field is one column/value pair of a Row.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered column-to-value mapping.
//
// Rows passed to AddRow and UpdateRow keep their field order in the generated
// statement. Rows returned by GetRow and GetAllRows follow the table's column
// order and always include id. Column lookups are case-insensitive, matching
// SQLite identifiers.
type Row []Field

// RowFromMap builds a Row from a map. Since maps are unordered, id comes
// first and the other columns are sorted by name.
func RowFromMap(m map[string]any) Row {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		iID, jID := strings.EqualFold(names[i], IDColumn), strings.EqualFold(names[j], IDColumn)
		if iID != jID {
			return iID
		}
		return names[i] < names[j]
	})

	row := make(Row, 0, len(names))
	for _, name := range names {
		row = append(row, Field{Column: name, Value: m[name]})
	}
	return row
}

func (r Row) index(column string) int {
	return slices.IndexFunc(r, func(f Field) bool {
		return strings.EqualFold(f.Column, column)
	})
}

// Get returns the value stored for column.
func (r Row) Get(column string) (any, bool) {
	i := r.index(column)
	if i < 0 {
		return nil, false
	}
	return r[i].Value, true
}

// Set returns a copy of r with column set to value. An existing column keeps
// its position; a new one is appended.
func (r Row) Set(column string, value any) Row {
	out := slices.Clone(r)
	if i := out.index(column); i >= 0 {
		out[i].Value = value
		return out
	}
	return append(out, Field{Column: column, Value: value})
}

// Without returns a copy of r without column.
func (r Row) Without(column string) Row {
	out := slices.Clone(r)
	if i := out.index(column); i >= 0 {
		out = slices.Delete(out, i, i+1)
	}
	return out
}

// Columns returns the column names in order.
func (r Row) Columns() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Column
	}
	return names
}

// Map returns the row as a plain map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Column] = f.Value
	}
	return m
}

// ID returns the row's id when it holds an integer value.
func (r Row) ID() (int64, bool) {
	v, ok := r.Get(IDColumn)
	if !ok {
		return 0, false
	}
	return asInt64(v)
}

// withoutEmptyID drops an id that is missing, nil, empty or zero so the
// engine assigns one.
func (r Row) withoutEmptyID() Row {
	v, ok := r.Get(IDColumn)
	if !ok {
		return r
	}
	switch id := v.(type) {
	case nil:
		return r.Without(IDColumn)
	case string:
		if id == "" {
			return r.Without(IDColumn)
		}
	default:
		if n, isInt := asInt64(v); isInt && n == 0 {
			return r.Without(IDColumn)
		}
	}
	return r
}

// validate checks every column name and rejects duplicates.
func (r Row) validate() error {
	seen := make(map[string]struct{}, len(r))
	for _, f := range r {
		if err := ValidateIdentifier(f.Column); err != nil {
			return err
		}
		key := strings.ToLower(f.Column)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w %q", ErrDuplicateColumn, f.Column)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// asInt64 converts any Go integer kind to int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// inferType picks a declared type for a sample value. Values without an
// obvious SQLite storage class get no declared type.
func inferType(v any) string {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return string(TypeInteger)
	case float32, float64:
		return string(TypeReal)
	case string, time.Time:
		return string(TypeText)
	case []byte:
		return string(TypeBlob)
	default:
		return ""
	}
}
